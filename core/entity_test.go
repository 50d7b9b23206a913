package core

import "testing"

func TestEntityRoundTrip(t *testing.T) {
	e := Entity(18446744073709551615)
	got, err := ParseEntity(e.String())
	if err != nil {
		t.Fatalf("ParseEntity: %v", err)
	}
	if got != e {
		t.Errorf("Expected %d, got %d", e, got)
	}

	if _, err := ParseEntity("planet"); err == nil {
		t.Error("Expected error for non-numeric id")
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"planet":  KindPlanet,
		"Dropper": KindDropper,
		"":        KindGeneric,
		"arena":   KindGeneric,
	}
	for in, want := range cases {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}
}
