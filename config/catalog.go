// Package config exposes the entity catalog: one section per entity type, read through viper.
//
// Sections are TOML tables. A section may name a parent with Inherit; lookups that miss in the
// section continue along the parent chain. Keys are case-insensitive, as viper normalizes them.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/vmath"
)

// maxInheritDepth bounds Inherit chains so a cycle cannot hang a lookup
const maxInheritDepth = 16

// Catalog holds every entity section
type Catalog struct {
	v *viper.Viper
}

// Parse reads a catalog in the given viper format (toml, yaml, json) from r
func Parse(format string, r io.Reader) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return &Catalog{v: v}, nil
}

// MustParseTOML parses a TOML catalog and panics on error
// Intended for compiled-in defaults and tests
func MustParseTOML(src string) *Catalog {
	c, err := Parse("toml", strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return c
}

// MergeFile overlays the catalog with the file at path; sections and keys in the file win
func (c *Catalog) MergeFile(path string) error {
	c.v.SetConfigFile(path)
	if err := c.v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge catalog %s: %w", path, err)
	}
	return nil
}

// Has reports whether a section with at least one key exists
func (c *Catalog) Has(name string) bool {
	return len(c.v.GetStringMap(name)) > 0
}

// Section returns the named section with its resolved Inherit chain
func (c *Catalog) Section(name string) (Section, bool) {
	if name == "" || !c.Has(name) {
		return Section{}, false
	}

	chain := []string{name}
	seen := map[string]bool{strings.ToLower(name): true}
	cur := name
	for i := 0; i < maxInheritDepth; i++ {
		parent := cast.ToString(c.v.Get(cur + "." + parameter.KeyInherit))
		if parent == "" || seen[strings.ToLower(parent)] || !c.Has(parent) {
			break
		}
		seen[strings.ToLower(parent)] = true
		chain = append(chain, parent)
		cur = parent
	}

	return Section{c: c, name: name, chain: chain}, true
}

// Section is a read view over one entity section and its parents
// The zero value behaves as an empty section
type Section struct {
	c     *Catalog
	name  string
	chain []string
}

// Name returns the section name as requested
func (s Section) Name() string {
	return s.name
}

// Chain returns the section followed by its Inherit ancestors
func (s Section) Chain() []string {
	out := make([]string, len(s.chain))
	copy(out, s.chain)
	return out
}

func (s Section) lookup(key string) (any, bool) {
	if s.c == nil {
		return nil, false
	}
	for _, name := range s.chain {
		full := name + "." + key
		if s.c.v.IsSet(full) {
			return s.c.v.Get(full), true
		}
	}
	return nil, false
}

// HasValue reports whether key is declared in the section or a parent
func (s Section) HasValue(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// Get returns the raw value for key
func (s Section) Get(key string) (any, bool) {
	return s.lookup(key)
}

// String returns key as a string, empty when absent
func (s Section) String(key string) string {
	v, _ := s.lookup(key)
	return cast.ToString(v)
}

// Bool returns key as a bool, false when absent or malformed
func (s Section) Bool(key string) bool {
	v, _ := s.lookup(key)
	return cast.ToBool(v)
}

// Float returns key as a float64, 0 when absent or malformed
func (s Section) Float(key string) float64 {
	v, _ := s.lookup(key)
	return cast.ToFloat64(v)
}

// Uint returns key as an unsigned value, 0 when absent, negative or malformed
func (s Section) Uint(key string) uint64 {
	v, _ := s.lookup(key)
	u, err := cast.ToUint64E(v)
	if err != nil {
		return 0
	}
	return u
}

// Duration interprets key as seconds
func (s Section) Duration(key string) time.Duration {
	return time.Duration(s.Float(key) * float64(time.Second))
}

// Strings returns key as a list; a scalar string is a one-element list
func (s Section) Strings(key string) []string {
	v, ok := s.lookup(key)
	if !ok {
		return nil
	}
	if str, isStr := v.(string); isStr {
		if str == "" {
			return nil
		}
		return []string{str}
	}
	return cast.ToStringSlice(v)
}

// Vec2 reads a two-element array [x, y]
func (s Section) Vec2(key string) (vmath.Vec2, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return vmath.Vec2{}, false
	}
	items, err := cast.ToSliceE(v)
	if err != nil || len(items) < 2 {
		return vmath.Vec2{}, false
	}
	x, errX := cast.ToFloat64E(items[0])
	y, errY := cast.ToFloat64E(items[1])
	if errX != nil || errY != nil {
		return vmath.Vec2{}, false
	}
	return vmath.Vec2{X: x, Y: y}, true
}

// Keys lists the keys of the section and its parents, lower-cased and sorted
// The Inherit key itself is omitted
func (s Section) Keys() []string {
	if s.c == nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, name := range s.chain {
		for k := range s.c.v.GetStringMap(name) {
			set[k] = struct{}{}
		}
	}
	delete(set, strings.ToLower(parameter.KeyInherit))

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
