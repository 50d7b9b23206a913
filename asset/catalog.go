package asset

// DefaultCatalog is the compiled-in entity catalog; a user file given with -catalog overlays it
const DefaultCatalog = `

# === Process-wide gameplay settings ===

[Game]
Hazard = "ArenaTop"
Gravity = 40.0

# Terminal keys per input; names are tcell key names or single characters
[Input]
Left = ["Left", "a"]
Right = ["Right", "d"]
Drop = ["Down", "Space", "s"]
Quit = ["Esc", "q"]


# === Scene root ===

[Scene]
Children = ["ArenaFloor", "ArenaLeft", "ArenaRight", "ArenaTop", "Dropper"]
EventHandlerList = "SceneEvents"
Track = ["0 SendEvent RunStart ^"]

[SceneEvents]
GameOver = "EndRun hazard"
RunStart = "Log run started"


# === Arena ===

[Wall]
Shape = "box"
Static = true
Glyph = "#"

[ArenaFloor]
Inherit = "Wall"
Position = [20, 31]
Size = [44, 2]

[ArenaLeft]
Inherit = "Wall"
Position = [-1, 16]
Size = [2, 32]

[ArenaRight]
Inherit = "Wall"
Position = [41, 16]
Size = [2, 32]

[ArenaTop]
Shape = "box"
Static = true
Sensor = true
Position = [20, 6]
Size = [40, 0.5]
Glyph = "-"


# === Dropper ===

[Dropper]
Kind = "dropper"
Position = [20, 2]
MinDropWait = 0.8
MinX = 2
MaxX = 38
MaxSpeed = [30, 0]
Drop = ["Planet1", "Planet1", "Planet2", "Planet3"]
Glyph = "v"


# === Planets, smallest to largest ===

[Planet]
Kind = "planet"
Shape = "circle"
Effect = "Pop"
EventHandlerList = "PlanetEvents"

[PlanetEvents]
GameOver = "SetLifeTime 1.5"

[Planet1]
Inherit = "Planet"
Radius = 0.8
Glyph = "1"
Next = "Planet2"
Score = 1

[Planet2]
Inherit = "Planet"
Radius = 1.1
Glyph = "2"
Next = "Planet3"
Score = 3

[Planet3]
Inherit = "Planet"
Radius = 1.5
Glyph = "3"
Next = "Planet4"
Score = 6

[Planet4]
Inherit = "Planet"
Radius = 1.9
Glyph = "4"
Next = "Planet5"
Score = 10

[Planet5]
Inherit = "Planet"
Radius = 2.4
Glyph = "5"
Next = "Planet6"
Score = 15

[Planet6]
Inherit = "Planet"
Radius = 2.9
Glyph = "6"
Next = "Planet7"
Score = 21

[Planet7]
Inherit = "Planet"
Radius = 3.4
Glyph = "7"
Next = "Planet8"
Score = 28

[Planet8]
Inherit = "Planet"
Radius = 4.0
Glyph = "8"
Score = 36


# === Effects ===

[Pop]
LifeTime = 0.25
Sound = "pop"
Glyph = "*"
`
