package grid

// TileKind represents the type of a cell on the arena grid.
type TileKind int

const (
	Empty    TileKind = iota
	WallHard          // Indestructible
	WallSoft          // Destructible by bombs
)

func (k TileKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case WallHard:
		return "hard"
	case WallSoft:
		return "soft"
	}
	return "unknown"
}

// Cell is an integer column/row coordinate on the grid.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the 4-connected distance between two cells.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Grid is a fixed-size tile map. Dimensions never change after construction.
type Grid struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Tiles  [][]TileKind `json:"tiles"`
}

// New returns a Width x Height grid with a hard-wall border and empty interior.
func New(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, Tiles: make([][]TileKind, height)}
	for y := 0; y < height; y++ {
		g.Tiles[y] = make([]TileKind, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				g.Tiles[y][x] = WallHard
			}
		}
	}
	return g
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At returns the tile at c. Cells outside the grid read as WallHard.
func (g *Grid) At(c Cell) TileKind {
	if !g.InBounds(c) {
		return WallHard
	}
	return g.Tiles[c.Y][c.X]
}

// Set changes the tile at c. Border cells and out-of-bounds writes are ignored.
func (g *Grid) Set(c Cell, k TileKind) {
	if !g.InBounds(c) || g.onBorder(c) {
		return
	}
	g.Tiles[c.Y][c.X] = k
}

// Passable reports whether c is in bounds and Empty.
func (g *Grid) Passable(c Cell) bool {
	return g.At(c) == Empty
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := &Grid{Width: g.Width, Height: g.Height, Tiles: make([][]TileKind, g.Height)}
	for y := range g.Tiles {
		cp.Tiles[y] = make([]TileKind, g.Width)
		copy(cp.Tiles[y], g.Tiles[y])
	}
	return cp
}

func (g *Grid) onBorder(c Cell) bool {
	return c.X == 0 || c.Y == 0 || c.X == g.Width-1 || c.Y == g.Height-1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
