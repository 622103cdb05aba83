package grid

// Float64Source is the slice of a random source that generation needs.
type Float64Source interface {
	Float64() float64
}

// Generate builds a classic arena layout.
//
// Layout rules:
//   - Border is all WallHard
//   - WallHard at every interior position where both X and Y are even
//   - Random WallSoft fill at the given density
//   - Cells in safe are kept clear
func Generate(width, height int, density float64, safe []Cell, rng Float64Source) *Grid {
	g := New(width, height)
	for y := 2; y < height-1; y += 2 {
		for x := 2; x < width-1; x += 2 {
			g.Tiles[y][x] = WallHard
		}
	}

	safeSet := make(map[Cell]bool, len(safe))
	for _, c := range safe {
		safeSet[c] = true
	}

	// Row-major order keeps generation reproducible for a fixed seed
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			c := Cell{X: x, Y: y}
			if g.Tiles[y][x] != Empty || safeSet[c] {
				continue
			}
			if rng.Float64() < density {
				g.Tiles[y][x] = WallSoft
			}
		}
	}
	return g
}

// SafeZone returns the spawn cell plus its orthogonal neighbours.
// Neighbours that fall on the border are harmless: Generate never fills them.
func SafeZone(spawn Cell) []Cell {
	return []Cell{
		spawn,
		spawn.Add(1, 0),
		spawn.Add(0, 1),
		spawn.Add(-1, 0),
		spawn.Add(0, -1),
	}
}
