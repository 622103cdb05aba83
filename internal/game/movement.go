package game

import (
	"math"
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

// cellOf returns the grid cell under the centre of an entity at pos.
func (e *Engine) cellOf(pos Vec) grid.Cell {
	t := e.Config.TileSize
	return grid.Cell{
		X: int(math.Floor((pos.X + t/2) / t)),
		Y: int(math.Floor((pos.Y + t/2) / t)),
	}
}

// cellPos returns the top-left pixel position that aligns an entity with c.
func (e *Engine) cellPos(c grid.Cell) Vec {
	return Vec{X: float64(c.X) * e.Config.TileSize, Y: float64(c.Y) * e.Config.TileSize}
}

// pixelCell maps a single point to the cell that contains it.
func (e *Engine) pixelCell(x, y float64) grid.Cell {
	t := e.Config.TileSize
	return grid.Cell{X: int(math.Floor(x / t)), Y: int(math.Floor(y / t))}
}

// hitbox returns the inset bounds of an entity at pos.
func (e *Engine) hitbox(pos Vec) (left, top, right, bottom float64) {
	pad := e.Config.HitboxPadding
	t := e.Config.TileSize
	return pos.X + pad, pos.Y + pad, pos.X + t - pad, pos.Y + t - pad
}

// overlappedCells lists the distinct cells the hitbox at pos touches.
func (e *Engine) overlappedCells(pos Vec) []grid.Cell {
	l, t, r, b := e.hitbox(pos)
	cells := make([]grid.Cell, 0, 4)
	for _, c := range [4]grid.Cell{
		e.pixelCell(l, t), e.pixelCell(r, t),
		e.pixelCell(l, b), e.pixelCell(r, b),
	} {
		dup := false
		for _, seen := range cells {
			if seen == c {
				dup = true
				break
			}
		}
		if !dup {
			cells = append(cells, c)
		}
	}
	return cells
}

// solid reports whether c blocks a mover. Bomb cells in ignore are passable
// so an entity can always walk off a bomb it is standing on.
func (e *Engine) solid(c grid.Cell, ignore []grid.Cell) bool {
	if e.State.Grid.At(c) != grid.Empty {
		return true
	}
	if e.bombAt(c) == nil {
		return false
	}
	for _, ic := range ignore {
		if ic == c {
			return false
		}
	}
	return true
}

// collides tests all four hitbox corners at pos against walls and bombs.
func (e *Engine) collides(pos Vec, ignore []grid.Cell) bool {
	l, t, r, b := e.hitbox(pos)
	return e.solid(e.pixelCell(l, t), ignore) ||
		e.solid(e.pixelCell(r, t), ignore) ||
		e.solid(e.pixelCell(l, b), ignore) ||
		e.solid(e.pixelCell(r, b), ignore)
}

// move advances pos along dir by dist pixels, resolving the X and Y axes
// separately so a blocked axis does not cancel the other. With slide set, an
// axis move that is blocked on only one flank nudges the mover toward the free
// lane. A zero dir snaps the position to whole pixels.
func (e *Engine) move(pos, dir Vec, dist float64, slide bool) Vec {
	if dir.X == 0 && dir.Y == 0 {
		return Vec{X: math.Round(pos.X), Y: math.Round(pos.Y)}
	}

	ignore := e.overlappedBombs(pos)
	dx, dy := dir.X*dist, dir.Y*dist

	if dx != 0 {
		next := Vec{X: pos.X + dx, Y: pos.Y}
		if !e.collides(next, ignore) {
			pos = next
		} else if slide && dy == 0 {
			pos = e.slideY(pos, dx, dist, ignore)
		}
	}
	if dy != 0 {
		next := Vec{X: pos.X, Y: pos.Y + dy}
		if !e.collides(next, ignore) {
			pos = next
		} else if slide && dx == 0 {
			pos = e.slideX(pos, dy, dist, ignore)
		}
	}
	return e.clamp(pos)
}

// slideY handles a blocked horizontal move by nudging vertically toward the
// one free lane ahead, never past that lane's alignment.
func (e *Engine) slideY(pos Vec, dx, dist float64, ignore []grid.Cell) Vec {
	l, t, r, b := e.hitbox(pos)
	edge := r + dx
	if dx < 0 {
		edge = l + dx
	}
	topCell, bottomCell := e.pixelCell(edge, t), e.pixelCell(edge, b)
	topBlocked, bottomBlocked := e.solid(topCell, ignore), e.solid(bottomCell, ignore)
	if topBlocked == bottomBlocked {
		return pos
	}

	target := e.cellPos(topCell).Y
	if topBlocked {
		target = e.cellPos(bottomCell).Y
	}
	return e.nudge(pos, Vec{Y: target - pos.Y}, dist, ignore)
}

// slideX is slideY for a blocked vertical move.
func (e *Engine) slideX(pos Vec, dy, dist float64, ignore []grid.Cell) Vec {
	l, t, r, b := e.hitbox(pos)
	edge := b + dy
	if dy < 0 {
		edge = t + dy
	}
	leftCell, rightCell := e.pixelCell(l, edge), e.pixelCell(r, edge)
	leftBlocked, rightBlocked := e.solid(leftCell, ignore), e.solid(rightCell, ignore)
	if leftBlocked == rightBlocked {
		return pos
	}

	target := e.cellPos(leftCell).X
	if leftBlocked {
		target = e.cellPos(rightCell).X
	}
	return e.nudge(pos, Vec{X: target - pos.X}, dist, ignore)
}

// nudge moves pos by offset, capped at dist, if the result is free.
func (e *Engine) nudge(pos, offset Vec, dist float64, ignore []grid.Cell) Vec {
	step := math.Sqrt(offset.LenSq())
	if step == 0 {
		return pos
	}
	if step > dist {
		offset.X *= dist / step
		offset.Y *= dist / step
	}
	next := Vec{X: pos.X + offset.X, Y: pos.Y + offset.Y}
	if e.collides(next, ignore) {
		return pos
	}
	return next
}

// clamp keeps pos inside the canvas.
func (e *Engine) clamp(pos Vec) Vec {
	limit := e.Config.canvas()
	pos.X = math.Max(0, math.Min(pos.X, limit.X))
	pos.Y = math.Max(0, math.Min(pos.Y, limit.Y))
	return pos
}

// overlappedBombs returns live bomb cells already under the hitbox at pos.
func (e *Engine) overlappedBombs(pos Vec) []grid.Cell {
	var cells []grid.Cell
	for _, c := range e.overlappedCells(pos) {
		if e.bombAt(c) != nil {
			cells = append(cells, c)
		}
	}
	return cells
}

// movePlayer applies one tick of input-driven motion to the player.
func (e *Engine) movePlayer(in Intent, elapsed time.Duration) {
	p := e.State.Player
	if !p.Alive {
		return
	}
	dir := in.Vector()
	p.Pos = e.move(p.Pos, dir, p.Speed*elapsed.Seconds(), true)
	if d := dirOf(dir); d != DirNone {
		p.Dir = d
	}
}
