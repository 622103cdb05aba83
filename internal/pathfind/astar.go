// Package pathfind implements A* search over an arena grid with transient
// obstacles supplied per call.
package pathfind

import "github.com/amalg/bomber-arena/internal/grid"

// MaxIterations bounds the number of node expansions per search. Searches that
// exceed it report no path even if one exists.
const MaxIterations = 500

// Option tweaks a single search.
type Option func(*search)

// IgnoreObstacles makes the search treat obstacle cells as walkable.
func IgnoreObstacles() Option {
	return func(s *search) { s.ignoreObstacles = true }
}

// AllowStartObstacle lets a search leave a start cell that is one of the
// obstacles, for movers standing on a bomb. Every later cell is still checked.
func AllowStartObstacle() Option {
	return func(s *search) { s.allowStart = true }
}

// WithMaxIterations overrides MaxIterations for one search.
func WithMaxIterations(n int) Option {
	return func(s *search) { s.maxIter = n }
}

var neighbors = [4][2]int{
	{0, -1}, // Up
	{0, 1},  // Down
	{-1, 0}, // Left
	{1, 0},  // Right
}

type node struct {
	cell   grid.Cell
	g      int
	f      int
	parent int // index into search.nodes, -1 for the start node
}

type search struct {
	g               *grid.Grid
	blocked         map[grid.Cell]bool
	ignoreObstacles bool
	allowStart      bool
	maxIter         int

	nodes  []node
	open   []int       // indices into nodes, kept in encounter order
	inOpen map[int]int // flat cell index -> nodes index
	closed []bool
}

// Find returns the cells from start to goal inclusive, oldest first, or nil when
// no route was found. A cell is walkable iff it is in bounds, Empty, and not one
// of obstacles. The start cell is only checked against obstacles: a blocked
// start finds nothing unless AllowStartObstacle is given.
func Find(g *grid.Grid, start, goal grid.Cell, obstacles []grid.Cell, opts ...Option) []grid.Cell {
	s := &search{
		g:       g,
		maxIter: MaxIterations,
		inOpen:  make(map[int]int),
		closed:  make([]bool, g.Width*g.Height),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.ignoreObstacles && len(obstacles) > 0 {
		s.blocked = make(map[grid.Cell]bool, len(obstacles))
		for _, c := range obstacles {
			s.blocked[c] = true
		}
	}
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil
	}
	if s.blocked[start] && !s.allowStart {
		return nil
	}
	return s.run(start, goal)
}

func (s *search) walkable(c grid.Cell) bool {
	if !s.g.Passable(c) {
		return false
	}
	return !s.blocked[c]
}

func (s *search) index(c grid.Cell) int {
	return c.Y*s.g.Width + c.X
}

func (s *search) run(start, goal grid.Cell) []grid.Cell {
	s.push(node{cell: start, g: 0, f: start.Manhattan(goal), parent: -1})

	for iter := 0; len(s.open) > 0; iter++ {
		if iter >= s.maxIter {
			return nil
		}

		cur := s.popLowest()
		n := s.nodes[cur]
		if n.cell == goal {
			return s.reconstruct(cur)
		}
		s.closed[s.index(n.cell)] = true

		for _, d := range neighbors {
			next := n.cell.Add(d[0], d[1])
			if !s.walkable(next) {
				continue
			}
			idx := s.index(next)
			if s.closed[idx] {
				continue
			}
			g := n.g + 1
			if existing, ok := s.inOpen[idx]; ok {
				if g < s.nodes[existing].g {
					s.nodes[existing].g = g
					s.nodes[existing].f = g + next.Manhattan(goal)
					s.nodes[existing].parent = cur
				}
				continue
			}
			s.push(node{cell: next, g: g, f: g + next.Manhattan(goal), parent: cur})
		}
	}
	return nil
}

func (s *search) push(n node) {
	s.nodes = append(s.nodes, n)
	i := len(s.nodes) - 1
	s.open = append(s.open, i)
	s.inOpen[s.index(n.cell)] = i
}

// popLowest removes the open node with the smallest f. Ties go to the node
// that entered the open set first.
func (s *search) popLowest() int {
	best := 0
	for i := 1; i < len(s.open); i++ {
		if s.nodes[s.open[i]].f < s.nodes[s.open[best]].f {
			best = i
		}
	}
	ni := s.open[best]
	s.open = append(s.open[:best], s.open[best+1:]...)
	delete(s.inOpen, s.index(s.nodes[ni].cell))
	return ni
}

func (s *search) reconstruct(i int) []grid.Cell {
	var rev []grid.Cell
	for ; i >= 0; i = s.nodes[i].parent {
		rev = append(rev, s.nodes[i].cell)
	}
	path := make([]grid.Cell, len(rev))
	for j, c := range rev {
		path[len(rev)-1-j] = c
	}
	return path
}
