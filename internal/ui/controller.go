package ui

import (
	"time"

	"github.com/amalg/bomber-arena/internal/game"
)

// Terminals report presses and auto-repeats but never releases, so a key stays
// down until its repeats stop arriving. The first repeat only comes after the
// terminal's repeat delay; later ones follow at the much shorter repeat rate.
const (
	DefaultRepeatDelay    = 500 * time.Millisecond
	DefaultRepeatInterval = 150 * time.Millisecond
)

type keyHold struct {
	at     time.Time
	window time.Duration
}

// Controller turns key presses into the per-tick intent the engine polls.
type Controller struct {
	// RepeatDelay is how long a fresh press counts as held.
	RepeatDelay time.Duration
	// RepeatInterval is how long a repeat of a held key extends it.
	RepeatInterval time.Duration

	pressed map[game.Direction]keyHold
	bomb    bool
	now     func() time.Time
}

// WithRepeatDelay sets how long a fresh key press counts as held. Terminals
// with a long auto-repeat delay need a larger value to avoid stutter.
func WithRepeatDelay(d time.Duration) func(*Controller) {
	return func(c *Controller) { c.RepeatDelay = d }
}

// NewController creates a controller and registers it as engine's input.
func NewController(engine *game.Engine) *Controller {
	c := &Controller{
		RepeatDelay:    DefaultRepeatDelay,
		RepeatInterval: DefaultRepeatInterval,
		pressed:        make(map[game.Direction]keyHold),
		now:            time.Now,
	}
	engine.SetInput(c)
	return c
}

// Press marks dir as held. Pressing a direction releases its opposite.
func (c *Controller) Press(dir game.Direction) {
	now := c.now()
	delete(c.pressed, opposite(dir))

	window := c.RepeatDelay
	if h, ok := c.pressed[dir]; ok && now.Sub(h.at) <= h.window {
		window = c.RepeatInterval
	}
	c.pressed[dir] = keyHold{at: now, window: window}
}

// PressBomb requests a bomb on the next poll.
func (c *Controller) PressBomb() {
	c.bomb = true
}

// Release drops every held key.
func (c *Controller) Release() {
	clear(c.pressed)
	c.bomb = false
}

// Poll implements game.IntentSource. The bomb request is consumed so the
// engine sees a fresh press for every space bar hit.
func (c *Controller) Poll() game.Intent {
	now := c.now()
	held := func(d game.Direction) bool {
		h, ok := c.pressed[d]
		if ok && now.Sub(h.at) > h.window {
			delete(c.pressed, d)
			return false
		}
		return ok
	}

	in := game.Intent{
		Up:        held(game.DirUp),
		Down:      held(game.DirDown),
		Left:      held(game.DirLeft),
		Right:     held(game.DirRight),
		PlaceBomb: c.bomb,
	}
	c.bomb = false
	return in
}

func opposite(d game.Direction) game.Direction {
	switch d {
	case game.DirUp:
		return game.DirDown
	case game.DirDown:
		return game.DirUp
	case game.DirLeft:
		return game.DirRight
	case game.DirRight:
		return game.DirLeft
	}
	return game.DirNone
}
