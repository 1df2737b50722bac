// Package blink drives display inversion from the announced display mode.
package blink

import (
	"context"
	"time"

	"github.com/kingrea/two-four-eighteen/internal/clock"
	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/logging"
)

// DefaultInterval is the blink half-period.
const DefaultInterval = 1000 * time.Millisecond

// Inverter sets panel inversion. display.Owner implements it.
type Inverter interface {
	Invert(ctx context.Context, inverted bool) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the blink half-period.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock replaces the real clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller starts Solid and not inverted.
type Controller struct {
	panel    Inverter
	interval time.Duration
	clock    clock.Clock
	logger   *logging.Logger

	mode     display.Mode
	inverted bool
}

// New returns a controller applying inversion through panel.
func New(panel Inverter, opts ...Option) *Controller {
	c := &Controller{
		panel:    panel,
		interval: DefaultInterval,
		clock:    clock.Real{},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the mode and inversion flag.
func (c *Controller) State() (display.Mode, bool) { return c.mode, c.inverted }

// HandleMode switches mode and returns the inversion to apply.
func (c *Controller) HandleMode(m display.Mode) bool {
	c.mode = m
	c.inverted = m == display.Blink
	return c.inverted
}

// Tick flips inversion while blinking. apply is false in Solid mode.
func (c *Controller) Tick() (inverted, apply bool) {
	if c.mode != display.Blink {
		return c.inverted, false
	}
	c.inverted = !c.inverted
	return c.inverted, true
}

// Run consumes modes until ctx is cancelled or modes is closed. The period
// restarts after every received mode.
func (c *Controller) Run(ctx context.Context, modes <-chan display.Mode) error {
	for {
		timer := c.clock.After(c.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-modes:
			if !ok {
				return nil
			}
			c.logger.Debug().Str("mode", m.String()).Msg("display mode")
			if err := c.panel.Invert(ctx, c.HandleMode(m)); err != nil {
				return err
			}
		case <-timer:
			inverted, apply := c.Tick()
			if !apply {
				continue
			}
			if err := c.panel.Invert(ctx, inverted); err != nil {
				return err
			}
		}
	}
}
