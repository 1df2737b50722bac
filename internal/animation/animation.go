// Package animation alternates the end-of-game message with the final dice
// once a game is over, and announces blink/solid display modes.
package animation

import (
	"context"
	"time"

	"github.com/kingrea/two-four-eighteen/internal/clock"
	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/logging"
	"github.com/kingrea/two-four-eighteen/internal/render"
)

// DefaultInterval is the time between message and dice frames.
const DefaultInterval = 2000 * time.Millisecond

// Screen shows a frame. display.Owner implements it.
type Screen interface {
	Show(ctx context.Context, f *display.Frame) error
}

// Publisher announces display modes. broadcast.Broadcaster implements it.
type Publisher interface {
	Publish(display.Mode)
}

// Cache holds the frames the coordinator alternates between.
type Cache struct {
	Won   *display.Frame
	Fish  *display.Frame
	Score *display.Frame
	Dice  *display.Frame
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithInterval sets the alternation period.
func WithInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock replaces the real clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Coordinator) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Coordinator is the animation state machine. Its state is owned by the
// goroutine running Run.
type Coordinator struct {
	screen   Screen
	modes    Publisher
	fonts    *render.Fonts
	interval time.Duration
	clock    clock.Clock
	logger   *logging.Logger

	state       game.Result
	showMessage bool
	cache       Cache
}

// New pre-renders the win and fish messages at the screen size.
func New(screen Screen, modes Publisher, fonts *render.Fonts, width, height int, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		screen:      screen,
		modes:       modes,
		fonts:       fonts,
		interval:    DefaultInterval,
		clock:       clock.Real{},
		logger:      logging.Nop(),
		showMessage: true,
		cache: Cache{
			Won:   display.NewFrame(width, height),
			Fish:  display.NewFrame(width, height),
			Score: display.NewFrame(width, height),
			Dice:  display.NewFrame(width, height),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := fonts.BigCenteredMessage(c.cache.Won, render.WinMessage); err != nil {
		return nil, err
	}
	if err := fonts.BigCenteredMessage(c.cache.Fish, render.FishMessage); err != nil {
		return nil, err
	}
	return c, nil
}

// State returns the current result and whether the next tick shows the
// message.
func (c *Coordinator) State() (game.Result, bool) { return c.state, c.showMessage }

// HandleOutcome applies a round result and publishes the matching mode.
func (c *Coordinator) HandleOutcome(o render.Outcome) error {
	if !o.Result.Terminal() {
		c.state = o.Result
		c.showMessage = true
		c.modes.Publish(display.Solid)
		return nil
	}
	if o.Dice != nil {
		c.cache.Dice.CopyFrom(o.Dice)
	} else {
		c.cache.Dice.Clear(false)
	}
	if o.Result.Kind == game.GameOver {
		if err := render.NewPipeline(c.fonts).ScoreMessage(c.cache.Score, o.Result.Score); err != nil {
			return err
		}
	}
	c.state = o.Result
	c.showMessage = true
	c.modes.Publish(display.Blink)
	c.logger.Info().Str("result", o.Result.String()).Msg("game finished")
	return nil
}

// Tick returns the frame to show for this period, or nil while playing.
func (c *Coordinator) Tick() *display.Frame {
	if !c.state.Terminal() {
		return nil
	}
	frame := c.cache.Dice
	if c.showMessage {
		frame = c.message()
	}
	c.showMessage = !c.showMessage
	return frame
}

func (c *Coordinator) message() *display.Frame {
	switch c.state.Kind {
	case game.Won:
		return c.cache.Won
	case game.Fish:
		return c.cache.Fish
	default:
		return c.cache.Score
	}
}

// Run consumes outcomes until ctx is cancelled or rounds is closed. The
// period restarts after every received outcome.
func (c *Coordinator) Run(ctx context.Context, rounds <-chan render.Outcome) error {
	for {
		timer := c.clock.After(c.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o, ok := <-rounds:
			if !ok {
				return nil
			}
			if err := c.HandleOutcome(o); err != nil {
				return err
			}
		case <-timer:
			frame := c.Tick()
			if frame == nil {
				continue
			}
			if err := c.screen.Show(ctx, frame); err != nil {
				return err
			}
		}
	}
}
