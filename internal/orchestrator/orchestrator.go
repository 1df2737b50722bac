// Package orchestrator wires the game's goroutines together: the sensor
// source, the game task, the animation coordinator, the blink controller and
// the display owner. It owns every channel between them and applies the
// task failure policy.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/two-four-eighteen/internal/animation"
	"github.com/kingrea/two-four-eighteen/internal/blink"
	"github.com/kingrea/two-four-eighteen/internal/broadcast"
	"github.com/kingrea/two-four-eighteen/internal/clock"
	"github.com/kingrea/two-four-eighteen/internal/config"
	"github.com/kingrea/two-four-eighteen/internal/dice"
	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/logging"
	"github.com/kingrea/two-four-eighteen/internal/render"
	"github.com/kingrea/two-four-eighteen/internal/sensor"
)

// ownerBacklog bounds queued display requests.
const ownerBacklog = 4

// RoundEvent describes a played round to observers.
type RoundEvent struct {
	GameID string
	Round  int
	Result game.Result
	Picked dice.Set
}

// Option customizes an Orchestrator for tests and alternate runtimes.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces the real clock of the timed tasks.
func WithClock(clk clock.Clock) Option {
	return func(o *Orchestrator) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// WithObserver is called by the game task after every round.
func WithObserver(fn func(RoundEvent)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithIndicator mirrors the beam level.
func WithIndicator(ind sensor.Indicator) Option {
	return func(o *Orchestrator) { o.indicator = ind }
}

// WithGameIDs overrides how game ids are generated.
func WithGameIDs(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithRestartBackOff overrides the backoff between task restarts.
func WithRestartBackOff(fn func() backoff.BackOff) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.restartBackOff = fn
		}
	}
}

// Orchestrator runs one game station.
type Orchestrator struct {
	settings config.Settings
	edges    <-chan sensor.Edge

	logger         *logging.Logger
	clock          clock.Clock
	observer       func(RoundEvent)
	indicator      sensor.Indicator
	newID          func() string
	restartBackOff func() backoff.BackOff

	owner     *display.Owner
	modes     *broadcast.Broadcaster[display.Mode]
	blinkSub  broadcast.Subscription[display.Mode]
	triggers  chan sensor.Trigger
	rounds    chan render.Outcome
	source    *sensor.Source
	game      *gameTask
	animation *animation.Coordinator
	blink     *blink.Controller
}

// New builds every task. edges is drained by the sensor task only.
func New(settings config.Settings, panel display.Panel, edges <-chan sensor.Edge, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		settings: settings,
		edges:    edges,
		logger:   logging.Nop(),
		clock:    clock.Real{},
		newID:    uuid.NewString,
		restartBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	width, height := panel.Size()
	o.owner = display.NewOwner(panel, ownerBacklog)
	o.modes = broadcast.New[display.Mode](
		broadcast.WithCapacity(settings.Channels.Modes),
		broadcast.WithLogger(o.logger.Component("modes")),
		broadcast.WithName("modes"),
	)
	o.blinkSub = o.modes.Subscribe("blink")
	o.triggers = make(chan sensor.Trigger, 1)
	o.rounds = make(chan render.Outcome, settings.Channels.Rounds)

	o.source = sensor.NewSource(
		sensor.WithThreshold(settings.Sensor.SeedThreshold),
		sensor.WithIndicator(o.indicator),
		sensor.WithLogger(o.logger.Component("sensor")),
	)

	// Font faces are not shared between goroutines.
	gameFonts, err := render.LoadFonts()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: game fonts: %w", err)
	}
	animFonts, err := render.LoadFonts()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: animation fonts: %w", err)
	}

	o.game = &gameTask{
		pipeline: render.NewPipeline(gameFonts),
		owner:    o.owner,
		triggers: o.triggers,
		rounds:   o.rounds,
		frame:    display.NewFrame(width, height),
		newID:    o.newID,
		observer: o.observer,
		logger:   o.logger.Component("game"),
	}
	o.animation, err = animation.New(o.owner, o.modes, animFonts, width, height,
		animation.WithInterval(settings.Timing.AnimationInterval),
		animation.WithClock(o.clock),
		animation.WithLogger(o.logger.Component("animation")),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: animation: %w", err)
	}
	o.blink = blink.New(o.owner,
		blink.WithInterval(settings.Timing.BlinkInterval),
		blink.WithClock(o.clock),
		blink.WithLogger(o.logger.Component("blink")),
	)
	return o, nil
}

// Modes lets other consumers follow the display mode.
func (o *Orchestrator) Modes() *broadcast.Broadcaster[display.Mode] { return o.modes }

// Run starts every task and blocks until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.modes.Close()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.owner.Run(ctx) })
	g.Go(func() error {
		return o.supervise(ctx, "sensor", func(ctx context.Context) error {
			return o.source.Run(ctx, o.edges, o.triggers)
		})
	})
	g.Go(func() error {
		return o.supervise(ctx, "game", o.game.run)
	})
	g.Go(func() error {
		return o.supervise(ctx, "animation", func(ctx context.Context) error {
			return o.animation.Run(ctx, o.rounds)
		})
	})
	g.Go(func() error {
		return o.supervise(ctx, "blink", func(ctx context.Context) error {
			return o.blink.Run(ctx, o.blinkSub.Values)
		})
	})
	o.logger.Info().
		Str("on_failure", o.settings.Tasks.OnFailure).
		Dur("animation_interval", o.settings.Timing.AnimationInterval).
		Dur("blink_interval", o.settings.Timing.BlinkInterval).
		Msg("tasks started")

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// supervise runs task under the failure policy. A failed task never takes
// its siblings down: with "stop" it is logged and left stopped, with
// "restart" it is retried with backoff up to max_restarts times.
func (o *Orchestrator) supervise(ctx context.Context, name string, task func(context.Context) error) error {
	log := o.logger.Component(name)
	if o.settings.Tasks.OnFailure != config.OnFailureRestart {
		err := task(ctx)
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("task failed, leaving it stopped")
		}
		return nil
	}

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := task(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(o.restartBackOff()),
		backoff.WithMaxTries(uint(o.settings.Tasks.MaxRestarts)+1),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Int("attempt", attempts).Dur("retry_in", next).Msg("task failed, restarting")
		}),
	)
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Int("attempts", attempts).Msg("task failed too often, leaving it stopped")
	}
	return nil
}
