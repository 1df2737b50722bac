// Package sensor turns beam-break edges into roll triggers. The first break
// that lasts longer than a threshold seeds the game's random stream; every
// later break advances the game by one round.
package sensor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kingrea/two-four-eighteen/internal/logging"
)

// DefaultThreshold is how long the beam must stay broken to seed a game.
const DefaultThreshold = time.Second

// Level is the state of the beam after an edge.
type Level int

const (
	Restored Level = iota
	Broken
)

func (l Level) String() string {
	if l == Broken {
		return "broken"
	}
	return "restored"
}

// Edge is one transition of the beam.
type Edge struct {
	Level Level
	At    time.Time
}

// Trigger asks the game to play a round. The seeded trigger carries the
// measured break duration in microseconds.
type Trigger struct {
	Seed   uint64
	Seeded bool
}

// EdgeMailbox carries edges from interrupt context to the source goroutine.
// Offer never blocks and never allocates.
type EdgeMailbox struct {
	edges   chan Edge
	dropped atomic.Uint64
}

// NewEdgeMailbox returns a mailbox holding up to capacity edges.
func NewEdgeMailbox(capacity int) *EdgeMailbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &EdgeMailbox{edges: make(chan Edge, capacity)}
}

// Offer queues e and reports whether it fit.
func (m *EdgeMailbox) Offer(e Edge) bool {
	select {
	case m.edges <- e:
		return true
	default:
		m.dropped.Add(1)
		return false
	}
}

// Edges is drained by exactly one goroutine.
func (m *EdgeMailbox) Edges() <-chan Edge { return m.edges }

// Dropped counts edges that arrived while the mailbox was full.
func (m *EdgeMailbox) Dropped() uint64 { return m.dropped.Load() }

// Indicator mirrors the beam level, typically on the board LED.
type Indicator interface {
	Set(on bool)
}

// IndicatorFunc adapts a function to Indicator.
type IndicatorFunc func(on bool)

func (f IndicatorFunc) Set(on bool) { f(on) }

// Option configures a Source.
type Option func(*Source)

// WithThreshold sets the minimum seeding break.
func WithThreshold(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.threshold = d
		}
	}
}

// WithIndicator lights ind while the beam is intact.
func WithIndicator(ind Indicator) Option {
	return func(s *Source) { s.indicator = ind }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// Source is the seed state machine. It is owned by one goroutine.
type Source struct {
	threshold time.Duration
	indicator Indicator
	logger    *logging.Logger

	brokenAt  time.Time
	hasBroken bool
	seed      uint64
	seeded    bool
}

// NewSource returns a source with no seed.
func NewSource(opts ...Option) *Source {
	s := &Source{threshold: DefaultThreshold, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns the seed once one has been measured.
func (s *Source) Seed() (uint64, bool) { return s.seed, s.seeded }

// Handle applies one edge and returns the trigger it produces, if any.
func (s *Source) Handle(e Edge) (Trigger, bool) {
	if s.indicator != nil {
		s.indicator.Set(e.Level == Restored)
	}
	switch e.Level {
	case Broken:
		if s.seeded {
			return Trigger{Seed: s.seed}, true
		}
		s.brokenAt = e.At
		s.hasBroken = true
		return Trigger{}, false
	default:
		if s.seeded || !s.hasBroken {
			return Trigger{}, false
		}
		held := e.At.Sub(s.brokenAt)
		s.logger.Debug().Dur("held", held).Msg("beam restored")
		if held <= s.threshold {
			return Trigger{}, false
		}
		s.seed = uint64(held.Microseconds())
		s.seeded = true
		return Trigger{Seed: s.seed, Seeded: true}, true
	}
}

// Run drains edges and sends triggers on out until ctx is cancelled or
// edges is closed. A full out channel blocks the source.
func (s *Source) Run(ctx context.Context, edges <-chan Edge, out chan<- Trigger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-edges:
			if !ok {
				return nil
			}
			trigger, ok := s.Handle(e)
			if !ok {
				continue
			}
			if trigger.Seeded {
				s.logger.Info().Uint64("seed", trigger.Seed).Msg("game seeded")
			}
			select {
			case out <- trigger:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
