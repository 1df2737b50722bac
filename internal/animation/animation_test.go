package animation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kingrea/two-four-eighteen/internal/clock"
	"github.com/kingrea/two-four-eighteen/internal/dice"
	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/render"
)

type modeLog struct {
	mu    sync.Mutex
	modes []display.Mode
}

func (m *modeLog) Publish(mode display.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes = append(m.modes, mode)
}

func (m *modeLog) snapshot() []display.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]display.Mode(nil), m.modes...)
}

type screen chan *display.Frame

func (s screen) Show(ctx context.Context, f *display.Frame) error {
	select {
	case s <- f.Clone():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newCoordinator(t *testing.T, scr Screen, opts ...Option) (*Coordinator, *modeLog, *render.Fonts) {
	t.Helper()
	fonts, err := render.LoadFonts()
	if err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	modes := &modeLog{}
	c, err := New(scr, modes, fonts, display.DefaultWidth, display.DefaultHeight, opts...)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return c, modes, fonts
}

func diceFrame(faces ...dice.FaceValue) *display.Frame {
	f := display.NewFrame(display.DefaultWidth, display.DefaultHeight)
	render.DrawDice(f, dice.NewSet(faces...))
	return f
}

func TestTickIsIdleWhilePlaying(t *testing.T) {
	c, modes, _ := newCoordinator(t, make(screen, 1))
	if c.Tick() != nil {
		t.Fatalf("no frame expected before a game ends")
	}
	if err := c.HandleOutcome(render.Outcome{Result: game.Result{Kind: game.Playing}}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if c.Tick() != nil {
		t.Fatalf("no frame expected while playing")
	}
	if got := modes.snapshot(); len(got) != 1 || got[0] != display.Solid {
		t.Fatalf("expected a single solid mode, got %v", got)
	}
}

func TestTerminalOutcomeAlternatesMessageAndDice(t *testing.T) {
	c, modes, _ := newCoordinator(t, make(screen, 1))
	final := diceFrame(dice.Four, dice.Two, dice.Six, dice.Six, dice.Six)
	err := c.HandleOutcome(render.Outcome{
		Result: game.Result{Kind: game.Won, Score: game.WinningScore},
		Dice:   final,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := modes.snapshot(); len(got) != 1 || got[0] != display.Blink {
		t.Fatalf("expected blink, got %v", got)
	}

	won := display.NewFrame(display.DefaultWidth, display.DefaultHeight)
	fonts, _ := render.LoadFonts()
	if err := fonts.BigCenteredMessage(won, render.WinMessage); err != nil {
		t.Fatalf("render win: %v", err)
	}
	for i := 0; i < 4; i++ {
		frame := c.Tick()
		want := won
		if i%2 == 1 {
			want = final
		}
		if !frame.Equal(want) {
			t.Fatalf("tick %d showed the wrong frame", i)
		}
	}
}

func TestGameOverRendersScore(t *testing.T) {
	c, _, fonts := newCoordinator(t, make(screen, 1))
	err := c.HandleOutcome(render.Outcome{
		Result: game.Result{Kind: game.GameOver, Score: 13},
		Dice:   diceFrame(dice.Four, dice.Two, dice.Five, dice.Five, dice.Three),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := display.NewFrame(display.DefaultWidth, display.DefaultHeight)
	if err := render.NewPipeline(fonts).ScoreMessage(want, 13); err != nil {
		t.Fatalf("render score: %v", err)
	}
	if !c.Tick().Equal(want) {
		t.Fatalf("first tick should show the score")
	}
}

func TestPlayingResetsMessageFlag(t *testing.T) {
	c, modes, _ := newCoordinator(t, make(screen, 1))
	c.HandleOutcome(render.Outcome{Result: game.Result{Kind: game.Fish, Score: game.FishScore}, Dice: diceFrame(dice.One)})
	c.Tick()
	if _, show := c.State(); show {
		t.Fatalf("message flag should flip after a tick")
	}
	c.HandleOutcome(render.Outcome{Result: game.Result{Kind: game.Playing}})
	state, show := c.State()
	if state.Terminal() || !show {
		t.Fatalf("playing should reset state and message flag, got %v %v", state, show)
	}
	if got := modes.snapshot(); len(got) != 2 || got[0] != display.Blink || got[1] != display.Solid {
		t.Fatalf("expected blink then solid, got %v", got)
	}
}

func TestRunRestartsPeriodAfterOutcome(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	scr := make(screen, 4)
	c, _, _ := newCoordinator(t, scr, WithClock(clk), WithInterval(time.Second))
	rounds := make(chan render.Outcome)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, rounds) }()

	clk.BlockUntil(1)
	clk.Advance(500 * time.Millisecond)
	final := diceFrame(dice.Six)
	rounds <- render.Outcome{Result: game.Result{Kind: game.Fish, Score: game.FishScore}, Dice: final}
	clk.BlockUntil(2)

	clk.Advance(600 * time.Millisecond)
	select {
	case <-scr:
		t.Fatalf("the period should restart after an outcome")
	case <-time.After(50 * time.Millisecond):
	}

	clk.Advance(400 * time.Millisecond)
	first := recvFrame(t, scr)
	if first.Equal(final) {
		t.Fatalf("first frame should be the message")
	}
	clk.BlockUntil(1)
	clk.Advance(time.Second)
	if second := recvFrame(t, scr); !second.Equal(final) {
		t.Fatalf("second frame should be the dice")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected run error %v", err)
	}
}

func recvFrame(t *testing.T, ch <-chan *display.Frame) *display.Frame {
	t.Helper()
	select {
	case f := <-ch:
		return f
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a frame")
		return nil
	}
}
