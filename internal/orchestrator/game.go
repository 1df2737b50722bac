package orchestrator

import (
	"context"

	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/logging"
	"github.com/kingrea/two-four-eighteen/internal/render"
	"github.com/kingrea/two-four-eighteen/internal/sensor"
)

// gameTask owns the engine. Its state survives restarts of run.
type gameTask struct {
	pipeline *render.Pipeline
	owner    *display.Owner
	triggers <-chan sensor.Trigger
	rounds   chan<- render.Outcome
	frame    *display.Frame
	newID    func() string
	observer func(RoundEvent)
	logger   *logging.Logger

	engine *game.Engine
	gameID string
	round  int
}

func (t *gameTask) run(ctx context.Context) error {
	if t.engine == nil {
		if err := t.pipeline.Startup(t.frame); err != nil {
			return err
		}
		if err := t.owner.Show(ctx, t.frame); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case trigger, ok := <-t.triggers:
			if !ok {
				return nil
			}
			if err := t.play(ctx, trigger); err != nil {
				return err
			}
		}
	}
}

func (t *gameTask) play(ctx context.Context, trigger sensor.Trigger) error {
	switch {
	case t.engine == nil:
		t.engine = game.NewSeeded(trigger.Seed)
		t.logger.Info().Uint64("seed", trigger.Seed).Msg("engine created")
	case trigger.Seeded:
		if !t.engine.Reseed(trigger.Seed) {
			t.logger.Warn().Uint64("seed", trigger.Seed).Msg("seed ignored mid-game")
		}
	}
	if t.engine.Fresh() {
		t.gameID = t.newID()
		t.round = 0
	}
	t.round++

	final := t.engine.Picked()
	out, err := t.pipeline.PlayAndDraw(t.frame, t.engine)
	if err != nil {
		return err
	}
	if err := t.owner.Show(ctx, out.Frame); err != nil {
		return err
	}

	picked := final
	if !out.Result.Terminal() {
		picked = t.engine.Picked()
	}
	t.logger.Info().
		Str("game_id", t.gameID).
		Int("round", t.round).
		Str("result", out.Result.String()).
		Str("picked", picked.String()).
		Msg("round played")
	if t.observer != nil {
		t.observer(RoundEvent{GameID: t.gameID, Round: t.round, Result: out.Result, Picked: picked})
	}

	out.Frame = out.Frame.Clone()
	select {
	case t.rounds <- out:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
