// Package render turns engine state into frames: rolled dice in a grid, or
// the end-of-game message.
package render

import (
	"strconv"

	"github.com/kingrea/two-four-eighteen/internal/dice"
	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
)

// Outcome is one played round.
type Outcome struct {
	Result game.Result
	// Frame is what the round drew.
	Frame *display.Frame
	// Dice holds the final picked dice of a finished game; nil while playing.
	Dice *display.Frame
}

// Pipeline plays and draws rounds. It owns its fonts and is used by a single
// goroutine.
type Pipeline struct {
	fonts *Fonts
}

// NewPipeline returns a pipeline drawing text with fonts.
func NewPipeline(fonts *Fonts) *Pipeline {
	return &Pipeline{fonts: fonts}
}

// PlayAndDraw advances e by one round and draws it into frame. While dice are
// left it rolls and draws the throw. Once every die is kept it draws the end
// message, renders the picked dice into Outcome.Dice and resets e.
func (p *Pipeline) PlayAndDraw(frame *display.Frame, e *game.Engine) (Outcome, error) {
	frame.Clear(false)
	if e.DiceLeft() > dice.Zero {
		e.Roll()
		DrawDice(frame, e.Rolled())
		return Outcome{Result: game.Result{Kind: game.Playing}, Frame: frame}, nil
	}

	result := e.Result()
	var err error
	switch result.Kind {
	case game.Fish:
		err = p.fonts.BigCenteredMessage(frame, FishMessage)
	case game.Won:
		err = p.fonts.BigCenteredMessage(frame, WinMessage)
	default:
		err = p.ScoreMessage(frame, result.Score)
	}
	if err != nil {
		return Outcome{}, err
	}

	w, h := frame.Size()
	final := display.NewFrame(w, h)
	DrawDice(final, e.Picked())
	e.Reset()
	return Outcome{Result: result, Frame: frame, Dice: final}, nil
}

// ScoreMessage draws a score in the big face.
func (p *Pipeline) ScoreMessage(frame *display.Frame, score int8) error {
	return p.fonts.BigCenteredMessage(frame, strconv.Itoa(int(score)))
}

// Startup draws the instructions shown before the first game.
func (p *Pipeline) Startup(frame *display.Frame) error {
	return p.fonts.MediumCenteredMessage(frame, StartupMessage)
}

// Fonts returns the pipeline's fonts.
func (p *Pipeline) Fonts() *Fonts { return p.fonts }
