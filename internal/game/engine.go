// Package game implements "two four eighteen": five dice, keep at least one
// per roll, a Four and a Two are mandatory and the other three dice score.
// The best possible hand is {4, 2, 6, 6, 6}, worth 18.
package game

import (
	"github.com/kingrea/two-four-eighteen/internal/dice"
)

// WinningScore is the score of {4, 2, 6, 6, 6}.
const WinningScore int8 = 18

// FishScore is the sentinel score of a hand without both a Four and a Two.
const FishScore int8 = -1

// mandatoryPoints is what the required Four and Two contribute to a sum.
const mandatoryPoints = int(dice.Four) + int(dice.Two)

// Engine owns the state of one game. It is not safe for concurrent use; a
// single goroutine owns it.
type Engine struct {
	diceLeft dice.NumberOfDice
	picked   dice.Set
	rolled   dice.Set
	roller   Roller
}

// New creates an engine drawing faces from roller.
func New(roller Roller) *Engine {
	return &Engine{
		diceLeft: dice.Five,
		roller:   roller,
	}
}

// NewSeeded creates an engine with a seeded random stream.
func NewSeeded(seed uint64) *Engine {
	return New(NewRandomRoller(seed))
}

// DiceLeft returns how many dice the next roll will throw.
func (e *Engine) DiceLeft() dice.NumberOfDice { return e.diceLeft }

// Picked returns a copy of the kept dice.
func (e *Engine) Picked() dice.Set { return e.picked.Clone() }

// Rolled returns a copy of the last raw roll.
func (e *Engine) Rolled() dice.Set { return e.rolled.Clone() }

// Fresh reports whether no die has been rolled since the last reset.
func (e *Engine) Fresh() bool {
	return e.diceLeft == dice.Five && e.picked.Len() == 0
}

// Reset starts a new game on the same random stream.
func (e *Engine) Reset() {
	e.diceLeft = dice.Five
	e.picked = dice.Set{}
	e.rolled = dice.Set{}
}

// Reseed replaces the random stream. It is ignored mid-game and reports
// whether the seed was taken.
func (e *Engine) Reseed(seed uint64) bool {
	if !e.Fresh() {
		return false
	}
	e.roller = NewRandomRoller(seed)
	return true
}

// Roll throws the remaining dice and keeps at least one of them. It does
// nothing once every die has been kept.
func (e *Engine) Roll() {
	if e.diceLeft == dice.Zero {
		return
	}
	before := e.diceLeft
	rolled := e.throw(before.Int())
	remaining := rolled.Clone()
	picked := e.picked.Clone()
	start := picked.Len()

	if !picked.Contains(dice.Four) {
		picked.Append(remaining.Take(dice.Is(dice.Four), 1))
	}
	if !picked.Contains(dice.Two) {
		picked.Append(remaining.Take(dice.Is(dice.Two), 1))
	}
	hadMandatoryPick := picked.Len() > start

	if !hasFish(picked) {
		threshold := keepThreshold(picked, rolled, before, hadMandatoryPick)
		picked.Append(remaining.Take(dice.Above(threshold), -1))
	}

	if picked.Len() == start {
		// a die was rolled, so there is a max
		best, _ := remaining.TakeMax()
		picked.Push(best)
	}

	e.rolled = rolled
	e.picked = picked
	e.diceLeft = dice.Five.Sub(picked.Len())
}

// Score is the sum of the kept dice minus the Four and the Two, or FishScore.
func (e *Engine) Score() int8 {
	if hasFish(e.picked) {
		return FishScore
	}
	return int8(e.picked.Sum() - mandatoryPoints)
}

// HasFish reports whether the kept dice lack a Four or a Two.
func (e *Engine) HasFish() bool {
	return hasFish(e.picked)
}

// HasWon reports a perfect hand.
func (e *Engine) HasWon() bool {
	return e.Score() == WinningScore
}

// Result classifies the current state. It is Playing while dice are left.
func (e *Engine) Result() Result {
	switch {
	case e.diceLeft > dice.Zero:
		return Result{Kind: Playing}
	case e.HasFish():
		return Result{Kind: Fish, Score: FishScore}
	case e.HasWon():
		return Result{Kind: Won, Score: WinningScore}
	default:
		return Result{Kind: GameOver, Score: e.Score()}
	}
}

func (e *Engine) throw(n int) dice.Set {
	var s dice.Set
	for i := 0; i < n; i++ {
		s.Push(dice.Die{Value: e.roller.Roll()})
	}
	return s
}

// keepThreshold picks the face value a remaining die must beat to be kept.
// The heuristic is not proven optimal; see Simulate for its distribution.
func keepThreshold(picked, rolled dice.Set, before dice.NumberOfDice, hadMandatoryPick bool) dice.FaceValue {
	switch {
	case canStillWin(picked) && (rolled.Contains(dice.Six) || hadMandatoryPick):
		return dice.Five
	case before < 3:
		return dice.Three
	case rolled.Count(dice.Above(dice.Four)) > 1:
		return dice.Three
	default:
		return dice.Four
	}
}

// canStillWin reports whether picked is still a subset of {4, 2, 6, 6, 6}.
func canStillWin(picked dice.Set) bool {
	if picked.CountFace(dice.Four) > 1 || picked.CountFace(dice.Two) > 1 {
		return false
	}
	others := picked.Count(func(d dice.Die) bool {
		return d.Value != dice.Four && d.Value != dice.Two && d.Value != dice.Six
	})
	return others == 0
}

func hasFish(picked dice.Set) bool {
	return !(picked.Contains(dice.Four) && picked.Contains(dice.Two))
}
