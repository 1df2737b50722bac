package game

import (
	"testing"

	"github.com/kingrea/two-four-eighteen/internal/dice"
)

func playOut(t *testing.T, e *Engine) int {
	t.Helper()
	rolls := 0
	for e.DiceLeft() > dice.Zero {
		e.Roll()
		rolls++
		if rolls > dice.MaxDice {
			t.Fatalf("game did not terminate within %d rolls", dice.MaxDice)
		}
	}
	return rolls
}

func TestWinningSequence(t *testing.T) {
	roller := NewSequenceRoller(dice.Four, dice.Four, dice.Two, dice.Six, dice.Six, dice.Six)
	e := New(roller)

	e.Roll()
	if got := e.Picked().String(); got != "{2,4,6,6}" {
		t.Fatalf("round 1: expected picked {2,4,6,6}, got %s", got)
	}
	if e.DiceLeft() != 1 {
		t.Fatalf("round 1: expected 1 die left, got %s", e.DiceLeft())
	}
	if e.Rolled().Len() != 5 {
		t.Fatalf("round 1: expected 5 rolled dice, got %d", e.Rolled().Len())
	}

	e.Roll()
	if got := e.Picked().String(); got != "{2,4,6,6,6}" {
		t.Fatalf("round 2: expected picked {2,4,6,6,6}, got %s", got)
	}
	if e.DiceLeft() != dice.Zero {
		t.Fatalf("round 2: expected no dice left, got %s", e.DiceLeft())
	}
	if e.Score() != WinningScore || !e.HasWon() {
		t.Fatalf("expected a win with score 18, got %d", e.Score())
	}
	if res := e.Result(); res.Kind != Won {
		t.Fatalf("expected Won result, got %s", res)
	}
}

func TestNeverFourOrTwoEndsInFish(t *testing.T) {
	roller := NewSequenceRoller(dice.One, dice.Three, dice.Five, dice.Six, dice.Three)
	e := New(roller)
	prev := 0
	for e.DiceLeft() > dice.Zero {
		e.Roll()
		if e.Picked().Len() <= prev {
			t.Fatalf("every roll must keep at least one die")
		}
		prev = e.Picked().Len()
	}
	if !e.HasFish() {
		t.Fatalf("expected fish, picked %s", e.Picked())
	}
	if e.Score() != FishScore {
		t.Fatalf("expected fish score -1, got %d", e.Score())
	}
	if res := e.Result(); res.Kind != Fish || res.Score != FishScore {
		t.Fatalf("expected fish result, got %s", res)
	}
}

func TestThresholdBroadensWhenSixesAreGone(t *testing.T) {
	roller := NewSequenceRoller(
		dice.Four, dice.Two, dice.One, dice.Three, dice.One, // round 1
		dice.Five, dice.Five, dice.One, // round 2: two dice above four
		dice.Three, // round 3: forced pick
	)
	e := New(roller)

	e.Roll()
	if got := e.Picked().String(); got != "{2,4}" {
		t.Fatalf("round 1: expected {2,4}, got %s", got)
	}
	e.Roll()
	if got := e.Picked().String(); got != "{2,4,5,5}" {
		t.Fatalf("round 2: expected {2,4,5,5}, got %s", got)
	}
	e.Roll()
	if got := e.Picked().String(); got != "{2,3,4,5,5}" {
		t.Fatalf("round 3: expected {2,3,4,5,5}, got %s", got)
	}
	if e.Score() != 13 {
		t.Fatalf("expected score 13, got %d", e.Score())
	}
	if res := e.Result(); res.Kind != GameOver || res.Score != 13 {
		t.Fatalf("expected game over 13, got %s", res)
	}
}

func TestSingleHighDieKeepsOnlyFivesAndSixes(t *testing.T) {
	roller := NewSequenceRoller(
		dice.Four, dice.Two, dice.Three, dice.One, dice.Three,
		dice.Five, dice.Four, dice.Three, // one die above four, three dice left
	)
	e := New(roller)
	e.Roll()
	e.Roll()
	if got := e.Picked().String(); got != "{2,4,5}" {
		t.Fatalf("expected only the five kept, got %s", got)
	}
	if e.DiceLeft() != 2 {
		t.Fatalf("expected 2 dice left, got %s", e.DiceLeft())
	}
}

func TestMandatoryPicksTakeOneEach(t *testing.T) {
	roller := NewSequenceRoller(dice.Four, dice.Four, dice.Two, dice.Two, dice.One)
	e := New(roller)
	e.Roll()
	picked := e.Picked()
	if picked.CountFace(dice.Four) != 1 || picked.CountFace(dice.Two) != 1 {
		t.Fatalf("mandatory picks must keep exactly one Four and one Two, got %s", picked)
	}
}

func TestRollIsNoOpWhenExhausted(t *testing.T) {
	e := NewSeeded(7)
	playOut(t, e)
	picked, rolled := e.Picked().String(), e.Rolled().String()
	e.Roll()
	if e.DiceLeft() != dice.Zero {
		t.Fatalf("dice left changed after exhausted roll")
	}
	if e.Picked().String() != picked || e.Rolled().String() != rolled {
		t.Fatalf("exhausted roll mutated state")
	}
}

func TestPropertiesAcrossSeeds(t *testing.T) {
	for seed := uint64(0); seed < 2000; seed++ {
		e := NewSeeded(seed)
		rolls := 0
		for e.DiceLeft() > dice.Zero {
			before := e.Picked()
			e.Roll()
			rolls++
			picked := e.Picked()
			if e.DiceLeft().Int()+picked.Len() != dice.MaxDice {
				t.Fatalf("seed %d: dice left %d + picked %d != 5", seed, e.DiceLeft(), picked.Len())
			}
			if picked.Len() <= before.Len() {
				t.Fatalf("seed %d: roll kept no die", seed)
			}
			for _, f := range before.Faces() {
				if picked.CountFace(f) < before.CountFace(f) {
					t.Fatalf("seed %d: picked dice shrank from %s to %s", seed, before, picked)
				}
			}
		}
		if rolls > dice.MaxDice {
			t.Fatalf("seed %d: %d rolls", seed, rolls)
		}

		picked := e.Picked()
		if e.HasFish() {
			if e.Score() != FishScore {
				t.Fatalf("seed %d: fish must score -1, got %d", seed, e.Score())
			}
		} else if int(e.Score()) != picked.Sum()-6 {
			t.Fatalf("seed %d: score %d != sum %d - 6", seed, e.Score(), picked.Sum())
		}
		perfect := picked.String() == "{2,4,6,6,6}"
		if e.HasWon() != perfect {
			t.Fatalf("seed %d: HasWon=%v but picked %s", seed, e.HasWon(), picked)
		}
	}
}

func TestResetKeepsRandomStream(t *testing.T) {
	a := NewSeeded(42)
	playOut(t, a)
	a.Reset()
	if !a.Fresh() || a.Rolled().Len() != 0 {
		t.Fatalf("reset must restore a fresh game")
	}
	a.Roll()
	second := a.Rolled().String()

	b := NewSeeded(42)
	playOut(t, b)
	b.Roll() // no-op, exhausted
	b.Reset()
	b.Roll()
	if got := b.Rolled().String(); got != second {
		t.Fatalf("same seed must continue the same stream after reset: %s vs %s", got, second)
	}
}

func TestReseedOnlyBetweenGames(t *testing.T) {
	e := NewSeeded(1)
	if !e.Reseed(2) {
		t.Fatalf("fresh engine must accept a seed")
	}
	e.Roll()
	if e.Reseed(3) {
		t.Fatalf("mid-game reseed must be refused")
	}
}

func TestSimulateCountsEveryGame(t *testing.T) {
	stats := Simulate(100, 500)
	if stats.Games != 500 {
		t.Fatalf("expected 500 games, got %d", stats.Games)
	}
	total := 0
	for _, n := range stats.Scores {
		total += n
	}
	if total != stats.Games {
		t.Fatalf("score histogram covers %d games, want %d", total, stats.Games)
	}
	if stats.Fish != stats.Scores[FishScore] {
		t.Fatalf("fish count %d disagrees with histogram %d", stats.Fish, stats.Scores[FishScore])
	}
	if stats.Rolls < stats.Games || stats.Rolls > stats.Games*dice.MaxDice {
		t.Fatalf("rolls out of range: %d", stats.Rolls)
	}
	scores := stats.SortedScores()
	for i := 1; i < len(scores); i++ {
		if scores[i-1] >= scores[i] {
			t.Fatalf("scores not sorted: %v", scores)
		}
	}
}
