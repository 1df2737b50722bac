package game

import (
	"math/rand/v2"

	"github.com/kingrea/two-four-eighteen/internal/dice"
)

// Roller produces face values.
type Roller interface {
	Roll() dice.FaceValue
}

// RollerFunc adapts a function into a Roller.
type RollerFunc func() dice.FaceValue

// Roll executes f().
func (f RollerFunc) Roll() dice.FaceValue { return f() }

type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller returns a uniform d6 stream that is deterministic for seed.
func NewRandomRoller(seed uint64) Roller {
	return &randomRoller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *randomRoller) Roll() dice.FaceValue {
	return dice.FaceValue(r.rng.IntN(6) + 1)
}

// SequenceRoller replays faces in order and wraps around at the end.
type SequenceRoller struct {
	faces []dice.FaceValue
	next  int
}

// NewSequenceRoller replays faces. It panics on an empty sequence.
func NewSequenceRoller(faces ...dice.FaceValue) *SequenceRoller {
	if len(faces) == 0 {
		panic("game: sequence roller needs at least one face")
	}
	return &SequenceRoller{faces: faces}
}

func (s *SequenceRoller) Roll() dice.FaceValue {
	f := s.faces[s.next%len(s.faces)]
	s.next++
	return f
}

// Rolls returns how many faces have been handed out.
func (s *SequenceRoller) Rolls() int { return s.next }
