// Package dice holds the value types shared by the engine and the renderer:
// a six-sided die, an unordered set of dice and the bounded dice counter.
package dice

import (
	"fmt"
	"sort"
	"strings"
)

// FaceValue is the pip count shown on a die.
type FaceValue uint8

const (
	One FaceValue = iota + 1
	Two
	Three
	Four
	Five
	Six
)

// Valid reports whether f is one of the six faces.
func (f FaceValue) Valid() bool {
	return f >= One && f <= Six
}

func (f FaceValue) String() string {
	switch f {
	case One:
		return "One"
	case Two:
		return "Two"
	case Three:
		return "Three"
	case Four:
		return "Four"
	case Five:
		return "Five"
	case Six:
		return "Six"
	default:
		return fmt.Sprintf("FaceValue(%d)", uint8(f))
	}
}

// Die is a single rolled die.
type Die struct {
	Value FaceValue
}

// Set is an unordered multiset of dice. Order only matters for layout.
type Set struct {
	dice []Die
}

// NewSet builds a set from face values.
func NewSet(faces ...FaceValue) Set {
	s := Set{dice: make([]Die, 0, len(faces))}
	for _, f := range faces {
		s.dice = append(s.dice, Die{Value: f})
	}
	return s
}

// Len returns the number of dice in the set.
func (s Set) Len() int { return len(s.dice) }

// Dice returns a copy of the dice in layout order.
func (s Set) Dice() []Die {
	out := make([]Die, len(s.dice))
	copy(out, s.dice)
	return out
}

// Faces returns the face values in layout order.
func (s Set) Faces() []FaceValue {
	out := make([]FaceValue, len(s.dice))
	for i, d := range s.dice {
		out[i] = d.Value
	}
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return Set{dice: s.Dice()}
}

// Push adds one die.
func (s *Set) Push(d Die) {
	s.dice = append(s.dice, d)
}

// Append moves every die of other into s.
func (s *Set) Append(other Set) {
	s.dice = append(s.dice, other.dice...)
}

// Count returns how many dice satisfy match.
func (s Set) Count(match func(Die) bool) int {
	n := 0
	for _, d := range s.dice {
		if match(d) {
			n++
		}
	}
	return n
}

// CountFace returns how many dice show face.
func (s Set) CountFace(face FaceValue) int {
	return s.Count(Is(face))
}

// Contains reports whether at least one die shows face.
func (s Set) Contains(face FaceValue) bool {
	return s.CountFace(face) > 0
}

// Take removes up to limit dice matching match and returns them. A negative
// limit takes every match.
func (s *Set) Take(match func(Die) bool, limit int) Set {
	var taken Set
	kept := s.dice[:0:0]
	for _, d := range s.dice {
		if match(d) && (limit < 0 || taken.Len() < limit) {
			taken.dice = append(taken.dice, d)
			continue
		}
		kept = append(kept, d)
	}
	s.dice = kept
	return taken
}

// Max returns the highest die. ok is false for an empty set.
func (s Set) Max() (Die, bool) {
	if len(s.dice) == 0 {
		return Die{}, false
	}
	best := s.dice[0]
	for _, d := range s.dice[1:] {
		if d.Value > best.Value {
			best = d
		}
	}
	return best, true
}

// TakeMax removes and returns the highest die.
func (s *Set) TakeMax() (Die, bool) {
	best, ok := s.Max()
	if !ok {
		return Die{}, false
	}
	taken := s.Take(Is(best.Value), 1)
	return taken.dice[0], true
}

// Sum adds the face values.
func (s Set) Sum() int {
	total := 0
	for _, d := range s.dice {
		total += int(d.Value)
	}
	return total
}

// String renders the faces sorted ascending, e.g. "{2,4,6}".
func (s Set) String() string {
	faces := s.Faces()
	sort.Slice(faces, func(i, j int) bool { return faces[i] < faces[j] })
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = fmt.Sprintf("%d", uint8(f))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Is matches dice showing face.
func Is(face FaceValue) func(Die) bool {
	return func(d Die) bool { return d.Value == face }
}

// Above matches dice strictly greater than threshold.
func Above(threshold FaceValue) func(Die) bool {
	return func(d Die) bool { return d.Value > threshold }
}
