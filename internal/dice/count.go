package dice

import "fmt"

// MaxDice is the number of dice in a game.
const MaxDice = 5

// NumberOfDice counts dice still to be rolled. It never exceeds MaxDice and
// never drops below zero.
type NumberOfDice uint8

const (
	Zero NumberOfDice = 0
	Five NumberOfDice = MaxDice
)

// Count clamps n into [0, MaxDice].
func Count(n int) NumberOfDice {
	switch {
	case n <= 0:
		return Zero
	case n >= MaxDice:
		return Five
	default:
		return NumberOfDice(n)
	}
}

// Int returns the count as an int.
func (n NumberOfDice) Int() int { return int(n) }

// Sub subtracts k, clamping at zero.
func (n NumberOfDice) Sub(k int) NumberOfDice {
	return Count(int(n) - k)
}

func (n NumberOfDice) String() string {
	names := [...]string{"Zero", "One", "Two", "Three", "Four", "Five"}
	if int(n) < len(names) {
		return names[n]
	}
	return fmt.Sprintf("NumberOfDice(%d)", uint8(n))
}
