package game

import "fmt"

// Kind tags a Result.
type Kind int

const (
	Playing Kind = iota
	Won
	Fish
	GameOver
)

func (k Kind) String() string {
	switch k {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Fish:
		return "fish"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the externally visible outcome of one round. Score is only
// meaningful for terminal results.
type Result struct {
	Kind  Kind
	Score int8
}

// Terminal reports whether the game ended with this result.
func (r Result) Terminal() bool {
	return r.Kind != Playing
}

func (r Result) String() string {
	if r.Kind == GameOver {
		return fmt.Sprintf("game_over(%d)", r.Score)
	}
	return r.Kind.String()
}
