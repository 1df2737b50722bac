package display

// Mode is how the panel presents its content: steadily, or blinking by
// toggling inversion.
type Mode int

const (
	Solid Mode = iota
	Blink
)

func (m Mode) String() string {
	if m == Blink {
		return "blink"
	}
	return "solid"
}
