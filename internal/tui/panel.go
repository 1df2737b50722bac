package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/two-four-eighteen/internal/display"
)

// FrameMsg carries a flushed frame to the App.
type FrameMsg struct {
	Frame *display.Frame
}

// InvertMsg carries the panel inversion to the App.
type InvertMsg struct {
	Inverted bool
}

// Panel is a display.Panel whose glass is the terminal. Flush and SetInvert
// hand the result to the bubbletea program.
type Panel struct {
	width  int
	height int
	send   func(tea.Msg)

	mu     sync.Mutex
	buffer *display.Frame
}

// NewPanel returns a panel that delivers output through send, usually
// (*tea.Program).Send.
func NewPanel(width, height int, send func(tea.Msg)) *Panel {
	return &Panel{
		width:  width,
		height: height,
		send:   send,
		buffer: display.NewFrame(width, height),
	}
}

func (p *Panel) Size() (int, int) { return p.width, p.height }

func (p *Panel) Clear(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer.Clear(on)
	return nil
}

func (p *Panel) Draw(f *display.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer.CopyFrom(f)
	return nil
}

func (p *Panel) Flush() error {
	p.mu.Lock()
	frame := p.buffer.Clone()
	p.mu.Unlock()
	p.send(FrameMsg{Frame: frame})
	return nil
}

func (p *Panel) SetInvert(inverted bool) error {
	p.send(InvertMsg{Inverted: inverted})
	return nil
}
