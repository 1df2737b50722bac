// Package ssd1306 adapts an SSD1306 OLED controller to display.Panel. The
// controller's buffer uses the same page layout as display.Frame, so a flush
// is a straight copy.
package ssd1306

import (
	"fmt"

	"github.com/kingrea/two-four-eighteen/internal/display"
)

// Controller commands from the SSD1306 datasheet.
const (
	CmdNormalDisplay uint8 = 0xA6
	CmdInvertDisplay uint8 = 0xA7
)

// DefaultAddress is the usual I2C address of 128x64 modules.
const DefaultAddress uint16 = 0x3C

// Device is the part of the driver the panel needs.
type Device struct {
	SetBuffer func(buf []byte) error
	Display   func() error
	Command   func(cmd uint8) error
}

// Panel buffers frames until Flush pushes them to the controller.
type Panel struct {
	width  int
	height int
	dev    Device
	buffer *display.Frame
}

// New wraps dev.
func New(width, height int, dev Device) *Panel {
	return &Panel{
		width:  width,
		height: height,
		dev:    dev,
		buffer: display.NewFrame(width, height),
	}
}

func (p *Panel) Size() (int, int) { return p.width, p.height }

func (p *Panel) Clear(on bool) error {
	p.buffer.Clear(on)
	return nil
}

func (p *Panel) Draw(f *display.Frame) error {
	p.buffer.CopyFrom(f)
	return nil
}

func (p *Panel) Flush() error {
	if err := p.dev.SetBuffer(p.buffer.Pages()); err != nil {
		return fmt.Errorf("ssd1306: set buffer: %w", err)
	}
	if err := p.dev.Display(); err != nil {
		return fmt.Errorf("ssd1306: display: %w", err)
	}
	return nil
}

func (p *Panel) SetInvert(inverted bool) error {
	cmd := CmdNormalDisplay
	if inverted {
		cmd = CmdInvertDisplay
	}
	if err := p.dev.Command(cmd); err != nil {
		return fmt.Errorf("ssd1306: invert: %w", err)
	}
	return nil
}
