// Package display models the one physical screen: a 1-bit frame buffer, the
// Panel capability real screens implement, and the Owner goroutine that
// serializes every access to the panel.
package display

import (
	"image"
	"image/color"
)

const (
	// DefaultWidth and DefaultHeight match the SSD1306 128x64 OLED.
	DefaultWidth  = 128
	DefaultHeight = 64
)

// Frame is a monochrome bitmap stored in SSD1306 page order: each byte holds
// eight vertically stacked pixels, least significant bit on top.
type Frame struct {
	width  int
	height int
	pix    []byte
}

// NewFrame allocates a cleared frame.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	pages := (height + 7) / 8
	return &Frame{width: width, height: height, pix: make([]byte, width*pages)}
}

// Size returns the frame dimensions.
func (f *Frame) Size() (width, height int) { return f.width, f.height }

// Clear sets every pixel to the given state.
func (f *Frame) Clear(on bool) {
	fill := byte(0)
	if on {
		fill = 0xFF
	}
	for i := range f.pix {
		f.pix[i] = fill
	}
}

// SetOn lights or darkens one pixel. Out of range coordinates are ignored.
func (f *Frame) SetOn(x, y int, on bool) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	idx, bit := f.offset(x, y)
	if on {
		f.pix[idx] |= bit
	} else {
		f.pix[idx] &^= bit
	}
}

// On reports whether a pixel is lit.
func (f *Frame) On(x, y int) bool {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return false
	}
	idx, bit := f.offset(x, y)
	return f.pix[idx]&bit != 0
}

func (f *Frame) offset(x, y int) (int, byte) {
	return (y/8)*f.width + x, byte(1) << uint(y%8)
}

// Lit counts lit pixels.
func (f *Frame) Lit() int {
	n := 0
	for _, b := range f.pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// Pages returns a copy of the raw page buffer.
func (f *Frame) Pages() []byte {
	out := make([]byte, len(f.pix))
	copy(out, f.pix)
	return out
}

// Clone returns an independent copy.
func (f *Frame) Clone() *Frame {
	return &Frame{width: f.width, height: f.height, pix: f.Pages()}
}

// CopyFrom overwrites f with other. Frames of different size are cropped.
func (f *Frame) CopyFrom(other *Frame) {
	if other.width == f.width && other.height == f.height {
		copy(f.pix, other.pix)
		return
	}
	f.Clear(false)
	for y := 0; y < other.height && y < f.height; y++ {
		for x := 0; x < other.width && x < f.width; x++ {
			f.SetOn(x, y, other.On(x, y))
		}
	}
}

// Equal compares dimensions and pixels.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || f.width != other.width || f.height != other.height {
		return false
	}
	for i := range f.pix {
		if f.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// ColorModel, Bounds, At and Set make Frame a draw.Image so the image and
// font packages can render into it.
func (f *Frame) ColorModel() color.Model { return color.GrayModel }

func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.width, f.height) }

func (f *Frame) At(x, y int) color.Color {
	if f.On(x, y) {
		return color.White
	}
	return color.Black
}

func (f *Frame) Set(x, y int, c color.Color) {
	f.SetOn(x, y, isOn(c))
}

// SetPixel and Display match the TinyGo drivers.Displayer shape.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	f.SetOn(int(x), int(y), isOn(c))
}

func (f *Frame) Display() error { return nil }

func isOn(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y >= 0x80
}
