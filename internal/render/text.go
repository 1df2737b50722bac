package render

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/kingrea/two-four-eighteen/internal/display"
)

const (
	bigSize    = 20
	mediumSize = 10
)

// StartupMessage is shown until the first seeded trigger.
const StartupMessage = "Break the beam for\nat least one second\nto start the game."

// WinMessage is the banner of a perfect hand.
const WinMessage = "18!\nYou Win!"

// FishMessage is shown when the hand lacks a Four or a Two.
const FishMessage = "Fish!"

// Face is a sized font face that knows which runes its font covers.
type Face struct {
	font.Face
	src *opentype.Font
	buf sfnt.Buffer
}

// Covers reports whether the font has a glyph for r.
func (f *Face) Covers(r rune) bool {
	idx, err := f.src.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

// Fonts holds the two text faces. Faces are not safe for concurrent use, so
// every task renders with its own Fonts.
type Fonts struct {
	Big    *Face
	Medium *Face
}

// LoadFonts parses the embedded Go fonts.
func LoadFonts() (*Fonts, error) {
	big, err := newFace(gobold.TTF, bigSize)
	if err != nil {
		return nil, display.FontError("load big font", err)
	}
	medium, err := newFace(goregular.TTF, mediumSize)
	if err != nil {
		return nil, display.FontError("load medium font", err)
	}
	return &Fonts{Big: big, Medium: medium}, nil
}

func newFace(ttf []byte, size float64) (*Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return &Face{Face: face, src: parsed}, nil
}

// BigCenteredMessage clears f and draws text centred in the big face.
func (fs *Fonts) BigCenteredMessage(f *display.Frame, text string) error {
	return CenteredMessage(f, fs.Big, text)
}

// MediumCenteredMessage clears f and draws text centred in the medium face.
func (fs *Fonts) MediumCenteredMessage(f *display.Frame, text string) error {
	return CenteredMessage(f, fs.Medium, text)
}

// CenteredMessage clears f and draws each line of text horizontally centred,
// the block vertically centred. Runes the face cannot render are a font error.
func CenteredMessage(f *display.Frame, face *Face, text string) error {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		for _, r := range line {
			if !face.Covers(r) {
				return display.FontError("glyph", fmt.Errorf("no glyph for %q", r))
			}
		}
	}

	f.Clear(false)
	bounds := f.Bounds()
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	top := (bounds.Dy() - lineHeight*len(lines)) / 2

	d := font.Drawer{Dst: f, Src: image.White, Face: face}
	for i, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		x := (bounds.Dx() - width) / 2
		baseline := top + i*lineHeight + metrics.Ascent.Ceil()
		d.Dot = fixed.P(x, baseline)
		d.DrawString(line)
	}
	return nil
}
