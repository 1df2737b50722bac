package render

import (
	"image"
	"math"

	"github.com/kingrea/two-four-eighteen/internal/dice"
	"github.com/kingrea/two-four-eighteen/internal/display"
)

// Grid returns the near-square layout for n dice.
func Grid(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// Layout returns one square cell per die, centred in bounds.
func Layout(bounds image.Rectangle, n int) []image.Rectangle {
	cols, rows := Grid(n)
	if cols == 0 {
		return nil
	}
	cell := min(bounds.Dx()/cols, bounds.Dy()/rows)
	if cell <= 0 {
		return nil
	}
	margin := max(cell/8, 1)
	size := cell - 2*margin
	origin := bounds.Min.Add(image.Pt(
		(bounds.Dx()-cols*cell)/2,
		(bounds.Dy()-rows*cell)/2,
	))
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		at := origin.Add(image.Pt(col*cell+margin, row*cell+margin))
		out = append(out, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))})
	}
	return out
}

// DrawDice clears f and draws every die of s in a grid.
func DrawDice(f *display.Frame, s dice.Set) {
	f.Clear(false)
	faces := s.Faces()
	for i, cell := range Layout(f.Bounds(), len(faces)) {
		DrawDie(f, cell, faces[i])
	}
}

// pip positions on a 3x3 grid, indexed by face value.
var pips = [7][][2]int{
	dice.One:   {{1, 1}},
	dice.Two:   {{0, 0}, {2, 2}},
	dice.Three: {{0, 0}, {1, 1}, {2, 2}},
	dice.Four:  {{0, 0}, {2, 0}, {0, 2}, {2, 2}},
	dice.Five:  {{0, 0}, {2, 0}, {1, 1}, {0, 2}, {2, 2}},
	dice.Six:   {{0, 0}, {2, 0}, {0, 1}, {2, 1}, {0, 2}, {2, 2}},
}

// DrawDie draws a rounded outline with the pips of face inside r.
func DrawDie(f *display.Frame, r image.Rectangle, face dice.FaceValue) {
	if r.Dx() < 3 || r.Dy() < 3 || !face.Valid() {
		return
	}
	corner := r.Dx() / 8
	for x := r.Min.X + corner; x < r.Max.X-corner; x++ {
		f.SetOn(x, r.Min.Y, true)
		f.SetOn(x, r.Max.Y-1, true)
	}
	for y := r.Min.Y + corner; y < r.Max.Y-corner; y++ {
		f.SetOn(r.Min.X, y, true)
		f.SetOn(r.Max.X-1, y, true)
	}
	for i := 1; i < corner; i++ {
		f.SetOn(r.Min.X+i, r.Min.Y+corner-i, true)
		f.SetOn(r.Max.X-1-i, r.Min.Y+corner-i, true)
		f.SetOn(r.Min.X+i, r.Max.Y-1-corner+i, true)
		f.SetOn(r.Max.X-1-i, r.Max.Y-1-corner+i, true)
	}

	radius := max(r.Dx()/10, 1)
	for _, p := range pips[face] {
		c := PipCenter(r, p[0], p[1])
		fillCircle(f, c, radius)
	}
}

// PipCenter returns the centre of pip (col, row) of a die drawn in r.
func PipCenter(r image.Rectangle, col, row int) image.Point {
	return image.Pt(
		r.Min.X+r.Dx()*(col+1)/4,
		r.Min.Y+r.Dy()*(row+1)/4,
	)
}

func fillCircle(f *display.Frame, c image.Point, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				f.SetOn(c.X+dx, c.Y+dy, true)
			}
		}
	}
}
