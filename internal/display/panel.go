package display

import (
	"sync"
	"sync/atomic"
)

// Panel is a physical (or simulated) screen. Draw copies a frame into the
// panel's buffer; Flush pushes the buffer to the glass.
type Panel interface {
	Size() (width, height int)
	Clear(on bool) error
	Draw(f *Frame) error
	Flush() error
	SetInvert(inverted bool) error
}

// OpKind names a recorded panel call.
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpDraw   OpKind = "draw"
	OpFlush  OpKind = "flush"
	OpInvert OpKind = "invert"
)

// Op is one recorded panel call.
type Op struct {
	Kind     OpKind
	Frame    *Frame
	Inverted bool
}

// Recorder is an in-memory Panel that never fails. It keeps a log of calls
// and counts calls that overlapped, which must never happen behind an Owner.
type Recorder struct {
	width  int
	height int

	active   atomic.Int32
	overlaps atomic.Int32

	mu       sync.Mutex
	ops      []Op
	buffer   *Frame
	shown    *Frame
	inverted bool
	notify   chan Op
}

// NewRecorder returns a recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:  width,
		height: height,
		buffer: NewFrame(width, height),
		shown:  NewFrame(width, height),
	}
}

// Notify returns a channel that receives a copy of every op. It must be
// called before the recorder is used.
func (r *Recorder) Notify(capacity int) <-chan Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notify = make(chan Op, capacity)
	return r.notify
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Clear(on bool) error {
	r.record(Op{Kind: OpClear}, func() { r.buffer.Clear(on) })
	return nil
}

func (r *Recorder) Draw(f *Frame) error {
	r.record(Op{Kind: OpDraw, Frame: f.Clone()}, func() { r.buffer.CopyFrom(f) })
	return nil
}

func (r *Recorder) Flush() error {
	r.record(Op{Kind: OpFlush}, func() { r.shown.CopyFrom(r.buffer) })
	return nil
}

func (r *Recorder) SetInvert(inverted bool) error {
	r.record(Op{Kind: OpInvert, Inverted: inverted}, func() { r.inverted = inverted })
	return nil
}

func (r *Recorder) record(op Op, apply func()) {
	if r.active.Add(1) > 1 {
		r.overlaps.Add(1)
	}
	defer r.active.Add(-1)
	r.mu.Lock()
	apply()
	r.ops = append(r.ops, op)
	notify := r.notify
	r.mu.Unlock()
	if notify != nil {
		notify <- op
	}
}

// Ops returns the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Shown returns a copy of the last flushed frame.
func (r *Recorder) Shown() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown.Clone()
}

// Inverted reports the current inversion state.
func (r *Recorder) Inverted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inverted
}

// Overlaps reports how many calls started while another was in flight.
func (r *Recorder) Overlaps() int {
	return int(r.overlaps.Load())
}
