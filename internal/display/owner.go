package display

import (
	"context"
	"errors"
)

// ErrOwnerStopped is returned for requests made after the owner stopped.
var ErrOwnerStopped = errors.New("display: owner stopped")

// Section is one critical section against the panel. It must not block on
// anything but the panel itself.
type Section func(Panel) error

type request struct {
	op      string
	section Section
	reply   chan error
}

// Owner is the only goroutine allowed to touch the panel. Tasks submit
// sections over a channel and wait for the result; a section always runs to
// completion before the next one starts.
type Owner struct {
	panel    Panel
	requests chan request
	done     chan struct{}
}

// NewOwner wraps panel. backlog bounds how many requests may queue.
func NewOwner(panel Panel, backlog int) *Owner {
	if backlog <= 0 {
		backlog = 1
	}
	return &Owner{
		panel:    panel,
		requests: make(chan request, backlog),
		done:     make(chan struct{}),
	}
}

// Size reports the panel dimensions, which never change.
func (o *Owner) Size() (width, height int) { return o.panel.Size() }

// NewFrame allocates a frame that matches the panel.
func (o *Owner) NewFrame() *Frame {
	w, h := o.panel.Size()
	return NewFrame(w, h)
}

// Run serves requests until ctx is cancelled.
func (o *Owner) Run(ctx context.Context) error {
	defer close(o.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-o.requests:
			req.reply <- DisplayError(req.op, req.section(o.panel))
		}
	}
}

// Do runs section exclusively against the panel.
func (o *Owner) Do(ctx context.Context, op string, section Section) error {
	req := request{op: op, section: section, reply: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return ErrOwnerStopped
	case o.requests <- req:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return ErrOwnerStopped
	case err := <-req.reply:
		return err
	}
}

// Show draws f and flushes it in one section.
func (o *Owner) Show(ctx context.Context, f *Frame) error {
	frame := f.Clone()
	return o.Do(ctx, "show", func(p Panel) error {
		if err := p.Draw(frame); err != nil {
			return err
		}
		return p.Flush()
	})
}

// Invert switches the panel between normal and inverted output.
func (o *Owner) Invert(ctx context.Context, inverted bool) error {
	return o.Do(ctx, "invert", func(p Panel) error {
		return p.SetInvert(inverted)
	})
}
