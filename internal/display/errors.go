package display

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DrawError.
type ErrorKind int

const (
	// KindFont covers glyph lookup and font face construction failures.
	KindFont ErrorKind = iota + 1
	// KindDisplay covers transport and hardware failures of the panel.
	KindDisplay
)

func (k ErrorKind) String() string {
	switch k {
	case KindFont:
		return "font"
	case KindDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// DrawError is returned by every rendering path.
type DrawError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("%s error during %s: %v", e.Kind, e.Op, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }

// FontError wraps err as a KindFont DrawError.
func FontError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DrawError{Kind: KindFont, Op: op, Err: err}
}

// DisplayError wraps err as a KindDisplay DrawError. Errors that already are
// DrawErrors pass through unchanged.
func DisplayError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DrawError
	if errors.As(err, &de) {
		return err
	}
	return &DrawError{Kind: KindDisplay, Op: op, Err: err}
}

// IsKind reports whether err is a DrawError of kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *DrawError
	return errors.As(err, &de) && de.Kind == kind
}
