package detection

import (
	"errors"
	"fmt"
)

// Sentinel errors for detector setup.
var (
	// ErrModelNotFound is returned when a model file does not exist.
	ErrModelNotFound = errors.New("detection: model file not found")

	// ErrModelLoad is returned when OpenCV cannot build a network from the model.
	ErrModelLoad = errors.New("detection: failed to load model")

	// ErrEmptyFrame is returned when asked to detect on a frame with no pixels.
	ErrEmptyFrame = errors.New("detection: empty frame")
)

// Operations recorded in Error.Op.
const (
	OpInit   = "init"
	OpDetect = "detect"
)

// Error reports a detector failure together with the backend and the
// operation that failed. Both kinds are fatal to a session.
type Error struct {
	// Backend identifies the detector ("ssd", "yunet", "mock").
	Backend string

	// Op is OpInit when loading the model, OpDetect when running it.
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("detection [%s] %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInit reports whether err is a detector initialization failure.
func IsInit(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Op == OpInit
}

// WrapError wraps err as a detector error, leaving nil and already wrapped
// errors untouched.
func WrapError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Backend: backend, Op: op, Err: err}
}
