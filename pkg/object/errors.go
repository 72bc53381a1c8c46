package object

import (
	"errors"
	"fmt"
)

var (
	// ErrObjectNotFound is returned when no stored object exists for an id.
	ErrObjectNotFound = errors.New("object not found")
	// ErrCorruptObject is returned when stored bytes fail to decompress or
	// do not hash back to their id.
	ErrCorruptObject = errors.New("corrupt object")
	// ErrMalformedObject is returned when decompressed bytes fail header or
	// size validation.
	ErrMalformedObject = errors.New("malformed object")
	// ErrAmbiguousPrefix is returned when an abbreviated id matches more
	// than one object.
	ErrAmbiguousPrefix = errors.New("ambiguous object id prefix")
)

// ObjectError records a failed store operation and the id it was applied to.
type ObjectError struct {
	Op   string
	Hash Hash
	Err  error
}

func (e *ObjectError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Hash == "" {
		return fmt.Sprintf("object %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("object %s %s: %v", e.Op, e.Hash, e.Err)
}

func (e *ObjectError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func objectErr(op string, h Hash, err error) error {
	return &ObjectError{Op: op, Hash: h, Err: err}
}
