// Package adapter wraps opaque vendor objects behind namespace-polymorphic
// adapters. Each adapter pairs one vendor handle with the namespace variant
// detected at wrap time and translates every operation into the concrete
// call for that variant.
package adapter

import "errors"

// ErrUnknownNamespace reports an object that matches neither supported
// namespace variant for its capability.
var ErrUnknownNamespace = errors.New("object matches no supported namespace variant")

// ErrUnsupportedDestination reports a destination whose vendor type matches
// neither the queue nor the topic role.
var ErrUnsupportedDestination = errors.New("destination matches neither queue nor topic role")

// ErrUnsupportedScheme reports a destination URL with a scheme other than
// queue or topic.
var ErrUnsupportedScheme = errors.New("unsupported destination URL scheme")

// ErrVariantMismatch reports an argument wrapped for a different namespace
// variant than the adapter it was passed to.
var ErrVariantMismatch = errors.New("argument belongs to a different namespace variant")

// ErrNotSupportedByVariant reports an operation absent from the active
// namespace variant, such as delivery time on the classic namespace.
var ErrNotSupportedByVariant = errors.New("operation not supported by active namespace variant")

// ErrNotTextMessage reports a text body accessor called on a message whose
// body is not text.
var ErrNotTextMessage = errors.New("message does not carry a text body")

// ErrNotBytesMessage reports a bytes body accessor called on a message whose
// body is not raw bytes.
var ErrNotBytesMessage = errors.New("message does not carry a bytes body")

// OpError is the unified error kind raised by every adapter operation. Op is
// a short description of the attempted operation; Err carries the underlying
// vendor failure.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, err error) *OpError {
	return &OpError{Op: op, Err: err}
}
