package adapter

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// exceptionHandler routes connection-level vendor failures and listener
// callback errors. It is shared by a connection and every session and
// consumer derived from it.
type exceptionHandler struct {
	mu     sync.RWMutex
	fn     func(error)
	logger zerolog.Logger
}

func newExceptionHandler(logger zerolog.Logger) *exceptionHandler {
	return &exceptionHandler{logger: logger}
}

func (h *exceptionHandler) set(fn func(error)) {
	h.mu.Lock()
	h.fn = fn
	h.mu.Unlock()
}

func (h *exceptionHandler) dispatch(err error) {
	h.mu.RLock()
	fn := h.fn
	h.mu.RUnlock()
	if fn != nil {
		fn(err)
		return
	}
	h.logger.Error().Err(err).Msg("adapter: unhandled asynchronous error")
}

// connectionOps is the per-variant bridge for connection operations. The
// classic bridge creates non-transacted auto-acknowledge sessions.
type connectionOps interface {
	createSession() (any, error)
	start() error
	stop() error
	close() error
	setExceptionListener(fn func(error)) error
}

// Connection wraps a vendor connection. Start runs under the provider
// boundary's resolution context because vendors may spawn worker goroutines
// from it.
type Connection struct {
	handle     any
	variant    Variant
	resolver   boundary.Resolver
	logger     zerolog.Logger
	exceptions *exceptionHandler
	ops        connectionOps
}

// NewConnection wraps a vendor connection handle.
func NewConnection(handle any, resolver boundary.Resolver, logger zerolog.Logger) *Connection {
	c := &Connection{
		handle:     handle,
		resolver:   resolver,
		logger:     logger,
		exceptions: newExceptionHandler(logger),
	}
	switch vendor := handle.(type) {
	case modern.Connection:
		c.variant = VariantModern
		c.ops = modernConnection{c: vendor}
	case classic.Connection:
		c.variant = VariantClassic
		c.ops = classicConnection{c: vendor}
	}
	return c
}

// Handle returns the wrapped vendor connection.
func (c *Connection) Handle() any { return c.handle }

// Variant returns the namespace variant detected at wrap time.
func (c *Connection) Variant() Variant { return c.variant }

// CreateSession creates a session. The classic namespace gets a
// non-transacted auto-acknowledge session; the modern one its default.
func (c *Connection) CreateSession() (*Session, error) {
	if c.ops == nil {
		return nil, opError("create session", ErrUnknownNamespace)
	}
	raw, err := c.ops.createSession()
	if err != nil {
		return nil, opError("create session", err)
	}
	return newSession(raw, c.resolver, c.logger, c.exceptions), nil
}

// Start starts message delivery, under the resolution context so vendor
// worker goroutines inherit the provider boundary. Starting an already
// started connection is as idempotent as the vendor call itself.
func (c *Connection) Start() error {
	if c.ops == nil {
		return opError("start connection", ErrUnknownNamespace)
	}
	err := boundary.WithResolutionContext(c.resolver, func() error {
		return c.ops.start()
	})
	if err != nil {
		return opError("start connection", err)
	}
	return nil
}

// Stop pauses message delivery.
func (c *Connection) Stop() error {
	if c.ops == nil {
		return opError("stop connection", ErrUnknownNamespace)
	}
	if err := c.ops.stop(); err != nil {
		return opError("stop connection", err)
	}
	return nil
}

// Close closes the vendor connection.
func (c *Connection) Close() error {
	if c.ops == nil {
		return opError("close connection", ErrUnknownNamespace)
	}
	if err := c.ops.close(); err != nil {
		return opError("close connection", err)
	}
	return nil
}

// SetExceptionListener registers fn for connection-level failures. The same
// listener also receives errors returned by message listeners on consumers
// derived from this connection.
func (c *Connection) SetExceptionListener(fn func(error)) error {
	if c.ops == nil {
		return opError("set exception listener", ErrUnknownNamespace)
	}
	c.exceptions.set(fn)
	err := c.ops.setExceptionListener(func(vendorErr error) {
		c.exceptions.dispatch(opError("connection error", vendorErr))
	})
	if err != nil {
		return opError("set exception listener", err)
	}
	return nil
}

type classicConnection struct {
	c classic.Connection
}

func (c classicConnection) createSession() (any, error) {
	return c.c.CreateSession(false, classic.AutoAcknowledge)
}

func (c classicConnection) start() error { return c.c.Start() }
func (c classicConnection) stop() error  { return c.c.Stop() }
func (c classicConnection) close() error { return c.c.Close() }
func (c classicConnection) setExceptionListener(fn func(error)) error {
	return c.c.SetExceptionListener(classic.ExceptionListener(fn))
}

type modernConnection struct {
	c modern.Connection
}

func (m modernConnection) createSession() (any, error) { return m.c.CreateSession() }
func (m modernConnection) start() error                { return m.c.Start() }
func (m modernConnection) stop() error                 { return m.c.Stop() }
func (m modernConnection) close() error                { return m.c.Close() }
func (m modernConnection) setExceptionListener(fn func(error)) error {
	return m.c.SetExceptionListener(modern.ExceptionListener(fn))
}
