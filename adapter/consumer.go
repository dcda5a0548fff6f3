package adapter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// MessageListener handles asynchronously delivered messages. An error
// returned by the listener is routed to the connection exception listener
// when one is registered, otherwise logged and dropped; it is never
// re-raised onto the vendor delivery goroutine.
type MessageListener func(*Message) error

// consumerOps is the per-variant bridge for consumer operations.
type consumerOps interface {
	receive(timeout time.Duration) (any, error)
	setListener(fn func(raw any)) error
	close() error
}

// MessageConsumer wraps a vendor message consumer. Receive and listener
// registration run under the provider boundary's resolution context because
// the vendor may resolve type names on its worker goroutines afterwards.
type MessageConsumer struct {
	handle     any
	variant    Variant
	resolver   boundary.Resolver
	logger     zerolog.Logger
	exceptions *exceptionHandler
	ops        consumerOps
}

// NewMessageConsumer wraps a vendor consumer handle.
func NewMessageConsumer(handle any, resolver boundary.Resolver, logger zerolog.Logger) *MessageConsumer {
	return newMessageConsumer(handle, resolver, logger, newExceptionHandler(logger))
}

func newMessageConsumer(handle any, resolver boundary.Resolver, logger zerolog.Logger, exceptions *exceptionHandler) *MessageConsumer {
	c := &MessageConsumer{
		handle:     handle,
		resolver:   resolver,
		logger:     logger,
		exceptions: exceptions,
	}
	switch vendor := handle.(type) {
	case modern.MessageConsumer:
		c.variant = VariantModern
		c.ops = modernConsumer{c: vendor}
	case classic.MessageConsumer:
		c.variant = VariantClassic
		c.ops = classicConsumer{c: vendor}
	}
	return c
}

// Handle returns the wrapped vendor consumer.
func (c *MessageConsumer) Handle() any { return c.handle }

// Variant returns the namespace variant detected at wrap time.
func (c *MessageConsumer) Variant() Variant { return c.variant }

// Receive blocks up to timeout for the next message; zero means unbounded.
// A nil message without error indicates the timeout elapsed.
func (c *MessageConsumer) Receive(timeout time.Duration) (*Message, error) {
	if c.ops == nil {
		return nil, opError("receive message", ErrUnknownNamespace)
	}
	var raw any
	err := boundary.WithResolutionContext(c.resolver, func() error {
		var err error
		raw, err = c.ops.receive(timeout)
		return err
	})
	if err != nil {
		return nil, opError("receive message", err)
	}
	if raw == nil {
		return nil, nil
	}
	return NewMessage(raw)
}

// SetMessageListener registers l for asynchronous delivery. Registration
// runs under the resolution context so vendor worker goroutines inherit the
// provider boundary.
func (c *MessageConsumer) SetMessageListener(l MessageListener) error {
	if c.ops == nil {
		return opError("set message listener", ErrUnknownNamespace)
	}
	err := boundary.WithResolutionContext(c.resolver, func() error {
		return c.ops.setListener(func(raw any) {
			msg, err := NewMessage(raw)
			if err != nil {
				c.exceptions.dispatch(err)
				return
			}
			if err := l(msg); err != nil {
				c.exceptions.dispatch(opError("message listener", err))
			}
		})
	})
	if err != nil {
		return opError("set message listener", err)
	}
	return nil
}

// Close closes the vendor consumer. It does not interrupt a receive already
// in flight on another goroutine.
func (c *MessageConsumer) Close() error {
	if c.ops == nil {
		return opError("close consumer", ErrUnknownNamespace)
	}
	if err := c.ops.close(); err != nil {
		return opError("close consumer", err)
	}
	return nil
}

type classicConsumer struct {
	c classic.MessageConsumer
}

func (c classicConsumer) receive(timeout time.Duration) (any, error) {
	msg, err := c.c.Receive(timeout)
	if err != nil || msg == nil {
		return nil, err
	}
	return msg, nil
}

func (c classicConsumer) setListener(fn func(raw any)) error {
	return c.c.SetMessageListener(func(m classic.Message) { fn(m) })
}

func (c classicConsumer) close() error { return c.c.Close() }

type modernConsumer struct {
	c modern.MessageConsumer
}

func (m modernConsumer) receive(timeout time.Duration) (any, error) {
	msg, err := m.c.Receive(timeout)
	if err != nil || msg == nil {
		return nil, err
	}
	return msg, nil
}

func (m modernConsumer) setListener(fn func(raw any)) error {
	return m.c.SetMessageListener(func(msg modern.Message) { fn(msg) })
}

func (m modernConsumer) close() error { return m.c.Close() }
