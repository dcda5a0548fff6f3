package adapter

import (
	"time"

	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// producerOps is the per-variant bridge for producer operations.
type producerOps interface {
	send(raw any) error
	sendWith(raw any, deliveryMode, priority int, timeToLive time.Duration) error
	priority() (int, error)
	timeToLive() (time.Duration, error)
	close() error
}

// MessageProducer wraps a vendor message producer.
type MessageProducer struct {
	handle  any
	variant Variant
	ops     producerOps
}

// NewMessageProducer wraps a vendor producer handle.
func NewMessageProducer(handle any) *MessageProducer {
	p := &MessageProducer{handle: handle}
	switch vendor := handle.(type) {
	case modern.MessageProducer:
		p.variant = VariantModern
		p.ops = modernProducer{p: vendor}
	case classic.MessageProducer:
		p.variant = VariantClassic
		p.ops = classicProducer{p: vendor}
	}
	return p
}

// Handle returns the wrapped vendor producer.
func (p *MessageProducer) Handle() any { return p.handle }

// Variant returns the namespace variant detected at wrap time.
func (p *MessageProducer) Variant() Variant { return p.variant }

// Send sends a message with the producer's configured delivery defaults.
func (p *MessageProducer) Send(m *Message) error {
	if p.ops == nil {
		return opError("send message", ErrUnknownNamespace)
	}
	if err := p.ops.send(m.Handle()); err != nil {
		return opError("send message", err)
	}
	return nil
}

// SendMode sends a message with an explicit delivery mode, keeping the
// producer's configured priority and time to live.
func (p *MessageProducer) SendMode(m *Message, deliveryMode int) error {
	if p.ops == nil {
		return opError("send message", ErrUnknownNamespace)
	}
	priority, err := p.ops.priority()
	if err != nil {
		return opError("send message", err)
	}
	ttl, err := p.ops.timeToLive()
	if err != nil {
		return opError("send message", err)
	}
	if err := p.ops.sendWith(m.Handle(), deliveryMode, priority, ttl); err != nil {
		return opError("send message", err)
	}
	return nil
}

// SendModePriority sends a message with explicit delivery mode and priority,
// keeping the producer's configured time to live.
func (p *MessageProducer) SendModePriority(m *Message, deliveryMode, priority int) error {
	if p.ops == nil {
		return opError("send message", ErrUnknownNamespace)
	}
	ttl, err := p.ops.timeToLive()
	if err != nil {
		return opError("send message", err)
	}
	if err := p.ops.sendWith(m.Handle(), deliveryMode, priority, ttl); err != nil {
		return opError("send message", err)
	}
	return nil
}

// SendWith sends a message with explicit delivery mode, priority and time to
// live.
func (p *MessageProducer) SendWith(m *Message, deliveryMode, priority int, timeToLive time.Duration) error {
	if p.ops == nil {
		return opError("send message", ErrUnknownNamespace)
	}
	if err := p.ops.sendWith(m.Handle(), deliveryMode, priority, timeToLive); err != nil {
		return opError("send message", err)
	}
	return nil
}

// Close closes the vendor producer.
func (p *MessageProducer) Close() error {
	if p.ops == nil {
		return opError("close producer", ErrUnknownNamespace)
	}
	if err := p.ops.close(); err != nil {
		return opError("close producer", err)
	}
	return nil
}

type classicProducer struct {
	p classic.MessageProducer
}

func (c classicProducer) send(raw any) error {
	m, ok := raw.(classic.Message)
	if !ok {
		return ErrVariantMismatch
	}
	return c.p.Send(m)
}

func (c classicProducer) sendWith(raw any, deliveryMode, priority int, timeToLive time.Duration) error {
	m, ok := raw.(classic.Message)
	if !ok {
		return ErrVariantMismatch
	}
	return c.p.SendWith(m, deliveryMode, priority, timeToLive)
}

func (c classicProducer) priority() (int, error)            { return c.p.Priority() }
func (c classicProducer) timeToLive() (time.Duration, error) { return c.p.TimeToLive() }
func (c classicProducer) close() error                      { return c.p.Close() }

type modernProducer struct {
	p modern.MessageProducer
}

func (m modernProducer) send(raw any) error {
	msg, ok := raw.(modern.Message)
	if !ok {
		return ErrVariantMismatch
	}
	return m.p.Send(msg)
}

func (m modernProducer) sendWith(raw any, deliveryMode, priority int, timeToLive time.Duration) error {
	msg, ok := raw.(modern.Message)
	if !ok {
		return ErrVariantMismatch
	}
	return m.p.SendWith(msg, deliveryMode, priority, timeToLive)
}

func (m modernProducer) priority() (int, error)            { return m.p.Priority() }
func (m modernProducer) timeToLive() (time.Duration, error) { return m.p.TimeToLive() }
func (m modernProducer) close() error                      { return m.p.Close() }
