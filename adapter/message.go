package adapter

import (
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// messageOps is the per-variant bridge for message operations. Destinations
// cross it as raw vendor handles so the public adapter can rewrap them.
type messageOps interface {
	messageID() (string, error)
	setMessageID(id string) error
	timestamp() (int64, error)
	setTimestamp(ts int64) error
	correlationID() (string, error)
	setCorrelationID(id string) error
	replyTo() (any, error)
	setReplyTo(raw any) error
	destination() (any, error)
	setDestination(raw any) error
	deliveryMode() (int, error)
	setDeliveryMode(mode int) error
	redelivered() (bool, error)
	setRedelivered(redelivered bool) error
	messageType() (string, error)
	setMessageType(t string) error
	expiration() (int64, error)
	setExpiration(exp int64) error
	deliveryTime() (int64, error)
	setDeliveryTime(ts int64) error
	priority() (int, error)
	setPriority(priority int) error

	propertyNames() ([]string, error)
	objectProperty(name string) (any, error)
	stringProperty(name string) (string, error)
	setObjectProperty(name string, value any) error
	clearProperties() error
	clearBody() error
	acknowledge() error

	isText() bool
	isBytes() bool
	text() (string, error)
	bodyLength() (int64, error)
	readBytes(p []byte) (int, error)
}

// Message wraps a vendor message of either namespace behind a uniform
// header, property and body surface.
type Message struct {
	handle  any
	variant Variant
	ops     messageOps
}

// NewMessage wraps a vendor message handle. Unlike the other adapters the
// message adapter validates eagerly: an object matching neither namespace is
// rejected at construction.
func NewMessage(handle any) (*Message, error) {
	switch m := handle.(type) {
	case modern.Message:
		return &Message{handle: handle, variant: VariantModern, ops: &modernMessage{m: m}}, nil
	case classic.Message:
		return &Message{handle: handle, variant: VariantClassic, ops: &classicMessage{m: m}}, nil
	default:
		return nil, opError("wrap message", ErrUnknownNamespace)
	}
}

// Handle returns the wrapped vendor message.
func (m *Message) Handle() any { return m.handle }

// Variant returns the namespace variant detected at wrap time.
func (m *Message) Variant() Variant { return m.variant }

// MessageID returns the broker-assigned message identifier.
func (m *Message) MessageID() (string, error) {
	id, err := m.ops.messageID()
	if err != nil {
		return "", opError("get message id", err)
	}
	return id, nil
}

// SetMessageID overrides the message identifier.
func (m *Message) SetMessageID(id string) error {
	if err := m.ops.setMessageID(id); err != nil {
		return opError("set message id", err)
	}
	return nil
}

// Timestamp returns the send timestamp in epoch milliseconds.
func (m *Message) Timestamp() (int64, error) {
	ts, err := m.ops.timestamp()
	if err != nil {
		return 0, opError("get timestamp", err)
	}
	return ts, nil
}

// SetTimestamp overrides the send timestamp.
func (m *Message) SetTimestamp(ts int64) error {
	if err := m.ops.setTimestamp(ts); err != nil {
		return opError("set timestamp", err)
	}
	return nil
}

// CorrelationID returns the correlation identifier.
func (m *Message) CorrelationID() (string, error) {
	id, err := m.ops.correlationID()
	if err != nil {
		return "", opError("get correlation id", err)
	}
	return id, nil
}

// SetCorrelationID sets the correlation identifier.
func (m *Message) SetCorrelationID(id string) error {
	if err := m.ops.setCorrelationID(id); err != nil {
		return opError("set correlation id", err)
	}
	return nil
}

// ReplyTo returns the reply destination, or nil when none is set.
func (m *Message) ReplyTo() (*Destination, error) {
	raw, err := m.ops.replyTo()
	if err != nil {
		return nil, opError("get reply-to", err)
	}
	if raw == nil {
		return nil, nil
	}
	return NewDestination(raw), nil
}

// SetReplyTo sets the reply destination.
func (m *Message) SetReplyTo(d *Destination) error {
	if err := m.ops.setReplyTo(d.Handle()); err != nil {
		return opError("set reply-to", err)
	}
	return nil
}

// Destination returns the destination the message was sent to, or nil.
func (m *Message) Destination() (*Destination, error) {
	raw, err := m.ops.destination()
	if err != nil {
		return nil, opError("get destination", err)
	}
	if raw == nil {
		return nil, nil
	}
	return NewDestination(raw), nil
}

// SetDestination sets the destination header.
func (m *Message) SetDestination(d *Destination) error {
	if err := m.ops.setDestination(d.Handle()); err != nil {
		return opError("set destination", err)
	}
	return nil
}

// DeliveryMode returns the delivery mode header.
func (m *Message) DeliveryMode() (int, error) {
	mode, err := m.ops.deliveryMode()
	if err != nil {
		return 0, opError("get delivery mode", err)
	}
	return mode, nil
}

// SetDeliveryMode sets the delivery mode header.
func (m *Message) SetDeliveryMode(mode int) error {
	if err := m.ops.setDeliveryMode(mode); err != nil {
		return opError("set delivery mode", err)
	}
	return nil
}

// Redelivered reports whether the message is being redelivered.
func (m *Message) Redelivered() (bool, error) {
	redelivered, err := m.ops.redelivered()
	if err != nil {
		return false, opError("get redelivered flag", err)
	}
	return redelivered, nil
}

// SetRedelivered sets the redelivered flag.
func (m *Message) SetRedelivered(redelivered bool) error {
	if err := m.ops.setRedelivered(redelivered); err != nil {
		return opError("set redelivered flag", err)
	}
	return nil
}

// Type returns the application-defined message type header.
func (m *Message) Type() (string, error) {
	t, err := m.ops.messageType()
	if err != nil {
		return "", opError("get message type", err)
	}
	return t, nil
}

// SetType sets the application-defined message type header.
func (m *Message) SetType(t string) error {
	if err := m.ops.setMessageType(t); err != nil {
		return opError("set message type", err)
	}
	return nil
}

// Expiration returns the expiration time in epoch milliseconds.
func (m *Message) Expiration() (int64, error) {
	exp, err := m.ops.expiration()
	if err != nil {
		return 0, opError("get expiration", err)
	}
	return exp, nil
}

// SetExpiration sets the expiration time.
func (m *Message) SetExpiration(exp int64) error {
	if err := m.ops.setExpiration(exp); err != nil {
		return opError("set expiration", err)
	}
	return nil
}

// DeliveryTime returns the delivery time header. The classic namespace has
// no such header; there the call fails with ErrNotSupportedByVariant.
func (m *Message) DeliveryTime() (int64, error) {
	ts, err := m.ops.deliveryTime()
	if err != nil {
		return 0, opError("get delivery time", err)
	}
	return ts, nil
}

// SetDeliveryTime sets the delivery time header.
func (m *Message) SetDeliveryTime(ts int64) error {
	if err := m.ops.setDeliveryTime(ts); err != nil {
		return opError("set delivery time", err)
	}
	return nil
}

// Priority returns the message priority.
func (m *Message) Priority() (int, error) {
	priority, err := m.ops.priority()
	if err != nil {
		return 0, opError("get priority", err)
	}
	return priority, nil
}

// SetPriority sets the message priority.
func (m *Message) SetPriority(priority int) error {
	if err := m.ops.setPriority(priority); err != nil {
		return opError("set priority", err)
	}
	return nil
}

// PropertyNames enumerates the names of all message properties.
func (m *Message) PropertyNames() ([]string, error) {
	names, err := m.ops.propertyNames()
	if err != nil {
		return nil, opError("enumerate properties", err)
	}
	return names, nil
}

// ObjectProperty returns the property value stored under name.
func (m *Message) ObjectProperty(name string) (any, error) {
	value, err := m.ops.objectProperty(name)
	if err != nil {
		return nil, opError("get property", err)
	}
	return value, nil
}

// StringProperty returns the property under name rendered as a string.
func (m *Message) StringProperty(name string) (string, error) {
	value, err := m.ops.stringProperty(name)
	if err != nil {
		return "", opError("get string property", err)
	}
	return value, nil
}

// SetObjectProperty stores a property value under name.
func (m *Message) SetObjectProperty(name string, value any) error {
	if err := m.ops.setObjectProperty(name, value); err != nil {
		return opError("set property", err)
	}
	return nil
}

// Properties returns all message properties as a map.
func (m *Message) Properties() (map[string]any, error) {
	names, err := m.ops.propertyNames()
	if err != nil {
		return nil, opError("enumerate properties", err)
	}
	properties := make(map[string]any, len(names))
	for _, name := range names {
		value, err := m.ops.objectProperty(name)
		if err != nil {
			return nil, opError("get property", err)
		}
		properties[name] = value
	}
	return properties, nil
}

// Metadata returns the commonly inspected headers as a map.
func (m *Message) Metadata() (map[string]any, error) {
	id, err := m.MessageID()
	if err != nil {
		return nil, err
	}
	correlationID, err := m.CorrelationID()
	if err != nil {
		return nil, err
	}
	timestamp, err := m.Timestamp()
	if err != nil {
		return nil, err
	}
	destination, err := m.Destination()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"messageID":     id,
		"correlationID": correlationID,
		"timestamp":     timestamp,
		"destination":   destination,
	}, nil
}

// ClearProperties removes all message properties.
func (m *Message) ClearProperties() error {
	if err := m.ops.clearProperties(); err != nil {
		return opError("clear properties", err)
	}
	return nil
}

// ClearBody clears the message body.
func (m *Message) ClearBody() error {
	if err := m.ops.clearBody(); err != nil {
		return opError("clear body", err)
	}
	return nil
}

// Acknowledge acknowledges the message.
func (m *Message) Acknowledge() error {
	if err := m.ops.acknowledge(); err != nil {
		return opError("acknowledge message", err)
	}
	return nil
}

// IsTextMessage reports whether the wrapped message carries a text body.
// Callers use it to pick the correct body accessor; calling Text on a
// non-text message is a failure, not an empty result.
func (m *Message) IsTextMessage() bool { return m.ops.isText() }

// IsBytesMessage reports whether the wrapped message carries a bytes body.
func (m *Message) IsBytesMessage() bool { return m.ops.isBytes() }

// Text returns the text body of a text message.
func (m *Message) Text() (string, error) {
	text, err := m.ops.text()
	if err != nil {
		return "", opError("get text body", err)
	}
	return text, nil
}

// ByteArray returns the full bytes body: the declared body length is read
// and a buffer of exactly that length is filled.
func (m *Message) ByteArray() ([]byte, error) {
	length, err := m.ops.bodyLength()
	if err != nil {
		return nil, opError("get body length", err)
	}
	buf := make([]byte, length)
	if length == 0 {
		return buf, nil
	}
	if _, err := m.ops.readBytes(buf); err != nil {
		return nil, opError("read bytes body", err)
	}
	return buf, nil
}
