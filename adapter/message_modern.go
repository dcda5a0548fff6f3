package adapter

import "github.com/conapi-oss/jms-adapter/spi/modern"

// modernMessage bridges messageOps onto the current namespace.
type modernMessage struct {
	m modern.Message
}

func (b *modernMessage) messageID() (string, error)     { return b.m.MessageID() }
func (b *modernMessage) setMessageID(id string) error   { return b.m.SetMessageID(id) }
func (b *modernMessage) timestamp() (int64, error)      { return b.m.Timestamp() }
func (b *modernMessage) setTimestamp(ts int64) error    { return b.m.SetTimestamp(ts) }
func (b *modernMessage) correlationID() (string, error) { return b.m.CorrelationID() }
func (b *modernMessage) setCorrelationID(id string) error {
	return b.m.SetCorrelationID(id)
}

func (b *modernMessage) replyTo() (any, error) {
	d, err := b.m.ReplyTo()
	if err != nil || d == nil {
		return nil, err
	}
	return d, nil
}

func (b *modernMessage) setReplyTo(raw any) error {
	d, ok := raw.(modern.Destination)
	if !ok {
		return ErrVariantMismatch
	}
	return b.m.SetReplyTo(d)
}

func (b *modernMessage) destination() (any, error) {
	d, err := b.m.Destination()
	if err != nil || d == nil {
		return nil, err
	}
	return d, nil
}

func (b *modernMessage) setDestination(raw any) error {
	d, ok := raw.(modern.Destination)
	if !ok {
		return ErrVariantMismatch
	}
	return b.m.SetDestination(d)
}

func (b *modernMessage) deliveryMode() (int, error)     { return b.m.DeliveryMode() }
func (b *modernMessage) setDeliveryMode(mode int) error { return b.m.SetDeliveryMode(mode) }
func (b *modernMessage) redelivered() (bool, error)     { return b.m.Redelivered() }
func (b *modernMessage) setRedelivered(r bool) error    { return b.m.SetRedelivered(r) }
func (b *modernMessage) messageType() (string, error)   { return b.m.Type() }
func (b *modernMessage) setMessageType(t string) error  { return b.m.SetType(t) }
func (b *modernMessage) expiration() (int64, error)     { return b.m.Expiration() }
func (b *modernMessage) setExpiration(exp int64) error  { return b.m.SetExpiration(exp) }
func (b *modernMessage) deliveryTime() (int64, error)   { return b.m.DeliveryTime() }
func (b *modernMessage) setDeliveryTime(ts int64) error { return b.m.SetDeliveryTime(ts) }
func (b *modernMessage) priority() (int, error)         { return b.m.Priority() }
func (b *modernMessage) setPriority(priority int) error { return b.m.SetPriority(priority) }
func (b *modernMessage) propertyNames() ([]string, error) {
	return b.m.PropertyNames()
}

func (b *modernMessage) objectProperty(name string) (any, error) {
	return b.m.ObjectProperty(name)
}

func (b *modernMessage) stringProperty(name string) (string, error) {
	return b.m.StringProperty(name)
}

func (b *modernMessage) setObjectProperty(name string, value any) error {
	return b.m.SetObjectProperty(name, value)
}

func (b *modernMessage) clearProperties() error { return b.m.ClearProperties() }
func (b *modernMessage) clearBody() error       { return b.m.ClearBody() }
func (b *modernMessage) acknowledge() error     { return b.m.Acknowledge() }

func (b *modernMessage) isText() bool {
	_, ok := b.m.(modern.TextMessage)
	return ok
}

func (b *modernMessage) isBytes() bool {
	_, ok := b.m.(modern.BytesMessage)
	return ok
}

func (b *modernMessage) text() (string, error) {
	text, ok := b.m.(modern.TextMessage)
	if !ok {
		return "", ErrNotTextMessage
	}
	return text.Text()
}

func (b *modernMessage) bodyLength() (int64, error) {
	bytes, ok := b.m.(modern.BytesMessage)
	if !ok {
		return 0, ErrNotBytesMessage
	}
	return bytes.BodyLength()
}

func (b *modernMessage) readBytes(p []byte) (int, error) {
	bytes, ok := b.m.(modern.BytesMessage)
	if !ok {
		return 0, ErrNotBytesMessage
	}
	return bytes.ReadBytes(p)
}
