package adapter

import "github.com/conapi-oss/jms-adapter/spi/classic"

// classicMessage bridges messageOps onto the legacy namespace. The delivery
// time header does not exist there and reports ErrNotSupportedByVariant.
type classicMessage struct {
	m classic.Message
}

func (c *classicMessage) messageID() (string, error)     { return c.m.MessageID() }
func (c *classicMessage) setMessageID(id string) error   { return c.m.SetMessageID(id) }
func (c *classicMessage) timestamp() (int64, error)      { return c.m.Timestamp() }
func (c *classicMessage) setTimestamp(ts int64) error    { return c.m.SetTimestamp(ts) }
func (c *classicMessage) correlationID() (string, error) { return c.m.CorrelationID() }
func (c *classicMessage) setCorrelationID(id string) error {
	return c.m.SetCorrelationID(id)
}

func (c *classicMessage) replyTo() (any, error) {
	d, err := c.m.ReplyTo()
	if err != nil || d == nil {
		return nil, err
	}
	return d, nil
}

func (c *classicMessage) setReplyTo(raw any) error {
	d, ok := raw.(classic.Destination)
	if !ok {
		return ErrVariantMismatch
	}
	return c.m.SetReplyTo(d)
}

func (c *classicMessage) destination() (any, error) {
	d, err := c.m.Destination()
	if err != nil || d == nil {
		return nil, err
	}
	return d, nil
}

func (c *classicMessage) setDestination(raw any) error {
	d, ok := raw.(classic.Destination)
	if !ok {
		return ErrVariantMismatch
	}
	return c.m.SetDestination(d)
}

func (c *classicMessage) deliveryMode() (int, error)    { return c.m.DeliveryMode() }
func (c *classicMessage) setDeliveryMode(mode int) error { return c.m.SetDeliveryMode(mode) }
func (c *classicMessage) redelivered() (bool, error)    { return c.m.Redelivered() }
func (c *classicMessage) setRedelivered(r bool) error   { return c.m.SetRedelivered(r) }
func (c *classicMessage) messageType() (string, error)  { return c.m.Type() }
func (c *classicMessage) setMessageType(t string) error { return c.m.SetType(t) }
func (c *classicMessage) expiration() (int64, error)    { return c.m.Expiration() }
func (c *classicMessage) setExpiration(exp int64) error { return c.m.SetExpiration(exp) }

func (c *classicMessage) deliveryTime() (int64, error) { return 0, ErrNotSupportedByVariant }
func (c *classicMessage) setDeliveryTime(int64) error  { return ErrNotSupportedByVariant }

func (c *classicMessage) priority() (int, error)          { return c.m.Priority() }
func (c *classicMessage) setPriority(priority int) error  { return c.m.SetPriority(priority) }
func (c *classicMessage) propertyNames() ([]string, error) { return c.m.PropertyNames() }
func (c *classicMessage) objectProperty(name string) (any, error) {
	return c.m.ObjectProperty(name)
}

func (c *classicMessage) stringProperty(name string) (string, error) {
	return c.m.StringProperty(name)
}

func (c *classicMessage) setObjectProperty(name string, value any) error {
	return c.m.SetObjectProperty(name, value)
}

func (c *classicMessage) clearProperties() error { return c.m.ClearProperties() }
func (c *classicMessage) clearBody() error       { return c.m.ClearBody() }
func (c *classicMessage) acknowledge() error     { return c.m.Acknowledge() }

func (c *classicMessage) isText() bool {
	_, ok := c.m.(classic.TextMessage)
	return ok
}

func (c *classicMessage) isBytes() bool {
	_, ok := c.m.(classic.BytesMessage)
	return ok
}

func (c *classicMessage) text() (string, error) {
	text, ok := c.m.(classic.TextMessage)
	if !ok {
		return "", ErrNotTextMessage
	}
	return text.Text()
}

func (c *classicMessage) bodyLength() (int64, error) {
	bytes, ok := c.m.(classic.BytesMessage)
	if !ok {
		return 0, ErrNotBytesMessage
	}
	return bytes.BodyLength()
}

func (c *classicMessage) readBytes(p []byte) (int, error) {
	bytes, ok := c.m.(classic.BytesMessage)
	if !ok {
		return 0, ErrNotBytesMessage
	}
	return bytes.ReadBytes(p)
}
