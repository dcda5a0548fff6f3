package amqp

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/conapi-oss/jms-adapter/spi/modern"
)

type bodyKind int

const (
	bodyText bodyKind = iota + 1
	bodyBytes
)

const (
	contentTypeText  = "text/plain"
	contentTypeBytes = "application/octet-stream"
)

// message implements the modern message contract over AMQP metadata. The
// same type backs both freshly created messages and wrapped deliveries.
type message struct {
	modern.Tag
	mu            sync.Mutex
	id            string
	timestamp     int64
	correlationID string
	replyTo       modern.Destination
	destination   modern.Destination
	mode          int
	redelivered   bool
	msgType       string
	expiration    int64
	deliveryTime  int64
	priority      int
	props         map[string]any
	kind          bodyKind
	text          string
	body          []byte
}

func newMessage(kind bodyKind) *message {
	return &message{kind: kind, priority: 4, props: make(map[string]any)}
}

type textMessage struct{ *message }

func (m *textMessage) Text() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *textMessage) SetText(t string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = t
	return nil
}

type bytesMessage struct{ *message }

func (m *bytesMessage) BodyLength() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.body)), nil
}

func (m *bytesMessage) ReadBytes(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copy(p, m.body), nil
}

func (m *bytesMessage) WriteBytes(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = append(m.body, p...)
	return nil
}

func (m *message) MessageID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

func (m *message) SetMessageID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

func (m *message) Timestamp() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timestamp, nil
}

func (m *message) SetTimestamp(ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timestamp = ts
	return nil
}

func (m *message) CorrelationID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.correlationID, nil
}

func (m *message) SetCorrelationID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.correlationID = id
	return nil
}

func (m *message) ReplyTo() (modern.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replyTo, nil
}

func (m *message) SetReplyTo(d modern.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replyTo = d
	return nil
}

func (m *message) Destination() (modern.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destination, nil
}

func (m *message) SetDestination(d modern.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destination = d
	return nil
}

func (m *message) DeliveryMode() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode, nil
}

func (m *message) SetDeliveryMode(mode int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	return nil
}

func (m *message) Redelivered() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redelivered, nil
}

func (m *message) SetRedelivered(redelivered bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redelivered = redelivered
	return nil
}

func (m *message) Type() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msgType, nil
}

func (m *message) SetType(t string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgType = t
	return nil
}

func (m *message) Expiration() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiration, nil
}

func (m *message) SetExpiration(exp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiration = exp
	return nil
}

func (m *message) DeliveryTime() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveryTime, nil
}

func (m *message) SetDeliveryTime(ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveryTime = ts
	return nil
}

func (m *message) Priority() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priority, nil
}

func (m *message) SetPriority(priority int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priority = priority
	return nil
}

func (m *message) PropertyNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.props))
	for name := range m.props {
		names = append(names, name)
	}
	return names, nil
}

func (m *message) ObjectProperty(name string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.props[name], nil
}

func (m *message) StringProperty(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.props[name]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

func (m *message) SetObjectProperty(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[name] = value
	return nil
}

func (m *message) ClearProperties() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props = make(map[string]any)
	return nil
}

func (m *message) ClearBody() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.body = nil
	return nil
}

// Acknowledge is a no-op: deliveries are consumed in auto-acknowledge mode.
func (m *message) Acknowledge() error { return nil }

// toPublishing renders the message into the AMQP wire representation. The
// absolute expiration header becomes a relative per-message TTL.
func (m *message) toPublishing() (amqp091.Publishing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pub := amqp091.Publishing{
		MessageId:     m.id,
		CorrelationId: m.correlationID,
		Type:          m.msgType,
		Priority:      uint8(m.priority),
		Headers:       amqp091.Table{},
	}
	if m.timestamp > 0 {
		pub.Timestamp = time.UnixMilli(m.timestamp)
	}
	if m.mode == modern.DeliveryModePersistent {
		pub.DeliveryMode = amqp091.Persistent
	} else {
		pub.DeliveryMode = amqp091.Transient
	}
	if m.expiration > 0 {
		ttl := time.Until(time.UnixMilli(m.expiration))
		if ttl <= 0 {
			return amqp091.Publishing{}, errors.New("amqp: message already expired")
		}
		pub.Expiration = strconv.FormatInt(ttl.Milliseconds(), 10)
	}
	for name, value := range m.props {
		pub.Headers[name] = value
	}
	if q, ok := m.replyTo.(*queueDestination); ok {
		pub.ReplyTo = q.name
	}
	switch m.kind {
	case bodyText:
		pub.ContentType = contentTypeText
		pub.Body = []byte(m.text)
	default:
		pub.ContentType = contentTypeBytes
		pub.Body = m.body
	}
	return pub, nil
}

// fromDelivery wraps a consumed delivery. Text content types surface as a
// text message, everything else as bytes.
func fromDelivery(d amqp091.Delivery, dest modern.Destination) modern.Message {
	m := newMessage(bodyBytes)
	m.id = d.MessageId
	m.correlationID = d.CorrelationId
	m.msgType = d.Type
	m.priority = int(d.Priority)
	m.redelivered = d.Redelivered
	m.destination = dest
	if !d.Timestamp.IsZero() {
		m.timestamp = d.Timestamp.UnixMilli()
	}
	if d.DeliveryMode == amqp091.Persistent {
		m.mode = modern.DeliveryModePersistent
	} else {
		m.mode = modern.DeliveryModeNonPersistent
	}
	if d.Expiration != "" {
		if ttl, err := strconv.ParseInt(d.Expiration, 10, 64); err == nil {
			m.expiration = time.Now().UnixMilli() + ttl
		}
	}
	if d.ReplyTo != "" {
		m.replyTo = &queueDestination{name: d.ReplyTo}
	}
	for name, value := range d.Headers {
		m.props[name] = value
	}
	if d.ContentType == contentTypeText {
		m.kind = bodyText
		m.text = string(d.Body)
		return &textMessage{m}
	}
	m.body = d.Body
	return &bytesMessage{m}
}
