package inmemory

import (
	"errors"
	"fmt"
	"sync"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyText
	bodyBytes
)

// msgCore holds the namespace-independent message state. The classic and
// modern facades wrap the same core, so a message published through one
// namespace can be consumed through the other.
type msgCore struct {
	mu            sync.Mutex
	id            string
	timestamp     int64
	correlationID string
	replyTo       *destRef
	destination   *destRef
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

func newMsgCore(kind bodyKind) *msgCore {
	return &msgCore{kind: kind, priority: 4, props: make(map[string]any)}
}

func (m *msgCore) MessageID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

func (m *msgCore) SetMessageID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

func (m *msgCore) Timestamp() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timestamp, nil
}

func (m *msgCore) SetTimestamp(ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timestamp = ts
	return nil
}

func (m *msgCore) CorrelationID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.correlationID, nil
}

func (m *msgCore) SetCorrelationID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.correlationID = id
	return nil
}

func (m *msgCore) DeliveryMode() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode, nil
}

func (m *msgCore) SetDeliveryMode(mode int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	return nil
}

func (m *msgCore) Redelivered() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redelivered, nil
}

func (m *msgCore) SetRedelivered(redelivered bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redelivered = redelivered
	return nil
}

func (m *msgCore) Type() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msgType, nil
}

func (m *msgCore) SetType(t string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgType = t
	return nil
}

func (m *msgCore) Expiration() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiration, nil
}

func (m *msgCore) SetExpiration(exp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiration = exp
	return nil
}

func (m *msgCore) DeliveryTime() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveryTime, nil
}

func (m *msgCore) SetDeliveryTime(ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveryTime = ts
	return nil
}

func (m *msgCore) Priority() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priority, nil
}

func (m *msgCore) SetPriority(priority int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priority = priority
	return nil
}

func (m *msgCore) PropertyNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.props))
	for name := range m.props {
		names = append(names, name)
	}
	return names, nil
}

func (m *msgCore) ObjectProperty(name string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.props[name], nil
}

func (m *msgCore) StringProperty(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.props[name]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

func (m *msgCore) SetObjectProperty(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[name] = value
	return nil
}

func (m *msgCore) ClearProperties() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props = make(map[string]any)
	return nil
}

func (m *msgCore) ClearBody() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.body = nil
	return nil
}

// Acknowledge is a no-op: the broker removes a message from its queue when
// it is handed to a subscription.
func (m *msgCore) Acknowledge() error { return nil }

func (m *msgCore) selectorEnv() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	env := make(map[string]any, len(m.props))
	for name, value := range m.props {
		env[name] = value
	}
	return env
}

func (m *msgCore) setReplyToRef(ref *destRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replyTo = ref
}

func (m *msgCore) replyToRef() *destRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replyTo
}

func (m *msgCore) setDestinationRef(ref *destRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destination = ref
}

func (m *msgCore) destinationRef() *destRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destination
}

func (m *msgCore) textBody() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kind != bodyText {
		return "", errors.New("inmemory: message carries no text body")
	}
	return m.text, nil
}

func (m *msgCore) setTextBody(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kind != bodyText {
		return errors.New("inmemory: message carries no text body")
	}
	m.text = text
	return nil
}

func (m *msgCore) bodyLength() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kind != bodyBytes {
		return 0, errors.New("inmemory: message carries no bytes body")
	}
	return int64(len(m.body)), nil
}

func (m *msgCore) readBody(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kind != bodyBytes {
		return 0, errors.New("inmemory: message carries no bytes body")
	}
	return copy(p, m.body), nil
}

func (m *msgCore) writeBody(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kind != bodyBytes {
		return errors.New("inmemory: message carries no bytes body")
	}
	m.body = append(m.body, p...)
	return nil
}
