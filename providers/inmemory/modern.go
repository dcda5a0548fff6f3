package inmemory

import (
	"errors"
	"fmt"
	"time"

	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// ModernConnectionFactory is the current-namespace facade over a broker.
type ModernConnectionFactory struct {
	modern.Tag
	b         *Broker
	brokerURL string
}

// NewModernConnectionFactory creates a factory over the given broker.
func NewModernConnectionFactory(b *Broker) *ModernConnectionFactory {
	return &ModernConnectionFactory{b: b}
}

// SetBrokerURL records the configured broker URL. The in-process broker has
// no transport, so the value is informational only.
func (f *ModernConnectionFactory) SetBrokerURL(url string) { f.brokerURL = url }

// BrokerURL returns the configured broker URL.
func (f *ModernConnectionFactory) BrokerURL() string { return f.brokerURL }

// CreateConnection creates an anonymous connection.
func (f *ModernConnectionFactory) CreateConnection() (modern.Connection, error) {
	return &modernConnection{b: f.b}, nil
}

// CreateConnectionWithCredentials creates a connection; the in-process
// broker accepts any credentials.
func (f *ModernConnectionFactory) CreateConnectionWithCredentials(username, _ string) (modern.Connection, error) {
	return &modernConnection{b: f.b, username: username}, nil
}

type modernConnection struct {
	modern.Tag
	b        *Broker
	username string
	listener modern.ExceptionListener
}

func (c *modernConnection) CreateSession() (modern.Session, error) {
	return &modernSession{b: c.b}, nil
}

func (c *modernConnection) Start() error { return nil }
func (c *modernConnection) Stop() error  { return nil }
func (c *modernConnection) Close() error { return nil }

func (c *modernConnection) SetExceptionListener(l modern.ExceptionListener) error {
	c.listener = l
	return nil
}

type modernSession struct {
	modern.Tag
	b *Broker
}

func (s *modernSession) CreateProducer(d modern.Destination) (modern.MessageProducer, error) {
	ref, err := modernRefOf(d)
	if err != nil {
		return nil, err
	}
	return &modernProducer{b: s.b, ref: *ref, priority: 4}, nil
}

func (s *modernSession) CreateConsumer(d modern.Destination) (modern.MessageConsumer, error) {
	return s.CreateConsumerWithSelector(d, "")
}

func (s *modernSession) CreateConsumerWithSelector(d modern.Destination, selector string) (modern.MessageConsumer, error) {
	ref, err := modernRefOf(d)
	if err != nil {
		return nil, err
	}
	sub, err := s.b.subscribe(*ref, selector)
	if err != nil {
		return nil, err
	}
	return &modernConsumer{b: s.b, sub: sub}, nil
}

func (s *modernSession) CreateQueue(name string) (modern.Queue, error) {
	s.b.ensureQueue(name, false)
	return &modernQueue{ref: destRef{kind: kindQueue, name: name}, b: s.b}, nil
}

func (s *modernSession) CreateTopic(name string) (modern.Topic, error) {
	s.b.ensureTopic(name)
	return &modernTopic{ref: destRef{kind: kindTopic, name: name}, b: s.b}, nil
}

func (s *modernSession) CreateTemporaryQueue() (modern.TemporaryQueue, error) {
	q := s.b.temporaryQueue()
	tmp := &modernTempQueue{}
	tmp.ref = destRef{kind: kindQueue, name: q.name, temporary: true}
	tmp.b = s.b
	return tmp, nil
}

func (s *modernSession) CreateTextMessage(text string) (modern.TextMessage, error) {
	core := newMsgCore(bodyText)
	core.text = text
	return &modernTextMessage{&modernMessage{msgCore: core, b: s.b}}, nil
}

func (s *modernSession) CreateBytesMessage() (modern.BytesMessage, error) {
	return &modernBytesMessage{&modernMessage{msgCore: newMsgCore(bodyBytes), b: s.b}}, nil
}

func (s *modernSession) Close() error { return nil }

type modernProducer struct {
	modern.Tag
	b        *Broker
	ref      destRef
	priority int
	ttl      time.Duration
}

func (p *modernProducer) Send(m modern.Message) error {
	return p.SendWith(m, modern.DeliveryModePersistent, p.priority, p.ttl)
}

func (p *modernProducer) SendWith(m modern.Message, deliveryMode, priority int, timeToLive time.Duration) error {
	core, err := modernCoreOf(m)
	if err != nil {
		return err
	}
	stampForSend(core, p.ref, deliveryMode, priority, timeToLive)
	return p.b.publish(p.ref, core)
}

func (p *modernProducer) Priority() (int, error)             { return p.priority, nil }
func (p *modernProducer) TimeToLive() (time.Duration, error) { return p.ttl, nil }
func (p *modernProducer) Close() error                       { return nil }

type modernConsumer struct {
	modern.Tag
	b   *Broker
	sub *subscription
}

func (c *modernConsumer) Receive(timeout time.Duration) (modern.Message, error) {
	m := c.sub.receive(timeout)
	if m == nil {
		return nil, nil
	}
	return wrapModern(c.b, m), nil
}

func (c *modernConsumer) SetMessageListener(l modern.MessageListener) error {
	if l == nil {
		return errors.New("inmemory: message listener must not be nil")
	}
	c.sub.listen(func(m *msgCore) { l(wrapModern(c.b, m)) })
	return nil
}

func (c *modernConsumer) Close() error {
	c.sub.close()
	return nil
}

type modernQueue struct {
	modern.Tag
	ref destRef
	b   *Broker
}

func (q *modernQueue) QueueName() (string, error) { return q.ref.name, nil }

type modernTempQueue struct {
	modernQueue
}

func (q *modernTempQueue) Delete() error {
	q.b.deleteQueue(q.ref.name)
	return nil
}

type modernTopic struct {
	modern.Tag
	ref destRef
	b   *Broker
}

func (t *modernTopic) TopicName() (string, error) { return t.ref.name, nil }

type modernMessage struct {
	modern.Tag
	*msgCore
	b *Broker
}

func (m *modernMessage) ReplyTo() (modern.Destination, error) {
	ref := m.replyToRef()
	if ref == nil {
		return nil, nil
	}
	return modernDestFromRef(m.b, *ref), nil
}

func (m *modernMessage) SetReplyTo(d modern.Destination) error {
	ref, err := modernRefOf(d)
	if err != nil {
		return err
	}
	m.setReplyToRef(ref)
	return nil
}

func (m *modernMessage) Destination() (modern.Destination, error) {
	ref := m.destinationRef()
	if ref == nil {
		return nil, nil
	}
	return modernDestFromRef(m.b, *ref), nil
}

func (m *modernMessage) SetDestination(d modern.Destination) error {
	ref, err := modernRefOf(d)
	if err != nil {
		return err
	}
	m.setDestinationRef(ref)
	return nil
}

type modernTextMessage struct {
	*modernMessage
}

func (m *modernTextMessage) Text() (string, error)  { return m.textBody() }
func (m *modernTextMessage) SetText(t string) error { return m.setTextBody(t) }

type modernBytesMessage struct {
	*modernMessage
}

func (m *modernBytesMessage) BodyLength() (int64, error)      { return m.bodyLength() }
func (m *modernBytesMessage) ReadBytes(p []byte) (int, error) { return m.readBody(p) }
func (m *modernBytesMessage) WriteBytes(p []byte) error       { return m.writeBody(p) }

func wrapModern(b *Broker, m *msgCore) modern.Message {
	base := &modernMessage{msgCore: m, b: b}
	switch m.kind {
	case bodyText:
		return &modernTextMessage{base}
	case bodyBytes:
		return &modernBytesMessage{base}
	default:
		return base
	}
}

func modernCoreOf(m modern.Message) (*msgCore, error) {
	switch v := m.(type) {
	case *modernTextMessage:
		return v.msgCore, nil
	case *modernBytesMessage:
		return v.msgCore, nil
	case *modernMessage:
		return v.msgCore, nil
	default:
		return nil, fmt.Errorf("inmemory: message %T belongs to another provider", m)
	}
}

func modernRefOf(d modern.Destination) (*destRef, error) {
	switch v := d.(type) {
	case *modernTempQueue:
		ref := v.ref
		return &ref, nil
	case *modernQueue:
		ref := v.ref
		return &ref, nil
	case *modernTopic:
		ref := v.ref
		return &ref, nil
	default:
		return nil, fmt.Errorf("inmemory: destination %T belongs to another provider", d)
	}
}

func modernDestFromRef(b *Broker, ref destRef) modern.Destination {
	switch {
	case ref.kind == kindQueue && ref.temporary:
		tmp := &modernTempQueue{}
		tmp.ref = ref
		tmp.b = b
		return tmp
	case ref.kind == kindQueue:
		return &modernQueue{ref: ref, b: b}
	default:
		return &modernTopic{ref: ref, b: b}
	}
}
