package inmemory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conapi-oss/jms-adapter/spi/classic"
)

// ClassicConnectionFactory is the legacy-namespace facade over a broker.
type ClassicConnectionFactory struct {
	classic.Tag
	b         *Broker
	brokerURL string
}

// NewClassicConnectionFactory creates a factory over the given broker.
func NewClassicConnectionFactory(b *Broker) *ClassicConnectionFactory {
	return &ClassicConnectionFactory{b: b}
}

// SetBrokerURL records the configured broker URL. The in-process broker has
// no transport, so the value is informational only.
func (f *ClassicConnectionFactory) SetBrokerURL(url string) { f.brokerURL = url }

// BrokerURL returns the configured broker URL.
func (f *ClassicConnectionFactory) BrokerURL() string { return f.brokerURL }

// CreateConnection creates an anonymous connection.
func (f *ClassicConnectionFactory) CreateConnection() (classic.Connection, error) {
	return &classicConnection{b: f.b}, nil
}

// CreateConnectionWithCredentials creates a connection; the in-process
// broker accepts any credentials.
func (f *ClassicConnectionFactory) CreateConnectionWithCredentials(username, _ string) (classic.Connection, error) {
	return &classicConnection{b: f.b, username: username}, nil
}

type classicConnection struct {
	classic.Tag
	b        *Broker
	username string
	listener classic.ExceptionListener
}

func (c *classicConnection) CreateSession(bool, int) (classic.Session, error) {
	return &classicSession{b: c.b}, nil
}

func (c *classicConnection) Start() error { return nil }
func (c *classicConnection) Stop() error  { return nil }
func (c *classicConnection) Close() error { return nil }

func (c *classicConnection) SetExceptionListener(l classic.ExceptionListener) error {
	c.listener = l
	return nil
}

type classicSession struct {
	classic.Tag
	b *Broker
}

func (s *classicSession) CreateProducer(d classic.Destination) (classic.MessageProducer, error) {
	ref, err := classicRefOf(d)
	if err != nil {
		return nil, err
	}
	return &classicProducer{b: s.b, ref: *ref, priority: 4}, nil
}

func (s *classicSession) CreateConsumer(d classic.Destination) (classic.MessageConsumer, error) {
	return s.CreateConsumerWithSelector(d, "")
}

func (s *classicSession) CreateConsumerWithSelector(d classic.Destination, selector string) (classic.MessageConsumer, error) {
	ref, err := classicRefOf(d)
	if err != nil {
		return nil, err
	}
	sub, err := s.b.subscribe(*ref, selector)
	if err != nil {
		return nil, err
	}
	return &classicConsumer{b: s.b, sub: sub}, nil
}

func (s *classicSession) CreateQueue(name string) (classic.Queue, error) {
	s.b.ensureQueue(name, false)
	return &classicQueue{ref: destRef{kind: kindQueue, name: name}, b: s.b}, nil
}

func (s *classicSession) CreateTopic(name string) (classic.Topic, error) {
	s.b.ensureTopic(name)
	return &classicTopic{ref: destRef{kind: kindTopic, name: name}, b: s.b}, nil
}

func (s *classicSession) CreateTemporaryQueue() (classic.TemporaryQueue, error) {
	q := s.b.temporaryQueue()
	tmp := &classicTempQueue{}
	tmp.ref = destRef{kind: kindQueue, name: q.name, temporary: true}
	tmp.b = s.b
	return tmp, nil
}

func (s *classicSession) CreateTextMessage(text string) (classic.TextMessage, error) {
	core := newMsgCore(bodyText)
	core.text = text
	return &classicTextMessage{&classicMessage{msgCore: core, b: s.b}}, nil
}

func (s *classicSession) CreateBytesMessage() (classic.BytesMessage, error) {
	return &classicBytesMessage{&classicMessage{msgCore: newMsgCore(bodyBytes), b: s.b}}, nil
}

func (s *classicSession) Close() error { return nil }

type classicProducer struct {
	classic.Tag
	b        *Broker
	ref      destRef
	priority int
	ttl      time.Duration
}

func (p *classicProducer) Send(m classic.Message) error {
	return p.SendWith(m, classic.DeliveryModePersistent, p.priority, p.ttl)
}

func (p *classicProducer) SendWith(m classic.Message, deliveryMode, priority int, timeToLive time.Duration) error {
	core, err := classicCoreOf(m)
	if err != nil {
		return err
	}
	stampForSend(core, p.ref, deliveryMode, priority, timeToLive)
	return p.b.publish(p.ref, core)
}

func (p *classicProducer) Priority() (int, error)             { return p.priority, nil }
func (p *classicProducer) TimeToLive() (time.Duration, error) { return p.ttl, nil }
func (p *classicProducer) Close() error                       { return nil }

type classicConsumer struct {
	classic.Tag
	b   *Broker
	sub *subscription
}

func (c *classicConsumer) Receive(timeout time.Duration) (classic.Message, error) {
	m := c.sub.receive(timeout)
	if m == nil {
		return nil, nil
	}
	return wrapClassic(c.b, m), nil
}

func (c *classicConsumer) SetMessageListener(l classic.MessageListener) error {
	if l == nil {
		return errors.New("inmemory: message listener must not be nil")
	}
	c.sub.listen(func(m *msgCore) { l(wrapClassic(c.b, m)) })
	return nil
}

func (c *classicConsumer) Close() error {
	c.sub.close()
	return nil
}

type classicQueue struct {
	classic.Tag
	ref destRef
	b   *Broker
}

func (q *classicQueue) QueueName() (string, error) { return q.ref.name, nil }

type classicTempQueue struct {
	classicQueue
}

func (q *classicTempQueue) Delete() error {
	q.b.deleteQueue(q.ref.name)
	return nil
}

type classicTopic struct {
	classic.Tag
	ref destRef
	b   *Broker
}

func (t *classicTopic) TopicName() (string, error) { return t.ref.name, nil }

type classicMessage struct {
	classic.Tag
	*msgCore
	b *Broker
}

func (m *classicMessage) ReplyTo() (classic.Destination, error) {
	ref := m.replyToRef()
	if ref == nil {
		return nil, nil
	}
	return classicDestFromRef(m.b, *ref), nil
}

func (m *classicMessage) SetReplyTo(d classic.Destination) error {
	ref, err := classicRefOf(d)
	if err != nil {
		return err
	}
	m.setReplyToRef(ref)
	return nil
}

func (m *classicMessage) Destination() (classic.Destination, error) {
	ref := m.destinationRef()
	if ref == nil {
		return nil, nil
	}
	return classicDestFromRef(m.b, *ref), nil
}

func (m *classicMessage) SetDestination(d classic.Destination) error {
	ref, err := classicRefOf(d)
	if err != nil {
		return err
	}
	m.setDestinationRef(ref)
	return nil
}

type classicTextMessage struct {
	*classicMessage
}

func (m *classicTextMessage) Text() (string, error)  { return m.textBody() }
func (m *classicTextMessage) SetText(t string) error { return m.setTextBody(t) }

type classicBytesMessage struct {
	*classicMessage
}

func (m *classicBytesMessage) BodyLength() (int64, error)     { return m.bodyLength() }
func (m *classicBytesMessage) ReadBytes(p []byte) (int, error) { return m.readBody(p) }
func (m *classicBytesMessage) WriteBytes(p []byte) error       { return m.writeBody(p) }

func wrapClassic(b *Broker, m *msgCore) classic.Message {
	base := &classicMessage{msgCore: m, b: b}
	switch m.kind {
	case bodyText:
		return &classicTextMessage{base}
	case bodyBytes:
		return &classicBytesMessage{base}
	default:
		return base
	}
}

func classicCoreOf(m classic.Message) (*msgCore, error) {
	switch v := m.(type) {
	case *classicTextMessage:
		return v.msgCore, nil
	case *classicBytesMessage:
		return v.msgCore, nil
	case *classicMessage:
		return v.msgCore, nil
	default:
		return nil, fmt.Errorf("inmemory: message %T belongs to another provider", m)
	}
}

func classicRefOf(d classic.Destination) (*destRef, error) {
	switch v := d.(type) {
	case *classicTempQueue:
		ref := v.ref
		return &ref, nil
	case *classicQueue:
		ref := v.ref
		return &ref, nil
	case *classicTopic:
		ref := v.ref
		return &ref, nil
	default:
		return nil, fmt.Errorf("inmemory: destination %T belongs to another provider", d)
	}
}

func classicDestFromRef(b *Broker, ref destRef) classic.Destination {
	switch {
	case ref.kind == kindQueue && ref.temporary:
		tmp := &classicTempQueue{}
		tmp.ref = ref
		tmp.b = b
		return tmp
	case ref.kind == kindQueue:
		return &classicQueue{ref: ref, b: b}
	default:
		return &classicTopic{ref: ref, b: b}
	}
}

func stampForSend(core *msgCore, ref destRef, deliveryMode, priority int, timeToLive time.Duration) {
	now := time.Now()
	core.SetMessageID("ID:" + uuid.NewString())
	core.SetTimestamp(now.UnixMilli())
	core.SetDeliveryMode(deliveryMode)
	core.SetPriority(priority)
	if timeToLive > 0 {
		core.SetExpiration(now.Add(timeToLive).UnixMilli())
	}
	core.setDestinationRef(&ref)
}
