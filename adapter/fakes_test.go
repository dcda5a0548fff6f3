package adapter

import (
	"fmt"
	"sort"
	"time"

	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// In-memory vendor implementations for both namespaces. They keep state in
// plain fields so tests can assert what crossed the bridge.

type fakeClassicQueue struct {
	classic.Tag
	name string
}

func (q *fakeClassicQueue) QueueName() (string, error) { return q.name, nil }

type fakeClassicTopic struct {
	classic.Tag
	name string
}

func (t *fakeClassicTopic) TopicName() (string, error) { return t.name, nil }

type fakeClassicTempQueue struct {
	fakeClassicQueue
	deleted bool
}

func (q *fakeClassicTempQueue) Delete() error {
	q.deleted = true
	return nil
}

type fakeClassicMessage struct {
	classic.Tag
	id            string
	timestamp     int64
	correlationID string
	replyTo       classic.Destination
	destination   classic.Destination
	mode          int
	redelivered   bool
	msgType       string
	expiration    int64
	priority      int
	props         map[string]any
	acknowledged  bool
}

func newFakeClassicMessage() *fakeClassicMessage {
	return &fakeClassicMessage{props: map[string]any{}}
}

func (m *fakeClassicMessage) MessageID() (string, error)       { return m.id, nil }
func (m *fakeClassicMessage) SetMessageID(id string) error     { m.id = id; return nil }
func (m *fakeClassicMessage) Timestamp() (int64, error)        { return m.timestamp, nil }
func (m *fakeClassicMessage) SetTimestamp(ts int64) error      { m.timestamp = ts; return nil }
func (m *fakeClassicMessage) CorrelationID() (string, error)   { return m.correlationID, nil }
func (m *fakeClassicMessage) SetCorrelationID(id string) error { m.correlationID = id; return nil }

func (m *fakeClassicMessage) ReplyTo() (classic.Destination, error)  { return m.replyTo, nil }
func (m *fakeClassicMessage) SetReplyTo(d classic.Destination) error { m.replyTo = d; return nil }
func (m *fakeClassicMessage) Destination() (classic.Destination, error) {
	return m.destination, nil
}
func (m *fakeClassicMessage) SetDestination(d classic.Destination) error {
	m.destination = d
	return nil
}

func (m *fakeClassicMessage) DeliveryMode() (int, error)     { return m.mode, nil }
func (m *fakeClassicMessage) SetDeliveryMode(mode int) error { m.mode = mode; return nil }
func (m *fakeClassicMessage) Redelivered() (bool, error)     { return m.redelivered, nil }
func (m *fakeClassicMessage) SetRedelivered(r bool) error    { m.redelivered = r; return nil }
func (m *fakeClassicMessage) Type() (string, error)          { return m.msgType, nil }
func (m *fakeClassicMessage) SetType(t string) error         { m.msgType = t; return nil }
func (m *fakeClassicMessage) Expiration() (int64, error)     { return m.expiration, nil }
func (m *fakeClassicMessage) SetExpiration(exp int64) error  { m.expiration = exp; return nil }
func (m *fakeClassicMessage) Priority() (int, error)         { return m.priority, nil }
func (m *fakeClassicMessage) SetPriority(p int) error        { m.priority = p; return nil }

func (m *fakeClassicMessage) PropertyNames() ([]string, error) {
	names := make([]string, 0, len(m.props))
	for name := range m.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *fakeClassicMessage) ObjectProperty(name string) (any, error) {
	return m.props[name], nil
}

func (m *fakeClassicMessage) StringProperty(name string) (string, error) {
	value, ok := m.props[name]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

func (m *fakeClassicMessage) SetObjectProperty(name string, value any) error {
	m.props[name] = value
	return nil
}

func (m *fakeClassicMessage) ClearProperties() error {
	m.props = map[string]any{}
	return nil
}

func (m *fakeClassicMessage) ClearBody() error   { return nil }
func (m *fakeClassicMessage) Acknowledge() error { m.acknowledged = true; return nil }

type fakeClassicTextMessage struct {
	*fakeClassicMessage
	text string
}

func (m *fakeClassicTextMessage) Text() (string, error)    { return m.text, nil }
func (m *fakeClassicTextMessage) SetText(t string) error   { m.text = t; return nil }
func (m *fakeClassicTextMessage) ClearBody() error         { m.text = ""; return nil }

type fakeClassicBytesMessage struct {
	*fakeClassicMessage
	body []byte
}

func (m *fakeClassicBytesMessage) BodyLength() (int64, error) { return int64(len(m.body)), nil }
func (m *fakeClassicBytesMessage) ReadBytes(p []byte) (int, error) {
	return copy(p, m.body), nil
}
func (m *fakeClassicBytesMessage) WriteBytes(p []byte) error {
	m.body = append(m.body, p...)
	return nil
}
func (m *fakeClassicBytesMessage) ClearBody() error { m.body = nil; return nil }

type fakeClassicProducer struct {
	classic.Tag
	dest     classic.Destination
	sent     []classic.Message
	priority int
	ttl      time.Duration
	closed   bool
}

func (p *fakeClassicProducer) Send(m classic.Message) error {
	p.sent = append(p.sent, m)
	return nil
}

func (p *fakeClassicProducer) SendWith(m classic.Message, deliveryMode, priority int, _ time.Duration) error {
	if err := m.SetDeliveryMode(deliveryMode); err != nil {
		return err
	}
	if err := m.SetPriority(priority); err != nil {
		return err
	}
	p.sent = append(p.sent, m)
	return nil
}

func (p *fakeClassicProducer) Priority() (int, error)             { return p.priority, nil }
func (p *fakeClassicProducer) TimeToLive() (time.Duration, error) { return p.ttl, nil }
func (p *fakeClassicProducer) Close() error                       { p.closed = true; return nil }

type fakeClassicConsumer struct {
	classic.Tag
	pending     []classic.Message
	listener    classic.MessageListener
	receiveHook func()
	closed      bool
}

func (c *fakeClassicConsumer) Receive(time.Duration) (classic.Message, error) {
	if c.receiveHook != nil {
		c.receiveHook()
	}
	if len(c.pending) == 0 {
		return nil, nil
	}
	m := c.pending[0]
	c.pending = c.pending[1:]
	return m, nil
}

func (c *fakeClassicConsumer) SetMessageListener(l classic.MessageListener) error {
	c.listener = l
	return nil
}

func (c *fakeClassicConsumer) Close() error { c.closed = true; return nil }

type fakeClassicSession struct {
	classic.Tag
	producers []*fakeClassicProducer
	consumers []*fakeClassicConsumer
	selectors []string
	closed    bool
}

func (s *fakeClassicSession) CreateProducer(d classic.Destination) (classic.MessageProducer, error) {
	p := &fakeClassicProducer{dest: d, priority: 4}
	s.producers = append(s.producers, p)
	return p, nil
}

func (s *fakeClassicSession) CreateConsumer(classic.Destination) (classic.MessageConsumer, error) {
	c := &fakeClassicConsumer{}
	s.consumers = append(s.consumers, c)
	return c, nil
}

func (s *fakeClassicSession) CreateConsumerWithSelector(d classic.Destination, selector string) (classic.MessageConsumer, error) {
	s.selectors = append(s.selectors, selector)
	return s.CreateConsumer(d)
}

func (s *fakeClassicSession) CreateQueue(name string) (classic.Queue, error) {
	return &fakeClassicQueue{name: name}, nil
}

func (s *fakeClassicSession) CreateTopic(name string) (classic.Topic, error) {
	return &fakeClassicTopic{name: name}, nil
}

func (s *fakeClassicSession) CreateTemporaryQueue() (classic.TemporaryQueue, error) {
	q := &fakeClassicTempQueue{}
	q.name = "temp-queue-1"
	return q, nil
}

func (s *fakeClassicSession) CreateTextMessage(text string) (classic.TextMessage, error) {
	return &fakeClassicTextMessage{fakeClassicMessage: newFakeClassicMessage(), text: text}, nil
}

func (s *fakeClassicSession) CreateBytesMessage() (classic.BytesMessage, error) {
	return &fakeClassicBytesMessage{fakeClassicMessage: newFakeClassicMessage()}, nil
}

func (s *fakeClassicSession) Close() error { s.closed = true; return nil }

type fakeClassicConnection struct {
	classic.Tag
	sessions   []*fakeClassicSession
	transacted []bool
	ackModes   []int
	starts     int
	stopped    bool
	closed     bool
	listener   classic.ExceptionListener
}

func (c *fakeClassicConnection) CreateSession(transacted bool, ackMode int) (classic.Session, error) {
	c.transacted = append(c.transacted, transacted)
	c.ackModes = append(c.ackModes, ackMode)
	s := &fakeClassicSession{}
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *fakeClassicConnection) Start() error { c.starts++; return nil }
func (c *fakeClassicConnection) Stop() error  { c.stopped = true; return nil }
func (c *fakeClassicConnection) Close() error { c.closed = true; return nil }

func (c *fakeClassicConnection) SetExceptionListener(l classic.ExceptionListener) error {
	c.listener = l
	return nil
}

type fakeClassicFactory struct {
	classic.Tag
	username    string
	password    string
	connections []*fakeClassicConnection
}

func (f *fakeClassicFactory) CreateConnection() (classic.Connection, error) {
	c := &fakeClassicConnection{}
	f.connections = append(f.connections, c)
	return c, nil
}

func (f *fakeClassicFactory) CreateConnectionWithCredentials(username, password string) (classic.Connection, error) {
	f.username, f.password = username, password
	return f.CreateConnection()
}

type fakeModernQueue struct {
	modern.Tag
	name string
}

func (q *fakeModernQueue) QueueName() (string, error) { return q.name, nil }

type fakeModernTopic struct {
	modern.Tag
	name string
}

func (t *fakeModernTopic) TopicName() (string, error) { return t.name, nil }

type fakeModernTempQueue struct {
	fakeModernQueue
	deleted bool
}

func (q *fakeModernTempQueue) Delete() error {
	q.deleted = true
	return nil
}

type fakeModernMessage struct {
	modern.Tag
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
	acknowledged  bool
}

func newFakeModernMessage() *fakeModernMessage {
	return &fakeModernMessage{props: map[string]any{}}
}

func (m *fakeModernMessage) MessageID() (string, error)       { return m.id, nil }
func (m *fakeModernMessage) SetMessageID(id string) error     { m.id = id; return nil }
func (m *fakeModernMessage) Timestamp() (int64, error)        { return m.timestamp, nil }
func (m *fakeModernMessage) SetTimestamp(ts int64) error      { m.timestamp = ts; return nil }
func (m *fakeModernMessage) CorrelationID() (string, error)   { return m.correlationID, nil }
func (m *fakeModernMessage) SetCorrelationID(id string) error { m.correlationID = id; return nil }

func (m *fakeModernMessage) ReplyTo() (modern.Destination, error)  { return m.replyTo, nil }
func (m *fakeModernMessage) SetReplyTo(d modern.Destination) error { m.replyTo = d; return nil }
func (m *fakeModernMessage) Destination() (modern.Destination, error) {
	return m.destination, nil
}
func (m *fakeModernMessage) SetDestination(d modern.Destination) error {
	m.destination = d
	return nil
}

func (m *fakeModernMessage) DeliveryMode() (int, error)      { return m.mode, nil }
func (m *fakeModernMessage) SetDeliveryMode(mode int) error  { m.mode = mode; return nil }
func (m *fakeModernMessage) Redelivered() (bool, error)      { return m.redelivered, nil }
func (m *fakeModernMessage) SetRedelivered(r bool) error     { m.redelivered = r; return nil }
func (m *fakeModernMessage) Type() (string, error)           { return m.msgType, nil }
func (m *fakeModernMessage) SetType(t string) error          { m.msgType = t; return nil }
func (m *fakeModernMessage) Expiration() (int64, error)      { return m.expiration, nil }
func (m *fakeModernMessage) SetExpiration(exp int64) error   { m.expiration = exp; return nil }
func (m *fakeModernMessage) DeliveryTime() (int64, error)    { return m.deliveryTime, nil }
func (m *fakeModernMessage) SetDeliveryTime(ts int64) error  { m.deliveryTime = ts; return nil }
func (m *fakeModernMessage) Priority() (int, error)          { return m.priority, nil }
func (m *fakeModernMessage) SetPriority(p int) error         { m.priority = p; return nil }

func (m *fakeModernMessage) PropertyNames() ([]string, error) {
	names := make([]string, 0, len(m.props))
	for name := range m.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *fakeModernMessage) ObjectProperty(name string) (any, error) {
	return m.props[name], nil
}

func (m *fakeModernMessage) StringProperty(name string) (string, error) {
	value, ok := m.props[name]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

func (m *fakeModernMessage) SetObjectProperty(name string, value any) error {
	m.props[name] = value
	return nil
}

func (m *fakeModernMessage) ClearProperties() error {
	m.props = map[string]any{}
	return nil
}

func (m *fakeModernMessage) ClearBody() error   { return nil }
func (m *fakeModernMessage) Acknowledge() error { m.acknowledged = true; return nil }

type fakeModernTextMessage struct {
	*fakeModernMessage
	text string
}

func (m *fakeModernTextMessage) Text() (string, error)  { return m.text, nil }
func (m *fakeModernTextMessage) SetText(t string) error { m.text = t; return nil }
func (m *fakeModernTextMessage) ClearBody() error       { m.text = ""; return nil }

type fakeModernBytesMessage struct {
	*fakeModernMessage
	body []byte
}

func (m *fakeModernBytesMessage) BodyLength() (int64, error) { return int64(len(m.body)), nil }
func (m *fakeModernBytesMessage) ReadBytes(p []byte) (int, error) {
	return copy(p, m.body), nil
}
func (m *fakeModernBytesMessage) WriteBytes(p []byte) error {
	m.body = append(m.body, p...)
	return nil
}
func (m *fakeModernBytesMessage) ClearBody() error { m.body = nil; return nil }

type fakeModernProducer struct {
	modern.Tag
	dest     modern.Destination
	sent     []modern.Message
	priority int
	ttl      time.Duration
	closed   bool
}

func (p *fakeModernProducer) Send(m modern.Message) error {
	p.sent = append(p.sent, m)
	return nil
}

func (p *fakeModernProducer) SendWith(m modern.Message, deliveryMode, priority int, _ time.Duration) error {
	if err := m.SetDeliveryMode(deliveryMode); err != nil {
		return err
	}
	if err := m.SetPriority(priority); err != nil {
		return err
	}
	p.sent = append(p.sent, m)
	return nil
}

func (p *fakeModernProducer) Priority() (int, error)             { return p.priority, nil }
func (p *fakeModernProducer) TimeToLive() (time.Duration, error) { return p.ttl, nil }
func (p *fakeModernProducer) Close() error                       { p.closed = true; return nil }

type fakeModernConsumer struct {
	modern.Tag
	pending     []modern.Message
	listener    modern.MessageListener
	receiveHook func()
	closed      bool
}

func (c *fakeModernConsumer) Receive(time.Duration) (modern.Message, error) {
	if c.receiveHook != nil {
		c.receiveHook()
	}
	if len(c.pending) == 0 {
		return nil, nil
	}
	m := c.pending[0]
	c.pending = c.pending[1:]
	return m, nil
}

func (c *fakeModernConsumer) SetMessageListener(l modern.MessageListener) error {
	c.listener = l
	return nil
}

func (c *fakeModernConsumer) Close() error { c.closed = true; return nil }

type fakeModernSession struct {
	modern.Tag
	producers []*fakeModernProducer
	consumers []*fakeModernConsumer
	selectors []string
	closed    bool
}

func (s *fakeModernSession) CreateProducer(d modern.Destination) (modern.MessageProducer, error) {
	p := &fakeModernProducer{dest: d, priority: 4}
	s.producers = append(s.producers, p)
	return p, nil
}

func (s *fakeModernSession) CreateConsumer(modern.Destination) (modern.MessageConsumer, error) {
	c := &fakeModernConsumer{}
	s.consumers = append(s.consumers, c)
	return c, nil
}

func (s *fakeModernSession) CreateConsumerWithSelector(d modern.Destination, selector string) (modern.MessageConsumer, error) {
	s.selectors = append(s.selectors, selector)
	return s.CreateConsumer(d)
}

func (s *fakeModernSession) CreateQueue(name string) (modern.Queue, error) {
	return &fakeModernQueue{name: name}, nil
}

func (s *fakeModernSession) CreateTopic(name string) (modern.Topic, error) {
	return &fakeModernTopic{name: name}, nil
}

func (s *fakeModernSession) CreateTemporaryQueue() (modern.TemporaryQueue, error) {
	q := &fakeModernTempQueue{}
	q.name = "temp-queue-1"
	return q, nil
}

func (s *fakeModernSession) CreateTextMessage(text string) (modern.TextMessage, error) {
	return &fakeModernTextMessage{fakeModernMessage: newFakeModernMessage(), text: text}, nil
}

func (s *fakeModernSession) CreateBytesMessage() (modern.BytesMessage, error) {
	return &fakeModernBytesMessage{fakeModernMessage: newFakeModernMessage()}, nil
}

func (s *fakeModernSession) Close() error { s.closed = true; return nil }

type fakeModernConnection struct {
	modern.Tag
	sessions []*fakeModernSession
	starts   int
	stopped  bool
	closed   bool
	listener modern.ExceptionListener
}

func (c *fakeModernConnection) CreateSession() (modern.Session, error) {
	s := &fakeModernSession{}
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *fakeModernConnection) Start() error { c.starts++; return nil }
func (c *fakeModernConnection) Stop() error  { c.stopped = true; return nil }
func (c *fakeModernConnection) Close() error { c.closed = true; return nil }

func (c *fakeModernConnection) SetExceptionListener(l modern.ExceptionListener) error {
	c.listener = l
	return nil
}

type fakeModernFactory struct {
	modern.Tag
	username    string
	password    string
	connections []*fakeModernConnection
}

func (f *fakeModernFactory) CreateConnection() (modern.Connection, error) {
	c := &fakeModernConnection{}
	f.connections = append(f.connections, c)
	return c, nil
}

func (f *fakeModernFactory) CreateConnectionWithCredentials(username, password string) (modern.Connection, error) {
	f.username, f.password = username, password
	return f.CreateConnection()
}
