// Package amqp is a messaging provider backed by RabbitMQ over AMQP 0-9-1.
// It exposes the modern API namespace only: queues map to server queues,
// topics map to fanout exchanges with one exclusive queue per subscriber.
//
// Message selectors are not supported; AMQP has no broker-side filtering
// for plain queues.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// FactoryName is the constructor name the provider exports its factory under.
const FactoryName = "amqp.ConnectionFactory"

// ErrSelectorsUnsupported is returned by CreateConsumerWithSelector for any
// non-empty selector.
var ErrSelectorsUnsupported = errors.New("amqp: message selectors are not supported")

// Exports builds the constructor table the provider artifact publishes.
func Exports() boundary.Exports {
	return boundary.Exports{
		FactoryName: func() (any, error) {
			return NewConnectionFactory(""), nil
		},
	}
}

// ConnectionFactory creates connections to a RabbitMQ broker.
type ConnectionFactory struct {
	modern.Tag
	brokerURL string
}

// NewConnectionFactory creates a factory for the given AMQP URL, e.g.
// amqp://localhost:5672/. The URL may also be bound later via SetBrokerURL.
func NewConnectionFactory(brokerURL string) *ConnectionFactory {
	return &ConnectionFactory{brokerURL: brokerURL}
}

// SetBrokerURL binds the broker URL the factory dials.
func (f *ConnectionFactory) SetBrokerURL(url string) { f.brokerURL = url }

// BrokerURL returns the bound broker URL.
func (f *ConnectionFactory) BrokerURL() string { return f.brokerURL }

// CreateConnection dials the broker with the credentials embedded in the URL.
func (f *ConnectionFactory) CreateConnection() (modern.Connection, error) {
	return f.dial(amqp091.Config{})
}

// CreateConnectionWithCredentials dials the broker authenticating with the
// given credentials, overriding any embedded in the URL.
func (f *ConnectionFactory) CreateConnectionWithCredentials(username, password string) (modern.Connection, error) {
	return f.dial(amqp091.Config{
		SASL: []amqp091.Authentication{
			&amqp091.PlainAuth{Username: username, Password: password},
		},
	})
}

func (f *ConnectionFactory) dial(cfg amqp091.Config) (modern.Connection, error) {
	if f.brokerURL == "" {
		return nil, errors.New("amqp: broker URL not configured")
	}
	conn, err := amqp091.DialConfig(f.brokerURL, cfg)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial %s: %w", f.brokerURL, err)
	}
	return &connection{conn: conn}, nil
}

type connection struct {
	modern.Tag
	conn *amqp091.Connection
}

func (c *connection) CreateSession() (modern.Session, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}
	return &session{ch: ch}, nil
}

// Start is a no-op; AMQP channels deliver as soon as a consumer exists.
func (c *connection) Start() error { return nil }

// Stop is a no-op, see Start.
func (c *connection) Stop() error { return nil }

func (c *connection) Close() error { return c.conn.Close() }

func (c *connection) SetExceptionListener(l modern.ExceptionListener) error {
	if l == nil {
		return errors.New("amqp: exception listener must not be nil")
	}
	closed := c.conn.NotifyClose(make(chan *amqp091.Error, 1))
	go func() {
		if err, ok := <-closed; ok && err != nil {
			l(err)
		}
	}()
	return nil
}

type session struct {
	modern.Tag
	ch *amqp091.Channel
}

func (s *session) CreateQueue(name string) (modern.Queue, error) {
	if _, err := s.ch.QueueDeclare(name, false, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("amqp: declare queue %s: %w", name, err)
	}
	return &queueDestination{name: name}, nil
}

func (s *session) CreateTopic(name string) (modern.Topic, error) {
	if err := s.ch.ExchangeDeclare(name, "fanout", false, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("amqp: declare exchange %s: %w", name, err)
	}
	return &topicDestination{name: name}, nil
}

func (s *session) CreateTemporaryQueue() (modern.TemporaryQueue, error) {
	q, err := s.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp: declare temporary queue: %w", err)
	}
	tmp := &tempQueueDestination{}
	tmp.name = q.Name
	tmp.ch = s.ch
	return tmp, nil
}

func (s *session) CreateProducer(d modern.Destination) (modern.MessageProducer, error) {
	switch dest := d.(type) {
	case *tempQueueDestination:
		return &producer{ch: s.ch, routingKey: dest.name, priority: 4}, nil
	case *queueDestination:
		return &producer{ch: s.ch, routingKey: dest.name, priority: 4}, nil
	case *topicDestination:
		return &producer{ch: s.ch, exchange: dest.name, priority: 4}, nil
	default:
		return nil, fmt.Errorf("amqp: destination %T belongs to another provider", d)
	}
}

func (s *session) CreateConsumer(d modern.Destination) (modern.MessageConsumer, error) {
	return s.CreateConsumerWithSelector(d, "")
}

func (s *session) CreateConsumerWithSelector(d modern.Destination, selector string) (modern.MessageConsumer, error) {
	if selector != "" {
		return nil, ErrSelectorsUnsupported
	}
	switch dest := d.(type) {
	case *tempQueueDestination:
		return s.consumeQueue(dest.name, d)
	case *queueDestination:
		return s.consumeQueue(dest.name, d)
	case *topicDestination:
		// Per-subscriber exclusive queue bound to the fanout exchange.
		q, err := s.ch.QueueDeclare("", false, true, true, false, nil)
		if err != nil {
			return nil, fmt.Errorf("amqp: declare subscriber queue: %w", err)
		}
		if err := s.ch.QueueBind(q.Name, "", dest.name, false, nil); err != nil {
			return nil, fmt.Errorf("amqp: bind subscriber queue to %s: %w", dest.name, err)
		}
		return s.consumeQueue(q.Name, d)
	default:
		return nil, fmt.Errorf("amqp: destination %T belongs to another provider", d)
	}
}

func (s *session) consumeQueue(queueName string, dest modern.Destination) (modern.MessageConsumer, error) {
	tag := "jms-adapter-" + uuid.NewString()
	deliveries, err := s.ch.Consume(queueName, tag, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp: consume %s: %w", queueName, err)
	}
	return &consumer{ch: s.ch, tag: tag, deliveries: deliveries, dest: dest}, nil
}

func (s *session) CreateTextMessage(text string) (modern.TextMessage, error) {
	m := newMessage(bodyText)
	m.text = text
	return &textMessage{m}, nil
}

func (s *session) CreateBytesMessage() (modern.BytesMessage, error) {
	return &bytesMessage{newMessage(bodyBytes)}, nil
}

func (s *session) Close() error { return s.ch.Close() }

type producer struct {
	modern.Tag
	ch         *amqp091.Channel
	exchange   string
	routingKey string
	priority   int
	ttl        time.Duration
}

func (p *producer) Send(m modern.Message) error {
	return p.SendWith(m, modern.DeliveryModePersistent, p.priority, p.ttl)
}

func (p *producer) SendWith(m modern.Message, deliveryMode, priority int, timeToLive time.Duration) error {
	core, err := coreOf(m)
	if err != nil {
		return err
	}
	now := time.Now()
	core.mu.Lock()
	if core.id == "" {
		core.id = "ID:" + uuid.NewString()
	}
	core.timestamp = now.UnixMilli()
	core.mode = deliveryMode
	core.priority = priority
	if timeToLive > 0 {
		core.expiration = now.Add(timeToLive).UnixMilli()
	}
	core.mu.Unlock()

	pub, err := core.toPublishing()
	if err != nil {
		return err
	}
	if err := p.ch.PublishWithContext(context.Background(), p.exchange, p.routingKey, false, false, pub); err != nil {
		return fmt.Errorf("amqp: publish to %s: %w", p.target(), err)
	}
	return nil
}

func (p *producer) target() string {
	if p.exchange != "" {
		return "exchange " + p.exchange
	}
	return "queue " + p.routingKey
}

func (p *producer) Priority() (int, error)             { return p.priority, nil }
func (p *producer) TimeToLive() (time.Duration, error) { return p.ttl, nil }
func (p *producer) Close() error                       { return nil }

func coreOf(m modern.Message) (*message, error) {
	switch v := m.(type) {
	case *textMessage:
		return v.message, nil
	case *bytesMessage:
		return v.message, nil
	case *message:
		return v, nil
	default:
		return nil, fmt.Errorf("amqp: message %T belongs to another provider", m)
	}
}

type consumer struct {
	modern.Tag
	ch         *amqp091.Channel
	tag        string
	deliveries <-chan amqp091.Delivery
	dest       modern.Destination

	closeOnce sync.Once
	closeErr  error
}

func (c *consumer) Receive(timeout time.Duration) (modern.Message, error) {
	if timeout <= 0 {
		d, ok := <-c.deliveries
		if !ok {
			return nil, nil
		}
		return fromDelivery(d, c.dest), nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case d, ok := <-c.deliveries:
		if !ok {
			return nil, nil
		}
		return fromDelivery(d, c.dest), nil
	case <-timer.C:
		return nil, nil
	}
}

func (c *consumer) SetMessageListener(l modern.MessageListener) error {
	if l == nil {
		return errors.New("amqp: message listener must not be nil")
	}
	go func() {
		for d := range c.deliveries {
			l(fromDelivery(d, c.dest))
		}
	}()
	return nil
}

func (c *consumer) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ch.Cancel(c.tag, false)
	})
	return c.closeErr
}

type queueDestination struct {
	modern.Tag
	name string
}

func (q *queueDestination) QueueName() (string, error) { return q.name, nil }

type tempQueueDestination struct {
	queueDestination
	ch *amqp091.Channel
}

func (q *tempQueueDestination) Delete() error {
	_, err := q.ch.QueueDelete(q.name, false, false, false)
	return err
}

type topicDestination struct {
	modern.Tag
	name string
}

func (t *topicDestination) TopicName() (string, error) { return t.name, nil }
