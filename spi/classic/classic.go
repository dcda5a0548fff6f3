// Package classic defines the legacy variant of the shared messaging API.
//
// Vendor providers implement these interfaces and embed Tag so their objects
// are bound to this namespace. The modern variant of the same conceptual API
// lives in spi/modern; the two namespaces are deliberately incompatible, and
// every implementation belongs to exactly one of them.
package classic

import "time"

// Name identifies this namespace. It is a distinct type from modern.Name, so
// an object can never satisfy both namespaces at once.
type Name struct{}

// Tag is embedded by vendor implementations to join the classic namespace.
type Tag struct{}

// Namespace implements Object.
func (Tag) Namespace() Name { return Name{} }

// Object is the root type of the classic namespace.
type Object interface {
	Namespace() Name
}

// Delivery modes for produced messages.
const (
	DeliveryModeNonPersistent = 1
	DeliveryModePersistent    = 2
)

// Session acknowledgement modes.
const (
	AutoAcknowledge   = 1
	ClientAcknowledge = 2
	DupsOKAcknowledge = 3
)

// Destination is an address messages are sent to or received from.
type Destination interface {
	Object
}

// Queue is a point-to-point destination.
type Queue interface {
	Destination
	QueueName() (string, error)
}

// Topic is a publish-subscribe destination.
type Topic interface {
	Destination
	TopicName() (string, error)
}

// TemporaryQueue is a queue scoped to the connection that created it.
type TemporaryQueue interface {
	Queue
	Delete() error
}

// TemporaryTopic is a topic scoped to the connection that created it.
type TemporaryTopic interface {
	Topic
	Delete() error
}

// Message is the classic message contract: headers, a string-keyed property
// bag and delivery control. Body access lives on the TextMessage and
// BytesMessage specialisations.
type Message interface {
	Object
	MessageID() (string, error)
	SetMessageID(id string) error
	Timestamp() (int64, error)
	SetTimestamp(ts int64) error
	CorrelationID() (string, error)
	SetCorrelationID(id string) error
	ReplyTo() (Destination, error)
	SetReplyTo(d Destination) error
	Destination() (Destination, error)
	SetDestination(d Destination) error
	DeliveryMode() (int, error)
	SetDeliveryMode(mode int) error
	Redelivered() (bool, error)
	SetRedelivered(redelivered bool) error
	Type() (string, error)
	SetType(t string) error
	Expiration() (int64, error)
	SetExpiration(exp int64) error
	Priority() (int, error)
	SetPriority(priority int) error

	PropertyNames() ([]string, error)
	ObjectProperty(name string) (any, error)
	StringProperty(name string) (string, error)
	SetObjectProperty(name string, value any) error
	ClearProperties() error
	ClearBody() error
	Acknowledge() error
}

// TextMessage carries a string payload.
type TextMessage interface {
	Message
	Text() (string, error)
	SetText(text string) error
}

// BytesMessage carries a raw byte payload. Readers must obtain the declared
// body length and fill a buffer of exactly that size.
type BytesMessage interface {
	Message
	BodyLength() (int64, error)
	ReadBytes(p []byte) (int, error)
	WriteBytes(p []byte) error
}

// MessageListener receives asynchronously delivered messages. It is invoked
// on a goroutine owned by the vendor provider.
type MessageListener func(Message)

// ExceptionListener receives connection-level failures.
type ExceptionListener func(err error)

// MessageConsumer receives messages from a single destination.
type MessageConsumer interface {
	Object
	// Receive blocks up to timeout for the next message; zero means
	// unbounded. A nil message without error indicates a timeout.
	Receive(timeout time.Duration) (Message, error)
	SetMessageListener(l MessageListener) error
	Close() error
}

// MessageProducer sends messages to a single destination.
type MessageProducer interface {
	Object
	Send(m Message) error
	SendWith(m Message, deliveryMode, priority int, timeToLive time.Duration) error
	Priority() (int, error)
	TimeToLive() (time.Duration, error)
	Close() error
}

// Session is a single-threaded context for producing and consuming messages.
type Session interface {
	Object
	CreateProducer(d Destination) (MessageProducer, error)
	CreateConsumer(d Destination) (MessageConsumer, error)
	CreateConsumerWithSelector(d Destination, selector string) (MessageConsumer, error)
	CreateQueue(name string) (Queue, error)
	CreateTopic(name string) (Topic, error)
	CreateTemporaryQueue() (TemporaryQueue, error)
	CreateTextMessage(text string) (TextMessage, error)
	CreateBytesMessage() (BytesMessage, error)
	Close() error
}

// Connection is an open link to a broker. In the classic namespace sessions
// are created with an explicit transaction flag and acknowledgement mode.
type Connection interface {
	Object
	CreateSession(transacted bool, acknowledgeMode int) (Session, error)
	Start() error
	Stop() error
	Close() error
	SetExceptionListener(l ExceptionListener) error
}

// ConnectionFactory creates broker connections.
type ConnectionFactory interface {
	Object
	CreateConnection() (Connection, error)
	CreateConnectionWithCredentials(username, password string) (Connection, error)
}

// InitialContext is the naming-directory contract used for JNDI-style
// lookups of connection factories and destinations.
type InitialContext interface {
	Object
	Open(env map[string]string) error
	Lookup(name string) (any, error)
	Close() error
}
