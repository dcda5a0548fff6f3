package adapter

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// ParseDestinationURL splits a destination URL of the form <scheme>://<name>
// into its logical type and name. Only queue and topic schemes are
// recognized.
func ParseDestinationURL(url string) (DestinationType, string, error) {
	scheme, name, ok := strings.Cut(url, "://")
	if !ok {
		return 0, "", opError("parse destination URL "+url, ErrUnsupportedScheme)
	}
	switch scheme {
	case "queue":
		return DestinationQueue, name, nil
	case "topic":
		return DestinationTopic, name, nil
	default:
		return 0, "", opError("parse destination URL "+url, ErrUnsupportedScheme)
	}
}

// FormatDestinationURL renders a destination URL for the given type and name.
func FormatDestinationURL(t DestinationType, name string) string {
	return t.String() + "://" + name
}

// sessionOps is the per-variant bridge for session operations. Vendor
// objects cross it untyped so the public adapter can rewrap them with a
// freshly detected variant.
type sessionOps interface {
	createProducer(dest any) (any, error)
	createConsumer(dest any) (any, error)
	createConsumerWithSelector(dest any, selector string) (any, error)
	createQueue(name string) (any, error)
	createTopic(name string) (any, error)
	createTemporaryQueue() (any, error)
	createTextMessage(text string) (any, error)
	createBytesMessage() (any, error)
	close() error
}

// Session wraps a vendor session.
type Session struct {
	handle     any
	variant    Variant
	resolver   boundary.Resolver
	logger     zerolog.Logger
	exceptions *exceptionHandler
	ops        sessionOps
}

// NewSession wraps a vendor session handle. Objects obtained through the
// provider entry point are assumed valid and are not re-validated.
func NewSession(handle any, resolver boundary.Resolver, logger zerolog.Logger) *Session {
	return newSession(handle, resolver, logger, newExceptionHandler(logger))
}

func newSession(handle any, resolver boundary.Resolver, logger zerolog.Logger, exceptions *exceptionHandler) *Session {
	s := &Session{
		handle:     handle,
		resolver:   resolver,
		logger:     logger,
		exceptions: exceptions,
	}
	switch vendor := handle.(type) {
	case modern.Session:
		s.variant = VariantModern
		s.ops = modernSession{s: vendor}
	case classic.Session:
		s.variant = VariantClassic
		s.ops = classicSession{s: vendor}
	}
	return s
}

// Handle returns the wrapped vendor session.
func (s *Session) Handle() any { return s.handle }

// Variant returns the namespace variant detected at wrap time.
func (s *Session) Variant() Variant { return s.variant }

// CreateProducer creates a producer for the given destination.
func (s *Session) CreateProducer(d *Destination) (*MessageProducer, error) {
	if s.ops == nil {
		return nil, opError("create producer", ErrUnknownNamespace)
	}
	raw, err := s.ops.createProducer(d.Handle())
	if err != nil {
		return nil, opError("create producer", err)
	}
	return NewMessageProducer(raw), nil
}

// CreateConsumer creates a consumer for the given destination.
func (s *Session) CreateConsumer(d *Destination) (*MessageConsumer, error) {
	if s.ops == nil {
		return nil, opError("create consumer", ErrUnknownNamespace)
	}
	raw, err := s.ops.createConsumer(d.Handle())
	if err != nil {
		return nil, opError("create consumer", err)
	}
	return newMessageConsumer(raw, s.resolver, s.logger, s.exceptions), nil
}

// CreateConsumerWithSelector creates a consumer that only receives messages
// matching the given selector expression.
func (s *Session) CreateConsumerWithSelector(d *Destination, selector string) (*MessageConsumer, error) {
	if s.ops == nil {
		return nil, opError("create consumer", ErrUnknownNamespace)
	}
	raw, err := s.ops.createConsumerWithSelector(d.Handle(), selector)
	if err != nil {
		return nil, opError("create consumer", err)
	}
	return newMessageConsumer(raw, s.resolver, s.logger, s.exceptions), nil
}

// CreateDestination resolves a destination URL of the form queue://<name> or
// topic://<name> into a destination adapter.
func (s *Session) CreateDestination(url string) (*Destination, error) {
	kind, name, err := ParseDestinationURL(url)
	if err != nil {
		return nil, err
	}
	switch kind {
	case DestinationQueue:
		return s.createQueue(name)
	default:
		return s.createTopic(name)
	}
}

func (s *Session) createQueue(name string) (*Destination, error) {
	if s.ops == nil {
		return nil, opError("create queue", ErrUnknownNamespace)
	}
	raw, err := s.ops.createQueue(name)
	if err != nil {
		return nil, opError("create queue", err)
	}
	return NewDestination(raw), nil
}

func (s *Session) createTopic(name string) (*Destination, error) {
	if s.ops == nil {
		return nil, opError("create topic", ErrUnknownNamespace)
	}
	raw, err := s.ops.createTopic(name)
	if err != nil {
		return nil, opError("create topic", err)
	}
	return NewDestination(raw), nil
}

// CreateTemporaryQueue creates a queue scoped to the session's connection.
func (s *Session) CreateTemporaryQueue() (*Destination, error) {
	if s.ops == nil {
		return nil, opError("create temporary queue", ErrUnknownNamespace)
	}
	raw, err := s.ops.createTemporaryQueue()
	if err != nil {
		return nil, opError("create temporary queue", err)
	}
	return NewDestination(raw), nil
}

// CreateTextMessage creates a text message with the given body and optional
// properties.
func (s *Session) CreateTextMessage(text string, properties map[string]any) (*Message, error) {
	if s.ops == nil {
		return nil, opError("create text message", ErrUnknownNamespace)
	}
	raw, err := s.ops.createTextMessage(text)
	if err != nil {
		return nil, opError("create text message", err)
	}
	return wrapNewMessage("create text message", raw, properties)
}

// CreateBytesMessage creates a bytes message with the given body and
// optional properties. A nil body yields an empty message.
func (s *Session) CreateBytesMessage(body []byte, properties map[string]any) (*Message, error) {
	if s.ops == nil {
		return nil, opError("create bytes message", ErrUnknownNamespace)
	}
	raw, err := s.ops.createBytesMessage()
	if err != nil {
		return nil, opError("create bytes message", err)
	}
	msg, err := wrapNewMessage("create bytes message", raw, properties)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		if err := writeBytesBody(raw, body); err != nil {
			return nil, opError("create bytes message", err)
		}
	}
	return msg, nil
}

// CreateMessage creates a plain message with a text body, mirroring the
// generic create-message operation of the shared API.
func (s *Session) CreateMessage(body string, properties map[string]any) (*Message, error) {
	return s.CreateTextMessage(body, properties)
}

// Close closes the vendor session.
func (s *Session) Close() error {
	if s.ops == nil {
		return opError("close session", ErrUnknownNamespace)
	}
	if err := s.ops.close(); err != nil {
		return opError("close session", err)
	}
	return nil
}

func wrapNewMessage(op string, raw any, properties map[string]any) (*Message, error) {
	msg, err := NewMessage(raw)
	if err != nil {
		return nil, opError(op, err)
	}
	for name, value := range properties {
		if err := msg.ops.setObjectProperty(name, value); err != nil {
			return nil, opError(op, err)
		}
	}
	return msg, nil
}

func writeBytesBody(raw any, body []byte) error {
	switch vendor := raw.(type) {
	case modern.BytesMessage:
		return vendor.WriteBytes(body)
	case classic.BytesMessage:
		return vendor.WriteBytes(body)
	default:
		return ErrNotBytesMessage
	}
}

type classicSession struct {
	s classic.Session
}

func (c classicSession) createProducer(dest any) (any, error) {
	d, ok := dest.(classic.Destination)
	if !ok {
		return nil, ErrVariantMismatch
	}
	return c.s.CreateProducer(d)
}

func (c classicSession) createConsumer(dest any) (any, error) {
	d, ok := dest.(classic.Destination)
	if !ok {
		return nil, ErrVariantMismatch
	}
	return c.s.CreateConsumer(d)
}

func (c classicSession) createConsumerWithSelector(dest any, selector string) (any, error) {
	d, ok := dest.(classic.Destination)
	if !ok {
		return nil, ErrVariantMismatch
	}
	return c.s.CreateConsumerWithSelector(d, selector)
}

func (c classicSession) createQueue(name string) (any, error) { return c.s.CreateQueue(name) }
func (c classicSession) createTopic(name string) (any, error) { return c.s.CreateTopic(name) }
func (c classicSession) createTemporaryQueue() (any, error)   { return c.s.CreateTemporaryQueue() }
func (c classicSession) createTextMessage(text string) (any, error) {
	return c.s.CreateTextMessage(text)
}
func (c classicSession) createBytesMessage() (any, error) { return c.s.CreateBytesMessage() }
func (c classicSession) close() error                     { return c.s.Close() }

type modernSession struct {
	s modern.Session
}

func (m modernSession) createProducer(dest any) (any, error) {
	d, ok := dest.(modern.Destination)
	if !ok {
		return nil, ErrVariantMismatch
	}
	return m.s.CreateProducer(d)
}

func (m modernSession) createConsumer(dest any) (any, error) {
	d, ok := dest.(modern.Destination)
	if !ok {
		return nil, ErrVariantMismatch
	}
	return m.s.CreateConsumer(d)
}

func (m modernSession) createConsumerWithSelector(dest any, selector string) (any, error) {
	d, ok := dest.(modern.Destination)
	if !ok {
		return nil, ErrVariantMismatch
	}
	return m.s.CreateConsumerWithSelector(d, selector)
}

func (m modernSession) createQueue(name string) (any, error) { return m.s.CreateQueue(name) }
func (m modernSession) createTopic(name string) (any, error) { return m.s.CreateTopic(name) }
func (m modernSession) createTemporaryQueue() (any, error)   { return m.s.CreateTemporaryQueue() }
func (m modernSession) createTextMessage(text string) (any, error) {
	return m.s.CreateTextMessage(text)
}
func (m modernSession) createBytesMessage() (any, error) { return m.s.CreateBytesMessage() }
func (m modernSession) close() error                     { return m.s.Close() }
