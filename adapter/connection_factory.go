package adapter

import (
	"github.com/rs/zerolog"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// connectionFactoryOps is the per-variant bridge for factory operations.
type connectionFactoryOps interface {
	createConnection() (any, error)
	createConnectionWithCredentials(username, password string) (any, error)
}

// ConnectionFactory wraps a vendor connection factory. Connection creation
// runs under the provider boundary's resolution context because vendors
// typically resolve internal types while dialing.
type ConnectionFactory struct {
	handle   any
	variant  Variant
	resolver boundary.Resolver
	logger   zerolog.Logger
	ops      connectionFactoryOps
}

// NewConnectionFactory wraps a vendor factory handle. The variant is
// detected once here; every object derived from the factory inherits it
// through its own wrap-time detection.
func NewConnectionFactory(handle any, resolver boundary.Resolver, logger zerolog.Logger) *ConnectionFactory {
	f := &ConnectionFactory{
		handle:   handle,
		resolver: resolver,
		logger:   logger,
	}
	switch vendor := handle.(type) {
	case modern.ConnectionFactory:
		f.variant = VariantModern
		f.ops = modernConnectionFactory{f: vendor}
	case classic.ConnectionFactory:
		f.variant = VariantClassic
		f.ops = classicConnectionFactory{f: vendor}
	}
	return f
}

// Handle returns the wrapped vendor factory.
func (f *ConnectionFactory) Handle() any { return f.handle }

// Variant returns the namespace variant detected at wrap time.
func (f *ConnectionFactory) Variant() Variant { return f.variant }

// CreateConnection creates an anonymous connection.
func (f *ConnectionFactory) CreateConnection() (*Connection, error) {
	if f.ops == nil {
		return nil, opError("create connection", ErrUnknownNamespace)
	}
	var raw any
	err := boundary.WithResolutionContext(f.resolver, func() error {
		var err error
		raw, err = f.ops.createConnection()
		return err
	})
	if err != nil {
		return nil, opError("create connection", err)
	}
	return NewConnection(raw, f.resolver, f.logger), nil
}

// CreateConnectionWithCredentials creates a connection authenticated with
// the given username and password.
func (f *ConnectionFactory) CreateConnectionWithCredentials(username, password string) (*Connection, error) {
	if f.ops == nil {
		return nil, opError("create connection", ErrUnknownNamespace)
	}
	var raw any
	err := boundary.WithResolutionContext(f.resolver, func() error {
		var err error
		raw, err = f.ops.createConnectionWithCredentials(username, password)
		return err
	})
	if err != nil {
		return nil, opError("create connection", err)
	}
	return NewConnection(raw, f.resolver, f.logger), nil
}

type classicConnectionFactory struct {
	f classic.ConnectionFactory
}

func (c classicConnectionFactory) createConnection() (any, error) {
	return c.f.CreateConnection()
}

func (c classicConnectionFactory) createConnectionWithCredentials(username, password string) (any, error) {
	return c.f.CreateConnectionWithCredentials(username, password)
}

type modernConnectionFactory struct {
	f modern.ConnectionFactory
}

func (m modernConnectionFactory) createConnection() (any, error) {
	return m.f.CreateConnection()
}

func (m modernConnectionFactory) createConnectionWithCredentials(username, password string) (any, error) {
	return m.f.CreateConnectionWithCredentials(username, password)
}
