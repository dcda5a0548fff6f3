package jmsadapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conapi-oss/jms-adapter/adapter"
	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/propbind"
	"github.com/conapi-oss/jms-adapter/providers/inmemory"
)

// recordingCollector counts telemetry calls for assertions.
type recordingCollector struct {
	ops       map[string]int
	errs      map[string]int
	artifacts int
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{ops: make(map[string]int), errs: make(map[string]int)}
}

func (c *recordingCollector) IncOperation(op string)      { c.ops[op]++ }
func (c *recordingCollector) IncOperationError(op string) { c.errs[op]++ }
func (c *recordingCollector) SetArtifacts(n int)          { c.artifacts = n }

func newTestFactory(t *testing.T, opts ...Option) *Factory {
	t.Helper()
	opener := func(string) (boundary.Exports, error) {
		return inmemory.Exports(), nil
	}
	opts = append([]Option{WithArtifacts("libs/inmemory-provider.so"), WithOpener(opener)}, opts...)
	f, err := New(opts...)
	require.NoError(t, err)
	return f
}

func TestEndToEndQueueRoundTrip(t *testing.T) {
	f := newTestFactory(t)

	cf, err := f.CreateConnectionFactory(inmemory.FactoryName, map[string]string{"brokerURL": "vm://dev"})
	require.NoError(t, err)
	assert.Equal(t, adapter.VariantModern, cf.Variant())

	conn, err := cf.CreateConnection()
	require.NoError(t, err)
	require.NoError(t, conn.Start())
	defer conn.Close()

	session, err := conn.CreateSession()
	require.NoError(t, err)

	dest, err := session.CreateDestination("queue://orders")
	require.NoError(t, err)
	kind, err := dest.Type()
	require.NoError(t, err)
	assert.Equal(t, adapter.DestinationQueue, kind)
	name, err := dest.Name()
	require.NoError(t, err)
	assert.Equal(t, "orders", name)
	temporary, err := dest.IsTemporary()
	require.NoError(t, err)
	assert.False(t, temporary)

	consumer, err := session.CreateConsumer(dest)
	require.NoError(t, err)
	producer, err := session.CreateProducer(dest)
	require.NoError(t, err)

	msg, err := session.CreateTextMessage("hi", map[string]any{"k": "v"})
	require.NoError(t, err)
	require.NoError(t, producer.Send(msg))

	got, err := consumer.Receive(time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.IsTextMessage())
	body, err := got.Text()
	require.NoError(t, err)
	assert.Equal(t, "hi", body)
	value, err := got.StringProperty("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestEndToEndBytesRoundTrip(t *testing.T) {
	f := newTestFactory(t)

	cf, err := f.CreateConnectionFactory(inmemory.FactoryName, nil)
	require.NoError(t, err)
	conn, err := cf.CreateConnection()
	require.NoError(t, err)
	session, err := conn.CreateSession()
	require.NoError(t, err)
	dest, err := session.CreateDestination("queue://bin")
	require.NoError(t, err)
	consumer, err := session.CreateConsumer(dest)
	require.NoError(t, err)
	producer, err := session.CreateProducer(dest)
	require.NoError(t, err)

	msg, err := session.CreateBytesMessage([]byte{1, 2, 3}, nil)
	require.NoError(t, err)
	require.NoError(t, producer.Send(msg))

	got, err := consumer.Receive(time.Second)
	require.NoError(t, err)
	require.True(t, got.IsBytesMessage())
	payload, err := got.ByteArray()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, payload)

	empty, err := session.CreateBytesMessage(nil, nil)
	require.NoError(t, err)
	require.NoError(t, producer.Send(empty))
	got, err = consumer.Receive(time.Second)
	require.NoError(t, err)
	payload, err = got.ByteArray()
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestCreateConnectionFactoryClassicVariant(t *testing.T) {
	f := newTestFactory(t)

	cf, err := f.CreateConnectionFactory(inmemory.ClassicFactoryName, nil)
	require.NoError(t, err)
	assert.Equal(t, adapter.VariantClassic, cf.Variant())

	conn, err := cf.CreateConnection()
	require.NoError(t, err)
	_, err = conn.CreateSession()
	require.NoError(t, err)
}

func TestCreateConnectionFactoryBindsProperties(t *testing.T) {
	f := newTestFactory(t)

	cf, err := f.CreateConnectionFactory(inmemory.FactoryName, map[string]string{"brokerURL": "vm://dev"})
	require.NoError(t, err)

	vendor, ok := cf.Handle().(*inmemory.ModernConnectionFactory)
	require.True(t, ok)
	assert.Equal(t, "vm://dev", vendor.BrokerURL())
}

func TestCreateConnectionFactoryBindFailure(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.CreateConnectionFactory(inmemory.FactoryName, map[string]string{"noSuchProperty": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, propbind.ErrNoSetter)
}

func TestCreateConnectionFactoryClassNotFound(t *testing.T) {
	metrics := newRecordingCollector()
	f := newTestFactory(t, WithCollector(metrics))

	_, err := f.CreateConnectionFactory("acme.MissingFactory", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boundary.ErrNotFound)

	var opErr *adapter.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "create connection factory", opErr.Op)

	assert.Equal(t, 1, metrics.ops["create connection factory"])
	assert.Equal(t, 1, metrics.errs["create connection factory"])
	assert.Equal(t, 1, metrics.artifacts)
}

func TestLookupConnectionFactoryCachesEnvironment(t *testing.T) {
	f := newTestFactory(t)

	env := map[string]string{"java.naming.provider.url": "vm://dev"}
	cf, err := f.LookupConnectionFactory(env, "jms/ConnectionFactory")
	require.NoError(t, err)
	assert.Equal(t, adapter.VariantModern, cf.Variant())

	// nil environment reuses the one cached above
	dest, err := f.LookupDestination(nil, "dynamicQueues/orders")
	require.NoError(t, err)
	name, err := dest.Name()
	require.NoError(t, err)
	assert.Equal(t, "orders", name)
	kind, err := dest.Type()
	require.NoError(t, err)
	assert.Equal(t, adapter.DestinationQueue, kind)
}

func TestLookupDestinationWithoutEnvironment(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.LookupDestination(nil, "dynamicQueues/orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEnvironment)
}

func TestLookupRejectsNonFactoryObject(t *testing.T) {
	f := newTestFactory(t)

	env := map[string]string{"java.naming.provider.url": "vm://dev"}
	_, err := f.LookupConnectionFactory(env, "dynamicQueues/orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnknownNamespace)
}

func TestFactoryWithoutArtifactsUsesParent(t *testing.T) {
	parent := boundary.NewRegistry()
	require.NoError(t, parent.Register("acme.ConnectionFactory", func() (any, error) {
		return inmemory.NewModernConnectionFactory(inmemory.NewBroker()), nil
	}))

	f, err := New(WithParent(parent))
	require.NoError(t, err)

	cf, err := f.CreateConnectionFactory("acme.ConnectionFactory", nil)
	require.NoError(t, err)
	assert.Equal(t, adapter.VariantModern, cf.Variant())
}
