package propbind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpoint struct {
	brokerURL string
	port      int32
	timeout   int64
	weight    float64
	ratio     float32
	level     int8
	retries   uint8
	secure    bool
	lastErr   error
}

func (e *endpoint) SetBrokerURL(url string)   { e.brokerURL = url }
func (e *endpoint) SetPort(port int32)        { e.port = port }
func (e *endpoint) SetTimeout(timeout int64)  { e.timeout = timeout }
func (e *endpoint) SetWeight(weight float64)  { e.weight = weight }
func (e *endpoint) SetRatio(ratio float32)    { e.ratio = ratio }
func (e *endpoint) SetLevel(level int8)       { e.level = level }
func (e *endpoint) SetRetries(retries uint8)  { e.retries = retries }
func (e *endpoint) SetSecure(secure bool)     { e.secure = secure }

func (e *endpoint) SetValidated(url string) error {
	if url == "" {
		e.lastErr = errors.New("empty url")
		return e.lastErr
	}
	e.brokerURL = url
	return nil
}

func (e *endpoint) SetPair(a, b string) {}

func (e *endpoint) SetCallback(fn func()) {}

func TestBindConvertsDeclaredTypes(t *testing.T) {
	e := &endpoint{}
	err := Bind(e, map[string]string{
		"brokerURL": "tcp://broker:61616",
		"port":      "61616",
		"timeout":   "30000",
		"weight":    "0.75",
		"ratio":     "1.5",
		"level":     "-3",
		"retries":   "5",
		"secure":    "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker:61616", e.brokerURL)
	assert.Equal(t, int32(61616), e.port)
	assert.Equal(t, int64(30000), e.timeout)
	assert.Equal(t, 0.75, e.weight)
	assert.Equal(t, float32(1.5), e.ratio)
	assert.Equal(t, int8(-3), e.level)
	assert.Equal(t, uint8(5), e.retries)
	assert.True(t, e.secure)
}

func TestSetCapitalizesKey(t *testing.T) {
	e := &endpoint{}
	require.NoError(t, Set(e, "brokerURL", "amqp://localhost"))
	assert.Equal(t, "amqp://localhost", e.brokerURL)
}

func TestSetMissingSetter(t *testing.T) {
	err := Set(&endpoint{}, "vendorQuirk", "on")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSetter)
	assert.Contains(t, err.Error(), "vendorQuirk")
}

func TestSetUnsupportedParameterType(t *testing.T) {
	err := Set(&endpoint{}, "callback", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSetWrongArity(t *testing.T) {
	err := Set(&endpoint{}, "pair", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1")
}

func TestSetUnparsableValue(t *testing.T) {
	err := Set(&endpoint{}, "port", "not-a-number")
	require.Error(t, err)
}

func TestSetPropagatesSetterError(t *testing.T) {
	e := &endpoint{}
	err := Set(e, "validated", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, e.lastErr)

	require.NoError(t, Set(e, "validated", "tcp://ok"))
	assert.Equal(t, "tcp://ok", e.brokerURL)
}

func TestBindStopsAtFirstFailure(t *testing.T) {
	e := &endpoint{}
	err := Bind(e, map[string]string{"nope": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSetter)
}
