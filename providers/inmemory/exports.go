package inmemory

import (
	"fmt"
	"strings"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/naming"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// Type names the provider exports its factories under.
const (
	FactoryName        = "inmemory.ConnectionFactory"
	ClassicFactoryName = "inmemory.classic.ConnectionFactory"
)

// Exports builds the constructor table a provider artifact publishes under
// the JMSExports symbol. All constructors share one broker, so factories and
// directory lookups obtained from the same table reach the same queues.
func Exports() boundary.Exports {
	b := NewBroker()
	return boundary.Exports{
		FactoryName: func() (any, error) {
			return NewModernConnectionFactory(b), nil
		},
		ClassicFactoryName: func() (any, error) {
			return NewClassicConnectionFactory(b), nil
		},
		naming.ModernContextName: func() (any, error) {
			return &initialContext{b: b}, nil
		},
	}
}

// initialContext is a minimal naming directory over the broker. It binds
// ConnectionFactory plus dynamicQueues/<name> and dynamicTopics/<name>.
type initialContext struct {
	modern.Tag
	b   *Broker
	env map[string]string
}

func (c *initialContext) Open(env map[string]string) error {
	c.env = env
	return nil
}

func (c *initialContext) Lookup(name string) (any, error) {
	switch {
	case name == "ConnectionFactory" || strings.HasSuffix(name, "/ConnectionFactory"):
		return NewModernConnectionFactory(c.b), nil
	case strings.HasPrefix(name, "dynamicQueues/"):
		q := strings.TrimPrefix(name, "dynamicQueues/")
		c.b.ensureQueue(q, false)
		return &modernQueue{ref: destRef{kind: kindQueue, name: q}, b: c.b}, nil
	case strings.HasPrefix(name, "dynamicTopics/"):
		t := strings.TrimPrefix(name, "dynamicTopics/")
		c.b.ensureTopic(t)
		return &modernTopic{ref: destRef{kind: kindTopic, name: t}, b: c.b}, nil
	default:
		return nil, fmt.Errorf("inmemory: name %q not bound", name)
	}
}

func (c *initialContext) Close() error { return nil }
