package adapter

import (
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// DestinationType is the logical role of a destination.
type DestinationType int

const (
	// DestinationQueue is a point-to-point destination.
	DestinationQueue DestinationType = iota + 1
	// DestinationTopic is a publish-subscribe destination.
	DestinationTopic
)

func (t DestinationType) String() string {
	switch t {
	case DestinationQueue:
		return "queue"
	case DestinationTopic:
		return "topic"
	default:
		return "unknown"
	}
}

// destinationOps is the per-variant bridge for destination classification.
type destinationOps interface {
	kind() (DestinationType, error)
	name() (string, error)
	temporary() (bool, error)
}

// Destination wraps a vendor destination. The logical type and the
// temporary flag are derived purely from the vendor object's role
// interfaces.
type Destination struct {
	handle  any
	variant Variant
	ops     destinationOps
}

// NewDestination wraps a vendor destination handle. Objects obtained through
// the provider entry point are assumed valid; classification failures
// surface when an operation is invoked.
func NewDestination(handle any) *Destination {
	switch d := handle.(type) {
	case modern.Destination:
		return &Destination{handle: handle, variant: VariantModern, ops: modernDestination{d: d}}
	case classic.Destination:
		return &Destination{handle: handle, variant: VariantClassic, ops: classicDestination{d: d}}
	default:
		return &Destination{handle: handle, variant: VariantUnknown}
	}
}

// Handle returns the wrapped vendor destination.
func (d *Destination) Handle() any { return d.handle }

// Variant returns the namespace variant detected at wrap time.
func (d *Destination) Variant() Variant { return d.variant }

// Type classifies the destination as queue or topic.
func (d *Destination) Type() (DestinationType, error) {
	if d.ops == nil {
		return 0, opError("classify destination", ErrUnknownNamespace)
	}
	kind, err := d.ops.kind()
	if err != nil {
		return 0, opError("classify destination", err)
	}
	return kind, nil
}

// Name returns the queue or topic name of the destination.
func (d *Destination) Name() (string, error) {
	if d.ops == nil {
		return "", opError("get destination name", ErrUnknownNamespace)
	}
	name, err := d.ops.name()
	if err != nil {
		return "", opError("get destination name", err)
	}
	return name, nil
}

// IsTemporary reports whether the destination is scoped to its connection.
func (d *Destination) IsTemporary() (bool, error) {
	if d.ops == nil {
		return false, opError("classify destination", ErrUnknownNamespace)
	}
	temporary, err := d.ops.temporary()
	if err != nil {
		return false, opError("classify destination", err)
	}
	return temporary, nil
}

type classicDestination struct {
	d classic.Destination
}

func (c classicDestination) kind() (DestinationType, error) {
	switch c.d.(type) {
	case classic.Queue:
		return DestinationQueue, nil
	case classic.Topic:
		return DestinationTopic, nil
	default:
		return 0, ErrUnsupportedDestination
	}
}

func (c classicDestination) name() (string, error) {
	switch d := c.d.(type) {
	case classic.Queue:
		return d.QueueName()
	case classic.Topic:
		return d.TopicName()
	default:
		return "", ErrUnsupportedDestination
	}
}

func (c classicDestination) temporary() (bool, error) {
	switch c.d.(type) {
	case classic.TemporaryQueue, classic.TemporaryTopic:
		return true, nil
	default:
		return false, nil
	}
}

type modernDestination struct {
	d modern.Destination
}

func (m modernDestination) kind() (DestinationType, error) {
	switch m.d.(type) {
	case modern.Queue:
		return DestinationQueue, nil
	case modern.Topic:
		return DestinationTopic, nil
	default:
		return 0, ErrUnsupportedDestination
	}
}

func (m modernDestination) name() (string, error) {
	switch d := m.d.(type) {
	case modern.Queue:
		return d.QueueName()
	case modern.Topic:
		return d.TopicName()
	default:
		return "", ErrUnsupportedDestination
	}
}

func (m modernDestination) temporary() (bool, error) {
	switch m.d.(type) {
	case modern.TemporaryQueue, modern.TemporaryTopic:
		return true, nil
	default:
		return false, nil
	}
}
