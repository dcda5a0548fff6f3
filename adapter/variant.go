package adapter

// Variant tags the namespace a wrapped vendor object belongs to. It is
// derived once at wrap time and never re-evaluated; every subsequent
// operation on the adapter dispatches on the variant chosen then.
type Variant int

const (
	// VariantUnknown marks an object that matched neither namespace.
	VariantUnknown Variant = iota
	// VariantClassic is the legacy namespace (spi/classic).
	VariantClassic
	// VariantModern is the current namespace (spi/modern).
	VariantModern
)

func (v Variant) String() string {
	switch v {
	case VariantClassic:
		return "classic"
	case VariantModern:
		return "modern"
	default:
		return "unknown"
	}
}
