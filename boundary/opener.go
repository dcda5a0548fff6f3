package boundary

import (
	"fmt"
	"plugin"
)

// ExportsSymbol is the symbol every provider artifact must export. Its value
// has to be a func() map[string]Constructor (or func() Exports) returning the
// artifact's constructor table.
const ExportsSymbol = "JMSExports"

// PluginOpener opens a Go plugin artifact and reads its constructor table.
// It is the default Opener; tests and embedded providers substitute their
// own via WithOpener.
func PluginOpener(path string) (Exports, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("boundary: open artifact %s: %w", path, err)
	}
	sym, err := p.Lookup(ExportsSymbol)
	if err != nil {
		return nil, fmt.Errorf("boundary: artifact %s: %w", path, err)
	}
	switch table := sym.(type) {
	case func() Exports:
		return table(), nil
	case func() map[string]Constructor:
		return table(), nil
	default:
		return nil, fmt.Errorf("boundary: artifact %s: symbol %s has unsupported type %T", path, ExportsSymbol, sym)
	}
}
