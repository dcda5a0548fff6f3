// Package boundary implements the provider isolation scope: a loader that
// resolves vendor type names from runtime-loaded artifacts while forcing
// shared-API names to resolve through its parent scope, plus the ambient
// resolution context handed to vendor worker goroutines.
package boundary

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Constructor builds a vendor object for a registered type name.
type Constructor func() (any, error)

// Exports maps type names to constructors, as published by one artifact.
type Exports map[string]Constructor

// Resolver resolves a type name to a constructor.
type Resolver interface {
	Lookup(name string) (Constructor, error)
}

// ErrNotFound is wrapped by lookup failures for unknown type names.
var ErrNotFound = errors.New("type name not found")

// sharedPrefixes lists the shared-API name prefixes that must always resolve
// through the parent scope, never from vendor artifacts. This keeps a single
// identity for shared-API types even when an artifact bundles its own copy.
var sharedPrefixes = []string{
	"classic.jms.",
	"modern.jms.",
}

// SharedName reports whether name belongs to the shared API surface.
func SharedName(name string) bool {
	for _, prefix := range sharedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Opener opens one artifact and returns its exported constructor table.
type Opener func(path string) (Exports, error)

type options struct {
	paths  []string
	dir    string
	opener Opener
	logger zerolog.Logger
}

// Option configures loader construction.
type Option func(*options)

// WithArtifacts adds individually named artifact files.
func WithArtifacts(paths ...string) Option {
	return func(o *options) { o.paths = append(o.paths, paths...) }
}

// WithArtifactDir adds every regular file found under dir, recursively.
func WithArtifactDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithOpener replaces the default plugin-based artifact opener.
func WithOpener(open Opener) Option {
	return func(o *options) { o.opener = open }
}

// WithLogger sets the logger used for artifact diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Loader is an isolation scope over a set of vendor artifacts. It is
// read-only after construction and safe for concurrent use.
type Loader struct {
	parent    Resolver
	artifacts []string
	exports   map[string]Constructor
}

// New builds a loader over the configured artifacts with the given parent
// scope. With no artifacts the loader is a transparent view of the parent.
// A directory that cannot be scanned fails construction; an artifact that
// cannot be opened is logged and skipped.
func New(parent Resolver, opts ...Option) (*Loader, error) {
	o := options{opener: PluginOpener, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	files := append([]string(nil), o.paths...)
	if o.dir != "" {
		err := filepath.WalkDir(o.dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("boundary: scan artifact directory %s: %w", o.dir, err)
		}
	}

	loader := &Loader{
		parent:    parent,
		artifacts: files,
		exports:   make(map[string]Constructor),
	}
	for _, file := range files {
		exports, err := o.opener(file)
		if err != nil {
			o.logger.Warn().Err(err).Str("artifact", file).Msg("boundary: skipping artifact")
			continue
		}
		for name, ctor := range exports {
			// First artifact providing a name wins, matching the
			// search order of an ordered artifact list.
			if _, exists := loader.exports[name]; !exists {
				loader.exports[name] = ctor
			}
		}
	}
	return loader, nil
}

// Lookup resolves a type name. Shared-API names go to the parent scope only;
// everything else is searched in this scope's artifacts first, then the
// parent.
func (l *Loader) Lookup(name string) (Constructor, error) {
	if SharedName(name) {
		if l.parent == nil {
			return nil, fmt.Errorf("boundary: shared name %s: %w", name, ErrNotFound)
		}
		return l.parent.Lookup(name)
	}
	if ctor, ok := l.exports[name]; ok {
		return ctor, nil
	}
	if l.parent != nil {
		return l.parent.Lookup(name)
	}
	return nil, fmt.Errorf("boundary: %s: %w", name, ErrNotFound)
}

// Artifacts returns the artifact paths this loader was built from.
func (l *Loader) Artifacts() []string {
	return append([]string(nil), l.artifacts...)
}

// Chain renders the loader's parent chain with each level's artifacts. It is
// used to diagnose isolation problems when a type name cannot be resolved.
func (l *Loader) Chain() string {
	var b strings.Builder
	describeLevel(&b, l, 0)
	return b.String()
}

func describeLevel(b *strings.Builder, r Resolver, level int) {
	indent := strings.Repeat("  ", level)
	switch scope := r.(type) {
	case *Loader:
		fmt.Fprintf(b, "%s-> loader", indent)
		if len(scope.artifacts) == 0 {
			b.WriteString(" (no artifacts)")
		}
		b.WriteString("\n")
		for _, artifact := range scope.artifacts {
			fmt.Fprintf(b, "%s   - %s\n", indent, artifact)
		}
		if scope.parent != nil {
			describeLevel(b, scope.parent, level+1)
		}
	case *Registry:
		fmt.Fprintf(b, "%s-> host registry (%d entries)\n", indent, scope.size())
	default:
		fmt.Fprintf(b, "%s-> %T\n", indent, r)
	}
}

// Resolve looks up a type name and constructs an instance of it.
func Resolve(r Resolver, name string) (any, error) {
	ctor, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	obj, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("boundary: construct %s: %w", name, err)
	}
	return obj, nil
}
