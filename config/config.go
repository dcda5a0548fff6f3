// Package config holds the YAML configuration model for the adapter host:
// one broker connection (direct or via directory lookup) plus the endpoints
// messages are sent to or drained from. Documents are validated against an
// embedded CUE schema before decoding.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// ConnectionType discriminates the connection settings union.
type ConnectionType string

const (
	// ConnectionDirect constructs the connection factory by type name.
	ConnectionDirect ConnectionType = "DIRECT"
	// ConnectionJNDI looks the connection factory up in a naming directory.
	ConnectionJNDI ConnectionType = "JNDI"
)

// KeyValue is one ordered configuration property.
type KeyValue struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Properties is an ordered property list. Order matters for binding: later
// entries win when a key repeats.
type Properties []KeyValue

// AsMap flattens the ordered list into a map.
func (p Properties) AsMap() map[string]string {
	if len(p) == 0 {
		return nil
	}
	m := make(map[string]string, len(p))
	for _, kv := range p {
		m[kv.Key] = kv.Value
	}
	return m
}

// DirectConnection configures factory construction by type name.
type DirectConnection struct {
	ConnectionFactoryClass string `yaml:"connectionFactoryClass"`
	Username               string `yaml:"username,omitempty"`
	Password               string `yaml:"password,omitempty"`
}

// JNDIConnection configures factory lookup through a naming directory.
type JNDIConnection struct {
	ContextFactoryClass string `yaml:"contextFactoryClass"`
	ProviderURL         string `yaml:"providerURL"`
	Principal           string `yaml:"principal,omitempty"`
	Credentials         string `yaml:"credentials,omitempty"`
	FactoryName         string `yaml:"factoryName"`
}

// Environment renders the directory environment the provider's initial
// context is opened with, using the conventional naming keys.
func (j JNDIConnection) Environment(extra Properties) map[string]string {
	env := map[string]string{
		"java.naming.factory.initial": j.ContextFactoryClass,
		"java.naming.provider.url":    j.ProviderURL,
	}
	if j.Principal != "" {
		env["java.naming.security.principal"] = j.Principal
	}
	if j.Credentials != "" {
		env["java.naming.security.credentials"] = j.Credentials
	}
	for _, kv := range extra {
		env[kv.Key] = kv.Value
	}
	return env
}

// ConnectionConfig is the tagged union of the two connection styles. Exactly
// one of Direct and JNDI is populated, matching Type.
type ConnectionConfig struct {
	Type       ConnectionType
	Direct     *DirectConnection
	JNDI       *JNDIConnection
	Properties Properties
	LibsPath   string
}

// UnmarshalYAML decodes the union by its type tag.
func (c *ConnectionConfig) UnmarshalYAML(value *yaml.Node) error {
	if value == nil || value.Kind != yaml.MappingNode {
		return errors.New("connection must be a mapping")
	}
	var head struct {
		Type       ConnectionType `yaml:"type"`
		Properties Properties     `yaml:"properties"`
		LibsPath   string         `yaml:"libsPath"`
	}
	if err := value.Decode(&head); err != nil {
		return fmt.Errorf("decode connection: %w", err)
	}
	c.Type = head.Type
	c.Properties = head.Properties
	c.LibsPath = head.LibsPath

	switch head.Type {
	case ConnectionDirect:
		var direct DirectConnection
		if err := value.Decode(&direct); err != nil {
			return fmt.Errorf("decode DIRECT connection: %w", err)
		}
		if direct.ConnectionFactoryClass == "" {
			return errors.New("DIRECT connection missing connectionFactoryClass")
		}
		c.Direct = &direct
		return nil
	case ConnectionJNDI:
		var jndi JNDIConnection
		if err := value.Decode(&jndi); err != nil {
			return fmt.Errorf("decode JNDI connection: %w", err)
		}
		if jndi.FactoryName == "" {
			return errors.New("JNDI connection missing factoryName")
		}
		c.JNDI = &jndi
		return nil
	default:
		return fmt.Errorf("unsupported connection type %q", head.Type)
	}
}

// MarshalYAML renders the union back into its flat mapping form.
func (c ConnectionConfig) MarshalYAML() (interface{}, error) {
	out := map[string]interface{}{"type": c.Type}
	switch {
	case c.Direct != nil:
		out["connectionFactoryClass"] = c.Direct.ConnectionFactoryClass
		if c.Direct.Username != "" {
			out["username"] = c.Direct.Username
		}
		if c.Direct.Password != "" {
			out["password"] = c.Direct.Password
		}
	case c.JNDI != nil:
		out["contextFactoryClass"] = c.JNDI.ContextFactoryClass
		out["providerURL"] = c.JNDI.ProviderURL
		out["factoryName"] = c.JNDI.FactoryName
		if c.JNDI.Principal != "" {
			out["principal"] = c.JNDI.Principal
		}
		if c.JNDI.Credentials != "" {
			out["credentials"] = c.JNDI.Credentials
		}
	}
	if len(c.Properties) > 0 {
		out["properties"] = c.Properties
	}
	if c.LibsPath != "" {
		out["libsPath"] = c.LibsPath
	}
	return out, nil
}

// DestinationConfig names a destination and how to interpret the name.
type DestinationConfig struct {
	Type        string `yaml:"type"`
	Destination string `yaml:"destination"`
}

// EndpointConfig describes one send or drain target.
type EndpointConfig struct {
	ID             string            `yaml:"id"`
	Enabled        bool              `yaml:"enabled"`
	Destination    DestinationConfig `yaml:"destination"`
	Selector       string            `yaml:"selector,omitempty"`
	ReceiveTimeout Duration          `yaml:"receiveTimeout,omitempty"`
}

// IsJNDI reports whether the endpoint's destination is a directory name
// rather than a literal queue or topic.
func (e EndpointConfig) IsJNDI() bool {
	return strings.EqualFold(e.Destination.Type, "jndi")
}

// DestinationURL renders the endpoint's destination as a queue:// or
// topic:// URL. Directory-typed destinations return the bare name; unknown
// types are an error.
func (e EndpointConfig) DestinationURL() (string, error) {
	name := e.Destination.Destination
	switch strings.ToLower(e.Destination.Type) {
	case "queue":
		return "queue://" + name, nil
	case "topic":
		return "topic://" + name, nil
	case "jndi":
		return name, nil
	default:
		return "", fmt.Errorf("endpoint %s: unsupported destination type %q", e.ID, e.Destination.Type)
	}
}

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig configures runtime telemetry exporters.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
}

// Config is the root configuration structure for the adapter host.
type Config struct {
	Name       string           `yaml:"name,omitempty"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Connection ConnectionConfig `yaml:"connection"`
	Endpoints  []EndpointConfig `yaml:"endpoints"`
}

// Endpoint returns the endpoint with the given id.
func (c *Config) Endpoint(id string) (EndpointConfig, error) {
	for _, e := range c.Endpoints {
		if e.ID == id {
			return e, nil
		}
	}
	return EndpointConfig{}, fmt.Errorf("endpoint %q not configured", id)
}

// Load reads, schema-validates and decodes the configuration file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path must not be empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(path, raw)
}

// Parse schema-validates and decodes an in-memory configuration document.
func Parse(path string, raw []byte) (*Config, error) {
	if err := validateSchema(path, raw); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	// destination types fail eagerly, not on first use
	for _, e := range cfg.Endpoints {
		if _, err := e.DestinationURL(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &cfg, nil
}
