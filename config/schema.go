package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// configSchema constrains configuration documents before they are decoded,
// so shape errors surface with field paths instead of zero values.
const configSchema = `
#KeyValue: {
	key:   string
	value: string
}

#Direct: {
	type:                   "DIRECT"
	connectionFactoryClass: string
	username?:              string
	password?:              string
	properties?: [...#KeyValue]
	libsPath?: string
}

#JNDI: {
	type:                "JNDI"
	contextFactoryClass: string
	providerURL:         string
	principal?:          string
	credentials?:        string
	factoryName:         string
	properties?: [...#KeyValue]
	libsPath?: string
}

#Destination: {
	type:        "queue" | "topic" | "jndi"
	destination: string
}

#Endpoint: {
	id:          string
	enabled?:    bool
	destination: #Destination
	selector?:       string
	receiveTimeout?: string
}

name?: string
logging?: {
	level?:  string
	format?: string
	loki?: {
		enabled?: bool
		url?:     string
		labels?: {[string]: string}
	}
}
telemetry?: {
	enabled?:  bool
	provider?: string
}
connection: #Direct | #JNDI
endpoints?: [...#Endpoint]
`

func validateSchema(path string, raw []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	file, err := cueyaml.Extract(path, raw)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	if err := schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config %s: schema validation: %w", path, err)
	}
	return nil
}
