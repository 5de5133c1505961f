package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes with github.com/goccy/go-json, the faster choice for large
// results and the default for pair exports. Its output is plain JSON without
// HTML escaping, the same shape JSON writes.
type GoJSON struct{}

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }

// Marshal encodes v.
func (GoJSON) Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}

// Unmarshal decodes data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
