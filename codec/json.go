package codec

import (
	"bytes"
	"encoding/json"
)

// JSON encodes with encoding/json.
//
// Labels are written without HTML escaping so that exports stay readable.
// A non-empty Indent pretty-prints the output; decoding ignores it.
type JSON struct {
	Indent string
}

// Name returns "json".
func (JSON) Name() string { return "json" }

// Marshal encodes v.
func (c JSON) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
