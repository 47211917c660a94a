// Package codec encodes index manifests.
//
// Every built-in codec writes plain JSON, so a manifest saved with one is
// read back by any other. The choice only trades speed against
// dependencies and readability.
package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// Codec encodes and decodes manifests.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "go-json-indent":
		return GoJSON{Indent: "  "}, true
	}
	return nil, false
}

// JSON uses encoding/json.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// GoJSON uses github.com/goccy/go-json. A non-empty Indent pretty-prints
// the output, which helps when manifests are inspected by hand in a
// bucket browser.
type GoJSON struct {
	Indent string
}

// Marshal encodes v, indented when g.Indent is set.
func (g GoJSON) Marshal(v any) ([]byte, error) {
	if g.Indent != "" {
		return gojson.MarshalIndent(v, "", g.Indent)
	}
	return gojson.Marshal(v)
}

// Unmarshal decodes data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json" or "go-json-indent".
func (g GoJSON) Name() string {
	if g.Indent != "" {
		return "go-json-indent"
	}
	return "go-json"
}
