package override

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/jsonc"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// Payload is the override document accepted alongside a template id.
type Payload struct {
	Sections []SectionOverride `json:"sections,omitempty"`
	Assets   map[string]string `json:"assets,omitempty"`
	Tokens   map[string]string `json:"tokens,omitempty"`
}

// SectionOverride overlays props onto the section at Index.
type SectionOverride struct {
	Index *int           `json:"index,omitempty"`
	Type  string         `json:"type,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

// At is a convenience constructor for index-addressed overrides.
func At(index int, props map[string]any) SectionOverride {
	return SectionOverride{Index: &index, Props: props}
}

// Empty reports whether the payload carries no overrides.
func (p *Payload) Empty() bool {
	return p == nil || (len(p.Sections) == 0 && len(p.Assets) == 0 && len(p.Tokens) == 0)
}

//go:embed schema/payload.schema.json
var schemaFS embed.FS

const schemaResource = "payload.schema.json"

var payloadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schema/" + schemaResource)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaResource)
})

// ParsePayload decodes a JSON or JSONC override document after checking it
// against the payload schema. Blank input yields a nil payload.
func ParsePayload(raw []byte) (*Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	data := jsonc.ToJSON(raw)
	if string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, spec.Wrap(spec.InvalidOverrideShape, "", "overrides", fmt.Errorf("decode: %w", err))
	}

	schema, err := payloadSchema()
	if err != nil {
		return nil, fmt.Errorf("override: compile payload schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, spec.Wrap(spec.InvalidOverrideShape, "", "overrides", fmt.Errorf("decode: %w", err))
	}
	return &payload, nil
}

func schemaError(err error) error {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return spec.Wrap(spec.InvalidOverrideShape, "", "overrides", err)
	}

	var (
		parts []string
		first string
	)
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "/"
			}
			if first == "" {
				first = location
			}
			parts = append(parts, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)

	return spec.Errorf(spec.InvalidOverrideShape, "", "overrides"+pointerPath(first), "%s", strings.Join(parts, "; "))
}

// pointerPath turns "/sections/0/index" into "sections[0].index".
func pointerPath(pointer string) string {
	pointer = strings.Trim(pointer, "/")
	if pointer == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(pointer, "/") {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		b.WriteString("." + part)
	}
	return b.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
