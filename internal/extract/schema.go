package extract

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// fieldKind is the container type of a required top-level field.
type fieldKind string

const (
	kindObject fieldKind = "object"
	kindArray  fieldKind = "array"
	kindString fieldKind = "string"
)

// requiredField is a top-level field the artifact must carry.
type requiredField struct {
	Name string
	Kind fieldKind
}

// artifactSchema validates and repairs one artifact type. The required field
// list and its container kinds are read from the JSON schema itself.
type artifactSchema struct {
	name     string
	required []requiredField
	compiled *gojsonschema.Schema
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the schema violations of a document.
type ValidationError struct {
	Artifact string
	Errors   []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: schema validation failed:", ve.Artifact)
	for _, e := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", e.Field, e.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func loadSchema(name string) (*artifactSchema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read schema %s", name)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, eris.Wrapf(err, "extract: compile schema %s", name)
	}

	var doc struct {
		Required   []string `json:"required"`
		Properties map[string]struct {
			Type fieldKind `json:"type"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrapf(err, "extract: parse schema %s", name)
	}

	s := &artifactSchema{name: name, compiled: compiled}
	for _, field := range doc.Required {
		s.required = append(s.required, requiredField{Name: field, Kind: doc.Properties[field].Type})
	}
	return s, nil
}

// mustLoadSchema panics on a broken embedded schema, which is a build defect.
func mustLoadSchema(name string) *artifactSchema {
	s, err := loadSchema(name)
	if err != nil {
		panic(err)
	}
	return s
}

// repair injects an empty value for every required field that is missing or
// null and returns the names it filled.
func (s *artifactSchema) repair(doc map[string]any) []string {
	var filled []string
	for _, f := range s.required {
		if v, ok := doc[f.Name]; ok && v != nil {
			continue
		}
		switch f.Kind {
		case kindObject:
			doc[f.Name] = map[string]any{}
		case kindArray:
			doc[f.Name] = []any{}
		default:
			doc[f.Name] = ""
		}
		filled = append(filled, f.Name)
	}
	return filled
}

// validate checks doc against the schema.
func (s *artifactSchema) validate(doc map[string]any) error {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return eris.Wrapf(err, "extract: validate %s", s.name)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Artifact: s.name}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
