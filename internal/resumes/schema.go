package resumes

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchemaJSON string

var (
	schemaOnce   sync.Once
	schemaLoaded *gojsonschema.Schema
	schemaErr    error
)

// FieldError is a single schema violation at a JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaError lists every schema violation of a payload.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrInvalidInput }

func resumeSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaLoaded, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchemaJSON))
	})
	return schemaLoaded, schemaErr
}

// ValidateDocumentJSON checks a raw resume payload against the document schema.
func ValidateDocumentJSON(raw []byte) error {
	schema, err := resumeSchema()
	if err != nil {
		return fmt.Errorf("load resume schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", ErrInvalidInput, err)
	}
	if result.Valid() {
		return nil
	}

	out := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return out
}
