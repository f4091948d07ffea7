package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/schemabase/schemabase/internal/core/schema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// Ruleset is the compiled validation view of one entity type. A typed
// ruleset filters payload keys against the schema's field list and checks
// value types; the untyped ruleset accepts any payload unchanged, so entity
// types without a schema get one codepath instead of a nil check.
type Ruleset struct {
	typed    bool
	fields   []schema.FieldSpec
	document map[string]any
}

// ForSchema builds the ruleset for sc; a nil schema yields the untyped
// ruleset.
func ForSchema(sc *schema.Schema) *Ruleset {
	if sc == nil {
		return Untyped()
	}
	return Typed(sc.Fields)
}

func Typed(fields []schema.FieldSpec) *Ruleset {
	return &Ruleset{
		typed:    true,
		fields:   fields,
		document: buildDocument(fields),
	}
}

func Untyped() *Ruleset {
	return &Ruleset{}
}

// Clean returns the payload restricted to declared field names. Unknown
// keys are dropped silently. The untyped ruleset passes everything through.
func (r *Ruleset) Clean(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	if !r.typed {
		return data
	}

	allowed := make(map[string]bool, len(r.fields))
	for _, f := range r.fields {
		allowed[f.Name] = true
	}

	cleaned := make(map[string]any, len(data))
	for k, v := range data {
		if allowed[k] {
			cleaned[k] = v
		}
	}
	return cleaned
}

// Validate type-checks a cleaned payload against the declared fields,
// reporting every violation together. Missing fields are never violations
// here, required or not: presence enforcement is deliberately left out of
// this layer.
func (r *Ruleset) Validate(data map[string]any) error {
	if !r.typed || len(r.document) == 0 {
		return nil
	}

	documentJSON, err := json.Marshal(r.document)
	if err != nil {
		return err
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(documentJSON),
		gojsonschema.NewBytesLoader(dataJSON),
	)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return &ValidationErrors{Errors: validationErrors}
	}

	return nil
}

// buildDocument renders the field list as a JSON Schema object. Image and
// gallery fields carry structured blobs this layer treats opaquely, so they
// get no type constraint. No "required" list is emitted.
func buildDocument(fields []schema.FieldSpec) map[string]any {
	props := make(map[string]any)
	for _, f := range fields {
		if t, ok := jsonType(f.Type); ok {
			props[f.Name] = map[string]any{"type": t}
		}
	}
	if len(props) == 0 {
		return nil
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func jsonType(fieldType string) (string, bool) {
	switch fieldType {
	case schema.FieldTypeString, schema.FieldTypeText, schema.FieldTypeDate:
		return "string", true
	case schema.FieldTypeNumber:
		return "number", true
	case schema.FieldTypeBoolean:
		return "boolean", true
	default:
		return "", false
	}
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
