package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemabase/schemabase/internal/core/schema"
)

func productFields() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "title", Type: schema.FieldTypeString, Required: true},
		{Name: "price", Type: schema.FieldTypeNumber},
		{Name: "active", Type: schema.FieldTypeBoolean},
		{Name: "released_on", Type: schema.FieldTypeDate},
		{Name: "cover", Type: schema.FieldTypeImage},
	}
}

func TestClean_DropsUnknownKeys(t *testing.T) {
	rules := Typed(productFields())

	cleaned := rules.Clean(map[string]any{
		"title":   "MacBook Pro",
		"price":   float64(1999),
		"unknown": "dropped",
	})

	assert.Equal(t, map[string]any{
		"title": "MacBook Pro",
		"price": float64(1999),
	}, cleaned)
}

func TestClean_UntypedPassesEverything(t *testing.T) {
	rules := Untyped()

	data := map[string]any{"anything": "goes", "nested": map[string]any{"a": 1}}
	assert.Equal(t, data, rules.Clean(data))
}

func TestClean_NilPayload(t *testing.T) {
	assert.Equal(t, map[string]any{}, Typed(productFields()).Clean(nil))
	assert.Equal(t, map[string]any{}, Untyped().Clean(nil))
}

func TestForSchema_NilSchemaIsUntyped(t *testing.T) {
	rules := ForSchema(nil)

	data := map[string]any{"free": "form"}
	assert.Equal(t, data, rules.Clean(data))
	assert.NoError(t, rules.Validate(data))
}

func TestValidate_AcceptsDeclaredTypes(t *testing.T) {
	rules := Typed(productFields())

	err := rules.Validate(map[string]any{
		"title":       "MacBook Pro",
		"price":       float64(1999),
		"active":      true,
		"released_on": "2023-11-07",
	})
	assert.NoError(t, err)
}

func TestValidate_AggregatesTypeViolations(t *testing.T) {
	rules := Typed(productFields())

	err := rules.Validate(map[string]any{
		"title":  42,
		"price":  "not a number",
		"active": "yes",
	})
	assert.True(t, IsValidationError(err))

	ve := GetValidationErrors(err)
	assert.Len(t, ve.Errors, 3)
}

func TestValidate_MissingRequiredFieldIsNotRejected(t *testing.T) {
	// Presence of required fields is deliberately not enforced at this
	// layer; only value types are checked.
	rules := Typed(productFields())

	assert.NoError(t, rules.Validate(map[string]any{"price": float64(10)}))
	assert.NoError(t, rules.Validate(map[string]any{}))
}

func TestValidate_ImageFieldsAreOpaque(t *testing.T) {
	rules := Typed(productFields())

	err := rules.Validate(map[string]any{
		"cover": map[string]any{"filename": "a.png", "content": "base64..."},
	})
	assert.NoError(t, err)

	// Any shape passes for opaque fields.
	assert.NoError(t, rules.Validate(map[string]any{"cover": "raw-string"}))
}

func TestValidate_UntypedAcceptsAnything(t *testing.T) {
	rules := Untyped()
	assert.NoError(t, rules.Validate(map[string]any{"a": 1, "b": []any{"x"}}))
}
