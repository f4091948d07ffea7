package schema

import (
	"fmt"
	"strings"
	"time"
)

// Schema describes one entity type at runtime: which fields instances carry
// and which relationships they may have. Schemas are identified by name.
type Schema struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Fields        []FieldSpec        `json:"fields"`
	Relationships []RelationshipSpec `json:"relationships"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// FieldSpec is one declared field of a schema. Default is carried for form
// rendering; the store itself never applies it.
type FieldSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
}

// RelationshipSpec declares a named relationship to another schema. Target
// is deliberately not checked against existing schema names.
type RelationshipSpec struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

const (
	FieldTypeString       = "string"
	FieldTypeText         = "text"
	FieldTypeNumber       = "number"
	FieldTypeBoolean      = "boolean"
	FieldTypeDate         = "date"
	FieldTypeImage        = "image"
	FieldTypeImageGallery = "image_gallery"
)

const (
	RelationshipTypeBelongsTo = "belongsTo"
	RelationshipTypeHasMany   = "hasMany"
)

var validFieldTypes = map[string]bool{
	FieldTypeString:       true,
	FieldTypeText:         true,
	FieldTypeNumber:       true,
	FieldTypeBoolean:      true,
	FieldTypeDate:         true,
	FieldTypeImage:        true,
	FieldTypeImageGallery: true,
}

var validRelationshipTypes = map[string]bool{
	RelationshipTypeBelongsTo: true,
	RelationshipTypeHasMany:   true,
}

// ValidFieldTypes returns the accepted FieldSpec types.
func ValidFieldTypes() []string {
	return []string{
		FieldTypeString, FieldTypeText, FieldTypeNumber, FieldTypeBoolean,
		FieldTypeDate, FieldTypeImage, FieldTypeImageGallery,
	}
}

// StructureError aggregates every structural violation of a schema's field
// and relationship lists. Violations are reported together rather than
// failing on the first so an admin UI can surface the whole batch.
type StructureError struct {
	Violations []string `json:"violations"`
}

func (e *StructureError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// ValidateStructure checks the schema's own shape: non-empty name, every
// field has a name and a known type, every relationship has a name, a known
// type and a target. Returns nil when the structure is sound.
func (s *Schema) ValidateStructure() error {
	var violations []string

	if strings.TrimSpace(s.Name) == "" {
		violations = append(violations, "Name can't be blank")
	}

	for i, f := range s.Fields {
		if f.Name == "" || f.Type == "" {
			violations = append(violations, fmt.Sprintf("Field at index %d must have 'name' and 'type'", i))
		}
		if f.Type != "" && !validFieldTypes[f.Type] {
			violations = append(violations, fmt.Sprintf("Invalid field type '%s' at index %d", f.Type, i))
		}
	}

	for i, r := range s.Relationships {
		if r.Name == "" || r.Type == "" || r.Target == "" {
			violations = append(violations, fmt.Sprintf("Relationship at index %d must have 'name', 'type', and 'target'", i))
		}
		if r.Type != "" && !validRelationshipTypes[r.Type] {
			violations = append(violations, fmt.Sprintf("Invalid relationship type '%s' at index %d", r.Type, i))
		}
	}

	if len(violations) > 0 {
		return &StructureError{Violations: violations}
	}
	return nil
}

// FieldByName returns the spec for a declared field, or nil.
func (s *Schema) FieldByName(name string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

type CreateSchemaRequest struct {
	Name          string             `json:"name" binding:"required"`
	Fields        []FieldSpec        `json:"fields"`
	Relationships []RelationshipSpec `json:"relationships"`
}

// UpdateSchemaRequest replaces whichever list is present wholesale; a nil
// list leaves the stored one untouched.
type UpdateSchemaRequest struct {
	Fields        []FieldSpec        `json:"fields"`
	Relationships []RelationshipSpec `json:"relationships"`
}
