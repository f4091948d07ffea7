package entity

import (
	"time"
)

// Entity is one instance of a runtime-defined type. Data is the free-form
// field bag; the write boundary filters and type-checks it against the
// type's schema, storage itself does not constrain it.
type Entity struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	Name       string         `json:"name"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type CreateEntityRequest struct {
	Name string         `json:"name" binding:"required"`
	Data map[string]any `json:"data"`
}

type UpdateEntityRequest struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// ListOptions selects a page of a type's entities. Page is 1-indexed.
type ListOptions struct {
	Search  string
	Page    int
	PerPage int
}

const DefaultPerPage = 20

type ListResult struct {
	Entities    []*Entity
	TotalCount  int
	CurrentPage int
	PerPage     int
	TotalPages  int
}
