package relationship

import (
	"time"
)

// Relationship is one directed, typed edge between two entities. The
// (from, to, type) triple is unique.
type Relationship struct {
	ID               string    `json:"id"`
	FromEntityID     string    `json:"from_entity_id"`
	ToEntityID       string    `json:"to_entity_id"`
	RelationshipType string    `json:"relationship_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// Summary is the target projection embedded in an entity's full view.
type Summary struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Detail is the richer projection served by the relationships listing
// endpoint; unlike Summary it carries the target's data bag.
type Detail struct {
	Type string         `json:"type"`
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

type CreateRelationshipRequest struct {
	Type       string `json:"type" binding:"required"`
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
}
