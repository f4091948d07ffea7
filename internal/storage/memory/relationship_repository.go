package memory

import (
	"context"

	"github.com/schemabase/schemabase/internal/core/relationship"
)

type relationshipRepository struct {
	store *Store
}

// NewRelationshipRepository returns a relationship.Repository over the
// shared store.
func NewRelationshipRepository(store *Store) relationship.Repository {
	return &relationshipRepository{store: store}
}

func (r *relationshipRepository) Create(ctx context.Context, rel *relationship.Relationship) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, edge := range r.store.edges {
		if edge.FromEntityID == rel.FromEntityID &&
			edge.ToEntityID == rel.ToEntityID &&
			edge.RelationshipType == rel.RelationshipType {
			return relationship.ErrDuplicate
		}
	}

	rel.CreatedAt = now()
	stored := *rel
	r.store.edges = append(r.store.edges, &stored)
	return nil
}

func (r *relationshipRepository) ListOutgoing(ctx context.Context, fromID string) ([]*relationship.Relationship, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rels []*relationship.Relationship
	for _, edge := range r.store.edges {
		if edge.FromEntityID == fromID {
			copied := *edge
			rels = append(rels, &copied)
		}
	}
	return rels, nil
}

func (r *relationshipRepository) ListIncoming(ctx context.Context, toID string) ([]*relationship.Relationship, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rels []*relationship.Relationship
	for _, edge := range r.store.edges {
		if edge.ToEntityID == toID {
			copied := *edge
			rels = append(rels, &copied)
		}
	}
	return rels, nil
}

func (r *relationshipRepository) Delete(ctx context.Context, fromID, toID, relType string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.edges[:0]
	for _, edge := range r.store.edges {
		if edge.FromEntityID == fromID && edge.ToEntityID == toID && edge.RelationshipType == relType {
			continue
		}
		kept = append(kept, edge)
	}
	r.store.edges = kept
	return nil
}

func (r *relationshipRepository) DeleteAllFor(ctx context.Context, entityID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.edges[:0]
	for _, edge := range r.store.edges {
		if edge.FromEntityID == entityID || edge.ToEntityID == entityID {
			continue
		}
		kept = append(kept, edge)
	}
	r.store.edges = kept
	return nil
}
