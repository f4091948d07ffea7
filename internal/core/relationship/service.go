package relationship

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/schemabase/schemabase/internal/core/entity"
)

var (
	// ErrSelfRelationship rejects edges whose endpoints are the same
	// entity, for every relationship type.
	ErrSelfRelationship = errors.New("cannot create relationship to self")

	// ErrTargetNotFound is distinct from entity.ErrNotFound so the boundary
	// can say "target entity not found" rather than "entity not found".
	ErrTargetNotFound = errors.New("target entity not found")

	// ErrDuplicate signals a (from, to, type) triple collision at the
	// repository. Add absorbs it: duplicate creation is a success no-op.
	ErrDuplicate = errors.New("relationship already exists")
)

type Service struct {
	repo     Repository
	entities entity.Repository
}

func NewService(repo Repository, entities entity.Repository) *Service {
	return &Service{repo: repo, entities: entities}
}

// Add creates the edge fromID -> toID of the given type. Adding an edge
// that already exists succeeds without creating a second row; the storage
// unique constraint backs this up under concurrent writers.
func (s *Service) Add(ctx context.Context, fromID, toID, relType string) error {
	if fromID == toID {
		return ErrSelfRelationship
	}

	target, err := s.entities.GetByID(ctx, toID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetNotFound
	}

	rel := &Relationship{
		ID:               uuid.NewString(),
		FromEntityID:     fromID,
		ToEntityID:       toID,
		RelationshipType: relType,
	}

	if err := s.repo.Create(ctx, rel); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil
		}
		return err
	}
	return nil
}

// Remove deletes all edges matching the triple. Removing an edge that does
// not exist is a success no-op.
func (s *Service) Remove(ctx context.Context, fromID, toID, relType string) error {
	return s.repo.Delete(ctx, fromID, toID, relType)
}

// Summaries returns the entity's outgoing edges grouped by relationship
// type, each group in edge creation order, projected without target data.
func (s *Service) Summaries(ctx context.Context, fromID string) (map[string][]Summary, error) {
	edges, targets, err := s.outgoing(ctx, fromID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]Summary)
	for _, edge := range edges {
		target, ok := targets[edge.ToEntityID]
		if !ok {
			// Dangling edge; reads tolerate it.
			continue
		}
		grouped[edge.RelationshipType] = append(grouped[edge.RelationshipType], Summary{
			Type: target.EntityType,
			ID:   target.ID,
			Name: target.Name,
		})
	}
	return grouped, nil
}

// Details is the same grouped query projected with each target's data bag.
func (s *Service) Details(ctx context.Context, fromID string) (map[string][]Detail, error) {
	edges, targets, err := s.outgoing(ctx, fromID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]Detail)
	for _, edge := range edges {
		target, ok := targets[edge.ToEntityID]
		if !ok {
			continue
		}
		grouped[edge.RelationshipType] = append(grouped[edge.RelationshipType], Detail{
			Type: target.EntityType,
			ID:   target.ID,
			Name: target.Name,
			Data: target.Data,
		})
	}
	return grouped, nil
}

func (s *Service) outgoing(ctx context.Context, fromID string) ([]*Relationship, map[string]*entity.Entity, error) {
	edges, err := s.repo.ListOutgoing(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(edges))
	seen := make(map[string]bool, len(edges))
	for _, edge := range edges {
		if !seen[edge.ToEntityID] {
			seen[edge.ToEntityID] = true
			ids = append(ids, edge.ToEntityID)
		}
	}

	targets, err := s.entities.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return edges, targets, nil
}

// CascadeDelete removes every edge where the entity is either endpoint.
func (s *Service) CascadeDelete(ctx context.Context, entityID string) error {
	return s.repo.DeleteAllFor(ctx, entityID)
}

// ListIncoming exposes the reverse adjacency, used by integrity checks.
func (s *Service) ListIncoming(ctx context.Context, toID string) ([]*Relationship, error) {
	return s.repo.ListIncoming(ctx, toID)
}

// ListOutgoing returns the raw outgoing edges in creation order.
func (s *Service) ListOutgoing(ctx context.Context, fromID string) ([]*Relationship, error) {
	return s.repo.ListOutgoing(ctx, fromID)
}
