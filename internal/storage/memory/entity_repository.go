package memory

import (
	"context"

	"github.com/schemabase/schemabase/internal/core/entity"
)

type entityRepository struct {
	store *Store
}

// NewEntityRepository returns an entity.Repository over the shared store.
func NewEntityRepository(store *Store) entity.Repository {
	return &entityRepository{store: store}
}

func (r *entityRepository) Create(ctx context.Context, ent *entity.Entity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ent.CreatedAt = now()
	ent.UpdatedAt = ent.CreatedAt
	r.store.entities[ent.ID] = &entityRecord{ent: cloneEntity(ent), seq: r.store.nextSeq()}
	return nil
}

func (r *entityRepository) GetByTypeAndID(ctx context.Context, entityType, id string) (*entity.Entity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.entities[id]
	if !ok || rec.ent.EntityType != entityType {
		return nil, nil
	}
	return cloneEntity(rec.ent), nil
}

func (r *entityRepository) GetByID(ctx context.Context, id string) (*entity.Entity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.entities[id]
	if !ok {
		return nil, nil
	}
	return cloneEntity(rec.ent), nil
}

func (r *entityRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Entity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make(map[string]*entity.Entity, len(ids))
	for _, id := range ids {
		if rec, ok := r.store.entities[id]; ok {
			result[id] = cloneEntity(rec.ent)
		}
	}
	return result, nil
}

func (r *entityRepository) List(ctx context.Context, entityType, search string, limit, offset int) ([]*entity.Entity, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.Entity
	for _, rec := range r.store.sortedEntities(entityType) {
		if matchesSearch(rec.ent, search) {
			matched = append(matched, cloneEntity(rec.ent))
		}
	}

	total := len(matched)
	if offset >= total {
		return []*entity.Entity{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *entityRepository) Update(ctx context.Context, ent *entity.Entity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.entities[ent.ID]
	if !ok {
		return entity.ErrNotFound
	}

	ent.CreatedAt = rec.ent.CreatedAt
	ent.UpdatedAt = now()
	rec.ent = cloneEntity(ent)
	return nil
}

// Delete removes the entity and every edge touching it under one lock,
// mirroring the transactional postgres delete.
func (r *entityRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.edges[:0]
	for _, edge := range r.store.edges {
		if edge.FromEntityID != id && edge.ToEntityID != id {
			kept = append(kept, edge)
		}
	}
	r.store.edges = kept

	delete(r.store.entities, id)
	return nil
}
