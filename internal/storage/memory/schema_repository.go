package memory

import (
	"context"
	"sort"

	"github.com/schemabase/schemabase/internal/core/schema"
)

type schemaRepository struct {
	store *Store
}

// NewSchemaRepository returns a schema.Repository over the shared store.
func NewSchemaRepository(store *Store) schema.Repository {
	return &schemaRepository{store: store}
}

func (r *schemaRepository) Create(ctx context.Context, sc *schema.Schema) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.schemas[sc.Name]; ok {
		return schema.ErrDuplicateName
	}

	sc.CreatedAt = now()
	sc.UpdatedAt = sc.CreatedAt
	r.store.schemas[sc.Name] = &schemaRecord{sc: cloneSchema(sc), seq: r.store.nextSeq()}
	return nil
}

func (r *schemaRepository) GetByName(ctx context.Context, name string) (*schema.Schema, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.schemas[name]
	if !ok {
		return nil, nil
	}
	return cloneSchema(rec.sc), nil
}

func (r *schemaRepository) List(ctx context.Context) ([]*schema.Schema, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var schemas []*schema.Schema
	for _, rec := range r.store.schemas {
		schemas = append(schemas, cloneSchema(rec.sc))
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas, nil
}

func (r *schemaRepository) Update(ctx context.Context, sc *schema.Schema) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.schemas[sc.Name]
	if !ok {
		return schema.ErrNotFound
	}

	sc.CreatedAt = rec.sc.CreatedAt
	sc.UpdatedAt = now()
	rec.sc = cloneSchema(sc)
	return nil
}

func (r *schemaRepository) Delete(ctx context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.schemas, name)
	return nil
}

func (r *schemaRepository) Exists(ctx context.Context, name string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.schemas[name]
	return ok, nil
}
