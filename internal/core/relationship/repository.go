package relationship

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/schemabase/schemabase/internal/storage/postgres"
)

// Repository persists relationship edges. Create returns ErrDuplicate on a
// (from, to, type) triple collision; List methods return edges in creation
// order.
type Repository interface {
	Create(ctx context.Context, rel *Relationship) error
	ListOutgoing(ctx context.Context, fromID string) ([]*Relationship, error)
	ListIncoming(ctx context.Context, toID string) ([]*Relationship, error)
	Delete(ctx context.Context, fromID, toID, relType string) error
	DeleteAllFor(ctx context.Context, entityID string) error
}

type postgresRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, rel *Relationship) error {
	query := `
		INSERT INTO entity_relationships (id, from_entity_id, to_entity_id, relationship_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.DB.QueryRowContext(ctx, query,
		rel.ID, rel.FromEntityID, rel.ToEntityID, rel.RelationshipType,
	).Scan(&rel.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *postgresRepository) ListOutgoing(ctx context.Context, fromID string) ([]*Relationship, error) {
	query := `
		SELECT id, from_entity_id, to_entity_id, relationship_type, created_at
		FROM entity_relationships
		WHERE from_entity_id = $1
		ORDER BY created_at, id`

	return r.list(ctx, query, fromID)
}

func (r *postgresRepository) ListIncoming(ctx context.Context, toID string) ([]*Relationship, error) {
	query := `
		SELECT id, from_entity_id, to_entity_id, relationship_type, created_at
		FROM entity_relationships
		WHERE to_entity_id = $1
		ORDER BY created_at, id`

	return r.list(ctx, query, toID)
}

func (r *postgresRepository) list(ctx context.Context, query, arg string) ([]*Relationship, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []*Relationship
	for rows.Next() {
		rel := &Relationship{}
		if err := rows.Scan(&rel.ID, &rel.FromEntityID, &rel.ToEntityID, &rel.RelationshipType, &rel.CreatedAt); err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

func (r *postgresRepository) Delete(ctx context.Context, fromID, toID, relType string) error {
	_, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM entity_relationships
		 WHERE from_entity_id = $1 AND to_entity_id = $2 AND relationship_type = $3`,
		fromID, toID, relType,
	)
	return err
}

func (r *postgresRepository) DeleteAllFor(ctx context.Context, entityID string) error {
	_, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM entity_relationships WHERE from_entity_id = $1 OR to_entity_id = $1`,
		entityID,
	)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
