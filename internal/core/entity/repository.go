package entity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schemabase/schemabase/internal/storage/postgres"
)

// Repository persists entities. Get methods return (nil, nil) on a miss.
// Delete must remove every relationship edge where the entity is either
// endpoint, atomically with the row itself.
type Repository interface {
	Create(ctx context.Context, ent *Entity) error
	GetByTypeAndID(ctx context.Context, entityType, id string) (*Entity, error)
	GetByID(ctx context.Context, id string) (*Entity, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Entity, error)
	List(ctx context.Context, entityType, search string, limit, offset int) ([]*Entity, int, error)
	Update(ctx context.Context, ent *Entity) error
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &postgresRepository{db: db}
}

const entityColumns = `id, entity_type, name, data, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, ent *Entity) error {
	data, err := json.Marshal(ent.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entities (id, entity_type, name, data)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		ent.ID, ent.EntityType, ent.Name, data,
	).Scan(&ent.CreatedAt, &ent.UpdatedAt)
}

func (r *postgresRepository) GetByTypeAndID(ctx context.Context, entityType, id string) (*Entity, error) {
	query := fmt.Sprintf(`SELECT %s FROM entities WHERE entity_type = $1 AND id = $2`, entityColumns)
	return scanEntity(r.db.DB.QueryRowContext(ctx, query, entityType, id))
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Entity, error) {
	query := fmt.Sprintf(`SELECT %s FROM entities WHERE id = $1`, entityColumns)
	return scanEntity(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*Entity, error) {
	result := make(map[string]*Entity, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM entities WHERE id IN (%s)`,
		entityColumns, strings.Join(placeholders, ","))

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities, err := scanEntities(rows)
	if err != nil {
		return nil, err
	}
	for _, ent := range entities {
		result[ent.ID] = ent
	}
	return result, nil
}

func (r *postgresRepository) List(ctx context.Context, entityType, search string, limit, offset int) ([]*Entity, int, error) {
	where := []string{"entity_type = $1"}
	args := []any{entityType}

	if search != "" {
		// Case-insensitive substring match over name OR entity_type.
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR entity_type ILIKE $%d)", len(args)+1, len(args)+2))
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM entities WHERE %s`, whereClause)
	var total int
	if err := r.db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM entities
		WHERE %s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d`, entityColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entities, err := scanEntities(rows)
	return entities, total, err
}

func (r *postgresRepository) Update(ctx context.Context, ent *Entity) error {
	data, err := json.Marshal(ent.Data)
	if err != nil {
		return err
	}

	query := `
		UPDATE entities
		SET name = $2, data = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	return r.db.DB.QueryRowContext(ctx, query, ent.ID, ent.Name, data).Scan(&ent.UpdatedAt)
}

// Delete removes the entity and its edges in one transaction. The foreign
// keys on entity_relationships also cascade, so either mechanism alone
// keeps the graph free of dangling edges.
func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM entity_relationships WHERE from_entity_id = $1 OR to_entity_id = $1`, id,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
		return err
	})
}

func scanEntity(row *sql.Row) (*Entity, error) {
	ent := &Entity{}
	var data []byte
	var name sql.NullString

	err := row.Scan(&ent.ID, &ent.EntityType, &name, &data, &ent.CreatedAt, &ent.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ent.Name = name.String
	if err := json.Unmarshal(data, &ent.Data); err != nil {
		return nil, err
	}
	return ent, nil
}

func scanEntities(rows *sql.Rows) ([]*Entity, error) {
	var entities []*Entity
	for rows.Next() {
		ent := &Entity{}
		var data []byte
		var name sql.NullString

		if err := rows.Scan(&ent.ID, &ent.EntityType, &name, &data, &ent.CreatedAt, &ent.UpdatedAt); err != nil {
			return nil, err
		}

		ent.Name = name.String
		if err := json.Unmarshal(data, &ent.Data); err != nil {
			return nil, err
		}
		entities = append(entities, ent)
	}
	return entities, rows.Err()
}
