package schema

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/schemabase/schemabase/internal/storage/postgres"
)

// Repository persists schema definitions. GetByName returns (nil, nil) when
// no schema exists under that name.
type Repository interface {
	Create(ctx context.Context, sc *Schema) error
	GetByName(ctx context.Context, name string) (*Schema, error)
	List(ctx context.Context) ([]*Schema, error)
	Update(ctx context.Context, sc *Schema) error
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

type postgresRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, sc *Schema) error {
	fields, err := json.Marshal(sc.Fields)
	if err != nil {
		return err
	}
	relationships, err := json.Marshal(sc.Relationships)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schemas (id, name, fields, relationships)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err = r.db.DB.QueryRowContext(ctx, query,
		sc.ID, sc.Name, fields, relationships,
	).Scan(&sc.CreatedAt, &sc.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (*Schema, error) {
	query := `
		SELECT id, name, fields, relationships, created_at, updated_at
		FROM schemas
		WHERE name = $1`

	return scanSchema(r.db.DB.QueryRowContext(ctx, query, name))
}

func (r *postgresRepository) List(ctx context.Context) ([]*Schema, error) {
	query := `
		SELECT id, name, fields, relationships, created_at, updated_at
		FROM schemas
		ORDER BY name`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []*Schema
	for rows.Next() {
		sc := &Schema{}
		var fields, relationships []byte
		if err := rows.Scan(&sc.ID, &sc.Name, &fields, &relationships, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalLists(sc, fields, relationships); err != nil {
			return nil, err
		}
		schemas = append(schemas, sc)
	}

	return schemas, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, sc *Schema) error {
	fields, err := json.Marshal(sc.Fields)
	if err != nil {
		return err
	}
	relationships, err := json.Marshal(sc.Relationships)
	if err != nil {
		return err
	}

	query := `
		UPDATE schemas
		SET fields = $2, relationships = $3, updated_at = CURRENT_TIMESTAMP
		WHERE name = $1
		RETURNING updated_at`

	return r.db.DB.QueryRowContext(ctx, query, sc.Name, fields, relationships).Scan(&sc.UpdatedAt)
}

func (r *postgresRepository) Delete(ctx context.Context, name string) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM schemas WHERE name = $1`, name)
	return err
}

func (r *postgresRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schemas WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, err
}

func scanSchema(row *sql.Row) (*Schema, error) {
	sc := &Schema{}
	var fields, relationships []byte

	err := row.Scan(&sc.ID, &sc.Name, &fields, &relationships, &sc.CreatedAt, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalLists(sc, fields, relationships); err != nil {
		return nil, err
	}
	return sc, nil
}

func unmarshalLists(sc *Schema, fields, relationships []byte) error {
	if err := json.Unmarshal(fields, &sc.Fields); err != nil {
		return err
	}
	if err := json.Unmarshal(relationships, &sc.Relationships); err != nil {
		return err
	}
	if sc.Fields == nil {
		sc.Fields = []FieldSpec{}
	}
	if sc.Relationships == nil {
		sc.Relationships = []RelationshipSpec{}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
