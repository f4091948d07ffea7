package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("schema not found")
	ErrDuplicateName = errors.New("schema name already exists")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateSchemaRequest) (*Schema, error) {
	sc := &Schema{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Fields:        req.Fields,
		Relationships: req.Relationships,
	}
	if sc.Fields == nil {
		sc.Fields = []FieldSpec{}
	}
	if sc.Relationships == nil {
		sc.Relationships = []RelationshipSpec{}
	}

	if err := sc.ValidateStructure(); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, sc.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	// The name is also unique-constrained in storage; a concurrent create
	// that slips past the check above still surfaces as ErrDuplicateName.
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}

	return sc, nil
}

func (s *Service) Get(ctx context.Context, name string) (*Schema, error) {
	sc, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrNotFound
	}
	return sc, nil
}

// Find looks a schema up by the lowercased entity type, the way entity
// writes resolve their schema. Returns nil without error when no schema
// exists so callers can fall back to the untyped path.
func (s *Service) Find(ctx context.Context, entityType string) (*Schema, error) {
	return s.repo.GetByName(ctx, strings.ToLower(entityType))
}

func (s *Service) List(ctx context.Context) ([]*Schema, error) {
	schemas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if schemas == nil {
		schemas = []*Schema{}
	}
	return schemas, nil
}

// Update replaces whichever of the field/relationship lists the request
// supplies, then re-runs full structural validation before committing.
func (s *Service) Update(ctx context.Context, name string, req *UpdateSchemaRequest) (*Schema, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if req.Fields != nil {
		sc.Fields = req.Fields
	}
	if req.Relationships != nil {
		sc.Relationships = req.Relationships
	}

	if err := sc.ValidateStructure(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}

	return sc, nil
}

// AddField appends one field and validates the whole resulting list. On
// failure nothing is persisted, so a bad append leaves the schema as it was.
func (s *Service) AddField(ctx context.Context, name string, field FieldSpec) (*Schema, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	sc.Fields = append(sc.Fields, field)
	if err := sc.ValidateStructure(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// RemoveField removes a field by name. Removing an absent field is a no-op.
func (s *Service) RemoveField(ctx context.Context, name, fieldName string) (*Schema, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	kept := sc.Fields[:0:0]
	for _, f := range sc.Fields {
		if f.Name != fieldName {
			kept = append(kept, f)
		}
	}
	if kept == nil {
		kept = []FieldSpec{}
	}
	sc.Fields = kept

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// AddRelationship appends one relationship spec, validate-then-commit like
// AddField.
func (s *Service) AddRelationship(ctx context.Context, name string, rel RelationshipSpec) (*Schema, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	sc.Relationships = append(sc.Relationships, rel)
	if err := sc.ValidateStructure(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// RemoveRelationship removes a relationship spec by name; idempotent.
func (s *Service) RemoveRelationship(ctx context.Context, name, relName string) (*Schema, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	kept := sc.Relationships[:0:0]
	for _, r := range sc.Relationships {
		if r.Name != relName {
			kept = append(kept, r)
		}
	}
	if kept == nil {
		kept = []RelationshipSpec{}
	}
	sc.Relationships = kept

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Delete removes the schema definition only. Entities of that type are left
// in place and keep working through the untyped fallback.
func (s *Service) Delete(ctx context.Context, name string) error {
	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, name)
}
