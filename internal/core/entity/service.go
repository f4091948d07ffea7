package entity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/schemabase/schemabase/internal/core/schema"
	"github.com/schemabase/schemabase/internal/core/validation"
)

var ErrNotFound = errors.New("entity not found")

type Service struct {
	repo      Repository
	schemaSvc *schema.Service
}

func NewService(repo Repository, schemaSvc *schema.Service) *Service {
	return &Service{repo: repo, schemaSvc: schemaSvc}
}

// rules resolves the validation ruleset for an entity type. Types without a
// schema get the untyped ruleset, which accepts any payload.
func (s *Service) rules(ctx context.Context, entityType string) (*validation.Ruleset, error) {
	sc, err := s.schemaSvc.Find(ctx, entityType)
	if err != nil {
		return nil, err
	}
	return validation.ForSchema(sc), nil
}

func (s *Service) Create(ctx context.Context, entityType string, req *CreateEntityRequest) (*Entity, error) {
	rules, err := s.rules(ctx, entityType)
	if err != nil {
		return nil, err
	}

	data := rules.Clean(req.Data)
	if err := rules.Validate(data); err != nil {
		return nil, err
	}

	ent := &Entity{
		ID:         uuid.NewString(),
		EntityType: entityType,
		Name:       req.Name,
		Data:       data,
	}

	if err := s.repo.Create(ctx, ent); err != nil {
		return nil, err
	}

	return ent, nil
}

func (s *Service) Get(ctx context.Context, entityType, id string) (*Entity, error) {
	ent, err := s.repo.GetByTypeAndID(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, ErrNotFound
	}
	return ent, nil
}

func (s *Service) List(ctx context.Context, entityType string, opts ListOptions) (*ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}

	offset := (opts.Page - 1) * opts.PerPage
	entities, total, err := s.repo.List(ctx, entityType, opts.Search, opts.PerPage, offset)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []*Entity{}
	}

	totalPages := (total + opts.PerPage - 1) / opts.PerPage

	return &ListResult{
		Entities:    entities,
		TotalCount:  total,
		CurrentPage: opts.Page,
		PerPage:     opts.PerPage,
		TotalPages:  totalPages,
	}, nil
}

// Update shallow-merges the supplied data into the stored bag: present keys
// replace, absent keys are preserved. The merged result is validated before
// anything is written.
func (s *Service) Update(ctx context.Context, entityType, id string, req *UpdateEntityRequest) (*Entity, error) {
	ent, err := s.Get(ctx, entityType, id)
	if err != nil {
		return nil, err
	}

	rules, err := s.rules(ctx, entityType)
	if err != nil {
		return nil, err
	}

	if req.Data != nil {
		if ent.Data == nil {
			ent.Data = map[string]any{}
		}
		for k, v := range rules.Clean(req.Data) {
			ent.Data[k] = v
		}
		if err := rules.Validate(ent.Data); err != nil {
			return nil, err
		}
	}

	if req.Name != "" {
		ent.Name = req.Name
	}

	if err := s.repo.Update(ctx, ent); err != nil {
		return nil, err
	}

	return ent, nil
}

// Delete removes the entity together with every relationship edge touching
// it, as one atomic unit.
func (s *Service) Delete(ctx context.Context, entityType, id string) error {
	if _, err := s.Get(ctx, entityType, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
