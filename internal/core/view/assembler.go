package view

import (
	"context"

	"github.com/schemabase/schemabase/internal/core/entity"
	"github.com/schemabase/schemabase/internal/core/relationship"
)

// Assembler composes an entity's full external representation: its reserved
// keys, the flattened data bag and, when any exist, its outgoing
// relationships grouped by type.
type Assembler struct {
	relationships *relationship.Service
}

func NewAssembler(relationships *relationship.Service) *Assembler {
	return &Assembler{relationships: relationships}
}

// FullView flattens the data bag over the reserved keys (a data field named
// like a reserved key wins) and attaches a relationships key only when the
// entity has at least one outgoing edge. Relationship entries are the
// Summary projection; target data is served only by the listing endpoint.
func (a *Assembler) FullView(ctx context.Context, ent *entity.Entity) (map[string]any, error) {
	out := map[string]any{
		"id":          ent.ID,
		"entity_type": ent.EntityType,
		"name":        ent.Name,
		"created_at":  ent.CreatedAt,
		"updated_at":  ent.UpdatedAt,
	}

	for k, v := range ent.Data {
		out[k] = v
	}

	grouped, err := a.relationships.Summaries(ctx, ent.ID)
	if err != nil {
		return nil, err
	}
	if len(grouped) > 0 {
		out["relationships"] = grouped
	}

	return out, nil
}

// FullViews assembles a page of entities in order.
func (a *Assembler) FullViews(ctx context.Context, entities []*entity.Entity) ([]map[string]any, error) {
	views := make([]map[string]any, 0, len(entities))
	for _, ent := range entities {
		v, err := a.FullView(ctx, ent)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
