// Package memory is an in-process backend holding the same three
// collections the postgres schema defines, under one lock so multi-step
// mutations (cascade delete) stay atomic. It backs the `memory` database
// driver and the test suite, and enforces the same uniqueness invariants
// the DDL constraints do.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schemabase/schemabase/internal/core/entity"
	"github.com/schemabase/schemabase/internal/core/relationship"
	"github.com/schemabase/schemabase/internal/core/schema"
)

type Store struct {
	mu sync.RWMutex

	schemas  map[string]*schemaRecord // keyed by name
	entities map[string]*entityRecord // keyed by id
	edges    []*relationship.Relationship

	seq uint64
}

type schemaRecord struct {
	sc  *schema.Schema
	seq uint64
}

type entityRecord struct {
	ent *entity.Entity
	seq uint64
}

func NewStore() *Store {
	return &Store{
		schemas:  make(map[string]*schemaRecord),
		entities: make(map[string]*entityRecord),
	}
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// sortedEntities returns the entities of one type in insertion order, the
// memory rendering of the postgres (created_at, id) ordering.
func (s *Store) sortedEntities(entityType string) []*entityRecord {
	var records []*entityRecord
	for _, rec := range s.entities {
		if rec.ent.EntityType == entityType {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	return records
}

func matchesSearch(ent *entity.Entity, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	return strings.Contains(strings.ToLower(ent.Name), term) ||
		strings.Contains(strings.ToLower(ent.EntityType), term)
}

func cloneEntity(ent *entity.Entity) *entity.Entity {
	out := *ent
	if ent.Data != nil {
		out.Data = make(map[string]any, len(ent.Data))
		for k, v := range ent.Data {
			out.Data[k] = v
		}
	}
	return &out
}

func cloneSchema(sc *schema.Schema) *schema.Schema {
	out := *sc
	out.Fields = append([]schema.FieldSpec{}, sc.Fields...)
	out.Relationships = append([]schema.RelationshipSpec{}, sc.Relationships...)
	return &out
}

func now() time.Time {
	return time.Now().UTC()
}
