package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemabase/schemabase/internal/core/schema"
	"github.com/schemabase/schemabase/internal/storage/memory"
)

func newService() *schema.Service {
	return schema.NewService(memory.NewSchemaRepository(memory.NewStore()))
}

func TestCreateAndGet_RoundTripsListsInOrder(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	fields := []schema.FieldSpec{
		{Name: "title", Type: schema.FieldTypeString, Label: "Title", Required: true},
		{Name: "price", Type: schema.FieldTypeNumber},
		{Name: "active", Type: schema.FieldTypeBoolean, Default: true},
	}
	relationships := []schema.RelationshipSpec{
		{Name: "category", Type: schema.RelationshipTypeBelongsTo, Target: "category"},
		{Name: "tags", Type: schema.RelationshipTypeHasMany, Target: "tag"},
	}

	created, err := svc.Create(ctx, &schema.CreateSchemaRequest{
		Name:          "product",
		Fields:        fields,
		Relationships: relationships,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, "product")
	require.NoError(t, err)
	assert.Equal(t, fields, got.Fields)
	assert.Equal(t, relationships, got.Relationships)
}

func TestCreate_DuplicateNameLeavesExistingUntouched(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{
		Name:   "product",
		Fields: []schema.FieldSpec{{Name: "title", Type: schema.FieldTypeString}},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &schema.CreateSchemaRequest{
		Name:   "product",
		Fields: []schema.FieldSpec{{Name: "other", Type: schema.FieldTypeText}},
	})
	assert.ErrorIs(t, err, schema.ErrDuplicateName)

	got, err := svc.Get(ctx, "product")
	require.NoError(t, err)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "title", got.Fields[0].Name)
}

func TestCreate_NameIsCaseSensitive(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{Name: "product"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &schema.CreateSchemaRequest{Name: "Product"})
	assert.NoError(t, err)
}

func TestCreate_InvalidStructureRejected(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), &schema.CreateSchemaRequest{
		Name:   "product",
		Fields: []schema.FieldSpec{{Name: "price", Type: "decimal"}},
	})

	var structureErr *schema.StructureError
	assert.ErrorAs(t, err, &structureErr)
}

func TestUpdate_ReplacesSuppliedListWholesale(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{
		Name: "product",
		Fields: []schema.FieldSpec{
			{Name: "title", Type: schema.FieldTypeString},
			{Name: "price", Type: schema.FieldTypeNumber},
		},
		Relationships: []schema.RelationshipSpec{
			{Name: "category", Type: schema.RelationshipTypeBelongsTo, Target: "category"},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "product", &schema.UpdateSchemaRequest{
		Fields: []schema.FieldSpec{{Name: "sku", Type: schema.FieldTypeString}},
	})
	require.NoError(t, err)

	// Fields replaced entirely, relationships untouched.
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, "sku", updated.Fields[0].Name)
	require.Len(t, updated.Relationships, 1)
	assert.Equal(t, "category", updated.Relationships[0].Name)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newService()

	_, err := svc.Update(context.Background(), "missing", &schema.UpdateSchemaRequest{})
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestAddField_ValidateThenCommit(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{
		Name:   "product",
		Fields: []schema.FieldSpec{{Name: "title", Type: schema.FieldTypeString}},
	})
	require.NoError(t, err)

	// A bad append is rejected and nothing is persisted.
	_, err = svc.AddField(ctx, "product", schema.FieldSpec{Name: "price", Type: "decimal"})
	var structureErr *schema.StructureError
	assert.ErrorAs(t, err, &structureErr)

	got, err := svc.Get(ctx, "product")
	require.NoError(t, err)
	assert.Len(t, got.Fields, 1)

	// A good append lands at the end.
	updated, err := svc.AddField(ctx, "product", schema.FieldSpec{Name: "price", Type: schema.FieldTypeNumber})
	require.NoError(t, err)
	require.Len(t, updated.Fields, 2)
	assert.Equal(t, "price", updated.Fields[1].Name)
}

func TestRemoveField_Idempotent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{
		Name: "product",
		Fields: []schema.FieldSpec{
			{Name: "title", Type: schema.FieldTypeString},
			{Name: "price", Type: schema.FieldTypeNumber},
		},
	})
	require.NoError(t, err)

	updated, err := svc.RemoveField(ctx, "product", "price")
	require.NoError(t, err)
	assert.Len(t, updated.Fields, 1)

	// Removing an absent field succeeds and changes nothing.
	updated, err = svc.RemoveField(ctx, "product", "price")
	require.NoError(t, err)
	assert.Len(t, updated.Fields, 1)
}

func TestAddRemoveRelationship(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{Name: "product"})
	require.NoError(t, err)

	updated, err := svc.AddRelationship(ctx, "product", schema.RelationshipSpec{
		Name: "category", Type: schema.RelationshipTypeBelongsTo, Target: "category",
	})
	require.NoError(t, err)
	assert.Len(t, updated.Relationships, 1)

	_, err = svc.AddRelationship(ctx, "product", schema.RelationshipSpec{
		Name: "broken", Type: "hasOne", Target: "x",
	})
	assert.Error(t, err)

	updated, err = svc.RemoveRelationship(ctx, "product", "category")
	require.NoError(t, err)
	assert.Empty(t, updated.Relationships)
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &schema.CreateSchemaRequest{Name: "product"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "product"))
	assert.ErrorIs(t, svc.Delete(ctx, "product"), schema.ErrNotFound)

	_, err = svc.Get(ctx, "product")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestList_SortedByName(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, name := range []string{"tag", "category", "product"} {
		_, err := svc.Create(ctx, &schema.CreateSchemaRequest{Name: name})
		require.NoError(t, err)
	}

	schemas, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, schemas, 3)
	assert.Equal(t, "category", schemas[0].Name)
	assert.Equal(t, "product", schemas[1].Name)
	assert.Equal(t, "tag", schemas[2].Name)
}
