package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schemabase/schemabase/internal/api"
	"github.com/schemabase/schemabase/internal/api/handlers"
	"github.com/schemabase/schemabase/internal/core/entity"
	"github.com/schemabase/schemabase/internal/core/relationship"
	"github.com/schemabase/schemabase/internal/core/schema"
	"github.com/schemabase/schemabase/internal/core/view"
	"github.com/schemabase/schemabase/internal/storage/memory"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	store := memory.NewStore()
	schemaSvc := schema.NewService(memory.NewSchemaRepository(store))
	entityRepo := memory.NewEntityRepository(store)
	entitySvc := entity.NewService(entityRepo, schemaSvc)
	relationshipSvc := relationship.NewService(memory.NewRelationshipRepository(store), entityRepo)
	assembler := view.NewAssembler(relationshipSvc)

	router := api.NewRouter(
		zap.NewNop(),
		handlers.NewSchemaHandler(schemaSvc),
		handlers.NewEntityHandler(entitySvc, assembler),
		handlers.NewRelationshipHandler(relationshipSvc, entitySvc),
	)
	return router.Setup(gin.TestMode)
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func createEntity(t *testing.T, engine *gin.Engine, entityType, name string, data map[string]any) string {
	t.Helper()

	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/"+entityType, map[string]any{
		"name": name,
		"data": data,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp["data"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)

	w, resp := doJSON(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestSchemaLifecycle(t *testing.T) {
	engine := newTestEngine(t)

	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/schemas", map[string]any{
		"name": "product",
		"fields": []map[string]any{
			{"name": "price", "type": "number", "label": "Price"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "product", resp["data"].(map[string]any)["name"])

	// Duplicate name
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/schemas", map[string]any{"name": "product"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Structural violations come back as a batch
	w, resp = doJSON(t, engine, http.MethodPost, "/api/v1/schemas", map[string]any{
		"name": "broken",
		"fields": []map[string]any{
			{"name": "a", "type": "decimal"},
			{"name": "", "type": "string"},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Len(t, resp["errors"], 2)

	// Field append and removal
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/schemas/product/fields", map[string]any{
		"name": "active", "type": "boolean",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, engine, http.MethodDelete, "/api/v1/schemas/product/fields/price", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	fields := resp["data"].(map[string]any)["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "active", fields[0].(map[string]any)["name"])

	// Index is keyed by name
	w, resp = doJSON(t, engine, http.MethodGet, "/api/v1/schemas", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp["schemas"], "product")

	// Missing schema
	w, _ = doJSON(t, engine, http.MethodGet, "/api/v1/schemas/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, engine, http.MethodDelete, "/api/v1/schemas/product", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEntityCRUDAndValidation(t *testing.T) {
	engine := newTestEngine(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/schemas", map[string]any{
		"name": "product",
		"fields": []map[string]any{
			{"name": "price", "type": "number"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	id := createEntity(t, engine, "product", "MacBook Pro", map[string]any{
		"price":   1999,
		"unknown": "dropped",
	})

	w, resp := doJSON(t, engine, http.MethodGet, "/api/v1/product/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(1999), data["price"])
	assert.NotContains(t, data, "unknown")

	// Type violation
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/product", map[string]any{
		"name": "Bad",
		"data": map[string]any{"price": "free"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Partial update merges
	w, resp = doJSON(t, engine, http.MethodPatch, "/api/v1/product/"+id, map[string]any{
		"data": map[string]any{"price": 1799},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1799), resp["data"].(map[string]any)["price"])

	// Unknown entity
	w, _ = doJSON(t, engine, http.MethodGet, "/api/v1/product/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, engine, http.MethodDelete, "/api/v1/product/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEntityListPaginationAndSearch(t *testing.T) {
	engine := newTestEngine(t)

	for i := 0; i < 25; i++ {
		createEntity(t, engine, "product", fmt.Sprintf("Item %02d", i), nil)
	}

	w, resp := doJSON(t, engine, http.MethodGet, "/api/v1/product?page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 20)

	meta := resp["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["current_page"])
	assert.Equal(t, float64(2), meta["total_pages"])
	assert.Equal(t, float64(25), meta["total_count"])
	assert.Equal(t, float64(20), meta["per_page"])

	w, resp = doJSON(t, engine, http.MethodGet, "/api/v1/product?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 5)

	createEntity(t, engine, "product", "MacBook Pro", nil)
	w, resp = doJSON(t, engine, http.MethodGet, "/api/v1/product?search=mac", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 1)
	assert.Equal(t, "MacBook Pro", resp["data"].([]any)[0].(map[string]any)["name"])
}

func TestRelationshipEndpoints(t *testing.T) {
	engine := newTestEngine(t)

	electronics := createEntity(t, engine, "category", "Electronics", map[string]any{"featured": true})
	laptops := createEntity(t, engine, "category", "Laptops", nil)

	// Create twice: the duplicate is a success no-op.
	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/category/"+laptops+"/relationships", map[string]any{
			"type":        "parent",
			"target_type": "category",
			"target_id":   electronics,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Self relationship
	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/category/"+laptops+"/relationships", map[string]any{
		"type":        "parent",
		"target_type": "category",
		"target_id":   laptops,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Missing target
	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/category/"+laptops+"/relationships", map[string]any{
		"type":        "parent",
		"target_type": "category",
		"target_id":   "no-such-id",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Target entity not found", resp["error"])

	// Listing includes target data
	w, resp = doJSON(t, engine, http.MethodGet, "/api/v1/category/"+laptops+"/relationships", nil)
	require.Equal(t, http.StatusOK, w.Code)
	parents := resp["data"].(map[string]any)["parent"].([]any)
	require.Len(t, parents, 1)
	target := parents[0].(map[string]any)
	assert.Equal(t, electronics, target["id"])
	assert.Equal(t, "Electronics", target["name"])
	assert.Equal(t, map[string]any{"featured": true}, target["data"])

	// The nested full view carries the summary projection, without data
	w, resp = doJSON(t, engine, http.MethodGet, "/api/v1/category/"+laptops, nil)
	require.Equal(t, http.StatusOK, w.Code)
	nested := resp["data"].(map[string]any)["relationships"].(map[string]any)["parent"].([]any)
	require.Len(t, nested, 1)
	assert.NotContains(t, nested[0].(map[string]any), "data")

	// Removal by triple, idempotent
	deletePath := "/api/v1/category/" + laptops + "/relationships/parent?target_type=category&target_id=" + electronics
	for i := 0; i < 2; i++ {
		w, _ = doJSON(t, engine, http.MethodDelete, deletePath, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, resp = doJSON(t, engine, http.MethodGet, "/api/v1/category/"+laptops+"/relationships", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])
}

func TestEntityDeletionCleansUpRelationships(t *testing.T) {
	engine := newTestEngine(t)

	a := createEntity(t, engine, "category", "A", nil)
	b := createEntity(t, engine, "category", "B", nil)

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/category/"+b+"/relationships", map[string]any{
		"type":        "parent",
		"target_type": "category",
		"target_id":   a,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, engine, http.MethodDelete, "/api/v1/category/"+a, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, resp := doJSON(t, engine, http.MethodGet, "/api/v1/category/"+b+"/relationships", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])
}
