package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schemabase/schemabase/internal/core/schema"
)

type SchemaHandler struct {
	schemaService *schema.Service
}

func NewSchemaHandler(schemaService *schema.Service) *SchemaHandler {
	return &SchemaHandler{schemaService: schemaService}
}

// List returns every schema, keyed by name.
func (h *SchemaHandler) List(c *gin.Context) {
	schemas, err := h.schemaService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	byName := make(map[string]*schema.Schema, len(schemas))
	for _, sc := range schemas {
		byName[sc.Name] = sc
	}

	c.JSON(http.StatusOK, gin.H{"schemas": byName})
}

func (h *SchemaHandler) Get(c *gin.Context) {
	sc, err := h.schemaService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

func (h *SchemaHandler) Create(c *gin.Context) {
	var req schema.CreateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc, err := h.schemaService.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": sc})
}

func (h *SchemaHandler) Update(c *gin.Context) {
	var req schema.UpdateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc, err := h.schemaService.Update(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sc})
}

func (h *SchemaHandler) Delete(c *gin.Context) {
	if err := h.schemaService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SchemaHandler) AddField(c *gin.Context) {
	var field schema.FieldSpec
	if err := c.ShouldBindJSON(&field); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc, err := h.schemaService.AddField(c.Request.Context(), c.Param("name"), field)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sc})
}

func (h *SchemaHandler) RemoveField(c *gin.Context) {
	sc, err := h.schemaService.RemoveField(c.Request.Context(), c.Param("name"), c.Param("fieldName"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sc})
}

func (h *SchemaHandler) AddRelationship(c *gin.Context) {
	var rel schema.RelationshipSpec
	if err := c.ShouldBindJSON(&rel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc, err := h.schemaService.AddRelationship(c.Request.Context(), c.Param("name"), rel)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sc})
}

func (h *SchemaHandler) RemoveRelationship(c *gin.Context) {
	sc, err := h.schemaService.RemoveRelationship(c.Request.Context(), c.Param("name"), c.Param("relationshipName"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sc})
}

func (h *SchemaHandler) respondError(c *gin.Context, err error) {
	var structureErr *schema.StructureError
	switch {
	case errors.Is(err, schema.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Schema not found"})
	case errors.Is(err, schema.ErrDuplicateName):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"Name has already been taken"}})
	case errors.As(err, &structureErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": structureErr.Violations})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
