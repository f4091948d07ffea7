package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schemabase/schemabase/internal/core/entity"
	"github.com/schemabase/schemabase/internal/core/relationship"
)

type RelationshipHandler struct {
	relationshipService *relationship.Service
	entityService       *entity.Service
}

func NewRelationshipHandler(relationshipService *relationship.Service, entityService *entity.Service) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipService: relationshipService,
		entityService:       entityService,
	}
}

// fromEntity resolves the relationship's source through the typed lookup,
// so a bad type/id pair reads as a missing entity.
func (h *RelationshipHandler) fromEntity(c *gin.Context) (*entity.Entity, bool) {
	ent, err := h.entityService.Get(c.Request.Context(), c.Param("entityType"), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return ent, true
}

// List returns the entity's outgoing relationships grouped by type, each
// target carrying its data bag.
func (h *RelationshipHandler) List(c *gin.Context) {
	from, ok := h.fromEntity(c)
	if !ok {
		return
	}

	grouped, err := h.relationshipService.Details(c.Request.Context(), from.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": grouped})
}

func (h *RelationshipHandler) Create(c *gin.Context) {
	from, ok := h.fromEntity(c)
	if !ok {
		return
	}

	var req relationship.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := h.entityService.Get(c.Request.Context(), req.TargetType, req.TargetID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Target entity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if err := h.relationshipService.Add(c.Request.Context(), from.ID, target.ID, req.Type); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Relationship created successfully"})
}

// Delete removes the matching edge; removing an absent edge still succeeds.
func (h *RelationshipHandler) Delete(c *gin.Context) {
	from, ok := h.fromEntity(c)
	if !ok {
		return
	}

	target, err := h.entityService.Get(c.Request.Context(), c.Query("target_type"), c.Query("target_id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Target entity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if err := h.relationshipService.Remove(c.Request.Context(), from.ID, target.ID, c.Param("relationshipType")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Relationship removed successfully"})
}

func (h *RelationshipHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, relationship.ErrSelfRelationship):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"Cannot create relationship to self"}})
	case errors.Is(err, relationship.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Target entity not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
