package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schemabase/schemabase/internal/core/entity"
	"github.com/schemabase/schemabase/internal/core/validation"
	"github.com/schemabase/schemabase/internal/core/view"
)

type EntityHandler struct {
	entityService *entity.Service
	assembler     *view.Assembler
}

func NewEntityHandler(entityService *entity.Service, assembler *view.Assembler) *EntityHandler {
	return &EntityHandler{entityService: entityService, assembler: assembler}
}

func (h *EntityHandler) List(c *gin.Context) {
	entityType := c.Param("entityType")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))

	result, err := h.entityService.List(c.Request.Context(), entityType, entity.ListOptions{
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views, err := h.assembler.FullViews(c.Request.Context(), result.Entities)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": views,
		"meta": gin.H{
			"current_page": result.CurrentPage,
			"total_pages":  result.TotalPages,
			"total_count":  result.TotalCount,
			"per_page":     result.PerPage,
		},
	})
}

func (h *EntityHandler) Get(c *gin.Context) {
	entityType := c.Param("entityType")

	ent, err := h.entityService.Get(c.Request.Context(), entityType, c.Param("id"))
	if err != nil {
		h.respondError(c, entityType, err)
		return
	}

	v, err := h.assembler.FullView(c.Request.Context(), ent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": v})
}

func (h *EntityHandler) Create(c *gin.Context) {
	entityType := c.Param("entityType")

	var req entity.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ent, err := h.entityService.Create(c.Request.Context(), entityType, &req)
	if err != nil {
		h.respondError(c, entityType, err)
		return
	}

	v, err := h.assembler.FullView(c.Request.Context(), ent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": v})
}

func (h *EntityHandler) Update(c *gin.Context) {
	entityType := c.Param("entityType")

	var req entity.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ent, err := h.entityService.Update(c.Request.Context(), entityType, c.Param("id"), &req)
	if err != nil {
		h.respondError(c, entityType, err)
		return
	}

	v, err := h.assembler.FullView(c.Request.Context(), ent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": v})
}

func (h *EntityHandler) Delete(c *gin.Context) {
	entityType := c.Param("entityType")

	if err := h.entityService.Delete(c.Request.Context(), entityType, c.Param("id")); err != nil {
		h.respondError(c, entityType, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EntityHandler) respondError(c *gin.Context, entityType string, err error) {
	if errors.Is(err, entity.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s not found", capitalize(entityType))})
		return
	}
	if validation.IsValidationError(err) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validation.GetValidationErrors(err).Errors})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
