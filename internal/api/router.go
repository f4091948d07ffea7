package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schemabase/schemabase/internal/api/handlers"
	"github.com/schemabase/schemabase/internal/api/middleware"
)

type Router struct {
	engine              *gin.Engine
	logger              *zap.Logger
	schemaHandler       *handlers.SchemaHandler
	entityHandler       *handlers.EntityHandler
	relationshipHandler *handlers.RelationshipHandler
}

func NewRouter(
	logger *zap.Logger,
	schemaHandler *handlers.SchemaHandler,
	entityHandler *handlers.EntityHandler,
	relationshipHandler *handlers.RelationshipHandler,
) *Router {
	return &Router{
		logger:              logger,
		schemaHandler:       schemaHandler,
		entityHandler:       entityHandler,
		relationshipHandler: relationshipHandler,
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestLogger(r.logger))

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1")

	// Schema management
	schemas := v1.Group("/schemas")
	{
		schemas.GET("", r.schemaHandler.List)
		schemas.POST("", r.schemaHandler.Create)
		schemas.GET("/:name", r.schemaHandler.Get)
		schemas.PUT("/:name", r.schemaHandler.Update)
		schemas.PATCH("/:name", r.schemaHandler.Update)
		schemas.DELETE("/:name", r.schemaHandler.Delete)

		schemas.POST("/:name/fields", r.schemaHandler.AddField)
		schemas.DELETE("/:name/fields/:fieldName", r.schemaHandler.RemoveField)
		schemas.POST("/:name/relationships", r.schemaHandler.AddRelationship)
		schemas.DELETE("/:name/relationships/:relationshipName", r.schemaHandler.RemoveRelationship)
	}

	// Dynamic per-type entity routes; the static /schemas group above takes
	// priority over the :entityType wildcard.
	entities := v1.Group("/:entityType")
	{
		entities.GET("", r.entityHandler.List)
		entities.POST("", r.entityHandler.Create)
		entities.GET("/:id", r.entityHandler.Get)
		entities.PATCH("/:id", r.entityHandler.Update)
		entities.PUT("/:id", r.entityHandler.Update)
		entities.DELETE("/:id", r.entityHandler.Delete)

		relationships := entities.Group("/:id/relationships")
		{
			relationships.GET("", r.relationshipHandler.List)
			relationships.POST("", r.relationshipHandler.Create)
			relationships.DELETE("/:relationshipType", r.relationshipHandler.Delete)
		}
	}
}
