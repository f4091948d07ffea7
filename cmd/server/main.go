package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/schemabase/schemabase/config"
	"github.com/schemabase/schemabase/internal/api"
	"github.com/schemabase/schemabase/internal/api/handlers"
	"github.com/schemabase/schemabase/internal/core/entity"
	"github.com/schemabase/schemabase/internal/core/relationship"
	"github.com/schemabase/schemabase/internal/core/schema"
	"github.com/schemabase/schemabase/internal/core/view"
	"github.com/schemabase/schemabase/internal/logging"
	"github.com/schemabase/schemabase/internal/storage/memory"
	"github.com/schemabase/schemabase/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	var (
		schemaRepo       schema.Repository
		entityRepo       entity.Repository
		relationshipRepo relationship.Repository
		closeStore       func() error
	)

	switch cfg.Database.Driver {
	case "memory":
		// Development mode: full stack on the in-process store.
		store := memory.NewStore()
		schemaRepo = memory.NewSchemaRepository(store)
		entityRepo = memory.NewEntityRepository(store)
		relationshipRepo = memory.NewRelationshipRepository(store)
		closeStore = func() error { return nil }
		logger.Info("using in-memory storage")
	default:
		db, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.Migrate(); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		schemaRepo = schema.NewRepository(db)
		entityRepo = entity.NewRepository(db)
		relationshipRepo = relationship.NewRepository(db)
		closeStore = db.Close
		logger.Info("connected to database", zap.String("name", cfg.Database.Name))
	}
	defer closeStore()

	// Services
	schemaService := schema.NewService(schemaRepo)
	entityService := entity.NewService(entityRepo, schemaService)
	relationshipService := relationship.NewService(relationshipRepo, entityRepo)
	assembler := view.NewAssembler(relationshipService)

	// Handlers
	schemaHandler := handlers.NewSchemaHandler(schemaService)
	entityHandler := handlers.NewEntityHandler(entityService, assembler)
	relationshipHandler := handlers.NewRelationshipHandler(relationshipService, entityService)

	router := api.NewRouter(logger, schemaHandler, entityHandler, relationshipHandler)
	engine := router.Setup(cfg.Server.Mode)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down server")
		closeStore()
		os.Exit(0)
	}()

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
