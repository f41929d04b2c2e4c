package main

import (
	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/internal/utils"
	"github.com/editorialstats/backend/pkg/logger"
)

// appServices holds the long-lived services the route registration and
// schedulers need.
type appServices struct {
	evidenceService *services.EvidenceService
	cleanupService  *services.CleanupService
}

// bootstrap initializes the database, seeds the catalog and starts the
// background schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetStateSecret(cfg.Auth.StateSecret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	evidenceService, err := services.NewEvidenceService(models.GetDB(), cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize evidence storage: %v", err)
	}

	cleanupService := services.NewCleanupService(models.GetDB(), evidenceService)
	cleanupService.StartScheduler()

	return &appServices{
		evidenceService: evidenceService,
		cleanupService:  cleanupService,
	}
}
