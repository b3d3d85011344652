package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/registreqc/registreqc-backend/internal/app/service"
	"github.com/registreqc/registreqc-backend/pkg/logger"
)

// EnrichmentScheduler lance les passes d'enrichissement chaque nuit, quand
// le trafic est bas et que les quotas d'API sont frais.
type EnrichmentScheduler struct {
	cron              *cron.Cron
	enrichmentService service.EnrichmentService
	pageSize          int
}

// NewEnrichmentScheduler crée le planificateur nocturne.
func NewEnrichmentScheduler(enrichmentService service.EnrichmentService, pageSize int) *EnrichmentScheduler {
	return &EnrichmentScheduler{
		cron:              cron.New(),
		enrichmentService: enrichmentService,
		pageSize:          pageSize,
	}
}

// Start enregistre les tâches et démarre le cron.
func (s *EnrichmentScheduler) Start() error {
	// Tous les jours à 2h00.
	_, err := s.cron.AddFunc("0 2 * * *", func() {
		logger.Info("Starting scheduled enrichment run", nil)

		ctx := context.Background()
		opts := service.CleanupOptions{PageSize: s.pageSize}

		if summary, err := s.enrichmentService.EnrichPlaces(ctx, opts); err != nil {
			logger.Error("Scheduled Places enrichment failed", err)
		} else {
			logger.Info("Scheduled Places enrichment completed", map[string]interface{}{
				"processed": summary.Processed,
				"updated":   summary.Updated,
				"failed":    summary.Failed,
			})
		}

		if summary, err := s.enrichmentService.EnrichDescriptions(ctx, opts); err != nil {
			logger.Error("Scheduled description enrichment failed", err)
		} else {
			logger.Info("Scheduled description enrichment completed", map[string]interface{}{
				"processed": summary.Processed,
				"updated":   summary.Updated,
				"failed":    summary.Failed,
			})
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for enrichment", err)
		return err
	}

	s.cron.Start()
	logger.Info("Enrichment scheduler started (daily at 2:00 AM)", nil)

	return nil
}

// Stop arrête le cron.
func (s *EnrichmentScheduler) Stop() {
	logger.Info("Stopping enrichment scheduler...", nil)
	s.cron.Stop()
	logger.Info("Enrichment scheduler stopped", nil)
}
