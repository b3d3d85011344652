package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/app/service"
	"github.com/registreqc/registreqc-backend/internal/db"
	"github.com/registreqc/registreqc-backend/internal/pipeline"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"github.com/registreqc/registreqc-backend/pkg/places"
	"github.com/registreqc/registreqc-backend/pkg/redis"
)

const usage = `Usage: cleanup <commande> [flags]

Commandes:
  categories   assigner les catégories à partir des codes d'activité
  dedupe       supprimer les fiches en double (même NEQ)
  slugs        générer les slugs manquants
  enrich       compléter les fiches via Google Places et OpenAI

Flags:
  --limit N        traiter au plus N fiches (0 = tout)
  --dry-run        afficher le plan sans écrire
  --page-size N    taille des pages de lecture
  --batch-size N   taille des lots d'écriture
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	limit := flags.Int("limit", 0, "nombre maximal de fiches à traiter")
	dryRun := flags.Bool("dry-run", false, "afficher le plan sans écrire")
	pageSize := flags.Int("page-size", 0, "taille des pages de lecture")
	batchSize := flags.Int("batch-size", 0, "taille des lots d'écriture")
	flags.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, reading mappings from database", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	opts := service.CleanupOptions{
		Limit:          *limit,
		DryRun:         *dryRun,
		PageSize:       *pageSize,
		WriteBatchSize: *batchSize,
	}
	if opts.PageSize <= 0 {
		opts.PageSize = cfg.Batch.PageSize
	}
	if opts.WriteBatchSize <= 0 {
		opts.WriteBatchSize = cfg.Batch.WriteBatchSize
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	claimRepo := repository.NewClaimRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	cleanupService := service.NewCleanupService(businessRepo, categoryRepo, claimRepo, reviewRepo)

	ctx := context.Background()
	var summary *pipeline.Summary

	switch command {
	case "categories":
		summary, err = cleanupService.AssignCategories(ctx, opts)
	case "dedupe":
		summary, err = cleanupService.DeduplicateBusinesses(ctx, opts)
	case "slugs":
		summary, err = cleanupService.RegenerateSlugs(ctx, opts)
	case "enrich":
		summary, err = runEnrich(ctx, cfg, businessRepo, categoryRepo, opts)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}

	summary.Print(os.Stdout)
}

func runEnrich(
	ctx context.Context,
	cfg *config.Config,
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
	opts service.CleanupOptions,
) (*pipeline.Summary, error) {
	var placesClient service.PlacesClient
	if cfg.Places.APIKey != "" {
		placesClient = places.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL)
	}
	enrichmentService := service.NewEnrichmentService(cfg, businessRepo, categoryRepo, placesClient)

	if placesClient != nil {
		summary, err := enrichmentService.EnrichPlaces(ctx, opts)
		if err != nil {
			return nil, err
		}
		summary.Print(os.Stdout)
	}

	return enrichmentService.EnrichDescriptions(ctx, opts)
}
