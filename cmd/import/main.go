package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/app/service"
	"github.com/registreqc/registreqc-backend/internal/db"
	"github.com/registreqc/registreqc-backend/pkg/logger"
)

func main() {
	limit := flag.Int("limit", 0, "nombre maximal de fiches à importer (0 = tout)")
	dryRun := flag.Bool("dry-run", false, "analyser le fichier sans écrire")
	yes := flag.Bool("yes", false, "ne pas demander de confirmation")
	batchSize := flag.Int("batch-size", 0, "taille des lots d'insertion")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: import [flags] <fichier.csv|fichier.xlsx>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed reference data:", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	importService := service.NewImportService(businessRepo, categoryRepo)

	if !*dryRun && !*yes {
		fmt.Print("Confirmer l'importation? (oui/non): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "oui" && confirm != "o" && confirm != "yes" && confirm != "y" {
			fmt.Println("Importation annulée.")
			return
		}
	}

	size := *batchSize
	if size <= 0 {
		size = cfg.Batch.WriteBatchSize
	}

	report, err := importService.Run(context.Background(), filePath, service.ImportOptions{
		Limit:     *limit,
		DryRun:    *dryRun,
		BatchSize: size,
	})
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Printf("Importation terminée: %d fiches importées.\n", report.Imported)
}
