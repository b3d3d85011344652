package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/pipeline"
	"github.com/registreqc/registreqc-backend/pkg/logger"
)

// Colonnes attendues dans les fichiers du registraire. L'ordre suit
// l'extraction CSV du REQ; les fichiers XLSX utilisent la même disposition.
const (
	colNEQ        = 0 // numéro d'entreprise du Québec
	colName       = 1 // nom de l'entreprise
	colStreet     = 2 // adresse du domicile
	colCity       = 3
	colRegion     = 4 // région administrative
	colPostalCode = 5
	colActCode    = 6 // code d'activité économique (ACT_ECON)
	importColumns = 7
)

// ImportOptions configures one ingestion run.
type ImportOptions struct {
	Limit     int // 0 = no limit
	DryRun    bool
	BatchSize int
	Progress  io.Writer
}

func (o ImportOptions) progress() io.Writer {
	if o.Progress == nil {
		return os.Stdout
	}
	return o.Progress
}

// ImportReport summarizes an ingestion run.
type ImportReport struct {
	Parsed     int // data rows read from the file
	Skipped    int // rows missing required fields
	Duplicates int // in-run NEQ duplicates dropped
	Imported   int // rows handed to the bulk insert
}

// ImportService ingests registry extraction files into the businesses table.
type ImportService interface {
	Run(ctx context.Context, filePath string, opts ImportOptions) (*ImportReport, error)
}

type importService struct {
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
}

func NewImportService(
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
) ImportService {
	return &importService{
		businessRepo: businessRepo,
		categoryRepo: categoryRepo,
	}
}

// Run parses the file, drops in-run NEQ duplicates, assigns slugs and
// categories, and bulk inserts. Dry runs stop before the insert.
func (s *importService) Run(ctx context.Context, filePath string, opts ImportOptions) (*ImportReport, error) {
	rows, err := readRows(filePath)
	if err != nil {
		return nil, err
	}

	resolver, err := s.buildResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to load code mappings: %w", err)
	}

	report := &ImportReport{}
	slugger := pipeline.NewSlugger(pipeline.DefaultSlugMaxLen)
	seenNEQ := make(map[string]bool)
	var businesses []model.Business

	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Parsed++

		if len(row) < importColumns {
			report.Skipped++
			continue
		}

		neq := strings.TrimSpace(row[colNEQ])
		name := strings.TrimSpace(row[colName])
		if neq == "" || name == "" {
			report.Skipped++
			continue
		}

		if seenNEQ[neq] {
			report.Duplicates++
			continue
		}
		seenNEQ[neq] = true

		slug := slugger.Next(name)
		business := model.Business{
			NEQ:        &neq,
			Name:       name,
			Slug:       &slug,
			Street:     strings.TrimSpace(row[colStreet]),
			City:       strings.TrimSpace(row[colCity]),
			Region:     strings.TrimSpace(row[colRegion]),
			PostalCode: strings.TrimSpace(row[colPostalCode]),
			Status:     model.BusinessStatusApproved,
			Source:     model.SourceImport,
		}

		if rawCode := strings.TrimSpace(row[colActCode]); rawCode != "" {
			business.RawCode = &rawCode
			business.CategoryID = resolver.ResolveRaw(&rawCode)
		}

		businesses = append(businesses, business)
		report.Imported++

		if opts.Limit > 0 && report.Imported >= opts.Limit {
			break
		}
	}

	fmt.Fprintf(opts.progress(), "Fichier: %s\n", filePath)
	fmt.Fprintf(opts.progress(), "Lignes lues: %d, ignorées: %d, doublons NEQ: %d, à importer: %d\n",
		report.Parsed, report.Skipped, report.Duplicates, report.Imported)

	if opts.DryRun {
		fmt.Fprintln(opts.progress(), "Mode simulation: aucune écriture.")
		return report, nil
	}

	if err := s.businessRepo.BulkCreate(businesses, opts.BatchSize); err != nil {
		return nil, fmt.Errorf("bulk insert failed: %w", err)
	}

	logger.Info("Registry import completed", map[string]interface{}{
		"file":       filePath,
		"imported":   report.Imported,
		"skipped":    report.Skipped,
		"duplicates": report.Duplicates,
	})

	return report, nil
}

func (s *importService) buildResolver() (*pipeline.Resolver, error) {
	mappings, err := s.categoryRepo.AllMappings()
	if err != nil {
		return nil, err
	}
	defaultCategory, err := s.categoryRepo.FindDefault()
	if err != nil {
		return nil, err
	}
	return pipeline.NewResolver(mappings, defaultCategory.ID), nil
}

func readRows(filePath string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return readCSV(filePath)
	case ".xlsx":
		return readXLSX(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filePath)
	}
}

func readCSV(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Registry extractions have ragged trailing columns.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in CSV file")
	}
	return rows, nil
}

func readXLSX(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}
	return rows, nil
}
