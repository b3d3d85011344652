package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/pipeline"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"github.com/registreqc/registreqc-backend/pkg/redis"
	"github.com/registreqc/registreqc-backend/pkg/util"
)

const mappingCacheTTL = time.Hour

// CleanupOptions configures one batch pass. Page size and write batch size
// are independent; --limit and --dry-run map straight onto Limit and DryRun.
type CleanupOptions struct {
	Limit          int
	DryRun         bool
	PageSize       int
	WriteBatchSize int
	Progress       io.Writer
}

func (o CleanupOptions) progress() io.Writer {
	if o.Progress == nil {
		return os.Stdout
	}
	return o.Progress
}

// CleanupService runs the corrective batch passes over the businesses table:
// category assignment from activity codes, NEQ deduplication and slug
// regeneration. Every pass is idempotent; re-running over already-corrected
// rows is a no-op.
type CleanupService interface {
	AssignCategories(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error)
	DeduplicateBusinesses(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error)
	RegenerateSlugs(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error)
}

type cleanupService struct {
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
	claimRepo    repository.ClaimRepository
	reviewRepo   repository.ReviewRepository
}

func NewCleanupService(
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
	claimRepo repository.ClaimRepository,
	reviewRepo repository.ReviewRepository,
) CleanupService {
	return &cleanupService{
		businessRepo: businessRepo,
		categoryRepo: categoryRepo,
		claimRepo:    claimRepo,
		reviewRepo:   reviewRepo,
	}
}

// loadMappings reads the code → category table, preferring the Redis cache
// and falling back to the database.
func (s *cleanupService) loadMappings(ctx context.Context) (map[string]uint, error) {
	if cached, err := redis.GetCodeMappings(ctx); err == nil && cached != nil {
		logger.Debug("Using cached code mappings", map[string]interface{}{
			"count": len(cached),
		})
		return cached, nil
	}

	mappings, err := s.categoryRepo.AllMappings()
	if err != nil {
		return nil, err
	}
	if err := redis.CacheCodeMappings(ctx, mappings, mappingCacheTTL); err != nil {
		logger.Warn("Failed to cache code mappings, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mappings, nil
}

// AssignCategories derives each listing's category from its raw activity
// code. Listings whose code normalizes to nothing get their category cleared,
// never the default bucket.
func (s *cleanupService) AssignCategories(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error) {
	mappings, err := s.loadMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load code mappings: %w", err)
	}

	defaultCategory, err := s.categoryRepo.FindDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load default category: %w", err)
	}

	resolver := pipeline.NewResolver(mappings, defaultCategory.ID)

	runner := &pipeline.Runner{
		PageSize: opts.PageSize,
		Limit:    opts.Limit,
		Progress: opts.progress(),
	}

	summary := runner.Run("assign-categories", func(offset, limit int) (int, []pipeline.Result, error) {
		rows, err := s.businessRepo.PageRows(offset, limit)
		if err != nil {
			return 0, nil, err
		}

		// Group the wanted updates by target category so each write is a
		// bulk update by id list.
		type target struct {
			id  *uint
			ids []uint
		}
		targets := make(map[string]*target)
		results := make([]pipeline.Result, 0, len(rows))
		pending := make(map[uint]int) // business id → index in results

		for _, row := range rows {
			want := resolver.ResolveRaw(row.RawCode)
			if equalIDs(want, row.CategoryID) {
				results = append(results, pipeline.Result{ID: row.ID, Status: pipeline.StatusSkipped})
				continue
			}

			key := "nil"
			if want != nil {
				key = fmt.Sprintf("%d", *want)
			}
			if targets[key] == nil {
				targets[key] = &target{id: want}
			}
			targets[key].ids = append(targets[key].ids, row.ID)
			results = append(results, pipeline.Result{ID: row.ID, Status: pipeline.StatusUpdated})
			pending[row.ID] = len(results) - 1
		}

		if !opts.DryRun {
			for _, tgt := range targets {
				for _, chunk := range pipeline.Chunk(tgt.ids, opts.WriteBatchSize) {
					if err := s.businessRepo.BulkSetCategory(chunk, tgt.id); err != nil {
						logger.Error("Category write batch failed", err, map[string]interface{}{
							"batch_size": len(chunk),
						})
						for _, id := range chunk {
							results[pending[id]] = pipeline.Result{
								ID:     id,
								Status: pipeline.StatusFailed,
								Reason: err.Error(),
							}
						}
					}
				}
			}
		}

		return len(rows), results, nil
	})

	for name, value := range resolver.Counters() {
		summary.SetCounter(name, value)
	}
	return summary, nil
}

func equalIDs(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DeduplicateBusinesses keeps, for each NEQ, the most recently created
// listing, repoints its claims and reviews, and deletes the rest. A failure
// in one group never blocks the others.
func (s *cleanupService) DeduplicateBusinesses(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error) {
	rows, err := s.businessRepo.AllRowsWithNEQ()
	if err != nil {
		return nil, fmt.Errorf("failed to read businesses for dedup: %w", err)
	}

	records := make([]pipeline.DedupRecord, 0, len(rows))
	for _, row := range rows {
		neq := ""
		if row.NEQ != nil {
			neq = *row.NEQ
		}
		records = append(records, pipeline.DedupRecord{
			ID:        row.ID,
			NEQ:       neq,
			CreatedAt: row.CreatedAt,
		})
	}

	groups := pipeline.PlanDedup(records)
	if opts.Limit > 0 && len(groups) > opts.Limit {
		groups = groups[:opts.Limit]
	}

	summary := &pipeline.Summary{Name: "dedupe-businesses"}
	out := opts.progress()

	for _, group := range groups {
		summary.Processed += len(group.DeleteIDs) + 1
		summary.Batches++

		if opts.DryRun {
			summary.Updated += len(group.DeleteIDs)
			summary.Skipped++
			fmt.Fprintf(out, "dedupe: NEQ %s would keep id=%d, delete %d duplicate(s)\n",
				group.NEQ, group.KeepID, len(group.DeleteIDs))
			continue
		}

		if err := s.collapseGroup(group, opts.WriteBatchSize); err != nil {
			summary.Failed += len(group.DeleteIDs)
			summary.Skipped++
			summary.BatchErrs++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("NEQ %s: %v", group.NEQ, err))
			logger.Error("Failed to collapse duplicate group", err, map[string]interface{}{
				"neq":     group.NEQ,
				"keep_id": group.KeepID,
			})
			continue
		}

		summary.Updated += len(group.DeleteIDs)
		summary.Skipped++ // the kept record is untouched
		fmt.Fprintf(out, "dedupe: NEQ %s kept id=%d, deleted %d duplicate(s)\n",
			group.NEQ, group.KeepID, len(group.DeleteIDs))
	}

	summary.SetCounter("groups", len(groups))
	return summary, nil
}

// collapseGroup repoints dependent rows to the survivor, then hard-deletes
// the duplicates. Reassignment runs first so no claim or review is orphaned.
func (s *cleanupService) collapseGroup(group pipeline.DedupGroup, writeBatchSize int) error {
	if err := s.claimRepo.ReassignBusiness(group.DeleteIDs, group.KeepID); err != nil {
		return fmt.Errorf("reassign claims: %w", err)
	}
	if err := s.reviewRepo.ReassignBusiness(group.DeleteIDs, group.KeepID); err != nil {
		return fmt.Errorf("reassign reviews: %w", err)
	}
	for _, chunk := range pipeline.Chunk(group.DeleteIDs, writeBatchSize) {
		if err := s.businessRepo.BulkHardDelete(chunk); err != nil {
			return fmt.Errorf("delete duplicates: %w", err)
		}
	}
	return nil
}

// RegenerateSlugs fills missing slugs from display names. The in-run counter
// handles same-name collisions; a storage uniqueness violation is retried
// once with a random suffix, then surfaced as a per-record failure.
func (s *cleanupService) RegenerateSlugs(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error) {
	slugger := pipeline.NewSlugger(pipeline.DefaultSlugMaxLen)

	runner := &pipeline.Runner{
		PageSize: opts.PageSize,
		Limit:    opts.Limit,
		Progress: opts.progress(),
	}

	// Updated rows leave the missing-slug predicate, so a live run scans
	// from a cursor that only advances past rows it could not fix; dry runs
	// advance past everything.
	scanOffset := 0
	summary := runner.Run("regenerate-slugs", func(_, limit int) (int, []pipeline.Result, error) {
		rows, err := s.businessRepo.PageRowsMissingSlug(scanOffset, limit)
		if err != nil {
			return 0, nil, err
		}

		results := make([]pipeline.Result, 0, len(rows))
		for _, row := range rows {
			slug := slugger.Next(row.Name)
			if opts.DryRun {
				scanOffset++
				results = append(results, pipeline.Result{ID: row.ID, Status: pipeline.StatusUpdated})
				continue
			}
			res := s.writeSlug(row.ID, slug)
			if res.Status == pipeline.StatusFailed {
				scanOffset++
			}
			results = append(results, res)
		}
		return len(rows), results, nil
	})

	return summary, nil
}

func (s *cleanupService) writeSlug(id uint, slug string) pipeline.Result {
	err := s.businessRepo.UpdateSlug(id, slug)
	if err == nil {
		return pipeline.Result{ID: id, Status: pipeline.StatusUpdated}
	}
	if !errors.IsDuplicateKey(err) {
		return pipeline.Result{ID: id, Status: pipeline.StatusFailed, Reason: err.Error()}
	}

	// Another row already owns this slug in storage; retry once with a
	// short random suffix.
	retry := fmt.Sprintf("%s-%s", slug, util.RandomSlugSuffix())
	if err := s.businessRepo.UpdateSlug(id, retry); err != nil {
		return pipeline.Result{
			ID:     id,
			Status: pipeline.StatusFailed,
			Reason: fmt.Sprintf("slug conflict after retry: %v", err),
		}
	}
	return pipeline.Result{ID: id, Status: pipeline.StatusUpdated}
}
