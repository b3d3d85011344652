package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Status is the per-record outcome of a batch transform.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is the explicit success/failure of one record, aggregated into the
// run summary instead of being thrown away in a catch block.
type Result struct {
	ID     uint
	Status Status
	Reason string
}

// Summary accumulates a run's counts and task-specific counters.
type Summary struct {
	Name      string
	Processed int
	Updated   int
	Skipped   int
	Failed    int
	Batches   int
	BatchErrs int
	Counters  map[string]int
	Errors    []string
}

func (s *Summary) add(results []Result) {
	for _, res := range results {
		s.Processed++
		switch res.Status {
		case StatusUpdated:
			s.Updated++
		case StatusFailed:
			s.Failed++
			if res.Reason != "" {
				s.Errors = append(s.Errors, fmt.Sprintf("id=%d: %s", res.ID, res.Reason))
			}
		default:
			s.Skipped++
		}
	}
}

// SetCounter records a task-specific metric, e.g. the resolver fallback count.
func (s *Summary) SetCounter(name string, value int) {
	if s.Counters == nil {
		s.Counters = make(map[string]int)
	}
	s.Counters[name] = value
}

// Print writes the final summary table to w.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\n=== %s ===\n", s.Name)
	fmt.Fprintf(w, "processed : %d\n", s.Processed)
	fmt.Fprintf(w, "updated   : %d\n", s.Updated)
	fmt.Fprintf(w, "skipped   : %d\n", s.Skipped)
	fmt.Fprintf(w, "failed    : %d\n", s.Failed)
	fmt.Fprintf(w, "batches   : %d (%d failed)\n", s.Batches, s.BatchErrs)
	for name, value := range s.Counters {
		fmt.Fprintf(w, "%-10s: %d\n", name, value)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, "  ! %s\n", e)
	}
}

// BatchFunc fetches and processes one page of records starting at offset.
// It reports how many records were fetched (the loop ends on a short page)
// and the per-record results for the page.
type BatchFunc func(offset, limit int) (fetched int, results []Result, err error)

// Runner pages through a remote table in bounded windows and aggregates the
// per-record results. A failed page is logged and skipped; processing resumes
// at the next window rather than aborting the run.
type Runner struct {
	PageSize int
	Limit    int           // stop after this many records; 0 = no limit
	Delay    time.Duration // pause between pages to stay under rate limits
	Progress io.Writer
}

// Run drives fn over the table and returns the aggregated summary.
func (r *Runner) Run(name string, fn BatchFunc) *Summary {
	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	out := r.Progress
	if out == nil {
		out = os.Stdout
	}

	summary := &Summary{Name: name}
	offset := 0
	consecutiveErrs := 0
	for {
		limit := pageSize
		if r.Limit > 0 && offset+limit > r.Limit {
			limit = r.Limit - offset
		}
		if limit <= 0 {
			break
		}

		fetched, results, err := fn(offset, limit)
		summary.Batches++
		if err != nil {
			summary.BatchErrs++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("page offset=%d limit=%d: %v", offset, limit, err))
			fmt.Fprintf(out, "%s: page at offset %d failed (%v), continuing\n", name, offset, err)
			offset += limit
			consecutiveErrs++
			if consecutiveErrs >= 5 {
				fmt.Fprintf(out, "%s: too many consecutive page failures, stopping\n", name)
				break
			}
			continue
		}
		consecutiveErrs = 0

		summary.add(results)
		fmt.Fprintf(out, "%s: %d processed (%d updated, %d skipped, %d failed)\r",
			name, summary.Processed, summary.Updated, summary.Skipped, summary.Failed)

		offset += fetched
		if fetched < limit {
			break
		}
		if r.Delay > 0 {
			time.Sleep(r.Delay)
		}
	}
	fmt.Fprintln(out)
	return summary
}

// Chunk splits ids into write batches of at most size elements.
func Chunk(ids []uint, size int) [][]uint {
	if size <= 0 {
		size = 100
	}
	var chunks [][]uint
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
