package pipeline

import (
	"sort"
	"time"
)

// DedupRecord is the slice of a listing the deduplicator needs.
type DedupRecord struct {
	ID        uint
	NEQ       string
	CreatedAt time.Time
}

// DedupGroup is the decision for one NEQ with more than one record: keep the
// most recently created record, delete the rest.
type DedupGroup struct {
	NEQ       string
	KeepID    uint
	DeleteIDs []uint
}

// PlanDedup groups records by NEQ and decides, for each key with duplicates,
// which record survives. The kept record is the one with the latest creation
// timestamp; ties break deterministically on the highest id. Records with an
// empty NEQ are never deduplicated.
func PlanDedup(records []DedupRecord) []DedupGroup {
	byNEQ := make(map[string][]DedupRecord)
	for _, rec := range records {
		if rec.NEQ == "" {
			continue
		}
		byNEQ[rec.NEQ] = append(byNEQ[rec.NEQ], rec)
	}

	keys := make([]string, 0, len(byNEQ))
	for neq, group := range byNEQ {
		if len(group) > 1 {
			keys = append(keys, neq)
		}
	}
	sort.Strings(keys)

	groups := make([]DedupGroup, 0, len(keys))
	for _, neq := range keys {
		group := byNEQ[neq]
		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.After(group[j].CreatedAt)
			}
			return group[i].ID > group[j].ID
		})

		deleteIDs := make([]uint, 0, len(group)-1)
		for _, rec := range group[1:] {
			deleteIDs = append(deleteIDs, rec.ID)
		}
		groups = append(groups, DedupGroup{
			NEQ:       neq,
			KeepID:    group[0].ID,
			DeleteIDs: deleteIDs,
		})
	}
	return groups
}
