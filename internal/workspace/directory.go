package workspace

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

// Directory is the browsable evidence list for one case, scoped to the
// active media kind. When the backend cannot be reached it falls back to
// the static sample list and flags itself degraded so the caller can warn
// the user.
type Directory struct {
	mu       sync.Mutex
	caseID   string
	evidence EvidenceService
	cache    Cache
	logger   *log.Logger
	kind     api.MediaKind
	files    []api.EvidenceFile
	degraded bool
}

// NewDirectory creates a directory for caseID. cache may be nil.
func NewDirectory(caseID string, evidence EvidenceService, cache Cache, logger *log.Logger) *Directory {
	return &Directory{
		caseID:   caseID,
		evidence: evidence,
		cache:    cache,
		logger:   logger,
		kind:     api.KindVideo,
	}
}

// ListByKind fetches the evidence of one media kind and makes it the active
// tab. On backend failure the sample list for that kind is installed
// instead, the directory is flagged degraded, and the error is returned so
// the caller can surface it.
func (d *Directory) ListByKind(ctx context.Context, kind api.MediaKind) error {
	res := d.evidence.ListEvidence(ctx, kind)
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kind = kind
	if !res.Success {
		d.files = SampleEvidence(kind)
		d.degraded = true
		d.logger.Printf("evidence list failed for case %s (%s): %s", d.caseID, kind, res.Message)
		return fmt.Errorf("list evidence: %s", res.Message)
	}
	d.files = res.Data
	d.degraded = false
	if d.cache != nil {
		if err := d.cache.ReplaceEvidence(ctx, d.caseID, res.Data); err != nil {
			d.logger.Printf("evidence cache write failed: %v", err)
		}
	}
	return nil
}

// RemoveByID deletes one evidence file on the backend and, only on success,
// drops it from the local list. A failed delete leaves the list untouched.
func (d *Directory) RemoveByID(ctx context.Context, evidenceID string) error {
	res := d.evidence.DeleteEvidence(ctx, evidenceID)
	if err := ctx.Err(); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("delete evidence %s: %s", evidenceID, res.Message)
	}
	d.mu.Lock()
	kept := d.files[:0]
	for _, f := range d.files {
		if f.ID != evidenceID {
			kept = append(kept, f)
		}
	}
	d.files = kept
	d.mu.Unlock()
	if d.cache != nil {
		if err := d.cache.DeleteEvidence(ctx, evidenceID); err != nil {
			d.logger.Printf("evidence cache delete failed: %v", err)
		}
	}
	return nil
}

// Files returns a copy of the current list.
func (d *Directory) Files() []api.EvidenceFile {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.EvidenceFile, len(d.files))
	copy(out, d.files)
	return out
}

// Kind returns the active media kind.
func (d *Directory) Kind() api.MediaKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.kind
}

// Degraded reports whether the current list is the static fallback.
func (d *Directory) Degraded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.degraded
}

// DateGroup is a run of evidence files sharing an upload date, in the order
// the dates were first seen.
type DateGroup struct {
	Date  string
	Files []api.EvidenceFile
}

// GroupByDate partitions files by upload date. Group order follows the first
// occurrence of each date in the input; files keep their relative order
// within a group.
func GroupByDate(files []api.EvidenceFile) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)
	for _, f := range files {
		i, ok := index[f.UploadDate]
		if !ok {
			i = len(groups)
			index[f.UploadDate] = i
			groups = append(groups, DateGroup{Date: f.UploadDate})
		}
		groups[i].Files = append(groups[i].Files, f)
	}
	return groups
}
