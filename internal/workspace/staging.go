package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

// ErrUploadInFlight is returned when files are selected while a previous
// upload batch is still running.
var ErrUploadInFlight = errors.New("an upload is already in flight")

// Staging holds media that has been uploaded but not yet attached to a
// message. Selecting files uploads them as one batch; each successful file
// becomes a pending media item, and the whole set is drained into the next
// send.
type Staging struct {
	mu        sync.Mutex
	caseID    string
	evidence  EvidenceService
	logger    *log.Logger
	pending   []api.MediaItem
	uploading bool
}

// NewStaging creates a staging area for caseID.
func NewStaging(caseID string, evidence EvidenceService, logger *log.Logger) *Staging {
	return &Staging{caseID: caseID, evidence: evidence, logger: logger}
}

// SelectFiles uploads the given local files as one batch and stages every
// file the backend accepted. Partial failures stage the successes and
// return an error naming the files that failed. Only one batch may run at
// a time.
func (s *Staging) SelectFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return ErrUploadInFlight
	}
	s.uploading = true
	s.mu.Unlock()

	res := s.evidence.UploadEvidencePaths(ctx, s.caseID, paths, api.UploadOptions{
		CamID: api.GenerateCamID(),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading = false

	if err := ctx.Err(); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("upload evidence: %s", res.Message)
	}

	var failed []string
	for _, r := range res.Data.Results {
		if !r.Success || r.EvidenceID == "" {
			name := r.Filename
			if name == "" {
				name = "unknown file"
			}
			failed = append(failed, name)
			continue
		}
		kind := r.MediaType
		if kind == "" {
			kind = api.ClassifyMedia(r.Filename)
		}
		s.pending = append(s.pending, api.MediaItem{
			Kind:        kind,
			URL:         r.StorageURL,
			Description: r.Filename,
			Filename:    r.Filename,
			FileSize:    r.FileSize,
			EvidenceID:  r.EvidenceID,
		})
	}
	if len(failed) > 0 {
		s.logger.Printf("upload batch %s: %d of %d files failed", res.Data.BatchID, len(failed), res.Data.TotalFiles)
		return fmt.Errorf("failed to upload: %s", strings.Join(failed, ", "))
	}
	return nil
}

// StageLocal stages an already uploaded media item directly, bypassing the
// upload path. Used when evidence arrives through another channel.
func (s *Staging) StageLocal(item api.MediaItem) {
	if item.Kind == "" {
		item.Kind = api.ClassifyMedia(item.Filename)
	}
	s.mu.Lock()
	s.pending = append(s.pending, item)
	s.mu.Unlock()
}

// Pending returns a copy of the staged media.
func (s *Staging) Pending() []api.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.MediaItem, len(s.pending))
	copy(out, s.pending)
	return out
}

// RemovePending drops one staged item by evidence id.
func (s *Staging) RemovePending(evidenceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.pending[:0]
	for _, m := range s.pending {
		if m.EvidenceID != evidenceID {
			kept = append(kept, m)
		}
	}
	s.pending = kept
}

// Take drains and returns the staged media. The send path calls this so the
// staging area is cleared the moment a message goes out.
func (s *Staging) Take() []api.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Uploading reports whether an upload batch is in flight.
func (s *Staging) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// DisplayName shortens a path to its base name for staged-file chips.
func DisplayName(path string) string {
	return filepath.Base(path)
}
