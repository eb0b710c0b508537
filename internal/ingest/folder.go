// Package ingest uploads evidence dropped into a local folder. Field teams
// dump camera exports into a directory; the watcher pushes each new file to
// the backend and announces it on the activity bus.
package ingest

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Ashfaaq98/evidence-console/internal/api"
	"github.com/Ashfaaq98/evidence-console/internal/bus"
)

// Uploader is the slice of the backend API the watcher needs.
type Uploader interface {
	UploadEvidencePaths(ctx context.Context, caseID string, paths []string, opts api.UploadOptions) api.Response[api.UploadResponse]
}

// FolderOptions controls drop-folder behavior.
type FolderOptions struct {
	Dir      string
	CaseID   string
	Watch    bool
	Patterns []string // e.g. []string{"*.mp4", "*.jpg"}
	CamID    string   // applied to every upload; generated when empty
	Logger   *log.Logger
	// SettleDelay is how long a file's size must hold still before it is
	// considered fully written. Camera exports arrive in chunks.
	SettleDelay time.Duration
}

// FolderWatcher uploads evidence files from a directory (one-shot or watch mode).
type FolderWatcher struct {
	uploader Uploader
	bus      bus.Bus
	opts     FolderOptions

	mu   sync.Mutex
	seen map[string]struct{}

	uploaded int
	errors   int
}

// NewFolderWatcher constructs a drop-folder watcher.
func NewFolderWatcher(uploader Uploader, b bus.Bus, opts FolderOptions) *FolderWatcher {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[ingest-folder] ", log.LstdFlags)
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"*.mp4", "*.avi", "*.mov", "*.mkv", "*.webm", "*.jpg", "*.jpeg", "*.png", "*.mp3", "*.wav"}
	}
	if opts.CamID == "" {
		opts.CamID = api.GenerateCamID()
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 2 * time.Second
	}
	return &FolderWatcher{
		uploader: uploader,
		bus:      b,
		opts:     opts,
		seen:     make(map[string]struct{}),
	}
}

// Run executes the ingestion per options (one-shot or watch).
func (fw *FolderWatcher) Run(ctx context.Context) error {
	if err := fw.scanOnce(ctx); err != nil {
		return err
	}

	if !fw.opts.Watch {
		fw.opts.Logger.Printf("Completed one-shot ingest: uploaded=%d errors=%d", fw.uploaded, fw.errors)
		return nil
	}

	return fw.watchLoop(ctx)
}

func (fw *FolderWatcher) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range fw.opts.Patterns {
		p := strings.TrimSpace(strings.ToLower(pat))
		if ok, _ := filepath.Match(p, lower); ok {
			return true
		}
	}
	return false
}

func (fw *FolderWatcher) scanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(fw.opts.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !fw.matches(e.Name()) {
			continue
		}
		fw.handleFile(ctx, filepath.Join(fw.opts.Dir, e.Name()))
	}
	return nil
}

func (fw *FolderWatcher) watchLoop(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(fw.opts.Dir); err != nil {
		return err
	}

	fw.opts.Logger.Printf("Watching directory: %s (patterns: %s)", fw.opts.Dir, strings.Join(fw.opts.Patterns, ","))

	for {
		select {
		case <-ctx.Done():
			fw.opts.Logger.Printf("Watch stopping: uploaded=%d errors=%d", fw.uploaded, fw.errors)
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !fw.matches(filepath.Base(ev.Name)) {
				continue
			}
			if !fw.waitSettled(ctx, ev.Name) {
				continue
			}
			fw.handleFile(ctx, ev.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fw.opts.Logger.Printf("watch error: %v", err)
		}
	}
}

// waitSettled blocks until the file's size stops changing, so a half-copied
// export is not uploaded. Returns false if the file vanished or the context
// was cancelled.
func (fw *FolderWatcher) waitSettled(ctx context.Context, path string) bool {
	var last int64 = -1
	for {
		st, err := os.Stat(path)
		if err != nil {
			return false
		}
		if st.Size() == last {
			return true
		}
		last = st.Size()
		select {
		case <-ctx.Done():
			return false
		case <-time.After(fw.opts.SettleDelay):
		}
	}
}

func (fw *FolderWatcher) handleFile(ctx context.Context, path string) {
	fw.mu.Lock()
	if _, done := fw.seen[path]; done {
		fw.mu.Unlock()
		return
	}
	fw.seen[path] = struct{}{}
	fw.mu.Unlock()

	res := fw.uploader.UploadEvidencePaths(ctx, fw.opts.CaseID, []string{path}, api.UploadOptions{
		CamID: fw.opts.CamID,
	})
	if !res.Success {
		fw.opts.Logger.Printf("upload failed for %s: %s", path, res.Message)
		fw.errors++
		// Allow a retry on the next write event
		fw.mu.Lock()
		delete(fw.seen, path)
		fw.mu.Unlock()
		return
	}

	fw.uploaded += res.Data.SuccessfulUploads
	fw.errors += res.Data.FailedUploads
	fw.opts.Logger.Printf("uploaded %s (%d ok, %d failed)", filepath.Base(path), res.Data.SuccessfulUploads, res.Data.FailedUploads)

	for _, r := range res.Data.Results {
		if !r.Success {
			continue
		}
		activity := bus.ActivityMessage{
			CaseID:  fw.opts.CaseID,
			Kind:    bus.ActivityEvidenceUploaded,
			Subject: r.EvidenceID,
			Detail:  r.Filename,
		}
		if err := fw.bus.PublishActivity(ctx, activity); err != nil {
			fw.opts.Logger.Printf("activity publish failed for %s: %v", r.EvidenceID, err)
		}
	}
}

// Counts reports how many files were uploaded and how many failed so far.
func (fw *FolderWatcher) Counts() (uploaded, errors int) {
	return fw.uploaded, fw.errors
}
