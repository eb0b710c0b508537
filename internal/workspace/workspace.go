// Package workspace models the investigation workspace for one case: the
// conversation timeline, the evidence directory, upload staging, the source
// viewer, and the view-mode switch between them. It holds no rendering
// concerns; the terminal UI and the CLI both drive it.
package workspace

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ViewMode selects which pane fills the workspace.
type ViewMode int

const (
	// ModeChat shows the conversation timeline.
	ModeChat ViewMode = iota
	// ModeEvidence shows the evidence directory.
	ModeEvidence
)

func (m ViewMode) String() string {
	if m == ModeEvidence {
		return "evidence"
	}
	return "chat"
}

// ErrUploadPending is returned when a send is attempted while an upload
// batch is still running.
var ErrUploadPending = errors.New("wait for the upload to finish before sending")

// Workspace wires the per-case components together. Switching view modes
// never tears a component down, so each pane keeps its state across
// switches.
type Workspace struct {
	CaseID    string
	Timeline  *Timeline
	Directory *Directory
	Staging   *Staging
	Viewer    *Viewer

	resolver *MetaResolver
	logger   *log.Logger

	mu       sync.Mutex
	mode     ViewMode
	meta     CaseMeta
	metaDone bool
}

// New assembles a workspace for caseID over the given backend services.
// cache may be nil.
func New(caseID string, svc Services, cache Cache, logger *log.Logger) *Workspace {
	return &Workspace{
		CaseID:    caseID,
		Timeline:  NewTimeline(caseID, svc, cache, logger),
		Directory: NewDirectory(caseID, svc, cache, logger),
		Staging:   NewStaging(caseID, svc, logger),
		Viewer:    NewViewer(),
		resolver:  NewMetaResolver(svc, svc, logger),
		logger:    logger,
	}
}

// Mode returns the active view mode.
func (w *Workspace) Mode() ViewMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// SetMode switches panes. Component state survives the switch.
func (w *Workspace) SetMode(mode ViewMode) {
	w.mu.Lock()
	w.mode = mode
	w.mu.Unlock()
}

// ToggleMode flips between chat and evidence and returns the new mode.
func (w *Workspace) ToggleMode() ViewMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mode == ModeChat {
		w.mode = ModeEvidence
	} else {
		w.mode = ModeChat
	}
	return w.mode
}

// Meta resolves the case header metadata, once. Later calls return the
// cached answer.
func (w *Workspace) Meta(ctx context.Context) CaseMeta {
	w.mu.Lock()
	if w.metaDone {
		meta := w.meta
		w.mu.Unlock()
		return meta
	}
	w.mu.Unlock()

	meta := w.resolver.Resolve(ctx, w.CaseID)

	w.mu.Lock()
	w.meta = meta
	w.metaDone = true
	w.mu.Unlock()
	return meta
}

// Send drains the staged media into a message and sends it. Refused while
// an upload batch is still running so a half-uploaded set cannot be
// attached. A send the timeline rejects outright never reached the
// conversation, so the drained media goes back into staging.
func (w *Workspace) Send(ctx context.Context, content string) (string, error) {
	if w.Staging.Uploading() {
		return "", ErrUploadPending
	}
	media := w.Staging.Take()
	corrID, err := w.Timeline.Send(ctx, content, media)
	if errors.Is(err, ErrSendInFlight) || errors.Is(err, ErrEmptyMessage) {
		for _, m := range media {
			w.Staging.StageLocal(m)
		}
	}
	return corrID, err
}
