package workspace

import (
	"fmt"
	"sync"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

// SelectedSource is the normalized shape the source viewer renders,
// whatever the selection came from: a citation on a message, a retrieval
// result, a directory entry, or an attachment.
type SelectedSource struct {
	Filename    string
	Kind        api.MediaKind
	URL         string
	CameraLabel string
	Timestamp   string
	Date        string
	ClipStart   float64
	ClipEnd     float64
}

// normalizeKind maps anything unrecognized to video so the viewer always
// has a concrete renderer.
func normalizeKind(kind api.MediaKind) api.MediaKind {
	switch kind {
	case api.KindVideo, api.KindImage, api.KindAudio:
		return kind
	default:
		return api.KindVideo
	}
}

// SourceFromCitation normalizes a message citation.
func SourceFromCitation(src api.Source) SelectedSource {
	return SelectedSource{
		Filename:    src.Filename,
		Kind:        normalizeKind(api.ClassifyMedia(src.Filename)),
		CameraLabel: src.CameraID,
		Timestamp:   src.Timestamp,
		Date:        src.Date,
	}
}

// SourceFromResult normalizes a retrieval result. The clip window comes
// from the result's start and end offsets.
func SourceFromResult(r api.RAGResult) SelectedSource {
	label := r.CamID
	if label == "" {
		label = "Unknown camera"
	}
	return SelectedSource{
		Filename:    r.Caption,
		Kind:        api.KindVideo,
		URL:         r.URL,
		CameraLabel: label,
		Timestamp:   FormatClock(r.Timestamp),
		ClipStart:   r.StartTime,
		ClipEnd:     r.EndTime,
	}
}

// SourceFromEvidence normalizes a directory entry.
func SourceFromEvidence(f api.EvidenceFile) SelectedSource {
	return SelectedSource{
		Filename: f.Name,
		Kind:     normalizeKind(f.Kind),
		URL:      f.URL,
		Date:     f.UploadDate,
	}
}

// SourceFromMedia normalizes a message attachment. The owning message's
// timestamp stands in for a capture time.
func SourceFromMedia(m api.MediaItem, messageTimestamp string) SelectedSource {
	name := m.Filename
	if name == "" {
		name = m.Description
	}
	return SelectedSource{
		Filename:  name,
		Kind:      normalizeKind(m.Kind),
		URL:       m.URL,
		Timestamp: messageTimestamp,
	}
}

// Viewer is the modal source viewer: at most one selection open at a time.
type Viewer struct {
	mu       sync.Mutex
	selected SelectedSource
	player   *ClipPlayer
	open     bool
}

// NewViewer creates a closed viewer.
func NewViewer() *Viewer {
	return &Viewer{}
}

// Open replaces any current selection. Video selections get a clip player
// wound to the selection's clip window.
func (v *Viewer) Open(sel SelectedSource) {
	sel.Kind = normalizeKind(sel.Kind)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = sel
	v.open = true
	if sel.Kind == api.KindVideo {
		v.player = NewClipPlayer(sel.ClipStart, sel.ClipEnd)
	} else {
		v.player = nil
	}
}

// Close clears the selection.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = false
	v.selected = SelectedSource{}
	v.player = nil
}

// Current returns the open selection, if any.
func (v *Viewer) Current() (SelectedSource, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected, v.open
}

// Player returns the clip player for an open video selection, or nil.
func (v *Viewer) Player() *ClipPlayer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.player
}

// FormatClock renders a second offset as m:ss for transport displays.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
