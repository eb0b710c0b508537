package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/evidence-console/internal/api"
	"github.com/Ashfaaq98/evidence-console/internal/bus"
)

type fakeUploader struct {
	mu    sync.Mutex
	calls [][]string
	fn    func(paths []string) api.Response[api.UploadResponse]
}

func (f *fakeUploader) UploadEvidencePaths(ctx context.Context, caseID string, paths []string, opts api.UploadOptions) api.Response[api.UploadResponse] {
	f.mu.Lock()
	f.calls = append(f.calls, paths)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(paths)
	}
	results := make([]api.UploadResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, api.UploadResult{
			Success:    true,
			EvidenceID: "ev-" + filepath.Base(p),
			Filename:   filepath.Base(p),
		})
	}
	return api.Response[api.UploadResponse]{
		Success: true,
		Data: api.UploadResponse{
			TotalFiles:        len(paths),
			SuccessfulUploads: len(paths),
			Results:           results,
		},
	}
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingBus struct {
	bus.Bus
	mu        sync.Mutex
	published []bus.ActivityMessage
}

func newRecordingBus() *recordingBus {
	return &recordingBus{Bus: bus.NewNullBus(log.New(io.Discard, "", 0))}
}

func (r *recordingBus) PublishActivity(ctx context.Context, activity bus.ActivityMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, activity)
	return nil
}

func (r *recordingBus) messages() []bus.ActivityMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bus.ActivityMessage, len(r.published))
	copy(out, r.published)
	return out
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0644))
	return path
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestMatchesDefaultPatterns(t *testing.T) {
	fw := NewFolderWatcher(&fakeUploader{}, newRecordingBus(), FolderOptions{Dir: t.TempDir(), Logger: discardLogger()})

	assert.True(t, fw.matches("scene.mp4"))
	assert.True(t, fw.matches("SCENE.MP4"))
	assert.True(t, fw.matches("plate.jpg"))
	assert.False(t, fw.matches("notes.txt"))
	assert.False(t, fw.matches("partial.mp4.part"))
}

func TestMatchesCustomPatterns(t *testing.T) {
	fw := NewFolderWatcher(&fakeUploader{}, newRecordingBus(), FolderOptions{
		Dir:      t.TempDir(),
		Patterns: []string{"cam-*.mkv"},
		Logger:   discardLogger(),
	})

	assert.True(t, fw.matches("cam-north.mkv"))
	assert.False(t, fw.matches("dash.mkv"))
	assert.False(t, fw.matches("cam-north.mp4"))
}

func TestOneShotIngestUploadsAndPublishes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "north.mp4")
	writeFile(t, dir, "plate.jpg")
	writeFile(t, dir, "notes.txt") // ignored

	up := &fakeUploader{}
	rb := newRecordingBus()
	fw := NewFolderWatcher(up, rb, FolderOptions{Dir: dir, CaseID: "case-1", Logger: discardLogger()})

	require.NoError(t, fw.Run(context.Background()))

	uploaded, errors := fw.Counts()
	assert.Equal(t, 2, uploaded)
	assert.Equal(t, 0, errors)
	assert.Equal(t, 2, up.callCount())

	msgs := rb.messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "case-1", m.CaseID)
		assert.Equal(t, bus.ActivityEvidenceUploaded, m.Kind)
	}
}

func TestSeenFilesAreNotReuploaded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "north.mp4")

	up := &fakeUploader{}
	fw := NewFolderWatcher(up, newRecordingBus(), FolderOptions{Dir: dir, CaseID: "case-1", Logger: discardLogger()})

	require.NoError(t, fw.scanOnce(context.Background()))
	require.NoError(t, fw.scanOnce(context.Background()))

	assert.Equal(t, 1, up.callCount())
}

func TestFailedUploadIsRetriable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "north.mp4")

	var attempts int
	up := &fakeUploader{}
	up.fn = func(paths []string) api.Response[api.UploadResponse] {
		attempts++
		if attempts == 1 {
			return api.Response[api.UploadResponse]{Success: false, Message: "backend down"}
		}
		return api.Response[api.UploadResponse]{
			Success: true,
			Data: api.UploadResponse{
				SuccessfulUploads: 1,
				Results:           []api.UploadResult{{Success: true, EvidenceID: "ev-1", Filename: "north.mp4"}},
			},
		}
	}
	fw := NewFolderWatcher(up, newRecordingBus(), FolderOptions{Dir: dir, CaseID: "case-1", Logger: discardLogger()})

	require.NoError(t, fw.scanOnce(context.Background()))
	uploaded, errors := fw.Counts()
	assert.Equal(t, 0, uploaded)
	assert.Equal(t, 1, errors)

	// first failure released the dedupe entry, so the next pass retries
	require.NoError(t, fw.scanOnce(context.Background()))
	uploaded, _ = fw.Counts()
	assert.Equal(t, 1, uploaded)
	assert.Equal(t, 2, attempts)
}

func TestPartialBatchFailureCountsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "north.mp4")

	up := &fakeUploader{}
	up.fn = func(paths []string) api.Response[api.UploadResponse] {
		return api.Response[api.UploadResponse]{
			Success: true,
			Data: api.UploadResponse{
				SuccessfulUploads: 0,
				FailedUploads:     1,
				Results: []api.UploadResult{
					{Success: false, Filename: filepath.Base(paths[0]), Error: "codec rejected"},
				},
			},
		}
	}
	rb := newRecordingBus()
	fw := NewFolderWatcher(up, rb, FolderOptions{Dir: dir, CaseID: "case-1", Logger: discardLogger()})

	require.NoError(t, fw.scanOnce(context.Background()))

	uploaded, errors := fw.Counts()
	assert.Equal(t, 0, uploaded)
	assert.Equal(t, 1, errors)
	assert.Empty(t, rb.messages(), "failed results do not hit the activity stream")
}

func TestScanOnceMissingDir(t *testing.T) {
	fw := NewFolderWatcher(&fakeUploader{}, newRecordingBus(), FolderOptions{
		Dir:    filepath.Join(t.TempDir(), "does-not-exist"),
		Logger: discardLogger(),
	})
	assert.Error(t, fw.Run(context.Background()))
}

func TestDefaultsApplied(t *testing.T) {
	fw := NewFolderWatcher(&fakeUploader{}, newRecordingBus(), FolderOptions{Dir: t.TempDir(), Logger: discardLogger()})

	assert.NotEmpty(t, fw.opts.Patterns)
	assert.True(t, len(fw.opts.CamID) > 4 && fw.opts.CamID[:4] == "CAM-", fmt.Sprintf("got %q", fw.opts.CamID))
	assert.NotZero(t, fw.opts.SettleDelay)
}
