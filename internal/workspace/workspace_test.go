package workspace

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

// stubServices lets each test script the backend responses.
type stubServices struct {
	history  func(caseID string) api.Response[api.ChatHistory]
	send     func(caseID string, p api.SendMessagePayload) api.Response[api.Message]
	rag      func(req api.RAGQueryRequest) api.Response[api.RAGQueryResponse]
	list     func(kind api.MediaKind) api.Response[[]api.EvidenceFile]
	del      func(id string) api.Response[struct{}]
	upload   func(caseID string, paths []string) api.Response[api.UploadResponse]
	getCase  func(caseID string) api.Response[api.Case]
	allCases func() api.Response[[]api.Case]
}

func (s *stubServices) GetChatHistory(_ context.Context, caseID string) api.Response[api.ChatHistory] {
	if s.history == nil {
		return failResp[api.ChatHistory]("not scripted")
	}
	return s.history(caseID)
}

func (s *stubServices) SendMessage(_ context.Context, caseID string, p api.SendMessagePayload) api.Response[api.Message] {
	if s.send == nil {
		return failResp[api.Message]("not scripted")
	}
	return s.send(caseID, p)
}

func (s *stubServices) RAGQuery(_ context.Context, req api.RAGQueryRequest) api.Response[api.RAGQueryResponse] {
	if s.rag == nil {
		return failResp[api.RAGQueryResponse]("not scripted")
	}
	return s.rag(req)
}

func (s *stubServices) ListEvidence(_ context.Context, kind api.MediaKind) api.Response[[]api.EvidenceFile] {
	if s.list == nil {
		return failResp[[]api.EvidenceFile]("not scripted")
	}
	return s.list(kind)
}

func (s *stubServices) DeleteEvidence(_ context.Context, id string) api.Response[struct{}] {
	if s.del == nil {
		return failResp[struct{}]("not scripted")
	}
	return s.del(id)
}

func (s *stubServices) UploadEvidencePaths(_ context.Context, caseID string, paths []string, _ api.UploadOptions) api.Response[api.UploadResponse] {
	if s.upload == nil {
		return failResp[api.UploadResponse]("not scripted")
	}
	return s.upload(caseID, paths)
}

func (s *stubServices) GetCase(_ context.Context, caseID string) api.Response[api.Case] {
	if s.getCase == nil {
		return failResp[api.Case]("not scripted")
	}
	return s.getCase(caseID)
}

func (s *stubServices) ListCases(_ context.Context) api.Response[[]api.Case] {
	if s.allCases == nil {
		return failResp[[]api.Case]("not scripted")
	}
	return s.allCases()
}

func okResp[T any](data T) api.Response[T] {
	return api.Response[T]{Data: data, Success: true}
}

func failResp[T any](msg string) api.Response[T] {
	return api.Response[T]{Success: false, Message: msg}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestToggleModePreservesComponents(t *testing.T) {
	svc := &stubServices{}
	ws := New("case-1", svc, nil, testLogger())

	require.Equal(t, ModeChat, ws.Mode())
	ws.Viewer.Open(SelectedSource{Filename: "a.mp4"})

	assert.Equal(t, ModeEvidence, ws.ToggleMode())
	assert.Equal(t, ModeChat, ws.ToggleMode())

	// Viewer state survived the mode switches
	sel, open := ws.Viewer.Current()
	require.True(t, open)
	assert.Equal(t, "a.mp4", sel.Filename)
}

func TestSendRefusedWhileUploading(t *testing.T) {
	svc := &stubServices{}
	ws := New("case-1", svc, nil, testLogger())

	ws.Staging.mu.Lock()
	ws.Staging.uploading = true
	ws.Staging.mu.Unlock()

	_, err := ws.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUploadPending)
}

func TestSendDrainsStagedMedia(t *testing.T) {
	var gotQuery string
	var persisted api.SendMessagePayload
	svc := &stubServices{
		send: func(caseID string, p api.SendMessagePayload) api.Response[api.Message] {
			persisted = p
			return okResp(api.Message{ID: "u-1", Role: p.Role, Content: p.Content, Media: p.Media})
		},
		rag: func(req api.RAGQueryRequest) api.Response[api.RAGQueryResponse] {
			gotQuery = req.Query
			return okResp(api.RAGQueryResponse{
				AssistantMessageID: "ai-1",
				UserMessageID:      "u-1",
				Summary:            "found it",
			})
		},
	}
	ws := New("case-1", svc, nil, testLogger())
	ws.Staging.StageLocal(api.MediaItem{Filename: "clip.mp4", EvidenceID: "ev-1"})

	_, err := ws.Send(context.Background(), "where is the car")
	require.NoError(t, err)
	assert.Equal(t, "where is the car", gotQuery)

	// Staging cleared the moment the message went out
	assert.Empty(t, ws.Staging.Pending())

	// The attachment was persisted through the message endpoint
	require.Len(t, persisted.Media, 1)
	assert.Equal(t, "ev-1", persisted.Media[0].EvidenceID)

	msgs := ws.Timeline.Messages()
	require.Len(t, msgs, 2)
	require.Len(t, msgs[0].Media, 1)
	assert.Equal(t, "ev-1", msgs[0].Media[0].EvidenceID)
}

func TestRejectedSendKeepsStagedMedia(t *testing.T) {
	release := make(chan struct{})
	svc := &stubServices{
		rag: func(req api.RAGQueryRequest) api.Response[api.RAGQueryResponse] {
			<-release
			return okResp(api.RAGQueryResponse{
				AssistantMessageID: "ai-1",
				UserMessageID:      "u-1",
				Summary:            "found it",
			})
		},
	}
	ws := New("case-1", svc, nil, testLogger())

	done := make(chan struct{})
	go func() {
		_, _ = ws.Send(context.Background(), "first question")
		close(done)
	}()
	for !ws.Timeline.Sending() {
		time.Sleep(time.Millisecond)
	}

	ws.Staging.StageLocal(api.MediaItem{Filename: "clip.mp4", EvidenceID: "ev-1"})
	_, err := ws.Send(context.Background(), "second question")
	assert.ErrorIs(t, err, ErrSendInFlight)

	// The rejected send never reached the conversation, so its attachments
	// stay staged for the retry
	pending := ws.Staging.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "ev-1", pending[0].EvidenceID)

	close(release)
	<-done
}

func TestMetaResolvedOnce(t *testing.T) {
	calls := 0
	svc := &stubServices{
		history: func(caseID string) api.Response[api.ChatHistory] {
			calls++
			return okResp(api.ChatHistory{CaseID: caseID, CaseName: "Warehouse break-in"})
		},
	}
	ws := New("case-1", svc, nil, testLogger())

	first := ws.Meta(context.Background())
	second := ws.Meta(context.Background())
	assert.Equal(t, "Warehouse break-in", first.Title)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}
