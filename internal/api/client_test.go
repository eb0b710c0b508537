package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, "secret-token", testLogger())
	require.NoError(t, err)
	return client, srv
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", "", testLogger())
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8000/", "", testLogger())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL(), "trailing slash trimmed")
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"cases": []interface{}{}})
	}))

	res := client.ListCases(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestListCases(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/cases", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"cases": []map[string]interface{}{
				{"id": "case-1", "title": "Robbery", "status": "completed", "evidence_count": 3},
			},
		})
	}))

	res := client.ListCases(context.Background())
	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Robbery", res.Data[0].Title)
}

func TestListCasesFailureReturnsEnvelope(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res := client.ListCases(context.Background())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, res.Data)
}

func TestGetCaseNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no such case"}`, http.StatusNotFound)
	}))

	res := client.GetCase(context.Background(), "missing")
	assert.False(t, res.Success)
	assert.Equal(t, "Case not found", res.Message)
}

func TestGetCaseMapsActiveStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"case_id": "case-7",
			"title":   "Traffic stop",
			"status":  "active",
		})
	}))

	res := client.GetCase(context.Background(), "case-7")
	require.True(t, res.Success)
	assert.Equal(t, CaseCompleted, res.Data.Status)
	assert.Equal(t, "case-7", res.Data.ID, "id falls back to case_id")
}

func TestGetChatHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/case/case-1/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"case_id":   "case-1",
			"case_name": "Robbery",
			"messages": []map[string]interface{}{
				{"id": "1", "role": "assistant", "content": "hello"},
			},
		})
	}))

	res := client.GetChatHistory(context.Background(), "case-1")
	require.True(t, res.Success)
	assert.Equal(t, "Robbery", res.Data.CaseName)
	require.Len(t, res.Data.Messages, 1)
}

func TestRAGQueryDefaultsTopK(t *testing.T) {
	var got RAGQueryRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/query/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"assistant_message_id": "ai-1",
			"user_message_id":      "u-1",
			"summary":              "found",
		})
	}))

	res := client.RAGQuery(context.Background(), RAGQueryRequest{CaseID: "case-1", Query: "sedan"})
	require.True(t, res.Success)
	assert.Equal(t, 10, got.TopK)
	assert.Equal(t, "ai-1", res.Data.AssistantMessageID)
}

func TestListEvidenceAddsMediaType(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/evidence/videos/", r.URL.Path)
		assert.Equal(t, "image", r.URL.Query().Get("media_type"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"videos": []map[string]interface{}{
				{"id": "e1", "name": "plate.jpg", "type": "image"},
			},
		})
	}))

	res := client.ListEvidence(context.Background(), KindImage)
	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, KindImage, res.Data[0].Kind)
}

func TestUploadEvidenceMultipart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/evidence/cases/upload/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "case-1", r.FormValue("case_id"))
		assert.Equal(t, "CAM-N-01", r.FormValue("cam_id"))
		assert.Equal(t, "40.7", r.FormValue("gps_lat"))
		require.Len(t, r.MultipartForm.File["files"], 2)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"batch_id":           "batch-1",
			"total_files":        2,
			"successful_uploads": 2,
			"results": []map[string]interface{}{
				{"success": true, "evidence_id": "ev-1", "filename": "a.mp4", "media_type": "video"},
				{"success": true, "evidence_id": "ev-2", "filename": "b.mp4", "media_type": "video"},
			},
		})
	}))

	files := []UploadFile{
		{Name: "a.mp4", Reader: strings.NewReader("AAAA")},
		{Name: "b.mp4", Reader: strings.NewReader("BBBB")},
	}
	res := client.UploadEvidence(context.Background(), "case-1", files, UploadOptions{
		CamID:  "CAM-N-01",
		GPSLat: 40.7,
		GPSLng: -74.0,
	})
	require.True(t, res.Success)
	assert.Equal(t, 2, res.Data.SuccessfulUploads)
	assert.Equal(t, "ev-2", res.Data.Results[1].EvidenceID)
	assert.Equal(t, KindVideo, res.Data.Results[0].MediaType)
}

func TestUploadEvidencePartialFailurePassedThrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"batch_id":           "batch-2",
			"total_files":        2,
			"successful_uploads": 1,
			"failed_uploads":     1,
			"results": []map[string]interface{}{
				{"success": true, "evidence_id": "ev-1", "filename": "fileA.mp4"},
				{"success": false, "filename": "fileB.mp4", "error": "codec rejected"},
			},
		})
	}))

	files := []UploadFile{
		{Name: "fileA.mp4", Reader: strings.NewReader("A")},
		{Name: "fileB.mp4", Reader: strings.NewReader("B")},
	}
	res := client.UploadEvidence(context.Background(), "case-1", files, UploadOptions{CamID: "CAM-X"})
	require.True(t, res.Success, "partial failure is still a successful envelope")
	assert.Equal(t, 1, res.Data.FailedUploads)
	assert.False(t, res.Data.Results[1].Success)
}

func TestUploadEvidencePathsOpenFailureFailsBatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when a file cannot be opened")
	}))

	res := client.UploadEvidencePaths(context.Background(), "case-1", []string{"/does/not/exist.mp4"}, UploadOptions{})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "exist.mp4")
}

func TestGenerateCamID(t *testing.T) {
	id := GenerateCamID()
	assert.True(t, strings.HasPrefix(id, "CAM-"))
	assert.Len(t, id, 10)
}

func TestClassifyMedia(t *testing.T) {
	assert.Equal(t, KindVideo, ClassifyMedia("Scene.MP4"))
	assert.Equal(t, KindImage, ClassifyMedia("plate.jpeg"))
	assert.Equal(t, KindAudio, ClassifyMedia("call.wav"))
	assert.Equal(t, KindDocument, ClassifyMedia("report.pdf"))
	assert.Equal(t, KindDocument, ClassifyMedia("noext"))
}

func TestExtractError(t *testing.T) {
	assert.Equal(t, "boom", extractError([]byte(`{"message":"boom"}`)))
	assert.Equal(t, "bad", extractError([]byte(`{"error":"bad"}`)))
	assert.Equal(t, "nope", extractError([]byte(`{"detail":"nope"}`)))
	assert.Equal(t, "plain text", extractError([]byte("plain text")))
}
