package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreMigrates(t *testing.T) {
	s := newTestStore(t)

	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name IN ('cases','messages','evidence')`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSaveAndGetCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveCase(ctx, api.Case{
		ID:            "case-1",
		Title:         "Robbery on 5th",
		Description:   "corner store",
		Status:        api.CaseCompleted,
		EvidenceCount: 12,
	})
	require.NoError(t, err)

	got, err := s.GetCase(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, "Robbery on 5th", got.Title)
	assert.Equal(t, api.CaseCompleted, got.Status)
	assert.Equal(t, 12, got.EvidenceCount)
}

func TestSaveCaseFallsBackToCaseID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCase(ctx, api.Case{CaseID: "case-9", Title: "Hit and run"}))

	got, err := s.GetCase(ctx, "case-9")
	require.NoError(t, err)
	assert.Equal(t, "case-9", got.ID)
}

func TestSaveCaseRejectsMissingID(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveCase(context.Background(), api.Case{Title: "no id"})
	assert.Error(t, err)
}

func TestSaveCasesUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCases(ctx, []api.Case{
		{ID: "case-1", Title: "first"},
		{ID: "case-2", Title: "second"},
	}))
	require.NoError(t, s.SaveCases(ctx, []api.Case{
		{ID: "case-1", Title: "first, renamed"},
	}))

	cases, err := s.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	got, err := s.GetCase(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, "first, renamed", got.Title)
}

func TestSaveMessagesReplacesConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []api.Message{
		{ID: "1", Role: "user", Content: "find the sedan"},
		{ID: "2", Role: "assistant", Content: "searching"},
	}
	require.NoError(t, s.SaveMessages(ctx, "case-1", first))

	second := []api.Message{
		{ID: "3", Role: "user", Content: "anything new?"},
	}
	require.NoError(t, s.SaveMessages(ctx, "case-1", second))

	got, err := s.GetMessages(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestMessagesKeepStoredOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msgs := []api.Message{
		{ID: "b", Role: "user", Content: "first"},
		{ID: "a", Role: "assistant", Content: "second"},
		{ID: "c", Role: "user", Content: "third"},
	}
	require.NoError(t, s.SaveMessages(ctx, "case-1", msgs))

	got, err := s.GetMessages(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMessagesRoundTripAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := api.Message{
		ID:      "ai-1",
		Role:    "assistant",
		Content: "two sightings",
		Media: []api.MediaItem{
			{Kind: api.KindVideo, URL: "https://cdn/clip.mp4", Filename: "clip.mp4"},
		},
		Table: &api.Table{
			Headers: []string{"Camera", "Time"},
			Rows: []api.TableRow{
				{Date: "2024-03-15", Time: "1:05", Description: "sedan passes"},
			},
		},
		Sources: []api.Source{
			{Filename: "north.mp4", CameraID: "CAM-N-01", Timestamp: "1:05", Date: "2024-03-15"},
		},
	}
	require.NoError(t, s.SaveMessages(ctx, "case-1", []api.Message{msg}))

	got, err := s.GetMessages(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Media, 1)
	assert.Equal(t, api.KindVideo, got[0].Media[0].Kind)
	require.NotNil(t, got[0].Table)
	assert.Equal(t, "sedan passes", got[0].Table.Rows[0].Description)
	require.Len(t, got[0].Sources, 1)
	assert.Equal(t, "CAM-N-01", got[0].Sources[0].CameraID)
}

func TestMessagesWithoutAttachmentsStayNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessages(ctx, "case-1", []api.Message{
		{ID: "1", Role: "user", Content: "plain"},
	}))

	got, err := s.GetMessages(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Media)
	assert.Nil(t, got[0].Table)
	assert.Nil(t, got[0].Sources)
}

func TestReplaceEvidenceAndKindFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	files := []api.EvidenceFile{
		{ID: "e1", Name: "north.mp4", Kind: api.KindVideo, UploadDate: "2024-03-15"},
		{ID: "e2", Name: "plate.jpg", Kind: api.KindImage, UploadDate: "2024-03-15"},
		{ID: "e3", Name: "call.wav", Kind: api.KindAudio, UploadDate: "2024-03-16"},
	}
	require.NoError(t, s.ReplaceEvidence(ctx, "case-1", files))

	all, err := s.ListEvidence(ctx, "case-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	videos, err := s.ListEvidence(ctx, "case-1", api.KindVideo)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "north.mp4", videos[0].Name)

	// replace drops rows missing from the new list
	require.NoError(t, s.ReplaceEvidence(ctx, "case-1", files[:1]))
	all, err = s.ListEvidence(ctx, "case-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteEvidence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvidence(ctx, "case-1", []api.EvidenceFile{
		{ID: "e1", Name: "north.mp4", Kind: api.KindVideo},
		{ID: "e2", Name: "south.mp4", Kind: api.KindVideo},
	}))
	require.NoError(t, s.DeleteEvidence(ctx, "e1"))

	left, err := s.ListEvidence(ctx, "case-1", "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "e2", left[0].ID)
}

func TestResetAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCase(ctx, api.Case{ID: "case-1", Title: "t"}))
	require.NoError(t, s.SaveMessages(ctx, "case-1", []api.Message{{ID: "1", Role: "user"}}))
	require.NoError(t, s.ReplaceEvidence(ctx, "case-1", []api.EvidenceFile{{ID: "e1", Name: "n", Kind: api.KindVideo}}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["cases"])
	assert.Equal(t, 1, stats["messages"])
	assert.Equal(t, 1, stats["evidence"])

	require.NoError(t, s.Reset(ctx))

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats["cases"])
	assert.Equal(t, 0, stats["messages"])
	assert.Equal(t, 0, stats["evidence"])
}
