package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

func TestListByKindSuccess(t *testing.T) {
	svc := &stubServices{
		list: func(kind api.MediaKind) api.Response[[]api.EvidenceFile] {
			return okResp([]api.EvidenceFile{
				{ID: "e1", Name: "door.mp4", Kind: kind, UploadDate: "February 21, 2026"},
			})
		},
	}
	d := NewDirectory("case-1", svc, nil, testLogger())

	require.NoError(t, d.ListByKind(context.Background(), api.KindVideo))
	files := d.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "door.mp4", files[0].Name)
	assert.Equal(t, api.KindVideo, d.Kind())
	assert.False(t, d.Degraded())
}

func TestListByKindFailureFallsBackToSamples(t *testing.T) {
	svc := &stubServices{
		list: func(kind api.MediaKind) api.Response[[]api.EvidenceFile] {
			return failResp[[]api.EvidenceFile]("connection refused")
		},
	}
	d := NewDirectory("case-1", svc, nil, testLogger())

	err := d.ListByKind(context.Background(), api.KindImage)
	require.Error(t, err, "degraded load still surfaces the error")

	files := d.Files()
	require.NotEmpty(t, files)
	for _, f := range files {
		assert.Equal(t, api.KindImage, f.Kind)
	}
	assert.True(t, d.Degraded())
}

func TestRemoveByIDFailureKeepsList(t *testing.T) {
	svc := &stubServices{
		list: func(kind api.MediaKind) api.Response[[]api.EvidenceFile] {
			return okResp([]api.EvidenceFile{
				{ID: "e1", Name: "a.mp4", Kind: kind},
				{ID: "e2", Name: "b.mp4", Kind: kind},
			})
		},
		del: func(id string) api.Response[struct{}] {
			return failResp[struct{}]("delete denied")
		},
	}
	d := NewDirectory("case-1", svc, nil, testLogger())
	require.NoError(t, d.ListByKind(context.Background(), api.KindVideo))

	err := d.RemoveByID(context.Background(), "e1")
	require.Error(t, err)
	assert.Len(t, d.Files(), 2, "failed delete leaves the list untouched")
}

func TestRemoveByIDSuccess(t *testing.T) {
	svc := &stubServices{
		list: func(kind api.MediaKind) api.Response[[]api.EvidenceFile] {
			return okResp([]api.EvidenceFile{
				{ID: "e1", Name: "a.mp4", Kind: kind},
				{ID: "e2", Name: "b.mp4", Kind: kind},
			})
		},
		del: func(id string) api.Response[struct{}] {
			return okResp(struct{}{})
		},
	}
	d := NewDirectory("case-1", svc, nil, testLogger())
	require.NoError(t, d.ListByKind(context.Background(), api.KindVideo))

	require.NoError(t, d.RemoveByID(context.Background(), "e1"))
	files := d.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "e2", files[0].ID)
}

func TestGroupByDateEncounterOrder(t *testing.T) {
	files := []api.EvidenceFile{
		{ID: "1", Name: "a.mp4", UploadDate: "February 21, 2026"},
		{ID: "2", Name: "b.mp4", UploadDate: "February 20, 2026"},
		{ID: "3", Name: "c.mp4", UploadDate: "February 21, 2026"},
		{ID: "4", Name: "d.mp4", UploadDate: "February 19, 2026"},
	}

	groups := GroupByDate(files)
	require.Len(t, groups, 3)
	assert.Equal(t, "February 21, 2026", groups[0].Date)
	assert.Equal(t, "February 20, 2026", groups[1].Date)
	assert.Equal(t, "February 19, 2026", groups[2].Date)

	// Partition property: every file lands in exactly one group, order kept
	require.Len(t, groups[0].Files, 2)
	assert.Equal(t, "a.mp4", groups[0].Files[0].Name)
	assert.Equal(t, "c.mp4", groups[0].Files[1].Name)

	total := 0
	for _, g := range groups {
		total += len(g.Files)
	}
	assert.Equal(t, len(files), total)
}

func TestGroupByDateEmpty(t *testing.T) {
	assert.Empty(t, GroupByDate(nil))
}
