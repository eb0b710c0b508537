package workspace

import (
	"context"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

// ChatService is the slice of the backend API the timeline depends on.
type ChatService interface {
	GetChatHistory(ctx context.Context, caseID string) api.Response[api.ChatHistory]
	SendMessage(ctx context.Context, caseID string, payload api.SendMessagePayload) api.Response[api.Message]
	RAGQuery(ctx context.Context, req api.RAGQueryRequest) api.Response[api.RAGQueryResponse]
}

// EvidenceService is the slice of the backend API the evidence directory and
// upload staging depend on.
type EvidenceService interface {
	ListEvidence(ctx context.Context, kind api.MediaKind) api.Response[[]api.EvidenceFile]
	DeleteEvidence(ctx context.Context, evidenceID string) api.Response[struct{}]
	UploadEvidencePaths(ctx context.Context, caseID string, paths []string, opts api.UploadOptions) api.Response[api.UploadResponse]
}

// CaseService is the slice of the backend API the metadata resolver depends on.
type CaseService interface {
	GetCase(ctx context.Context, caseID string) api.Response[api.Case]
	ListCases(ctx context.Context) api.Response[[]api.Case]
}

// Services bundles everything a workspace needs from the backend.
// *api.Client satisfies it.
type Services interface {
	ChatService
	EvidenceService
	CaseService
}

// Cache persists workspace state locally so a restarted console can render
// before the backend answers. All methods are best effort; implementations
// must tolerate being handed data repeatedly.
type Cache interface {
	SaveMessages(ctx context.Context, caseID string, msgs []api.Message) error
	ReplaceEvidence(ctx context.Context, caseID string, files []api.EvidenceFile) error
	DeleteEvidence(ctx context.Context, evidenceID string) error
}
