package workspace

import (
	"context"
	"fmt"
	"log"
)

// CaseMeta is the header line of a workspace: the case title and a short
// evidence summary.
type CaseMeta struct {
	Title         string
	EvidenceCount string
}

type metaSource func(ctx context.Context, caseID string) (CaseMeta, bool)

// MetaResolver derives display metadata for a case by asking a fixed chain
// of sources in order and taking the first answer: the chat history, then a
// direct case lookup, then the static demo table, then the default.
type MetaResolver struct {
	sources []metaSource
	logger  *log.Logger
}

// NewMetaResolver builds the resolver chain over the given services.
func NewMetaResolver(chat ChatService, cases CaseService, logger *log.Logger) *MetaResolver {
	r := &MetaResolver{logger: logger}
	r.sources = []metaSource{
		r.fromChatHistory(chat),
		r.fromCaseLookup(cases),
		fromDemoTable,
	}
	return r
}

// Resolve returns the first metadata any source produces, or the default.
func (r *MetaResolver) Resolve(ctx context.Context, caseID string) CaseMeta {
	for _, src := range r.sources {
		if ctx.Err() != nil {
			break
		}
		if meta, ok := src(ctx, caseID); ok {
			return meta
		}
	}
	return DefaultCaseMeta
}

func (r *MetaResolver) fromChatHistory(chat ChatService) metaSource {
	return func(ctx context.Context, caseID string) (CaseMeta, bool) {
		res := chat.GetChatHistory(ctx, caseID)
		if !res.Success || res.Data.CaseName == "" {
			return CaseMeta{}, false
		}
		return CaseMeta{
			Title:         res.Data.CaseName,
			EvidenceCount: fmt.Sprintf("%d messages", len(res.Data.Messages)),
		}, true
	}
}

func (r *MetaResolver) fromCaseLookup(cases CaseService) metaSource {
	return func(ctx context.Context, caseID string) (CaseMeta, bool) {
		res := cases.GetCase(ctx, caseID)
		if !res.Success || res.Data.Title == "" {
			if !res.Success {
				r.logger.Printf("case lookup failed for %s: %s", caseID, res.Message)
			}
			return CaseMeta{}, false
		}
		return CaseMeta{
			Title:         res.Data.Title,
			EvidenceCount: fmt.Sprintf("%d analyzed", res.Data.EvidenceCount),
		}, true
	}
}

func fromDemoTable(_ context.Context, caseID string) (CaseMeta, bool) {
	meta, ok := DemoCaseMeta[caseID]
	return meta, ok
}
