package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListCases fetches all cases from the search service.
func (c *Client) ListCases(ctx context.Context) Response[[]Case] {
	var payload struct {
		Cases []Case `json:"cases"`
	}
	if _, err := c.doJSON(ctx, http.MethodGet, "/search/cases", nil, &payload); err != nil {
		c.logger.Printf("list cases: %v", err)
		return fail[[]Case]("failed to fetch cases")
	}
	return ok(payload.Cases)
}

// GetCase fetches a single case by id. A 404 is a distinguished, non-error
// outcome: the envelope carries success=false with a not-found message and a
// zero-value case.
func (c *Client) GetCase(ctx context.Context, id string) Response[Case] {
	var case_ Case
	status, err := c.doJSON(ctx, http.MethodGet, "/search/cases/"+url.PathEscape(id), nil, &case_)
	if err != nil {
		if status == http.StatusNotFound {
			return fail[Case]("Case not found")
		}
		c.logger.Printf("get case %s: %v", id, err)
		return fail[Case]("failed to fetch case")
	}
	if case_.ID == "" {
		case_.ID = case_.CaseID
	}
	// The backend reports brand-new cases as "active"; the client's lifecycle
	// vocabulary is processing/completed/failed.
	if case_.Status == "active" {
		case_.Status = CaseCompleted
	}
	return ok(case_)
}

// CreateCasePayload is the body of POST /search/cases.
type CreateCasePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCase creates a new case.
func (c *Client) CreateCase(ctx context.Context, payload CreateCasePayload) Response[Case] {
	var case_ Case
	if _, err := c.doJSON(ctx, http.MethodPost, "/search/cases", payload, &case_); err != nil {
		c.logger.Printf("create case: %v", err)
		return fail[Case]("failed to create case")
	}
	if case_.ID == "" {
		case_.ID = case_.CaseID
	}
	if case_.Status == "active" || case_.Status == "" {
		case_.Status = CaseProcessing
	}
	return ok(case_)
}
