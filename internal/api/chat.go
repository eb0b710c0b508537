package api

import (
	"context"
	"net/http"
	"net/url"
)

// GetChatHistory fetches the conversation history for a case. The payload
// also carries the case's display metadata (see ChatHistory).
func (c *Client) GetChatHistory(ctx context.Context, caseID string) Response[ChatHistory] {
	var history ChatHistory
	path := "/chat/case/" + url.PathEscape(caseID) + "/"
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &history); err != nil {
		c.logger.Printf("chat history %s: %v", caseID, err)
		return fail[ChatHistory]("failed to fetch chat history")
	}
	return ok(history)
}

// SendMessagePayload is the body of POST /chat/case/:caseId/message/.
type SendMessagePayload struct {
	Content string      `json:"content"`
	Role    string      `json:"role"`
	Media   []MediaItem `json:"media,omitempty"`
}

// SendMessage persists a user message on the case conversation.
func (c *Client) SendMessage(ctx context.Context, caseID string, payload SendMessagePayload) Response[Message] {
	if payload.Role == "" {
		payload.Role = "user"
	}
	var msg Message
	path := "/chat/case/" + url.PathEscape(caseID) + "/message/"
	if _, err := c.doJSON(ctx, http.MethodPost, path, payload, &msg); err != nil {
		c.logger.Printf("send message %s: %v", caseID, err)
		return fail[Message]("failed to send message")
	}
	return ok(msg)
}

// RAGQuery asks the backend to retrieve relevant evidence frames and produce
// a summarized answer. The response ids reconcile the optimistic user message
// and key the retrieval results to the assistant message.
func (c *Client) RAGQuery(ctx context.Context, req RAGQueryRequest) Response[RAGQueryResponse] {
	if req.TopK <= 0 {
		req.TopK = 10
	}
	var resp RAGQueryResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/search/query/", req, &resp); err != nil {
		c.logger.Printf("rag query %s: %v", req.CaseID, err)
		return fail[RAGQueryResponse]("failed to query evidence")
	}
	return ok(resp)
}
