package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ashfaaq98/evidence-console/internal/api"
)

var (
	// ErrEmptyMessage is returned when a send is attempted with no content.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSendInFlight is returned when a send is attempted while a previous
	// one has not finished.
	ErrSendInFlight = errors.New("a send is already in flight")
)

// SendState tracks a single send through its lifecycle.
type SendState int

const (
	// SendStaged means the optimistic message is in the timeline but the
	// request has not left yet.
	SendStaged SendState = iota
	// SendSent means the request is on the wire.
	SendSent
	// SendConfirmed means the backend accepted the message and assigned it
	// a permanent id.
	SendConfirmed
	// SendFailed means the request failed; the message stays in the
	// timeline under a locally assigned permanent id.
	SendFailed
)

func (s SendState) String() string {
	switch s {
	case SendStaged:
		return "staged"
	case SendSent:
		return "sent"
	case SendConfirmed:
		return "confirmed"
	case SendFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type pendingSend struct {
	tempID string
	state  SendState
}

// Timeline holds the conversation for one case: the ordered message list,
// retrieval results keyed by the assistant message that produced them, and
// the per-message source expansion state. Sends are optimistic and
// single-flight.
type Timeline struct {
	mu       sync.Mutex
	caseID   string
	chat     ChatService
	cache    Cache
	logger   *log.Logger
	messages []api.Message
	results  map[string][]api.RAGResult
	expanded map[string]struct{}
	pending  map[string]*pendingSend
	sending  bool
}

// NewTimeline creates a timeline for caseID. cache may be nil.
func NewTimeline(caseID string, chat ChatService, cache Cache, logger *log.Logger) *Timeline {
	return &Timeline{
		caseID:   caseID,
		chat:     chat,
		cache:    cache,
		logger:   logger,
		results:  make(map[string][]api.RAGResult),
		expanded: make(map[string]struct{}),
		pending:  make(map[string]*pendingSend),
	}
}

// LoadHistory fetches the conversation from the backend. A backend failure
// is logged and leaves the current list untouched; a case with no stored
// history gets the seeded demo conversation instead. Callers always end up
// with something renderable.
func (t *Timeline) LoadHistory(ctx context.Context) error {
	res := t.chat.GetChatHistory(ctx, t.caseID)
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !res.Success {
		t.logger.Printf("history load failed for case %s: %s", t.caseID, res.Message)
		return nil
	}
	msgs := res.Data.Messages
	if len(msgs) == 0 {
		msgs = DemoMessages(t.caseID)
	}
	t.messages = msgs
	if t.cache != nil {
		if err := t.cache.SaveMessages(ctx, t.caseID, msgs); err != nil {
			t.logger.Printf("history cache write failed: %v", err)
		}
	}
	return nil
}

// Messages returns a copy of the current message list.
func (t *Timeline) Messages() []api.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]api.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Sending reports whether a send is in flight.
func (t *Timeline) Sending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sending
}

// Send appends the user message optimistically, issues the retrieval query,
// and on success swaps in the server-assigned ids and appends the assistant
// reply. On failure the optimistic message is kept under a locally assigned
// permanent id so the user can see what they said. Only one send may be in
// flight at a time. The returned correlation id identifies this send in
// SendStateFor.
func (t *Timeline) Send(ctx context.Context, content string, media []api.MediaItem) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(media) == 0 {
		return "", ErrEmptyMessage
	}

	corrID := uuid.New().String()
	tempID := "temp-" + corrID
	optimistic := api.Message{
		ID:        tempID,
		Role:      "user",
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Media:     media,
	}

	t.mu.Lock()
	if t.sending {
		t.mu.Unlock()
		return "", ErrSendInFlight
	}
	t.sending = true
	t.messages = append(t.messages, optimistic)
	t.pending[corrID] = &pendingSend{tempID: tempID, state: SendStaged}
	t.mu.Unlock()

	t.mu.Lock()
	t.pending[corrID].state = SendSent
	t.mu.Unlock()

	// Messages with attachments are persisted through the message endpoint
	// first so the backend links the uploaded evidence to the conversation.
	var mediaMsgID string
	if len(media) > 0 {
		mres := t.chat.SendMessage(ctx, t.caseID, api.SendMessagePayload{Content: content, Media: media})
		if !mres.Success {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.sending = false
			t.failSendLocked(corrID)
			t.logger.Printf("send failed for case %s: %s", t.caseID, mres.Message)
			return corrID, fmt.Errorf("send message: %s", mres.Message)
		}
		mediaMsgID = mres.Data.ID
	}

	res := t.chat.RAGQuery(ctx, api.RAGQueryRequest{CaseID: t.caseID, Query: content})

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sending = false

	if err := ctx.Err(); err != nil {
		t.failSendLocked(corrID)
		return corrID, err
	}
	if !res.Success {
		t.failSendLocked(corrID)
		t.logger.Printf("send failed for case %s: %s", t.caseID, res.Message)
		return corrID, fmt.Errorf("send message: %s", res.Message)
	}

	userID := res.Data.UserMessageID
	if userID == "" {
		userID = mediaMsgID
	}
	if userID == "" {
		userID = fmt.Sprintf("%d", time.Now().UnixMilli())
	}
	assistantID := res.Data.AssistantMessageID
	if assistantID == "" {
		assistantID = "ai-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	}

	for i := range t.messages {
		if t.messages[i].ID == tempID {
			t.messages[i].ID = userID
			break
		}
	}
	reply := api.Message{
		ID:        assistantID,
		Role:      "assistant",
		Content:   res.Data.Summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	t.messages = append(t.messages, reply)
	if len(res.Data.Results) > 0 {
		t.results[assistantID] = res.Data.Results
	}
	t.pending[corrID].state = SendConfirmed

	if t.cache != nil {
		msgs := make([]api.Message, len(t.messages))
		copy(msgs, t.messages)
		if err := t.cache.SaveMessages(context.WithoutCancel(ctx), t.caseID, msgs); err != nil {
			t.logger.Printf("message cache write failed: %v", err)
		}
	}
	return corrID, nil
}

// failSendLocked re-ids the optimistic message with a locally assigned
// permanent id and marks the send failed. Caller holds t.mu.
func (t *Timeline) failSendLocked(corrID string) {
	p, ok := t.pending[corrID]
	if !ok {
		return
	}
	permID := fmt.Sprintf("%d", time.Now().UnixMilli())
	for i := range t.messages {
		if t.messages[i].ID == p.tempID {
			t.messages[i].ID = permID
			break
		}
	}
	p.state = SendFailed
}

// SendStateFor reports the lifecycle state of a send by correlation id.
func (t *Timeline) SendStateFor(corrID string) (SendState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pending[corrID]
	if !ok {
		return 0, false
	}
	return p.state, true
}

// ResultsFor returns the retrieval results attached to an assistant message.
func (t *Timeline) ResultsFor(messageID string) []api.RAGResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	rs, ok := t.results[messageID]
	if !ok {
		return nil
	}
	out := make([]api.RAGResult, len(rs))
	copy(out, rs)
	return out
}

// ToggleSourceExpansion flips the expanded state of a message's source list
// and reports the new state.
func (t *Timeline) ToggleSourceExpansion(messageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.expanded[messageID]; ok {
		delete(t.expanded, messageID)
		return false
	}
	t.expanded[messageID] = struct{}{}
	return true
}

// Expanded reports whether a message's source list is expanded.
func (t *Timeline) Expanded(messageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.expanded[messageID]
	return ok
}
