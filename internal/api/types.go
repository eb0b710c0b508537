package api

// MediaKind classifies an evidence artifact or message attachment.
type MediaKind string

const (
	KindVideo    MediaKind = "video"
	KindImage    MediaKind = "image"
	KindAudio    MediaKind = "audio"
	KindDocument MediaKind = "document"
)

// CaseStatus is the ingestion lifecycle state of a case.
type CaseStatus string

const (
	CaseProcessing CaseStatus = "processing"
	CaseCompleted  CaseStatus = "completed"
	CaseFailed     CaseStatus = "failed"
)

// Case represents an investigation case as returned by the search service.
type Case struct {
	ID             string     `json:"id"`
	CaseID         string     `json:"case_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EvidenceCount  int        `json:"evidence_count"`
	EvidenceIDs    []string   `json:"evidence_ids,omitempty"`
	Status         CaseStatus `json:"status"`
	UploadProgress int        `json:"upload_progress,omitempty"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at,omitempty"`
}

// MediaItem is an uploaded artifact attached to a message. Produced by the
// upload endpoint, consumed by the chat timeline and the source viewer.
type MediaItem struct {
	Kind        MediaKind `json:"type"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	EvidenceID  string    `json:"evidence_id,omitempty"`
}

// Source is a citation from an assistant message to a specific evidence
// timestamp and camera.
type Source struct {
	Filename  string `json:"filename"`
	CameraID  string `json:"camera_id"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
}

// TableRow is one row of a structured answer table.
type TableRow struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// Table is an optional structured payload inside an assistant message.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"rows"`
}

// Message is a single entry in a case conversation. The id is server-assigned
// once confirmed; the client uses a temporary id for optimistic inserts.
type Message struct {
	ID        string      `json:"id"`
	Role      string      `json:"role"` // "user" | "assistant"
	Content   string      `json:"content"`
	Timestamp string      `json:"timestamp"` // ISO 8601
	Media     []MediaItem `json:"media,omitempty"`
	Table     *Table      `json:"table,omitempty"`
	Sources   []Source    `json:"sources,omitempty"`
}

// EvidenceFile is evidence metadata as listed by the evidence service.
// Independent of any message.
type EvidenceFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Kind       MediaKind `json:"type"`
	UploadDate string    `json:"upload_date"`
	UploadTime string    `json:"upload_time"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	URL        string    `json:"url,omitempty"`
}

// ChatHistory is the payload of GET /chat/case/:caseId/ which carries both
// the conversation and the case's display metadata.
type ChatHistory struct {
	CaseID          string    `json:"case_id"`
	CaseName        string    `json:"case_name"`
	CaseDescription string    `json:"case_description"`
	Messages        []Message `json:"messages"`
}

// RAGQueryRequest asks the backend to retrieve and summarize evidence frames
// relevant to a natural-language question.
type RAGQueryRequest struct {
	CaseID     string `json:"case_id"`
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	EnableReID bool   `json:"enable_reid"`
}

// RAGResult is one retrieved evidence frame.
type RAGResult struct {
	CamID       string  `json:"cam_id"`
	Timestamp   float64 `json:"timestamp"` // seconds into the source
	Score       float64 `json:"score"`
	Caption     string  `json:"caption"`
	Explanation string  `json:"explanation,omitempty"`
	GPSLat      float64 `json:"gps_lat,omitempty"`
	GPSLng      float64 `json:"gps_lng,omitempty"`
	URL         string  `json:"gdrive_url"`
	StartTime   float64 `json:"start_time,omitempty"`
	EndTime     float64 `json:"end_time,omitempty"`
}

// RAGQueryResponse is the answer to a RAG query. The ids tie the confirmed
// user message and the new assistant message back into the timeline.
type RAGQueryResponse struct {
	AssistantMessageID string      `json:"assistant_message_id"`
	UserMessageID      string      `json:"user_message_id"`
	Summary            string      `json:"summary"`
	Results            []RAGResult `json:"results"`
}

// UploadResult is the backend's per-file report for a multipart upload batch.
type UploadResult struct {
	Success     bool      `json:"success"`
	EvidenceID  string    `json:"evidence_id"`
	Filename    string    `json:"filename"`
	FileSize    int64     `json:"file_size"`
	MediaType   MediaKind `json:"media_type"`
	Duration    float64   `json:"duration,omitempty"`
	StorageType string    `json:"storage_type,omitempty"`
	StorageURL  string    `json:"gdrive_url"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// UploadResponse summarizes a multipart upload batch. Partial failures are
// reported per file; the client does not retry.
type UploadResponse struct {
	BatchID           string         `json:"batch_id"`
	TotalFiles        int            `json:"total_files"`
	SuccessfulUploads int            `json:"successful_uploads"`
	FailedUploads     int            `json:"failed_uploads"`
	EvidenceIDs       []string       `json:"evidence_ids"`
	Results           []UploadResult `json:"results"`
}
