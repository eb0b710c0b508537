package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ListEvidence fetches evidence files of one media kind. An empty kind lists
// everything.
func (c *Client) ListEvidence(ctx context.Context, kind MediaKind) Response[[]EvidenceFile] {
	path := "/evidence/videos/"
	if kind != "" {
		path += "?media_type=" + url.QueryEscape(string(kind))
	}
	var payload struct {
		Videos []EvidenceFile `json:"videos"`
	}
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		c.logger.Printf("list evidence kind=%s: %v", kind, err)
		return fail[[]EvidenceFile]("failed to fetch evidence files")
	}
	return ok(payload.Videos)
}

// DeleteEvidence removes one evidence file by id.
func (c *Client) DeleteEvidence(ctx context.Context, evidenceID string) Response[struct{}] {
	path := "/evidence/videos/" + url.PathEscape(evidenceID) + "/"
	if _, err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		c.logger.Printf("delete evidence %s: %v", evidenceID, err)
		return fail[struct{}]("failed to delete evidence file")
	}
	return ok(struct{}{})
}

// UploadFile is one file in a multipart upload batch.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadOptions carries the optional metadata fields of the upload endpoint.
type UploadOptions struct {
	CamID  string
	GPSLat float64
	GPSLng float64
}

// GenerateCamID produces a short camera label for uploads that have none.
func GenerateCamID() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return "CAM-" + string(b)
}

// UploadEvidence posts a multipart batch to the upload endpoint, scoped to a
// case. Per-file outcomes, including partial failures, are reported in the
// response payload and passed through as-is.
func (c *Client) UploadEvidence(ctx context.Context, caseID string, files []UploadFile, opts UploadOptions) Response[UploadResponse] {
	if len(files) == 0 {
		return fail[UploadResponse]("no files to upload")
	}
	if opts.CamID == "" {
		opts.CamID = GenerateCamID()
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("case_id", caseID); err != nil {
		return fail[UploadResponse]("failed to build upload request")
	}
	if err := writer.WriteField("cam_id", opts.CamID); err != nil {
		return fail[UploadResponse]("failed to build upload request")
	}
	if opts.GPSLat != 0 || opts.GPSLng != 0 {
		_ = writer.WriteField("gps_lat", strconv.FormatFloat(opts.GPSLat, 'f', -1, 64))
		_ = writer.WriteField("gps_lng", strconv.FormatFloat(opts.GPSLng, 'f', -1, 64))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", filepath.Base(f.Name))
		if err != nil {
			return fail[UploadResponse]("failed to build upload request")
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			c.logger.Printf("upload %s: read %s: %v", caseID, f.Name, err)
			return fail[UploadResponse](fmt.Sprintf("failed to read %s", filepath.Base(f.Name)))
		}
	}
	if err := writer.Close(); err != nil {
		return fail[UploadResponse]("failed to build upload request")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/evidence/cases/upload/", &buf)
	if err != nil {
		c.logger.Printf("upload %s: %v", caseID, err)
		return fail[UploadResponse]("failed to build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("upload %s: %v", caseID, err)
		return fail[UploadResponse]("failed to upload files")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		c.logger.Printf("upload %s: status %d: %s", caseID, resp.StatusCode, truncateBody(extractError(raw), 300))
		return fail[UploadResponse]("failed to upload files")
	}

	var uploaded UploadResponse
	if err := decodeJSON(raw, &uploaded); err != nil {
		c.logger.Printf("upload %s: decode: %v", caseID, err)
		return fail[UploadResponse]("failed to decode upload response")
	}
	return ok(uploaded)
}

// UploadEvidencePaths opens local files and uploads them as one batch.
// Files that cannot be opened fail the whole batch before any bytes move.
func (c *Client) UploadEvidencePaths(ctx context.Context, caseID string, paths []string, opts UploadOptions) Response[UploadResponse] {
	files := make([]UploadFile, 0, len(paths))
	closers := make([]io.Closer, 0, len(paths))
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			c.logger.Printf("upload %s: open %s: %v", caseID, p, err)
			return fail[UploadResponse](fmt.Sprintf("failed to open %s", filepath.Base(p)))
		}
		closers = append(closers, f)
		files = append(files, UploadFile{Name: filepath.Base(p), Reader: f})
	}
	return c.UploadEvidence(ctx, caseID, files, opts)
}

// ClassifyMedia maps a filename to a media kind by extension, falling back to
// document for anything unrecognized.
func ClassifyMedia(name string) MediaKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "mp4", "avi", "mov", "mkv", "webm":
		return KindVideo
	case "jpg", "jpeg", "png", "gif", "webp", "bmp":
		return KindImage
	case "mp3", "wav", "ogg", "m4a", "aac":
		return KindAudio
	default:
		return KindDocument
	}
}
