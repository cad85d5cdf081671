package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentService uploads finalized audit blobs to the external document
// service for durable storage.
type DocumentService struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewDocumentService builds a client for the document service at baseURL,
// authenticating with token.
func NewDocumentService(baseURL, token string, client *http.Client) *DocumentService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DocumentService{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

type uploadResponse struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}

// Upload posts the blob as a multipart file and returns the durable URL the
// service assigned to it.
func (ds *DocumentService) Upload(ctx context.Context, filename string, blob []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(blob); err != nil {
		return "", fmt.Errorf("write upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ds.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if ds.token != "" {
		req.Header.Set("Authorization", "Bearer "+ds.token)
	}

	resp, err := ds.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload %s: status %d: %s", filename, resp.StatusCode, strings.TrimSpace(string(reason)))
	}
	var ack uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("decode upload response for %s: %w", filename, err)
	}
	return ack.Data.URL, nil
}
