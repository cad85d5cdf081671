package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yarsanich/openprocurement.auction.worker/core"
)

// HTTPBackend speaks the CouchDB-style HTTP protocol of the document store:
// GET /{db}/{id} reads a document, PUT /{db}/{id} writes one under its
// last-known revision, PUT /{db}/{id}/{name}?rev=... stores an attachment.
// The store enforces optimistic concurrency by rejecting stale revisions
// with 409.
type HTTPBackend struct {
	baseURL string
	db      string
	client  *http.Client
}

// NewHTTPBackend builds a backend for the store at baseURL using database db.
func NewHTTPBackend(baseURL, db string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		db:      db,
		client:  client,
	}
}

func (b *HTTPBackend) docURL(id string) string {
	return fmt.Sprintf("%s/%s/%s", b.baseURL, url.PathEscape(b.db), url.PathEscape(id))
}

func (b *HTTPBackend) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return b.client.Do(req)
}

// Get reads a document. 404 maps to ErrNotFound; any other non-2xx status
// is a ProtocolError.
func (b *HTTPBackend) Get(ctx context.Context, id string) (*core.AuctionDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.docURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build get request: %w", err)
	}
	resp, err := b.do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, protocolErrorFrom(resp)
	}
	var doc core.AuctionDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, nil
}

// saveResponse is the store's acknowledgement of a write.
type saveResponse struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// Save writes the document under its current revision and returns the new
// (id, rev) pair assigned by the store.
func (b *HTTPBackend) Save(ctx context.Context, doc *core.AuctionDocument) (string, string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", "", fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.docURL(doc.ID), bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.do(req)
	if err != nil {
		return "", "", fmt.Errorf("save %s: %w", doc.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", protocolErrorFrom(resp)
	}
	var ack saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", "", fmt.Errorf("decode save response for %s: %w", doc.ID, err)
	}
	return ack.ID, ack.Rev, nil
}

// PutAttachment stores a named blob on the document under its current
// revision and returns the new revision.
func (b *HTTPBackend) PutAttachment(ctx context.Context, docID, rev, name, contentType string, body []byte) (string, error) {
	u := fmt.Sprintf("%s/%s?rev=%s", b.docURL(docID), url.PathEscape(name), url.QueryEscape(rev))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build attachment request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.do(req)
	if err != nil {
		return "", fmt.Errorf("put attachment %s on %s: %w", name, docID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", protocolErrorFrom(resp)
	}
	var ack saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("decode attachment response for %s: %w", docID, err)
	}
	return ack.Rev, nil
}

func protocolErrorFrom(resp *http.Response) error {
	reason, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &ProtocolError{Status: resp.StatusCode, Reason: strings.TrimSpace(string(reason))}
}
