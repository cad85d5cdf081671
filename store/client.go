// Package store talks to the revisioned document store holding the durable
// copy of each auction document. All operations share one resilience policy:
// request-level store failures and unclassified failures are both retried
// (with distinct log lines), successes log the resulting id and revision.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yarsanich/openprocurement.auction.worker/core"
	"github.com/yarsanich/openprocurement.auction.worker/metrics"
)

// Backend performs a single, non-retried call against the store.
// HTTPBackend is the production implementation; tests inject fakes that
// fail in scripted sequences.
type Backend interface {
	Get(ctx context.Context, id string) (*core.AuctionDocument, error)
	Save(ctx context.Context, doc *core.AuctionDocument) (id, rev string, err error)
	PutAttachment(ctx context.Context, docID, rev, name, contentType string, body []byte) (newRev string, err error)
}

// Client wraps a Backend with the retry/optimistic-concurrency discipline.
// Attempts are strictly sequential to avoid duplicate writes.
type Client struct {
	backend Backend
	retry   RetryPolicy
	log     zerolog.Logger
}

// NewClient builds a retry-aware store client around backend.
func NewClient(backend Backend, retry RetryPolicy, log zerolog.Logger) *Client {
	return &Client{backend: backend, retry: retry, log: log}
}

// Get fetches the document by id, retrying transient failures per the
// policy. A missing document is terminal and returned as ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*core.AuctionDocument, error) {
	attempt := 0
	for {
		attempt++
		doc, err := c.backend.Get(ctx, id)
		if err == nil {
			c.log.Info().Msg(fmt.Sprintf("Get auction document %s with rev %s", doc.ID, doc.Rev))
			return doc, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		c.logFailure("get", err)
		if c.retry.exhausted(attempt) {
			return nil, fmt.Errorf("get document %s: %w", id, err)
		}
		if werr := c.retry.wait(ctx, attempt); werr != nil {
			return nil, fmt.Errorf("get document %s: %w", id, werr)
		}
	}
}

// Save writes the document under its last-known revision, retrying
// transient failures. When the store rejects a stale revision the client
// re-reads the current revision and retries with it. On success the
// document's revision is advanced in place and the new (id, rev) pair is
// returned.
func (c *Client) Save(ctx context.Context, doc *core.AuctionDocument) (string, string, error) {
	attempt := 0
	for {
		attempt++
		id, rev, err := c.backend.Save(ctx, doc)
		if err == nil {
			doc.Rev = rev
			c.log.Info().Msg(fmt.Sprintf("Saved auction document %s with rev %s", id, rev))
			return id, rev, nil
		}
		c.logFailure("save", err)
		if IsConflict(err) {
			if fresh, gerr := c.backend.Get(ctx, doc.ID); gerr == nil {
				doc.Rev = fresh.Rev
			}
		}
		if c.retry.exhausted(attempt) {
			return "", "", fmt.Errorf("save document %s: %w", doc.ID, err)
		}
		if werr := c.retry.wait(ctx, attempt); werr != nil {
			return "", "", fmt.Errorf("save document %s: %w", doc.ID, werr)
		}
	}
}

// AttachAudit stores a blob as an attachment on the document, under the same
// retry discipline as Save. Used as the audit-export fallback when no
// document service is configured.
func (c *Client) AttachAudit(ctx context.Context, doc *core.AuctionDocument, name, contentType string, body []byte) error {
	attempt := 0
	for {
		attempt++
		rev, err := c.backend.PutAttachment(ctx, doc.ID, doc.Rev, name, contentType, body)
		if err == nil {
			doc.Rev = rev
			c.log.Info().Msg(fmt.Sprintf("Saved auction document %s with rev %s", doc.ID, rev))
			return nil
		}
		c.logFailure("save", err)
		if IsConflict(err) {
			if fresh, gerr := c.backend.Get(ctx, doc.ID); gerr == nil {
				doc.Rev = fresh.Rev
			}
		}
		if c.retry.exhausted(attempt) {
			return fmt.Errorf("attach %s to document %s: %w", name, doc.ID, err)
		}
		if werr := c.retry.wait(ctx, attempt); werr != nil {
			return fmt.Errorf("attach %s to document %s: %w", name, doc.ID, werr)
		}
	}
}

// logFailure emits the operator-facing retry line, keeping protocol and
// unclassified failures distinguishable.
func (c *Client) logFailure(operation string, err error) {
	if IsProtocol(err) {
		metrics.StoreRetries.WithLabelValues(operation, "protocol").Inc()
		c.log.Error().Msg(fmt.Sprintf("Error while %s document: %v", operation, err))
		return
	}
	metrics.StoreRetries.WithLabelValues(operation, "unclassified").Inc()
	c.log.Error().Msg(fmt.Sprintf("Unhandled error: %v", err))
}
