package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/yarsanich/openprocurement.auction.worker/core"
	"github.com/yarsanich/openprocurement.auction.worker/store"
)

// PrepareAuctionDocument writes the initial document revision to the store.
// When a previous revision exists (a recovering worker), its revision token
// and passthrough metadata are adopted so the save does not conflict and the
// caller-supplied fields survive.
func (a *Auction) PrepareAuctionDocument(ctx context.Context) error {
	existing, err := a.store.Get(ctx, a.doc.ID)
	switch {
	case err == nil:
		a.doc.Rev = existing.Rev
		if len(existing.Extra) > 0 {
			a.doc.Extra = existing.Extra
		}
	case errors.Is(err, store.ErrNotFound):
		// First run for this auction.
	default:
		return fmt.Errorf("prepare auction document %s: %w", a.doc.ID, err)
	}

	if _, _, err := a.store.Save(ctx, a.doc); err != nil {
		return fmt.Errorf("prepare auction document %s: %w", a.doc.ID, err)
	}
	return nil
}

// GetAuctionDocument reads the durable copy and adopts it as the in-memory
// state. Used to recover a crashed worker to a known position.
func (a *Auction) GetAuctionDocument(ctx context.Context) (*core.AuctionDocument, error) {
	doc, err := a.store.Get(ctx, a.doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get auction document %s: %w", a.doc.ID, err)
	}
	a.doc = doc
	return doc, nil
}

// SaveAuctionDocument persists the in-memory document. The store client
// retries until it succeeds or the context gives up; the engine accepts no
// further transition until this returns, so a pending save blocks the
// auction rather than letting memory and store diverge.
func (a *Auction) SaveAuctionDocument(ctx context.Context) (string, string, error) {
	id, rev, err := a.store.Save(ctx, a.doc)
	if err != nil {
		return "", "", fmt.Errorf("save auction document %s: %w", a.doc.ID, err)
	}
	return id, rev, nil
}

// PreparePublicDocument returns the redacted copy exposed outside the
// worker.
func (a *Auction) PreparePublicDocument() *core.AuctionDocument {
	return a.doc.PreparePublic()
}
