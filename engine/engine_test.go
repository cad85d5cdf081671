package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/yarsanich/openprocurement.auction.worker/core"
	"github.com/yarsanich/openprocurement.auction.worker/store"
)

// fakeStore is an in-memory revisioned store mimicking the client's
// behavior: successful saves advance the document revision in place.
type fakeStore struct {
	saved     []byte
	revisions int
	getCalls  int
	saveCalls int
}

func (f *fakeStore) Get(_ context.Context, _ string) (*core.AuctionDocument, error) {
	f.getCalls++
	if f.saved == nil {
		return nil, store.ErrNotFound
	}
	var doc core.AuctionDocument
	if err := json.Unmarshal(f.saved, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *fakeStore) Save(_ context.Context, doc *core.AuctionDocument) (string, string, error) {
	f.saveCalls++
	f.revisions++
	doc.Rev = fmt.Sprintf("%d-fake", f.revisions)
	blob, err := json.Marshal(doc)
	if err != nil {
		return "", "", err
	}
	f.saved = blob
	return doc.ID, doc.Rev, nil
}

// fixedClock always returns the same instant.
type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

const (
	bidderEarly = "d3ba84c66c9e4f34bfb33cc3c686f137"
	bidderLate  = "5675acc9232942e8940a034994ad883e"
)

func testSubmissions(t *testing.T) []BidderSubmission {
	t.Helper()
	early, err := time.Parse(time.RFC3339Nano, "2014-11-19T08:22:21.726234Z")
	assert.NoError(t, err)
	late, err := time.Parse(time.RFC3339Nano, "2014-11-19T08:22:24.038426Z")
	assert.NoError(t, err)
	return []BidderSubmission{
		// Deliberately out of submission order; LoadBidders sorts.
		{BidderID: bidderLate, Amount: decimal.NewFromInt(480000), Time: late},
		{BidderID: bidderEarly, Amount: decimal.NewFromInt(475000), Time: early},
	}
}

func testAuction(t *testing.T, fs *fakeStore) *Auction {
	t.Helper()
	clock := fixedClock{at: time.Date(2017, 6, 23, 13, 28, 24, 0, time.UTC)}
	return New("UA-11111", fs, clock, zerolog.Nop())
}
