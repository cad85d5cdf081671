// Package engine drives one live auction through its stage sequence. The
// Auction is the single writer of its document and audit trail; transitions
// run strictly sequentially, each completing its persistence round-trip
// before the next is accepted.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yarsanich/openprocurement.auction.worker/audit"
	"github.com/yarsanich/openprocurement.auction.worker/core"
)

// Clock supplies the current time. Injected so tests run deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}

// DocumentStore is the persistence boundary the engine depends on. The
// retry-aware store client satisfies it.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*core.AuctionDocument, error)
	Save(ctx context.Context, doc *core.AuctionDocument) (id, rev string, err error)
}

// Auction is the state machine for one auction instance. It exclusively owns
// its AuctionDocument and audit Trail in memory; the store holds the durable
// copy of the document only.
type Auction struct {
	doc   *core.AuctionDocument
	trail *audit.Trail
	store DocumentStore
	clock Clock
	log   zerolog.Logger

	// bidders holds the loaded submissions in initial-bid order, with the
	// real amounts (the document's initial_bids may carry zeros until the
	// auction is played out).
	bidders []BidderSubmission

	// stageBids remembers the bid recorded while each bids stage was
	// current; endedBidStages makes EndBidsStage idempotent.
	stageBids      map[int]core.Bid
	endedBidStages map[int]bool
}

// New builds the engine for one auction. clock may be nil for the system
// clock.
func New(auctionID string, docStore DocumentStore, clock Clock, log zerolog.Logger) *Auction {
	if clock == nil {
		clock = SystemClock
	}
	return &Auction{
		doc:            core.NewAuctionDocument(auctionID),
		store:          docStore,
		clock:          clock,
		log:            log,
		stageBids:      map[int]core.Bid{},
		endedBidStages: map[int]bool{},
	}
}

// Document returns the in-memory auction document. It is always the latest
// value this engine produced.
func (a *Auction) Document() *core.AuctionDocument {
	return a.doc
}

// Trail returns the audit trail, nil until PrepareAudit has run.
func (a *Auction) Trail() *audit.Trail {
	return a.trail
}

// PrepareAudit initializes the audit trail with the initial-bid snapshot and
// one empty entry per round. Callers must guard against double
// initialization: a second call starts the timeline over.
func (a *Auction) PrepareAudit() *audit.Trail {
	a.trail = audit.NewTrail(a.doc.ID, a.initialBids())
	return a.trail
}

// initialBids returns the loaded submissions as bids with real amounts, in
// initial-bid order.
func (a *Auction) initialBids() []core.Bid {
	bids := make([]core.Bid, len(a.bidders))
	for i, sub := range a.bidders {
		bids[i] = core.Bid{BidderID: sub.BidderID, Amount: sub.Amount, Time: sub.Time}
	}
	return bids
}
