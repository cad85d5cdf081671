// Package audit builds the immutable audit trail of an auction: every bid
// turn per round plus the final ranking, exported as a YAML blob once the
// trail is approved.
package audit

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yarsanich/openprocurement.auction.worker/core"
)

// Turn records one bidder move inside a round.
type Turn struct {
	Bidder string
	Time   time.Time
}

// Round accumulates the turns of one bidding round in submission order.
type Round struct {
	Turns []Turn
}

// ResultsEntry is the finalization record: the ranked bids and when the
// ranking was sealed. Its presence is what makes the trail "approved".
type ResultsEntry struct {
	Bids []core.Bid
	Time time.Time
}

// Timeline is the ordered body of the trail, keyed on export as
// auction_start, round_1..round_R and (after finalization) results.
type Timeline struct {
	InitialBids []core.Bid
	Rounds      []Round
	Results     *ResultsEntry
}

// Trail is the audit record for one auction. It is created once, mutated in
// place on every bid approval and on announcement, and never deleted.
type Trail struct {
	ID       string
	TenderID string
	Timeline Timeline
}

// NewTrail initializes the trail with the initial-bid snapshot and one empty
// entry per round. Callers must not initialize a trail twice for the same
// auction; a second NewTrail starts a fresh timeline.
func NewTrail(id string, initialBids []core.Bid) *Trail {
	bids := make([]core.Bid, len(initialBids))
	copy(bids, initialBids)
	return &Trail{
		ID:       id,
		TenderID: id,
		Timeline: Timeline{
			InitialBids: bids,
			Rounds:      make([]Round, core.DefaultRounds),
		},
	}
}

// ApproveBidTurn appends the next turn entry to the given round (1-based),
// recording which bidder moved and when.
func (tr *Trail) ApproveBidTurn(round int, bidder string, at time.Time) error {
	if round < 1 || round > len(tr.Timeline.Rounds) {
		return fmt.Errorf("round %d outside [1, %d]", round, len(tr.Timeline.Rounds))
	}
	entry := &tr.Timeline.Rounds[round-1]
	entry.Turns = append(entry.Turns, Turn{Bidder: bidder, Time: at})
	return nil
}

// ApproveResults seals the trail with the final ranking. It must run exactly
// once, after the ranking is computed and before export.
func (tr *Trail) ApproveResults(results []core.Result, at time.Time) error {
	if tr.Timeline.Results != nil {
		return fmt.Errorf("audit trail for %s already approved", tr.ID)
	}
	bids := make([]core.Bid, len(results))
	for i, result := range results {
		bids[i] = result.Bid
	}
	tr.Timeline.Results = &ResultsEntry{Bids: bids, Time: at}
	return nil
}

// Approved reports whether the trail carries a finalized results entry and
// may therefore be exported.
func (tr *Trail) Approved() bool {
	return tr.Timeline.Results != nil
}

// MarshalYAML renders the trail in the flat keyed layout downstream
// consumers expect: duplicate tenderId/tender_id keys and a timeline map of
// auction_start, round_N and results entries with turn_N sub-entries.
func (tr *Trail) MarshalYAML() (any, error) {
	initial := make([]map[string]any, len(tr.Timeline.InitialBids))
	for i, bid := range tr.Timeline.InitialBids {
		initial[i] = map[string]any{
			"bidder": bid.BidderID,
			"amount": bid.Amount.String(),
			"time":   bid.Time.Format(time.RFC3339Nano),
		}
	}
	timeline := map[string]any{
		"auction_start": map[string]any{"initial_bids": initial},
	}
	for i, round := range tr.Timeline.Rounds {
		entry := map[string]any{}
		for n, turn := range round.Turns {
			entry[fmt.Sprintf("turn_%d", n+1)] = map[string]any{
				"bidder": turn.Bidder,
				"time":   turn.Time.Format(time.RFC3339Nano),
			}
		}
		timeline[fmt.Sprintf("round_%d", i+1)] = entry
	}
	if tr.Timeline.Results != nil {
		bids := make([]map[string]any, len(tr.Timeline.Results.Bids))
		for i, bid := range tr.Timeline.Results.Bids {
			bids[i] = map[string]any{
				"amount": bid.Amount.String(),
				"bidder": bid.BidderID,
				"time":   bid.Time.Format(time.RFC3339Nano),
			}
		}
		timeline["results"] = map[string]any{
			"bids": bids,
			"time": tr.Timeline.Results.Time.Format(time.RFC3339Nano),
		}
	}
	return map[string]any{
		"id":        tr.ID,
		"tenderId":  tr.TenderID,
		"tender_id": tr.TenderID,
		"timeline":  timeline,
	}, nil
}

// ExportYAML serializes the trail for upload.
func (tr *Trail) ExportYAML() ([]byte, error) {
	out, err := yaml.Marshal(tr)
	if err != nil {
		return nil, fmt.Errorf("marshal audit trail %s: %w", tr.ID, err)
	}
	return out, nil
}
