package core

import (
	"encoding/json"
	"fmt"
)

// AuctionDocument is the single shared mutable record for one auction: its
// position in the stage sequence, bidder snapshot, ranked results, and the
// store identity used for optimistic concurrency. Caller-supplied metadata
// (title, description, procuring entity, ...) passes through untouched in
// Extra and survives a round-trip through the store.
type AuctionDocument struct {
	ID  string `json:"_id"`
	Rev string `json:"_rev,omitempty"`

	TenderID     string            `json:"tenderID"`
	AuctionType  string            `json:"auction_type"`
	BiddersCount int               `json:"bidders_count"`
	CurrentStage int               `json:"current_stage"`
	Stages       []Stage           `json:"stages"`
	InitialBids  []Bid             `json:"initial_bids"`
	Results      []Result          `json:"results"`
	Mapping      map[string]string `json:"mapping"`

	// Extra holds passthrough fields the worker never inspects.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownDocumentKeys are the JSON keys owned by AuctionDocument itself;
// everything else round-trips through Extra.
var knownDocumentKeys = map[string]bool{
	"_id": true, "_rev": true, "tenderID": true, "auction_type": true,
	"bidders_count": true, "current_stage": true, "stages": true,
	"initial_bids": true, "results": true, "mapping": true,
}

// NewAuctionDocument returns an empty document for the given auction id,
// positioned before the first stage.
func NewAuctionDocument(id string) *AuctionDocument {
	return &AuctionDocument{
		ID:           id,
		TenderID:     id,
		AuctionType:  "default",
		CurrentStage: -1,
		InitialBids:  []Bid{},
		Results:      []Result{},
		Mapping:      map[string]string{},
	}
}

type auctionDocumentAlias AuctionDocument

// MarshalJSON merges the typed fields with the passthrough Extra map.
// Typed fields win on key collision.
func (d *AuctionDocument) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal((*auctionDocumentAlias)(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return typed, nil
	}
	merged := make(map[string]json.RawMessage, len(d.Extra)+len(knownDocumentKeys))
	for k, v := range d.Extra {
		if !knownDocumentKeys[k] {
			merged[k] = v
		}
	}
	var owned map[string]json.RawMessage
	if err := json.Unmarshal(typed, &owned); err != nil {
		return nil, err
	}
	for k, v := range owned {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON fills the typed fields and captures unknown keys in Extra.
func (d *AuctionDocument) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*auctionDocumentAlias)(d)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownDocumentKeys[k] {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// ValidStage reports whether stage is a legal value for CurrentStage:
// -1 (not yet started) or an index into Stages.
func (d *AuctionDocument) ValidStage(stage int) bool {
	return stage >= -1 && stage < len(d.Stages)
}

// SetBiddersCount fixes the bidder count. It may be set exactly once and
// never decreases afterwards.
func (d *AuctionDocument) SetBiddersCount(n int) error {
	if d.BiddersCount != 0 && n < d.BiddersCount {
		return fmt.Errorf("bidders count already fixed at %d, refusing to lower to %d", d.BiddersCount, n)
	}
	d.BiddersCount = n
	return nil
}

// PreparePublic returns a copy of the document suitable for exposure outside
// the worker: the store revision token is stripped.
func (d *AuctionDocument) PreparePublic() *AuctionDocument {
	public := *d
	public.Rev = ""
	return &public
}
