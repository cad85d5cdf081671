package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageKind identifies what happens during a stage of the auction.
type StageKind string

const (
	StagePause           StageKind = "pause"
	StageBids            StageKind = "bids"
	StagePreAnnouncement StageKind = "pre_announcement"
	StageAnnouncement    StageKind = "announcement"
)

// Stage is the atomic unit of auction progress. The auction moves through a
// fixed, pre-generated sequence of stages; bidding rounds are groups of
// consecutive bids-kind stages bounded by pauses.
type Stage struct {
	Kind StageKind `json:"type"`

	// Marker is set to "pause" on pause-kind stages. Kept as a separate
	// field because downstream display consumers key off it.
	Marker string `json:"stage,omitempty"`

	// Changed is set when a bid was recorded while this stage was current.
	Changed bool `json:"changed,omitempty"`
}

// Bid is a single bidder submission: who, how much, and when.
type Bid struct {
	BidderID string          `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	Time     time.Time       `json:"time"`
}

// Result is a ranked bid annotated with a localized ordinal label
// (e.g. "Bidder #1" / "Учасник №1" / "Участник №1").
type Result struct {
	Bid
	Label map[string]string `json:"label"`
}

// NewPauseStage returns a pause stage with its marker set.
func NewPauseStage() Stage {
	return Stage{Kind: StagePause, Marker: "pause"}
}
