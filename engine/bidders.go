package engine

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// BidderSubmission is a raw bid snapshot from the submission source.
type BidderSubmission struct {
	BidderID string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Time     time.Time       `json:"date"`
}

// LoadBidders fixes the bidder set for the auction: submissions are ordered
// by submission time ascending, each bidder gets the ordinal label matching
// that order, and the bidder count is sealed. An auction requires
// competition, so fewer than two distinct bidders is a DataError.
func (a *Auction) LoadBidders(submissions []BidderSubmission) error {
	distinct := map[string]bool{}
	for _, sub := range submissions {
		if sub.BidderID == "" {
			return &DataError{Reason: "submission with empty bidder id"}
		}
		if sub.Amount.IsNegative() {
			return &DataError{Reason: fmt.Sprintf("negative amount for bidder %s", sub.BidderID)}
		}
		if distinct[sub.BidderID] {
			return &DataError{Reason: fmt.Sprintf("duplicate submission for bidder %s", sub.BidderID)}
		}
		distinct[sub.BidderID] = true
	}
	if len(distinct) < 2 {
		return &DataError{Reason: fmt.Sprintf("auction requires at least 2 bidders, got %d", len(distinct))}
	}

	ordered := make([]BidderSubmission, len(submissions))
	copy(ordered, submissions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	mapping := make(map[string]string, len(ordered))
	for i, sub := range ordered {
		mapping[sub.BidderID] = strconv.Itoa(i + 1)
	}

	if err := a.doc.SetBiddersCount(len(ordered)); err != nil {
		return &DataError{Reason: err.Error()}
	}
	a.bidders = ordered
	a.doc.Mapping = mapping
	a.log.Info().Msg(fmt.Sprintf("Bidders count: %d", len(ordered)))
	return nil
}
