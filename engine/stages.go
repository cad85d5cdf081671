package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yarsanich/openprocurement.auction.worker/core"
	"github.com/yarsanich/openprocurement.auction.worker/metrics"
)

// PrepareStages generates the stage sequence for the loaded bidder count and
// positions the auction before the first stage. In fast-forward mode the
// auction is positioned directly at pre_announcement with the initial bids
// ranked into results, as if it had already been fully played out; used for
// recovery and simulation. In normal mode the initial-bid amounts stay
// hidden (zero) and results fill in as bids are submitted.
func (a *Auction) PrepareStages(fastForward bool) {
	a.doc.Stages = core.GenerateStages(a.doc.BiddersCount)

	if fastForward {
		a.doc.InitialBids = a.initialBids()
		a.doc.Results = core.Rank(a.doc.InitialBids)
		a.doc.CurrentStage = len(a.doc.Stages) - 2
		return
	}

	hidden := a.initialBids()
	for i := range hidden {
		hidden[i].Amount = decimal.Zero
	}
	a.doc.InitialBids = hidden
	a.doc.Results = []core.Result{}
	a.doc.CurrentStage = -1
}

// NextStage advances the auction by one stage and returns the new index.
func (a *Auction) NextStage() (int, error) {
	return a.SwitchTo(a.doc.CurrentStage + 1)
}

// SwitchTo jumps directly to the given stage index, regardless of the prior
// position. Used to recover a crashed worker to a known stage.
func (a *Auction) SwitchTo(stage int) (int, error) {
	if !a.doc.ValidStage(stage) {
		return 0, fmt.Errorf("stage %d outside [-1, %d): %w", stage, len(a.doc.Stages), ErrInvalidTransition)
	}
	a.doc.CurrentStage = stage
	kind := "initial"
	if stage >= 0 {
		kind = string(a.doc.Stages[stage].Kind)
	}
	metrics.StageTransitions.WithLabelValues(kind).Inc()
	a.log.Debug().Int("stage", stage).Str("kind", kind).Msg("Switched stage")
	return stage, nil
}

// RecordBid accepts a bidder submission during the current bids stage. The
// stage is marked changed and the bid becomes the bidder's standing amount
// for ranking. Recording outside a bids stage is a structural violation.
func (a *Auction) RecordBid(bid core.Bid) error {
	cur := a.doc.CurrentStage
	if cur < 0 || cur >= len(a.doc.Stages) || a.doc.Stages[cur].Kind != core.StageBids {
		return fmt.Errorf("cannot record bid on stage %d: %w", cur, ErrInvalidTransition)
	}
	a.doc.Stages[cur].Changed = true
	a.stageBids[cur] = bid
	a.log.Info().Str("bidder", bid.BidderID).Int("stage", cur).Msg("Bid recorded")
	return nil
}

// EndBidsStage completes a bids-kind stage. For the final bidding stage of
// the final round it finalizes the auction: the latest bids across all
// rounds are ranked into results, the audit trail is sealed, and the auction
// ends. Otherwise the turn is recorded in the audit trail and the auction
// advances to the next stage. Calling it again with an already-processed
// stage index is a no-op.
func (a *Auction) EndBidsStage(ctx context.Context, stageIndex int) error {
	if a.endedBidStages[stageIndex] {
		a.log.Debug().Int("stage", stageIndex).Msg("Bids stage already processed")
		return nil
	}
	if stageIndex < 0 || stageIndex >= len(a.doc.Stages) || a.doc.Stages[stageIndex].Kind != core.StageBids {
		return fmt.Errorf("end of bids stage %d: %w", stageIndex, ErrInvalidTransition)
	}

	round := core.RoundOfStage(stageIndex, a.doc.BiddersCount)
	if bid, ok := a.stageBids[stageIndex]; ok && a.trail != nil {
		if err := a.trail.ApproveBidTurn(round, bid.BidderID, bid.Time); err != nil {
			return fmt.Errorf("end of bids stage %d: %w", stageIndex, err)
		}
	}

	if a.doc.Stages[stageIndex+1].Kind == core.StagePreAnnouncement {
		a.doc.Results = core.Rank(a.latestBids())
		if _, err := a.SwitchTo(stageIndex + 1); err != nil {
			return err
		}
		a.endedBidStages[stageIndex] = true
		return a.EndAuction(ctx)
	}

	// When the round's last bids stage ends, recompute the standings the
	// next round starts from.
	if _, end := core.RoundBounds(round, a.doc.BiddersCount); stageIndex == end-1 {
		a.UpdateFutureBiddingOrders(a.latestBids())
	}

	if _, err := a.SwitchTo(stageIndex + 1); err != nil {
		return err
	}
	if _, _, err := a.SaveAuctionDocument(ctx); err != nil {
		return err
	}
	a.endedBidStages[stageIndex] = true
	return nil
}

// UpdateFutureBiddingOrders replaces the live ranking with a re-sort of the
// given bids, without touching the stage position.
func (a *Auction) UpdateFutureBiddingOrders(bids []core.Bid) {
	a.doc.Results = core.Rank(bids)
}

// EndAuction seals the audit trail with the final results and moves the
// auction from pre_announcement to announcement.
func (a *Auction) EndAuction(ctx context.Context) error {
	if a.trail != nil {
		if err := a.trail.ApproveResults(a.doc.Results, a.clock.Now()); err != nil {
			return fmt.Errorf("end auction %s: %w", a.doc.ID, err)
		}
	}
	if cur := a.doc.CurrentStage; cur >= 0 && a.doc.Stages[cur].Kind == core.StagePreAnnouncement {
		if _, err := a.NextStage(); err != nil {
			return err
		}
	}
	if _, _, err := a.SaveAuctionDocument(ctx); err != nil {
		return err
	}
	a.log.Info().Msg(fmt.Sprintf("Auction %s ended", a.doc.ID))
	return nil
}

// latestBids returns each bidder's most recent bid across all rounds,
// falling back to the initial submission for bidders who never moved.
func (a *Auction) latestBids() []core.Bid {
	latest := make(map[string]core.Bid, len(a.bidders))
	order := make([]string, 0, len(a.bidders))
	for _, bid := range a.initialBids() {
		latest[bid.BidderID] = bid
		order = append(order, bid.BidderID)
	}
	for round := 1; round <= core.DefaultRounds; round++ {
		start, end := core.RoundBounds(round, a.doc.BiddersCount)
		for stage := start; stage < end; stage++ {
			if bid, ok := a.stageBids[stage]; ok {
				latest[bid.BidderID] = bid
			}
		}
	}
	bids := make([]core.Bid, 0, len(order))
	for _, id := range order {
		bids = append(bids, latest[id])
	}
	return bids
}
