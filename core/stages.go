package core

// DefaultRounds is the number of bidding rounds in a procurement auction.
const DefaultRounds = 3

// GenerateStages builds the full stage sequence for an auction with
// biddersCount bidders: one leading pause, then for each round one bids
// stage per bidder, separated by pauses. After the final round the pause is
// replaced by a pre_announcement stage followed by an announcement stage.
//
// For biddersCount=2 this yields the 11-stage pattern
// pause, bids, bids, pause, bids, bids, pause, bids, bids,
// pre_announcement, announcement.
func GenerateStages(biddersCount int) []Stage {
	stages := make([]Stage, 0, 2+DefaultRounds*(biddersCount+1))
	stages = append(stages, NewPauseStage())
	for round := 1; round <= DefaultRounds; round++ {
		for i := 0; i < biddersCount; i++ {
			stages = append(stages, Stage{Kind: StageBids})
		}
		if round < DefaultRounds {
			stages = append(stages, NewPauseStage())
		}
	}
	stages = append(stages,
		Stage{Kind: StagePreAnnouncement},
		Stage{Kind: StageAnnouncement},
	)
	return stages
}

// RoundBounds returns the (start, end) stage-index pair for a round.
//
// Round 0 is the pre-auction span (-biddersCount, 0). Rounds 1..DefaultRounds
// span the bids stages of that round plus the boundary stage that follows.
// With no bidders loaded yet the arithmetic degenerates to (round, round).
func RoundBounds(round, biddersCount int) (int, int) {
	if biddersCount == 0 {
		return round, round
	}
	if round == 0 {
		return -biddersCount, 0
	}
	start := (round-1)*(biddersCount+1) + 1
	return start, start + biddersCount
}

// RoundStarts returns the first stage index of every round, in order.
// For biddersCount=2 this is [1, 4, 7].
func RoundStarts(biddersCount int) []int {
	starts := make([]int, 0, DefaultRounds)
	for round := 1; round <= DefaultRounds; round++ {
		start, _ := RoundBounds(round, biddersCount)
		starts = append(starts, start)
	}
	return starts
}

// RoundOfStage maps a stage index to the round it belongs to. Stages before
// the first round start map to round 0; an index at or past the last round
// start maps to the final round, so an overshoot never falls out of range.
// Boundary stages at a round start belong to that round.
func RoundOfStage(stage, biddersCount int) int {
	round := 0
	for i, start := range RoundStarts(biddersCount) {
		if stage >= start {
			round = i + 1
		}
	}
	return round
}
