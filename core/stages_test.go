package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestGenerateStages_TwoBidders(t *testing.T) {
	stages := GenerateStages(2)

	check.Equal(t, 11, len(stages))

	wantKinds := []StageKind{
		StagePause,
		StageBids, StageBids,
		StagePause,
		StageBids, StageBids,
		StagePause,
		StageBids, StageBids,
		StagePreAnnouncement,
		StageAnnouncement,
	}
	for i, kind := range wantKinds {
		check.Equal(t, kind, stages[i].Kind)
	}

	// Pause stages carry the "pause" marker, the rest do not.
	for i, stage := range stages {
		if stage.Kind == StagePause {
			check.Equal(t, "pause", stages[i].Marker)
		} else {
			check.Equal(t, "", stages[i].Marker)
		}
	}
}

func TestGenerateStages_Length(t *testing.T) {
	// 2 + R*(B+1): leading pause, R rounds of B bids, R-1 inter-round
	// pauses, pre_announcement, announcement.
	for b := 1; b <= 10; b++ {
		check.Equal(t, 2+DefaultRounds*(b+1), len(GenerateStages(b)))
	}
}

func TestRoundBounds_NoBidders(t *testing.T) {
	for round := 0; round <= DefaultRounds; round++ {
		start, end := RoundBounds(round, 0)
		check.Equal(t, round, start)
		check.Equal(t, round, end)
	}
}

func TestRoundBounds_TwoBidders(t *testing.T) {
	start, end := RoundBounds(0, 2)
	check.Equal(t, -2, start)
	check.Equal(t, 0, end)

	start, end = RoundBounds(1, 2)
	check.Equal(t, 1, start)
	check.Equal(t, 3, end)

	start, end = RoundBounds(2, 2)
	check.Equal(t, 4, start)
	check.Equal(t, 6, end)

	start, end = RoundBounds(3, 2)
	check.Equal(t, 7, start)
	check.Equal(t, 9, end)
}

func TestRoundBounds_PreAuction(t *testing.T) {
	for b := 0; b <= 5; b++ {
		start, end := RoundBounds(0, b)
		check.Equal(t, -b, start)
		check.Equal(t, 0, end)
	}
}

func TestRoundStarts(t *testing.T) {
	check.Equal(t, []int{1, 4, 7}, RoundStarts(2))
	check.Equal(t, []int{1, 5, 9}, RoundStarts(3))
}

func TestRoundOfStage(t *testing.T) {
	check.Equal(t, 0, RoundOfStage(-1, 2))
	check.Equal(t, 0, RoundOfStage(0, 2))
	check.Equal(t, 1, RoundOfStage(1, 2))
	check.Equal(t, 1, RoundOfStage(2, 2))
	check.Equal(t, 1, RoundOfStage(3, 2))
	check.Equal(t, 2, RoundOfStage(4, 2))
	check.Equal(t, 2, RoundOfStage(6, 2))
	check.Equal(t, 3, RoundOfStage(7, 2))
	check.Equal(t, 3, RoundOfStage(10, 2))

	// Overshoot clamps to the final round.
	check.Equal(t, DefaultRounds, RoundOfStage(100, 2))
}

func TestRoundOfStage_InverseOfRoundBounds(t *testing.T) {
	for b := 1; b <= 8; b++ {
		for round := 1; round <= DefaultRounds; round++ {
			start, end := RoundBounds(round, b)
			check.Equal(t, round, RoundOfStage(start, b))
			// Every stage strictly inside the round span maps back.
			for stage := start; stage < end; stage++ {
				check.Equal(t, round, RoundOfStage(stage, b))
			}
		}
	}
}
