package audit

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/yarsanich/openprocurement.auction.worker/core"
)

func fixtureBids(t *testing.T) []core.Bid {
	t.Helper()
	early, err := time.Parse(time.RFC3339Nano, "2014-11-19T08:22:21.726234Z")
	assert.NoError(t, err)
	late, err := time.Parse(time.RFC3339Nano, "2014-11-19T08:22:24.038426Z")
	assert.NoError(t, err)
	return []core.Bid{
		{BidderID: "d3ba84c66c9e4f34bfb33cc3c686f137", Amount: decimal.NewFromInt(475000), Time: early},
		{BidderID: "5675acc9232942e8940a034994ad883e", Amount: decimal.NewFromInt(480000), Time: late},
	}
}

func TestNewTrail(t *testing.T) {
	trail := NewTrail("UA-11111", fixtureBids(t))

	check.Equal(t, "UA-11111", trail.ID)
	check.Equal(t, "UA-11111", trail.TenderID)
	check.Equal(t, core.DefaultRounds, len(trail.Timeline.Rounds))
	check.Equal(t, 2, len(trail.Timeline.InitialBids))
	check.False(t, trail.Approved())
}

func TestApproveBidTurn(t *testing.T) {
	trail := NewTrail("UA-11111", nil)
	now := time.Now()

	assert.NoError(t, trail.ApproveBidTurn(3, "5675acc9232942e8940a034994ad883e", now))
	assert.NoError(t, trail.ApproveBidTurn(3, "d3ba84c66c9e4f34bfb33cc3c686f137", now))

	round := trail.Timeline.Rounds[2]
	check.Equal(t, 2, len(round.Turns))
	check.Equal(t, "5675acc9232942e8940a034994ad883e", round.Turns[0].Bidder)
	check.Equal(t, "d3ba84c66c9e4f34bfb33cc3c686f137", round.Turns[1].Bidder)

	check.Equal(t, 0, len(trail.Timeline.Rounds[0].Turns))
	check.Equal(t, 0, len(trail.Timeline.Rounds[1].Turns))

	check.Error(t, trail.ApproveBidTurn(0, "x", now))
	check.Error(t, trail.ApproveBidTurn(4, "x", now))
}

func TestApproveResults_ExactlyOnce(t *testing.T) {
	trail := NewTrail("UA-11111", fixtureBids(t))
	results := core.Rank(fixtureBids(t))
	now := time.Now()

	assert.NoError(t, trail.ApproveResults(results, now))
	check.True(t, trail.Approved())
	check.Equal(t, 2, len(trail.Timeline.Results.Bids))
	check.Equal(t, "5675acc9232942e8940a034994ad883e", trail.Timeline.Results.Bids[0].BidderID)

	check.Error(t, trail.ApproveResults(results, now))
}

func TestExportYAML_KeyedLayout(t *testing.T) {
	trail := NewTrail("UA-11111", fixtureBids(t))
	now, err := time.Parse(time.RFC3339, "2017-06-23T13:28:24Z")
	assert.NoError(t, err)
	assert.NoError(t, trail.ApproveBidTurn(1, "d3ba84c66c9e4f34bfb33cc3c686f137", now))
	assert.NoError(t, trail.ApproveResults(core.Rank(fixtureBids(t)), now))

	blob, err := trail.ExportYAML()
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, yaml.Unmarshal(blob, &decoded))

	check.Equal(t, "UA-11111", decoded["id"])
	check.Equal(t, "UA-11111", decoded["tenderId"])
	check.Equal(t, "UA-11111", decoded["tender_id"])

	timeline, ok := decoded["timeline"].(map[string]any)
	assert.True(t, ok)
	check.Equal(t, 5, len(timeline))
	check.NotNil(t, timeline["auction_start"])
	check.NotNil(t, timeline["round_1"])
	check.NotNil(t, timeline["round_2"])
	check.NotNil(t, timeline["round_3"])

	round1, ok := timeline["round_1"].(map[string]any)
	assert.True(t, ok)
	turn1, ok := round1["turn_1"].(map[string]any)
	assert.True(t, ok)
	check.Equal(t, "d3ba84c66c9e4f34bfb33cc3c686f137", turn1["bidder"])

	results, ok := timeline["results"].(map[string]any)
	assert.True(t, ok)
	bids, ok := results["bids"].([]any)
	assert.True(t, ok)
	check.Equal(t, 2, len(bids))
	winner, ok := bids[0].(map[string]any)
	assert.True(t, ok)
	check.Equal(t, "480000", winner["amount"])
	check.Equal(t, "5675acc9232942e8940a034994ad883e", winner["bidder"])
}
