package core

import (
	"fmt"
	"sort"
)

// ordinal label templates per locale, applied to the 1-based rank position.
var labelTemplates = map[string]string{
	"en": "Bidder #%d",
	"uk": "Учасник №%d",
	"ru": "Участник №%d",
}

// RankLabel returns the localized ordinal labels for a 1-based rank position.
func RankLabel(position int) map[string]string {
	label := make(map[string]string, len(labelTemplates))
	for locale, tmpl := range labelTemplates {
		label[locale] = fmt.Sprintf(tmpl, position)
	}
	return label
}

// Rank sorts bids descending by amount, breaking ties in favor of the
// earlier submission, and annotates each with its localized ordinal label.
// The input slice is not modified; the result has the same cardinality.
func Rank(bids []Bid) []Result {
	sorted := make([]Bid, len(bids))
	copy(sorted, bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		switch sorted[i].Amount.Cmp(sorted[j].Amount) {
		case 1:
			return true
		case -1:
			return false
		}
		return sorted[i].Time.Before(sorted[j].Time)
	})

	results := make([]Result, len(sorted))
	for i, bid := range sorted {
		results[i] = Result{Bid: bid, Label: RankLabel(i + 1)}
	}
	return results
}
