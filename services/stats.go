package services

import (
	"fmt"
	"sort"

	"github.com/Dosada05/poker-league/models"
)

// DefaultEntryFee is the league buy-in in currency units.
const DefaultEntryFee = 20

const (
	applySign   = 1
	reverseSign = -1
)

// PlayerDelta is the change one aggregation pass makes to one player's counters.
type PlayerDelta struct {
	PlayerID int
	Stats    models.PlayerStats
}

// ComputeDeltas turns a result table into per-player counter changes.
// sign is +1 to apply the table and -1 to reverse it. Unfilled seats are
// skipped and the row at index 0 is credited with the win. The result is
// ordered by player id.
func ComputeDeltas(rows models.GameResults, sign int) []PlayerDelta {
	acc := make(map[int]models.PlayerStats, len(rows))
	for i, row := range rows {
		if !row.Filled() {
			continue
		}
		d := models.PlayerStats{
			GamesPlayed: 1,
			Bounties:    row.Bounties,
			Rebuys:      row.Rebuys,
			AddOns:      row.AddOns,
			Winnings:    row.Profit,
		}
		if row.ITM {
			d.ITMFinishes = 1
		}
		if row.OTB {
			d.OnTheBubble = 1
		}
		if i == 0 {
			d.Wins = 1
		}
		acc[row.PlayerID] = acc[row.PlayerID].Add(scaleStats(d, sign))
	}
	return sortedDeltas(acc, false)
}

// MergeDeltas sums delta sets per player and drops players whose net change is zero.
func MergeDeltas(sets ...[]PlayerDelta) []PlayerDelta {
	acc := make(map[int]models.PlayerStats)
	for _, set := range sets {
		for _, d := range set {
			acc[d.PlayerID] = acc[d.PlayerID].Add(d.Stats)
		}
	}
	return sortedDeltas(acc, true)
}

// PrizePool computes entryFee*filledSeats + Σ addOns + Σ rebuys*entryFee.
func PrizePool(entryFee int, rows models.GameResults) int {
	pool := 0
	for _, row := range rows {
		if !row.Filled() {
			continue
		}
		pool += entryFee + row.AddOns + row.Rebuys*entryFee
	}
	return pool
}

// FilledSeats counts the rows naming a real player.
func FilledSeats(rows models.GameResults) int {
	n := 0
	for _, row := range rows {
		if row.Filled() {
			n++
		}
	}
	return n
}

// ValidateResults checks a submitted result table. The winner is the row at
// index 0, so that seat has to be filled.
func ValidateResults(rows models.GameResults) error {
	fields := make(map[string]string)

	if FilledSeats(rows) == 0 {
		fields["results"] = "must contain at least one player"
		return newValidationError(fields)
	}
	if !rows[0].Filled() {
		fields["results[0]"] = "the winner seat must name a player"
	}

	seen := make(map[int]int, len(rows))
	for i, row := range rows {
		key := fmt.Sprintf("results[%d]", i)
		if !row.Filled() {
			continue
		}
		if row.PlayerID <= 0 {
			fields[key] = "player_id must be a positive id or -1 for an empty seat"
			continue
		}
		if first, dup := seen[row.PlayerID]; dup {
			fields[key] = fmt.Sprintf("player %d already listed at position %d", row.PlayerID, first)
			continue
		}
		seen[row.PlayerID] = i

		switch {
		case row.Bounties < 0:
			fields[key] = "bounties must not be negative"
		case row.Rebuys < 0:
			fields[key] = "rebuys must not be negative"
		case row.AddOns < 0:
			fields[key] = "add_ons must not be negative"
		}
	}

	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

func scaleStats(s models.PlayerStats, k int) models.PlayerStats {
	return models.PlayerStats{
		GamesPlayed: s.GamesPlayed * k,
		Wins:        s.Wins * k,
		ITMFinishes: s.ITMFinishes * k,
		OnTheBubble: s.OnTheBubble * k,
		Bounties:    s.Bounties * k,
		Rebuys:      s.Rebuys * k,
		AddOns:      s.AddOns * k,
		Winnings:    s.Winnings * k,
	}
}

func sortedDeltas(acc map[int]models.PlayerStats, dropZero bool) []PlayerDelta {
	deltas := make([]PlayerDelta, 0, len(acc))
	for id, s := range acc {
		if dropZero && s.IsZero() {
			continue
		}
		deltas = append(deltas, PlayerDelta{PlayerID: id, Stats: s})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].PlayerID < deltas[j].PlayerID })
	return deltas
}
