package services

import "context"

// LeaderboardEvent describes a committed change to player statistics.
type LeaderboardEvent struct {
	Reason    string `json:"reason"`
	GameID    int    `json:"game_id,omitempty"`
	PlayerIDs []int  `json:"player_ids"`
}

const (
	ReasonGameCreated    = "game_created"
	ReasonGameUpdated    = "game_updated"
	ReasonGameDeleted    = "game_deleted"
	ReasonResultsApplied = "results_applied"
)

// LeaderboardNotifier is told about committed statistics changes.
type LeaderboardNotifier interface {
	LeaderboardUpdated(ctx context.Context, event LeaderboardEvent)
}

func deltaPlayerIDs(deltas []PlayerDelta) []int {
	ids := make([]int, len(deltas))
	for i, d := range deltas {
		ids[i] = d.PlayerID
	}
	return ids
}
