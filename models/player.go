package models

import "time"

// PlayerStats holds the cumulative counters maintained by game aggregation.
// Winnings is a signed net profit; every other counter is non-negative.
type PlayerStats struct {
	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
	ITMFinishes int `json:"itm_finishes"`
	OnTheBubble int `json:"on_the_bubble"`
	Bounties    int `json:"bounties"`
	Rebuys      int `json:"rebuys"`
	AddOns      int `json:"add_ons"`
	Winnings    int `json:"winnings"`
}

// Add returns the field-wise sum of s and d.
func (s PlayerStats) Add(d PlayerStats) PlayerStats {
	return PlayerStats{
		GamesPlayed: s.GamesPlayed + d.GamesPlayed,
		Wins:        s.Wins + d.Wins,
		ITMFinishes: s.ITMFinishes + d.ITMFinishes,
		OnTheBubble: s.OnTheBubble + d.OnTheBubble,
		Bounties:    s.Bounties + d.Bounties,
		Rebuys:      s.Rebuys + d.Rebuys,
		AddOns:      s.AddOns + d.AddOns,
		Winnings:    s.Winnings + d.Winnings,
	}
}

// IsZero reports whether every counter is zero.
func (s PlayerStats) IsZero() bool {
	return s == PlayerStats{}
}

// HasNegativeCounter reports whether a counter that must stay non-negative went below zero.
func (s PlayerStats) HasNegativeCounter() bool {
	return s.GamesPlayed < 0 || s.Wins < 0 || s.ITMFinishes < 0 || s.OnTheBubble < 0 ||
		s.Bounties < 0 || s.Rebuys < 0 || s.AddOns < 0
}

type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	PlayerStats
	CreatedAt time.Time `json:"created_at"`
}
