package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// UnfilledSeat marks an empty seat in a submitted result table.
const UnfilledSeat = -1

// GameResult is one row of a game's result table.
type GameResult struct {
	PlayerID int  `json:"player_id"`
	Profit   int  `json:"profit"`
	ITM      bool `json:"itm"`
	OTB      bool `json:"otb"`
	Bounties int  `json:"bounties"`
	Rebuys   int  `json:"rebuys"`
	AddOns   int  `json:"add_ons"`
}

// Filled reports whether the row names a real player.
func (r GameResult) Filled() bool {
	return r.PlayerID != UnfilledSeat
}

// GameResults is the ordered result table, stored as JSONB. Index 0 is the winner.
type GameResults []GameResult

func (g GameResults) Value() (driver.Value, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g)
}

func (g *GameResults) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*g = GameResults{}
		return nil
	default:
		return fmt.Errorf("unsupported type %T for game results", src)
	}
	if len(raw) == 0 {
		*g = GameResults{}
		return nil
	}
	var rows []GameResult
	if err := json.Unmarshal(raw, &rows); err != nil {
		return errors.Join(errors.New("failed to decode game results"), err)
	}
	*g = rows
	return nil
}

// PlayerIDs returns the ids of all filled seats in table order.
func (g GameResults) PlayerIDs() []int {
	ids := make([]int, 0, len(g))
	for _, r := range g {
		if r.Filled() {
			ids = append(ids, r.PlayerID)
		}
	}
	return ids
}

type Game struct {
	ID         int         `json:"id"`
	Date       time.Time   `json:"date"`
	NumPlayers int         `json:"num_players"`
	PrizePool  int         `json:"prize_pool"`
	Results    GameResults `json:"results"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Populated by service on detail reads.
	Players []Player `json:"players,omitempty"`
}
