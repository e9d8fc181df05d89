package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/poker-league/models"
)

type SortColumn string

const (
	ColumnName        SortColumn = "name"
	ColumnNationality SortColumn = "nationality"
	ColumnGamesPlayed SortColumn = "games_played"
	ColumnWins        SortColumn = "wins"
	ColumnITM         SortColumn = "itm_finishes"
	ColumnOnTheBubble SortColumn = "on_the_bubble"
	ColumnBounties    SortColumn = "bounties"
	ColumnRebuys      SortColumn = "rebuys"
	ColumnAddOns      SortColumn = "add_ons"
	ColumnWinnings    SortColumn = "winnings"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// LeaderboardSort selects a single column and direction.
type LeaderboardSort struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
}

var counterColumns = map[SortColumn]func(p *models.Player) int{
	ColumnGamesPlayed: func(p *models.Player) int { return p.GamesPlayed },
	ColumnWins:        func(p *models.Player) int { return p.Wins },
	ColumnITM:         func(p *models.Player) int { return p.ITMFinishes },
	ColumnOnTheBubble: func(p *models.Player) int { return p.OnTheBubble },
	ColumnBounties:    func(p *models.Player) int { return p.Bounties },
	ColumnRebuys:      func(p *models.Player) int { return p.Rebuys },
	ColumnAddOns:      func(p *models.Player) int { return p.AddOns },
	ColumnWinnings:    func(p *models.Player) int { return p.Winnings },
}

func isTextColumn(c SortColumn) bool {
	return c == ColumnName || c == ColumnNationality
}

// ParseLeaderboardSort validates query values. An omitted order defaults to
// ascending for text columns and descending for counters.
func ParseLeaderboardSort(column, order string) (LeaderboardSort, error) {
	c := SortColumn(strings.ToLower(strings.TrimSpace(column)))
	if _, ok := counterColumns[c]; !ok && !isTextColumn(c) {
		return LeaderboardSort{}, newValidationError(map[string]string{"sort": fmt.Sprintf("unknown column %q", column)})
	}

	var d SortDirection
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		d = defaultDirection(c)
	case string(SortAsc):
		d = SortAsc
	case string(SortDesc):
		d = SortDesc
	default:
		return LeaderboardSort{}, newValidationError(map[string]string{"order": "must be asc or desc"})
	}
	return LeaderboardSort{Column: c, Direction: d}, nil
}

func defaultDirection(c SortColumn) SortDirection {
	if isTextColumn(c) {
		return SortAsc
	}
	return SortDesc
}

// ToggleSort returns the sort after a click on column: the same column flips
// direction, a new column starts at its default direction.
func ToggleSort(current LeaderboardSort, column SortColumn) LeaderboardSort {
	if current.Column == column {
		if current.Direction == SortAsc {
			return LeaderboardSort{Column: column, Direction: SortDesc}
		}
		return LeaderboardSort{Column: column, Direction: SortAsc}
	}
	return LeaderboardSort{Column: column, Direction: defaultDirection(column)}
}

// SortPlayers orders players in place. Ties fall back to name, then id.
func SortPlayers(players []models.Player, s LeaderboardSort) {
	compare := func(a, b *models.Player) int {
		switch s.Column {
		case ColumnName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case ColumnNationality:
			return strings.Compare(a.Nationality, b.Nationality)
		}
		if get, ok := counterColumns[s.Column]; ok {
			return get(a) - get(b)
		}
		return 0
	}

	sort.SliceStable(players, func(i, j int) bool {
		a, b := &players[i], &players[j]
		if c := compare(a, b); c != 0 {
			if s.Direction == SortDesc {
				return c > 0
			}
			return c < 0
		}
		if n := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); n != 0 {
			return n < 0
		}
		return a.ID < b.ID
	})
}
