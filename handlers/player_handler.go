package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
	gameService   services.GameService
}

func NewPlayerHandler(ps services.PlayerService, gs services.GameService) *PlayerHandler {
	return &PlayerHandler{
		playerService: ps,
		gameService:   gs,
	}
}

// ListPlayers serves the leaderboard. ?sort=<column>&order=asc|desc is optional.
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	var sort *services.LeaderboardSort
	if column := r.URL.Query().Get("sort"); strings.TrimSpace(column) != "" {
		s, err := services.ParseLeaderboardSort(column, r.URL.Query().Get("order"))
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		sort = &s
	}

	players, err := h.playerService.ListPlayers(r.Context(), sort)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"players": players}
	if sort != nil {
		response["sort"] = sort
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"player": player}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"player": player}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"player": player}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type bulkStatsInput struct {
	Results models.GameResults `json:"results"`
}

// BulkUpdateStats applies a result table to player counters without recording a game.
func (h *PlayerHandler) BulkUpdateStats(w http.ResponseWriter, r *http.Request) {
	var input bulkStatsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Results) == 0 {
		badRequestResponse(w, r, errors.New("results are required"))
		return
	}

	players, err := h.gameService.ApplyResults(r.Context(), input.Results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"players": players}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
