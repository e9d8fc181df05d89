package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerRouter(ps *stubPlayerService, gs *stubGameService) chi.Router {
	h := NewPlayerHandler(ps, gs)
	g := NewGameHandler(gs)
	r := chi.NewRouter()
	r.Get("/players", h.ListPlayers)
	r.Post("/players", h.CreatePlayer)
	r.Patch("/players", h.BulkUpdateStats)
	r.Get("/players/{playerID}", h.GetPlayer)
	r.Patch("/players/{playerID}", h.UpdatePlayer)
	r.Delete("/players/{playerID}", h.DeletePlayer)
	r.Patch("/players/edit/{gameID}", g.UpdateGame)
	return r
}

func TestListPlayersWithSort(t *testing.T) {
	ps := &stubPlayerService{players: []models.Player{{ID: 1, Name: "Ann"}}}
	router := playerRouter(ps, &stubGameService{})

	rec := serve(t, router, http.MethodGet, "/players?sort=wins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ps.lastSort)
	assert.Equal(t, services.ColumnWins, ps.lastSort.Column)
	assert.Equal(t, services.SortDesc, ps.lastSort.Direction)

	body := decodeBody(t, rec)
	assert.Len(t, body["players"], 1)
	assert.Equal(t, map[string]interface{}{"column": "wins", "direction": "desc"}, body["sort"])
}

func TestListPlayersWithoutSort(t *testing.T) {
	ps := &stubPlayerService{players: []models.Player{}}
	rec := serve(t, playerRouter(ps, &stubGameService{}), http.MethodGet, "/players", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, ps.lastSort)
	assert.NotContains(t, decodeBody(t, rec), "sort")
}

func TestListPlayersRejectsUnknownSort(t *testing.T) {
	rec := serve(t, playerRouter(&stubPlayerService{}, &stubGameService{}), http.MethodGet, "/players?sort=height", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPlayer(t *testing.T) {
	ps := &stubPlayerService{players: []models.Player{{ID: 3, Name: "Bo"}}}
	router := playerRouter(ps, &stubGameService{})

	rec := serve(t, router, http.MethodGet, "/players/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	player := decodeBody(t, rec)["player"].(map[string]interface{})
	assert.Equal(t, "Bo", player["name"])
	assert.Contains(t, player, "games_played")

	assert.Equal(t, http.StatusNotFound, serve(t, router, http.MethodGet, "/players/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodGet, "/players/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodGet, "/players/0", "").Code)
}

func TestCreatePlayer(t *testing.T) {
	ps := &stubPlayerService{}
	router := playerRouter(ps, &stubGameService{})

	rec := serve(t, router, http.MethodPost, "/players", `{"name":"Cy","nationality":"fr"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, services.CreatePlayerInput{Name: "Cy", Nationality: "fr"}, ps.created)

	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodPost, "/players", `{"name":"Cy","wins":4}`).Code)
}

func TestDeletePlayerWithGamesConflicts(t *testing.T) {
	ps := &stubPlayerService{err: services.ErrPlayerHasGames}
	rec := serve(t, playerRouter(ps, &stubGameService{}), http.MethodDelete, "/players/1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeletePlayer(t *testing.T) {
	rec := serve(t, playerRouter(&stubPlayerService{}, &stubGameService{}), http.MethodDelete, "/players/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBulkUpdateStats(t *testing.T) {
	gs := &stubGameService{}
	router := playerRouter(&stubPlayerService{}, gs)

	rec := serve(t, router, http.MethodPatch, "/players", `{"results":[{"player_id":1,"profit":100},{"player_id":-1}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, gs.applied, 2)
	assert.Equal(t, 100, gs.applied[0].Profit)
	assert.False(t, gs.applied[1].Filled())

	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodPatch, "/players", `{"results":[]}`).Code)
}

func TestEditGameUnderPlayersPath(t *testing.T) {
	gs := &stubGameService{game: &models.Game{ID: 4, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}}
	router := playerRouter(&stubPlayerService{}, gs)

	rec := serve(t, router, http.MethodPatch, "/players/edit/4", `{"date":"2024-03-01","results":[{"player_id":2,"profit":50}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-01", gs.input.Date)
	assert.Len(t, gs.input.Results, 1)
}
