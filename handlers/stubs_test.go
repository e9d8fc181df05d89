package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/poker-league/middleware"
	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubPlayerService struct {
	players  []models.Player
	lastSort *services.LeaderboardSort
	created  services.CreatePlayerInput
	err      error
}

func (s *stubPlayerService) CreatePlayer(_ context.Context, in services.CreatePlayerInput) (*models.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = in
	return &models.Player{ID: 1, Name: in.Name, Nationality: in.Nationality}, nil
}

func (s *stubPlayerService) GetPlayer(_ context.Context, id int) (*models.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.players {
		if s.players[i].ID == id {
			return &s.players[i], nil
		}
	}
	return nil, services.ErrPlayerNotFound
}

func (s *stubPlayerService) ListPlayers(_ context.Context, sort *services.LeaderboardSort) ([]models.Player, error) {
	s.lastSort = sort
	return s.players, s.err
}

func (s *stubPlayerService) UpdatePlayer(_ context.Context, id int, _ services.UpdatePlayerInput) (*models.Player, error) {
	return s.GetPlayer(context.Background(), id)
}

func (s *stubPlayerService) DeletePlayer(_ context.Context, _ int) error {
	return s.err
}

type stubGameService struct {
	game    *models.Game
	applied models.GameResults
	input   services.GameInput
	err     error
}

func (s *stubGameService) CreateGame(_ context.Context, in services.GameInput) (*models.Game, error) {
	s.input = in
	return s.game, s.err
}

func (s *stubGameService) GetGame(_ context.Context, _ int) (*models.Game, error) {
	return s.game, s.err
}

func (s *stubGameService) ListGames(_ context.Context) ([]models.Game, error) {
	if s.err != nil || s.game == nil {
		return nil, s.err
	}
	return []models.Game{*s.game}, nil
}

func (s *stubGameService) UpdateGame(_ context.Context, _ int, in services.GameInput) (*models.Game, error) {
	s.input = in
	return s.game, s.err
}

func (s *stubGameService) DeleteGame(_ context.Context, _ int) error {
	return s.err
}

func (s *stubGameService) ApplyResults(_ context.Context, rows models.GameResults) ([]models.Player, error) {
	s.applied = rows
	return []models.Player{}, s.err
}

type stubAuthService struct {
	account *models.Account
	deleted []int
	err     error
}

func (s *stubAuthService) Signup(_ context.Context, in services.SignupInput) (*models.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Account{ID: 7, Username: in.Username, Email: in.Email}, nil
}

func (s *stubAuthService) Login(_ context.Context, _ services.LoginInput) (*models.Account, error) {
	return s.account, s.err
}

func (s *stubAuthService) GetAccount(_ context.Context, _ int) (*models.Account, error) {
	return s.account, s.err
}

func (s *stubAuthService) ListAccounts(_ context.Context) ([]models.Account, error) {
	if s.account == nil {
		return nil, s.err
	}
	return []models.Account{*s.account}, s.err
}

func (s *stubAuthService) DeleteAccount(_ context.Context, _ services.Actor, targetID int) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, targetID)
	return nil
}

type stubPostService struct {
	post       *models.Post
	created    services.PostInput
	updated    services.UpdatePostInput
	image      []byte
	imageType  string
	lastActor  services.Actor
	likeResult *services.LikeResult
	err        error
}

func (s *stubPostService) capture(img *services.ImageUpload) error {
	if img == nil {
		return nil
	}
	b, err := io.ReadAll(img.Reader)
	if err != nil {
		return err
	}
	s.image, s.imageType = b, img.ContentType
	return nil
}

func (s *stubPostService) ListPosts(_ context.Context) ([]models.Post, error) {
	if s.post == nil {
		return []models.Post{}, s.err
	}
	return []models.Post{*s.post}, s.err
}

func (s *stubPostService) GetPost(_ context.Context, _ int) (*models.Post, error) {
	return s.post, s.err
}

func (s *stubPostService) CreatePost(_ context.Context, actor services.Actor, in services.PostInput, img *services.ImageUpload) (*models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastActor, s.created = actor, in
	if err := s.capture(img); err != nil {
		return nil, err
	}
	return &models.Post{ID: 1, AuthorID: actor.AccountID, Title: in.Title, Content: in.Content}, nil
}

func (s *stubPostService) UpdatePost(_ context.Context, actor services.Actor, _ int, in services.UpdatePostInput, img *services.ImageUpload) (*models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastActor, s.updated = actor, in
	if err := s.capture(img); err != nil {
		return nil, err
	}
	return s.post, nil
}

func (s *stubPostService) DeletePost(_ context.Context, actor services.Actor, _ int) error {
	s.lastActor = actor
	return s.err
}

func (s *stubPostService) ToggleLike(_ context.Context, actor services.Actor, _ int) (*services.LikeResult, error) {
	s.lastActor = actor
	return s.likeResult, s.err
}

type stubCommentService struct {
	comments []models.Comment
	input    services.CommentInput
	err      error
}

func (s *stubCommentService) ListComments(_ context.Context, _ int) ([]models.Comment, error) {
	return s.comments, s.err
}

func (s *stubCommentService) CreateComment(_ context.Context, actor services.Actor, postID int, in services.CommentInput) (*models.Comment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.input = in
	return &models.Comment{ID: 1, PostID: postID, AuthorID: actor.AccountID, Content: in.Content}, nil
}

func (s *stubCommentService) DeleteComment(_ context.Context, _ services.Actor, _, _ int) error {
	return s.err
}

var testSessions = middleware.NewSessionManager("handlers-test-secret", time.Hour, false, nil)

// asActor signs every request passing through the router with a session
// token for actor and runs it through the real authentication middleware.
func asActor(actor services.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authed := testSessions.Authenticate(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := testSessions.IssueToken(&models.Account{ID: actor.AccountID, IsAdmin: actor.IsAdmin})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			r.Header.Set("Authorization", "Bearer "+token)
			authed.ServeHTTP(w, r)
		})
	}
}

func serve(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
