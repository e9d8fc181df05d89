package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
	"github.com/Dosada05/poker-league/utils"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	// ListPlayers returns every player; when sort is nil they come back in id order.
	ListPlayers(ctx context.Context, sort *LeaderboardSort) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type CreatePlayerInput struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
}

type UpdatePlayerInput struct {
	Name        *string `json:"name"`
	Nationality *string `json:"nationality"`
}

type playerService struct {
	tx         repositories.Transactor
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(tx repositories.Transactor, playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{tx: tx, playerRepo: playerRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	nationality := strings.ToUpper(strings.TrimSpace(input.Nationality))

	v := utils.NewValidator()
	ok, reason := utils.ValidatePlayerName(name)
	v.Check("name", ok, reason)
	ok, reason = utils.ValidateNationality(nationality)
	v.Check("nationality", ok, reason)
	if !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	player := &models.Player{Name: name, Nationality: nationality}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context, sort *LeaderboardSort) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	if players == nil {
		players = []models.Player{}
	}
	if sort != nil {
		SortPlayers(players, *sort)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	if input.Name == nil && input.Nationality == nil {
		return nil, newValidationError(map[string]string{"body": "no fields provided for update"})
	}

	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	v := utils.NewValidator()
	if input.Name != nil {
		player.Name = strings.TrimSpace(*input.Name)
		ok, reason := utils.ValidatePlayerName(player.Name)
		v.Check("name", ok, reason)
	}
	if input.Nationality != nil {
		player.Nationality = strings.ToUpper(strings.TrimSpace(*input.Nationality))
		ok, reason := utils.ValidateNationality(player.Nationality)
		v.Check("nationality", ok, reason)
	}
	if !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	if err := s.playerRepo.UpdateProfile(ctx, nil, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}
	return player, nil
}

// DeletePlayer removes a player that has never been recorded in a game.
func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		locked, err := s.playerRepo.LockByIDs(ctx, exec, []int{id})
		if err != nil {
			return fmt.Errorf("failed to lock player %d: %w", id, err)
		}
		player, ok := locked[id]
		if !ok {
			return ErrPlayerNotFound
		}
		if player.GamesPlayed != 0 {
			return ErrPlayerHasGames
		}
		if err := s.playerRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to delete player %d: %w", id, err)
		}
		return nil
	})
}
