package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

const gameDateLayout = "2006-01-02"

type GameService interface {
	CreateGame(ctx context.Context, input GameInput) (*models.Game, error)
	GetGame(ctx context.Context, id int) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id int) error
	// ApplyResults updates player statistics for a result table without recording a game.
	ApplyResults(ctx context.Context, rows models.GameResults) ([]models.Player, error)
}

type GameInput struct {
	Date    string             `json:"date"`
	Results models.GameResults `json:"results"`
	// OldResults is accepted from older clients on edit. The stored table is
	// always the one reversed.
	OldResults models.GameResults `json:"old_results,omitempty"`
}

type gameService struct {
	tx         repositories.Transactor
	gameRepo   repositories.GameRepository
	playerRepo repositories.PlayerRepository
	notifier   LeaderboardNotifier
	entryFee   int
	logger     *slog.Logger
}

func NewGameService(
	tx repositories.Transactor,
	gameRepo repositories.GameRepository,
	playerRepo repositories.PlayerRepository,
	notifier LeaderboardNotifier,
	entryFee int,
	logger *slog.Logger,
) GameService {
	if entryFee <= 0 {
		entryFee = DefaultEntryFee
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &gameService{
		tx:         tx,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		notifier:   notifier,
		entryFee:   entryFee,
		logger:     logger,
	}
}

func parseGameDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, newValidationError(map[string]string{"date": "must be provided"})
	}
	d, err := time.Parse(gameDateLayout, raw)
	if err != nil {
		return time.Time{}, newValidationError(map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}
	return d, nil
}

// buildGame validates input. With optionalDate set, a blank date yields a zero
// Date that the caller fills from the stored game.
func (s *gameService) buildGame(input GameInput, optionalDate bool) (*models.Game, error) {
	var date time.Time
	if !optionalDate || strings.TrimSpace(input.Date) != "" {
		d, err := parseGameDate(input.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	if err := ValidateResults(input.Results); err != nil {
		return nil, err
	}
	return &models.Game{
		Date:       date,
		NumPlayers: FilledSeats(input.Results),
		PrizePool:  PrizePool(s.entryFee, input.Results),
		Results:    input.Results,
	}, nil
}

// applyDeltas locks every affected player, checks existence and the
// non-negative invariant, then increments. Any failure aborts the caller's transaction.
func (s *gameService) applyDeltas(ctx context.Context, exec repositories.SQLExecutor, deltas []PlayerDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	ids := deltaPlayerIDs(deltas)
	locked, err := s.playerRepo.LockByIDs(ctx, exec, ids)
	if err != nil {
		return fmt.Errorf("failed to lock players: %w", err)
	}

	for _, d := range deltas {
		current, ok := locked[d.PlayerID]
		if !ok {
			return fmt.Errorf("%w: id %d", ErrPlayerNotFound, d.PlayerID)
		}
		if current.PlayerStats.Add(d.Stats).HasNegativeCounter() {
			return fmt.Errorf("%w (player %d)", ErrStatsDrift, d.PlayerID)
		}
	}

	for _, d := range deltas {
		if err := s.playerRepo.IncrementStats(ctx, exec, d.PlayerID, d.Stats); err != nil {
			switch {
			case errors.Is(err, repositories.ErrPlayerNotFound):
				return fmt.Errorf("%w: id %d", ErrPlayerNotFound, d.PlayerID)
			case errors.Is(err, repositories.ErrPlayerNegativeCounter):
				return fmt.Errorf("%w (player %d)", ErrStatsDrift, d.PlayerID)
			default:
				return fmt.Errorf("failed to update statistics for player %d: %w", d.PlayerID, err)
			}
		}
	}
	return nil
}

func (s *gameService) notify(ctx context.Context, reason string, gameID int, deltas []PlayerDelta) {
	if s.notifier == nil {
		return
	}
	s.notifier.LeaderboardUpdated(ctx, LeaderboardEvent{Reason: reason, GameID: gameID, PlayerIDs: deltaPlayerIDs(deltas)})
}

func (s *gameService) CreateGame(ctx context.Context, input GameInput) (*models.Game, error) {
	game, err := s.buildGame(input, false)
	if err != nil {
		return nil, err
	}
	deltas := ComputeDeltas(game.Results, applySign)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.applyDeltas(ctx, exec, deltas); err != nil {
			return err
		}
		if err := s.gameRepo.Create(ctx, exec, game); err != nil {
			return fmt.Errorf("failed to store game: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "game creation rolled back", slog.Int("player_count", game.NumPlayers), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "game recorded",
		slog.Int("game_id", game.ID),
		slog.Int("player_count", game.NumPlayers),
		slog.Int("prize_pool", game.PrizePool),
	)
	s.notify(ctx, ReasonGameCreated, game.ID, deltas)
	return game, nil
}

func (s *gameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by id %d: %w", id, err)
	}

	players, err := s.playerRepo.ListByIDs(ctx, nil, game.Results.PlayerIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load players for game %d: %w", id, err)
	}
	game.Players = players
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if games == nil {
		return []models.Game{}, nil
	}
	return games, nil
}

func (s *gameService) UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	game, err := s.buildGame(input, true)
	if err != nil {
		return nil, err
	}
	game.ID = id

	var deltas []PlayerDelta
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		stored, err := s.gameRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to load game %d: %w", id, err)
		}
		if input.OldResults != nil && !sameResults(input.OldResults, stored.Results) {
			s.logger.WarnContext(ctx, "client-supplied previous results differ from stored results; using stored", slog.Int("game_id", id))
		}

		deltas = MergeDeltas(
			ComputeDeltas(stored.Results, reverseSign),
			ComputeDeltas(game.Results, applySign),
		)
		if err := s.applyDeltas(ctx, exec, deltas); err != nil {
			return err
		}
		game.CreatedAt = stored.CreatedAt
		if game.Date.IsZero() {
			game.Date = stored.Date
		}
		if err := s.gameRepo.Replace(ctx, exec, game); err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to replace game %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "game update rolled back", slog.Int("game_id", id), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "game updated", slog.Int("game_id", id), slog.Int("players_changed", len(deltas)))
	s.notify(ctx, ReasonGameUpdated, id, deltas)
	return game, nil
}

func (s *gameService) DeleteGame(ctx context.Context, id int) error {
	var deltas []PlayerDelta
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		stored, err := s.gameRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to load game %d: %w", id, err)
		}

		deltas = ComputeDeltas(stored.Results, reverseSign)
		if err := s.applyDeltas(ctx, exec, deltas); err != nil {
			return err
		}
		if err := s.gameRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to delete game %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "game deletion rolled back", slog.Int("game_id", id), slog.Any("error", err))
		return err
	}

	s.logger.InfoContext(ctx, "game deleted", slog.Int("game_id", id))
	s.notify(ctx, ReasonGameDeleted, id, deltas)
	return nil
}

func (s *gameService) ApplyResults(ctx context.Context, rows models.GameResults) ([]models.Player, error) {
	if err := ValidateResults(rows); err != nil {
		return nil, err
	}
	deltas := ComputeDeltas(rows, applySign)

	var updated []models.Player
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.applyDeltas(ctx, exec, deltas); err != nil {
			return err
		}
		players, err := s.playerRepo.ListByIDs(ctx, exec, deltaPlayerIDs(deltas))
		if err != nil {
			return fmt.Errorf("failed to reload players: %w", err)
		}
		updated = players
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ReasonResultsApplied, 0, deltas)
	return updated, nil
}

func sameResults(a, b models.GameResults) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
