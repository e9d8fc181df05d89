package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-league/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Game, error)
	// Replace overwrites date, player count, prize pool and the full result table.
	Replace(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, played_on, num_players, prize_pool, results, created_at, updated_at`

func scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(&g.ID, &g.Date, &g.NumPlayers, &g.PrizePool, &g.Results, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (played_on, num_players, prize_pool, results)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		game.Date, game.NumPlayers, game.PrizePool, game.Results,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return scanGame(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`
	return scanGame(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY played_on DESC, id DESC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) Replace(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		UPDATE games SET
			played_on = $1,
			num_players = $2,
			prize_pool = $3,
			results = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		game.Date, game.NumPlayers, game.PrizePool, game.Results, game.ID,
	).Scan(&game.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to replace game %d: %w", game.ID, err)
	}
	return nil
}

func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
