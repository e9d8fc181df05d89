package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerNegativeCounter = errors.New("player counter would become negative")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	// LockByIDs locks the rows in ascending id order and returns the players found.
	LockByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.Player, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Player, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]models.Player, error)
	UpdateProfile(ctx context.Context, exec SQLExecutor, player *models.Player) error
	// IncrementStats atomically adds delta to the player's counters.
	IncrementStats(ctx context.Context, exec SQLExecutor, id int, delta models.PlayerStats) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerColumns = `id, name, nationality, games_played, wins, itm_finishes, on_the_bubble,
		bounties, rebuys, add_ons, winnings, created_at`

func scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := rowScanner.Scan(
		&p.ID, &p.Name, &p.Nationality,
		&p.GamesPlayed, &p.Wins, &p.ITMFinishes, &p.OnTheBubble,
		&p.Bounties, &p.Rebuys, &p.AddOns, &p.Winnings,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (name, nationality)
		VALUES ($1, $2)
		RETURNING ` + playerColumns

	created, err := scanPlayer(r.getExecutor(exec).QueryRowContext(ctx, query, player.Name, player.Nationality))
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	*player = *created
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return scanPlayer(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) LockByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.Player, error) {
	found := make(map[int]*models.Player, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE id = ANY($1)
		ORDER BY id ASC
		FOR UPDATE`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to lock players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		found[p.ID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY id ASC`
	return r.list(ctx, exec, query)
}

func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = ANY($1) ORDER BY id ASC`
	return r.list(ctx, exec, query, pq.Array(ids))
}

func (r *postgresPlayerRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) UpdateProfile(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `UPDATE players SET name = $1, nationality = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, player.Name, player.Nationality, player.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) IncrementStats(ctx context.Context, exec SQLExecutor, id int, delta models.PlayerStats) error {
	query := `
		UPDATE players SET
			games_played  = games_played + $1,
			wins          = wins + $2,
			itm_finishes  = itm_finishes + $3,
			on_the_bubble = on_the_bubble + $4,
			bounties      = bounties + $5,
			rebuys        = rebuys + $6,
			add_ons       = add_ons + $7,
			winnings      = winnings + $8
		WHERE id = $9`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		delta.GamesPlayed, delta.Wins, delta.ITMFinishes, delta.OnTheBubble,
		delta.Bounties, delta.Rebuys, delta.AddOns, delta.Winnings,
		id,
	)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqCheckViolation {
			return fmt.Errorf("%w (player %d, constraint %s)", ErrPlayerNegativeCounter, id, pqErr.Constraint)
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM players WHERE id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
