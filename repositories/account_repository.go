package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-league/models"
)

var (
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountEmailConflict    = errors.New("account email conflict")
	ErrAccountUsernameConflict = errors.New("account username conflict")
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int) (*models.Account, error)
	// GetByLogin finds a live (not soft-deleted) account by username or email.
	GetByLogin(ctx context.Context, login string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	SoftDelete(ctx context.Context, id int) error
}

type postgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) AccountRepository {
	return &postgresAccountRepository{db: db}
}

const accountColumns = `id, username, email, password_hash, display_name, is_admin, deleted, created_at`

func mapAccountWriteError(err error) error {
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqUniqueViolation {
		switch pqErr.Constraint {
		case "accounts_email_key":
			return ErrAccountEmailConflict
		case "accounts_username_key":
			return ErrAccountUsernameConflict
		}
	}
	return err
}

func (r *postgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, email, password_hash, display_name, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.IsAdmin,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return mapAccountWriteError(err)
	}
	return nil
}

func (r *postgresAccountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(ctx, query, id)
}

func (r *postgresAccountRepository) GetByLogin(ctx context.Context, login string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE (lower(username) = lower($1) OR lower(email) = lower($1)) AND NOT deleted`
	return r.scanAccount(ctx, query, login)
}

func (r *postgresAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY username ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		var a models.Account
		if scanErr := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.DisplayName, &a.IsAdmin, &a.Deleted, &a.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *postgresAccountRepository) SoftDelete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET deleted = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete account %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrAccountNotFound)
}

func (r *postgresAccountRepository) scanAccount(ctx context.Context, query string, args ...interface{}) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&a.IsAdmin,
		&a.Deleted,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}
