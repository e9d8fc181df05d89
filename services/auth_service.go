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

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*models.Account, error)
	Login(ctx context.Context, input LoginInput) (*models.Account, error)
	GetAccount(ctx context.Context, id int) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	// DeleteAccount soft-deletes target. Only the owner or an admin may do it.
	DeleteAccount(ctx context.Context, actor Actor, targetID int) error
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	AccountID int
	IsAdmin   bool
}

type SignupInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginInput struct {
	// Login is a username or an email address.
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authService struct {
	accountRepo repositories.AccountRepository
	admins      map[string]bool
}

// NewAuthService creates accounts as regular members, except usernames listed
// in adminUsernames, which sign up as admins.
func NewAuthService(accountRepo repositories.AccountRepository, adminUsernames ...string) AuthService {
	admins := make(map[string]bool, len(adminUsernames))
	for _, u := range adminUsernames {
		if u = strings.ToLower(strings.TrimSpace(u)); u != "" {
			admins[u] = true
		}
	}
	return &authService{accountRepo: accountRepo, admins: admins}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*models.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	v := utils.NewValidator()
	ok, reason := utils.ValidateUsername(username)
	v.Check("username", ok, reason)
	ok, reason = utils.ValidateEmail(email)
	v.Check("email", ok, reason)
	ok, reason = utils.ValidatePassword(input.Password)
	v.Check("password", ok, reason)
	ok, reason = utils.ValidateDisplayName(displayName)
	v.Check("display_name", ok, reason)
	if !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		IsAdmin:      s.admins[strings.ToLower(username)],
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAccountUsernameConflict):
			return nil, ErrUsernameConflict
		case errors.Is(err, repositories.ErrAccountEmailConflict):
			return nil, ErrEmailConflict
		default:
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	}

	account.PasswordHash = ""
	return account, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Account, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accountRepo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	account.PasswordHash = ""
	return account, nil
}

func (s *authService) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	account.PasswordHash = ""
	return account, nil
}

func (s *authService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	if accounts == nil {
		return []models.Account{}, nil
	}
	return accounts, nil
}

func (s *authService) DeleteAccount(ctx context.Context, actor Actor, targetID int) error {
	if actor.AccountID != targetID && !actor.IsAdmin {
		return ErrForbiddenOperation
	}
	if err := s.accountRepo.SoftDelete(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account %d: %w", targetID, err)
	}
	return nil
}
