package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Ресурс не найден
	ErrPlayerNotFound  = errors.New("player not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	// Ошибки валидации
	ErrValidationFailed     = errors.New("validation failed")
	ErrUnsupportedImageType = errors.New("unsupported image content type")
	ErrImageUploadsDisabled = errors.New("image uploads are not configured")

	// Конфликты
	ErrPlayerHasGames   = errors.New("player has recorded games and cannot be deleted")
	ErrUsernameConflict = errors.New("username is already in use")
	ErrEmailConflict    = errors.New("email address is already in use")
	ErrStatsDrift       = errors.New("player statistics would become negative; stored counters are out of sync with recorded games")

	// Аутентификация и авторизация
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username, email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)

// ValidationError carries per-field reasons. It matches ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
