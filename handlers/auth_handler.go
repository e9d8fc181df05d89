package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/poker-league/middleware"
	"github.com/Dosada05/poker-league/services"
)

type AuthHandler struct {
	authService services.AuthService
	sessions    *middleware.SessionManager
}

func NewAuthHandler(authService services.AuthService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// Signup creates a regular account and starts a session for it.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input services.SignupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	account, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, expires, err := h.sessions.IssueToken(account)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.sessions.SetCookie(w, token, expires)

	response := jsonResponse{"account": account, "token": token}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Login) == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("login and password are required"))
		return
	}

	account, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, expires, err := h.sessions.IssueToken(account)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to issue session: %w", err))
		return
	}
	h.sessions.SetCookie(w, token, expires)

	response := jsonResponse{"account": account, "token": token}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetAccountIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, services.ErrUnauthenticated.Error())
		return
	}

	response := jsonResponse{"is_admin": middleware.IsAdminFromContext(r.Context())}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	account, err := h.authService.GetAccount(r.Context(), actor.AccountID)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			unauthorizedResponse(w, r, services.ErrUnauthenticated.Error())
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if account.Deleted {
		h.sessions.ClearCookie(w)
		unauthorizedResponse(w, r, services.ErrUnauthenticated.Error())
		return
	}

	response := jsonResponse{"account": account}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.authService.ListAccounts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"accounts": accounts}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	accountID, err := getIDFromURL(r, "accountID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), actor, accountID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if actor.AccountID == accountID {
		h.sessions.ClearCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}
