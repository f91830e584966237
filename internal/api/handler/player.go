package handler

import (
	"net/http"

	"github.com/mcoot/lettergame/internal/api/middleware"
	"github.com/mcoot/lettergame/internal/api/request"
	"github.com/mcoot/lettergame/internal/api/response"
	"github.com/mcoot/lettergame/internal/services/auth"
)

// PlayerHandler handles login and player endpoints
type PlayerHandler struct {
	authService auth.ServiceInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService auth.ServiceInterface) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
	}
}

// Login handles POST /api/v1/auth/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	if req.UserName == "" {
		WriteError(w, NewInvalidRequestError("user_name is required"))
		return
	}

	token, err := h.authService.Login(r.Context(), req.UserName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TokenFromAuth(token))
}

// Validate handles POST /api/v1/auth/validate
func (h *PlayerHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateRequest
	if !decode(w, r, &req) {
		return
	}

	response.JSON(w, http.StatusOK, response.ValidateResponse{Valid: h.authService.Validate(req.Token)})
}

// Register handles POST /api/v1/auth/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	token, err := h.authService.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TokenFromAuth(token))
}

// PasswordLogin handles POST /api/v1/auth/password-login
func (h *PlayerHandler) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordLoginRequest
	if !decode(w, r, &req) {
		return
	}

	token, err := h.authService.LoginWithPassword(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenFromAuth(token))
}

// Logout handles POST /api/v1/auth/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Revoke(middleware.GetToken(r.Context()))
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	player, err := h.authService.GetPlayer(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
