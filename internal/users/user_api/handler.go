package user_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/users"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Users  *users.Service
	Tokens *auth.TokenIssuer
	Logger *logger.Logger
}

func NewHandler(userService *users.Service, tokens *auth.TokenIssuer, log *logger.Logger) *Handler {
	return &Handler{Users: userService, Tokens: tokens, Logger: log}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	user, err := h.Users.Register(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered",
		"user":    user.Public(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.Users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			utils.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.writeError(w, err)
		return
	}

	response := map[string]interface{}{
		"message": "Login successful",
		"user":    user.Public(),
	}
	if h.Tokens != nil {
		token, err := h.Tokens.Issue(*user)
		if err != nil {
			h.writeError(w, err)
			return
		}
		response["token"] = token
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	allUsers, err := h.Users.List()
	if err != nil {
		h.writeError(w, err)
		return
	}
	public := make([]models.PublicUser, 0, len(allUsers))
	for _, u := range allUsers {
		public = append(public, u.Public())
	}
	utils.WriteJSON(w, http.StatusOK, public)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := utils.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		if h.Logger != nil {
			h.Logger.Error("USERS", err.Error())
		}
		utils.WriteError(w, status, "internal error")
		return
	}
	utils.WriteError(w, status, err.Error())
}
