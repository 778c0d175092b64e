package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"interviewai/interview/internal/models"
	"interviewai/interview/internal/utils"
)

// UserStore is the slice of the record store auth needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler manages HR account endpoints.
type AuthHandler struct {
	users     UserStore
	jwtSecret string
}

func NewAuthHandler(users UserStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "missing_fields", "name, email and password are required")
		return
	}

	if existing, _ := h.users.GetByEmail(r.Context(), req.Email); existing != nil {
		utils.JSONError(w, http.StatusConflict, "email_taken", "This email is already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}
	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	if err := h.users.Create(r.Context(), user); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to create account")
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]any{"id": user.ID, "name": user.Name, "email": user.Email})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	signed, err := utils.SignAccountToken(user.ID, h.jwtSecret, 24*time.Hour)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to sign token")
		return
	}
	utils.JSON(w, http.StatusOK, authResponse{Token: signed})
}
