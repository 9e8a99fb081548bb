package handlers

import (
	"errors"
	"net/http"

	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db          *gorm.DB
	authService services.AuthService
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService) *AuthHandler {
	return &AuthHandler{db: db, authService: authService}
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthData struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.authService.Signup(h.db, req.Email, req.Password)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	respond(c, http.StatusCreated, AuthData{
		User:  profileOf(user.ID.String(), user.Email, user.CreatedAt.Format(timeLayout)),
		Token: token,
	}, "Account created successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.authService.Login(h.db, req.Email, req.Password)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	respond(c, http.StatusOK, AuthData{
		User:  profileOf(user.ID.String(), user.Email, user.CreatedAt.Format(timeLayout)),
		Token: token,
	}, "Welcome back!")
}

// Logout destroys the server-side session. The response is a success even
// when the session was already gone; the client clears its own credentials
// regardless.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("auth_token")

	if err := h.authService.Logout(h.db, token); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to destroy session")
		return
	}

	respond(c, http.StatusOK, nil, "You have been logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(h.db, userID)
	if err != nil {
		handleServiceError(c, err, "user not found")
		return
	}

	respond(c, http.StatusOK, profileOf(user.ID.String(), user.Email, user.CreatedAt.Format(timeLayout)), "")
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func profileOf(id, email, createdAt string) UserProfile {
	return UserProfile{ID: id, Email: email, CreatedAt: createdAt}
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidEmail), errors.Is(err, services.ErrPasswordTooShort):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "authentication failed")
	}
}
