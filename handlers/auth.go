package handlers

import (
	"log"
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/models"
	"socialcare365/services"
	"strings"

	"github.com/labstack/echo/v4"
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a caregiver account and signs it in
func RegisterHandler(c echo.Context) error {
	cfg := middleware.GetConfig(c)

	var input services.RegisterInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	user, err := services.RegisterUser(db.DB, &input, cfg.AllowedEmailDomain)
	if err != nil {
		return respondError(c, err, "User")
	}

	token, err := services.GenerateToken(cfg.JWTSecret, user)
	if err != nil {
		return respondError(c, err, "User")
	}

	// Welcome email is best effort
	if email, err := services.BuildWelcomeEmail(user.Email, user.FirstName, cfg.AppURL); err != nil {
		log.Printf("[EMAIL] Failed to build welcome email for %s: %v", user.ID, err)
	} else {
		services.SendEmailAsync(cfg, email)
	}

	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// LoginHandler exchanges credentials for a bearer token
func LoginHandler(c echo.Context) error {
	cfg := middleware.GetConfig(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	account := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := services.AuthenticateUser(db.DB, account, req.Password)
	if err != nil {
		services.Monitor.TrackFailedLogin(c.RealIP(), account)
		return respondError(c, err, "User")
	}
	services.Monitor.Reset(account)

	token, err := services.GenerateToken(cfg.JWTSecret, user)
	if err != nil {
		return respondError(c, err, "User")
	}

	services.LogSecurityEvent("LOGIN_SUCCESS", user.ID, "IP: "+c.RealIP())
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// MeHandler returns the authenticated user
func MeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.GetCurrentUser(c))
}
