package handlers

import (
	"errors"
	"log"
	"net/http"
	"socialcare365/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MessageResponse is the body of every error and simple acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse lists field errors alongside the summary message
type ValidationResponse struct {
	Message string                `json:"message"`
	Errors  []services.FieldError `json:"errors"`
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageResponse{Message: msg})
}

// respondError translates a service error into the API error shape.
// resource names the entity in not-found messages, e.g. "Case".
func respondError(c echo.Context, err error, resource string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, ValidationResponse{
			Message: "Validation failed",
			Errors:  verr.Errors,
		})
	case errors.Is(err, services.ErrNotFound):
		return message(c, http.StatusNotFound, resource+" not found")
	case errors.Is(err, services.ErrDuplicateCaseID):
		return message(c, http.StatusBadRequest, "Case ID already exists")
	case errors.Is(err, services.ErrDuplicateEmail):
		return message(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return message(c, http.StatusBadRequest, resource+" already exists")
	case errors.Is(err, services.ErrAlreadyArchived):
		return message(c, http.StatusBadRequest, "Case is already archived")
	case errors.Is(err, services.ErrNotArchived):
		return message(c, http.StatusBadRequest, "Case is not archived")
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountInactive):
		return message(c, http.StatusUnauthorized, "Invalid credentials")
	}

	log.Printf("Error handling %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return message(c, http.StatusInternalServerError, "Server error")
}

// invalidBody is returned when the request body cannot be decoded
func invalidBody(c echo.Context) error {
	return message(c, http.StatusBadRequest, "Invalid request body")
}

// HTTPErrorHandler renders errors that escape handlers as {message}
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, MessageResponse{Message: msg})
	}
	if writeErr != nil {
		log.Printf("Failed to write error response: %v", writeErr)
	}
}
