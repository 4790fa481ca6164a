package handlers

import (
	"log"
	"net/http"
	"socialcare365/db"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the API and its database are reachable
func HealthHandler(c echo.Context) error {
	if err := db.Ping(); err != nil {
		log.Printf("[WARNING] Health check failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
