package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

// pathID decodes the :id segment. Property ids contain a "#", so callers
// send them percent-encoded and the router hands them back that way.
func pathID(c echo.Context) string {
	id := c.Param("id")
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func fail(c echo.Context, status int, errText, message string) error {
	return c.JSON(status, errorResponse{Error: errText, Message: message})
}

// failWithDetails includes field-level diagnostics only outside production.
func failWithDetails(c echo.Context, status int, errText, message string, details any, production bool) error {
	resp := errorResponse{Error: errText, Message: message}
	if !production {
		resp.Details = details
	}
	return c.JSON(status, resp)
}

// serverError hides detail from the caller; the full error only goes to the
// log. A never-connected store is an operational problem, not a request one,
// so it maps to 503 instead of 500.
func serverError(c echo.Context, log *zap.Logger, err error, message string) error {
	if errors.Is(err, store.ErrNotConnected) {
		log.Error("store not connected", zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, "Service unavailable",
			"Database connection is not configured")
	}
	log.Error(message, zap.Error(err))
	return fail(c, http.StatusInternalServerError, "Internal server error", message)
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
