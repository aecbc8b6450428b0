package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Document writes an already encoded JSON document without re-encoding it.
func Document(c echo.Context, doc []byte) error {
	return c.JSONBlob(http.StatusOK, doc)
}

func BadRequest(c echo.Context, err error) error {
	slog.DebugContext(c.Request().Context(), "Bad request", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.DebugContext(c.Request().Context(), "Bad request", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(c.Request().Context(), "Internal error", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// Error renders err according to the domain error taxonomy. Anything outside
// the taxonomy is an internal error and its details are only logged.
func Error(c echo.Context, err error) error {
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return BadRequest(c, err)
	case errors.Is(err, domain.ErrIntegrity):
		return c.JSON(http.StatusForbidden, errorResponse{Error: domain.ErrIntegrity.Error()})
	case errors.Is(err, domain.ErrAuthorization):
		return c.JSON(http.StatusForbidden, errorResponse{Error: domain.ErrAuthorization.Error()})
	case errors.Is(err, domain.ErrAliasNotFound):
		return NotFound(c, domain.ErrAliasNotFound.Error())
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		slog.WarnContext(ctx, "Upstream unavailable", slog.String("error", err.Error()), slog.String("module", "rest"))
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: domain.ErrUpstream.Error(), Retryable: true})
	case errors.Is(err, domain.ErrStore):
		slog.ErrorContext(ctx, "Store failure", slog.String("error", err.Error()), slog.String("module", "rest"))
		return c.JSON(http.StatusBadGateway, errorResponse{Error: domain.ErrStore.Error()})
	default:
		return InternalError(c, err)
	}
}
