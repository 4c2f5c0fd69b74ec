package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// errorEnvelope is the failure shape of every endpoint.
type errorEnvelope struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// errorHandler maps domain errors onto HTTP statuses and the error
// envelope. It distinguishes "request failed" from "no matches found":
// an empty result set is a 200, never an error.
func (s *Server) errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	status, kind := classify(err)
	if status >= 500 {
		log.Error().Err(err).Str("kind", kind).Msg("search request failed")
	}

	envelope := errorEnvelope{
		Kind:    kind,
		Message: err.Error(),
		Status:  "fail",
	}
	if httpErr, ok := err.(*echo.HTTPError); ok {
		if msg, ok := httpErr.Message.(string); ok {
			envelope.Message = msg
		}
	}

	if writeErr := ctx.JSON(status, envelope); writeErr != nil {
		log.Error().Err(writeErr).Msg("failed to write error response")
	}
}

func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrInvalidPattern):
		return http.StatusBadRequest, "invalid_pattern"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded"
	case errors.Is(err, domain.ErrUpstreamMalformed):
		return http.StatusBadGateway, "upstream_malformed"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	case errors.As(err, &httpErr):
		return httpErr.Code, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
