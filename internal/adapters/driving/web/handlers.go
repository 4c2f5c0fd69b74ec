package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// searchRequest is the inbound search payload.
type searchRequest struct {
	Username      string `json:"username" validate:"required,max=100"`
	Pattern       string `json:"pattern" validate:"required,max=1000"`
	CaseSensitive bool   `json:"case_sensitive"`
	Literal       bool   `json:"literal"`
}

// searchResponse mirrors the original gistapi response shape: the query
// echoed back, plus per-gist results and a status marker.
type searchResponse struct {
	Username string                `json:"username"`
	Pattern  string                `json:"pattern"`
	Results  []domain.SearchResult `json:"results"`
	Status   string                `json:"status"`
}

func (s *Server) ping(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}

func (s *Server) searchHandler(ctx echo.Context) error {
	var req searchRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	results, err := s.search.Search(ctx.Request().Context(), req.Username, req.Pattern, domain.SearchOptions{
		CaseSensitive: req.CaseSensitive,
		Literal:       req.Literal,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, searchResponse{
		Username: req.Username,
		Pattern:  req.Pattern,
		Results:  results,
		Status:   "success",
	})
}
