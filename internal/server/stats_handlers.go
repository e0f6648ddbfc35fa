package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleProfile(c echo.Context) error {
	user := currentUser(c)

	profile, err := s.users.Profile(c.Request().Context(), user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleStats(c echo.Context) error {
	user := currentUser(c)

	stats, err := s.stats.Summary(c.Request().Context(), user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
