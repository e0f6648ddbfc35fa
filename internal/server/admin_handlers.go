package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (s *Server) handleAdminListUsers(c echo.Context) error {
	rows, err := s.users.Overview(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleAdminDeleteUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	admin := currentUser(c)
	if admin.ID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot delete your own account")
	}

	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	s.logger.Info("user deleted",
		zap.Uint("user_id", id),
		zap.Uint("deleted_by", admin.ID),
	)
	return c.NoContent(http.StatusNoContent)
}
