package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleListNotifications(c echo.Context) error {
	user := currentUser(c)
	unreadOnly := c.QueryParam("unread") == "true"

	notifications, err := s.notifications.List(c.Request().Context(), user, unreadOnly)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(c echo.Context) error {
	user := currentUser(c)
	id, err := paramID(c)
	if err != nil {
		return err
	}

	n, err := s.notifications.MarkRead(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, n)
}
