package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"studycloud/internal/model"
	"studycloud/internal/repository"
	"studycloud/internal/service"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// updateTaskRequest carries partial edits; absent fields stay untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// dueDateFormats are tried in order: RFC3339 first, then the
// datetime-local and bare-date shapes browser forms submit.
var dueDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDueDate is deliberately forgiving: anything unparseable means "no
// due date", never a rejected request. Zoneless layouts are read as
// server-local wall time.
func parseDueDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dueDateFormats {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// paramID reads the :id route segment. Non-numeric ids look the same as
// missing records to the client.
func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "no such resource")
	}
	return uint(id), nil
}

func (s *Server) handleListTasks(c echo.Context) error {
	user := currentUser(c)

	var filter repository.TaskFilter
	if raw := c.QueryParam("status"); raw != "" {
		status := model.Status(raw)
		if status != model.StatusIncomplete && status != model.StatusComplete {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status filter")
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("priority"); raw != "" {
		priority, ok := model.ParsePriority(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown priority filter")
		}
		filter.Priority = &priority
	}

	tasks, err := s.tasks.List(c.Request().Context(), user, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	user := currentUser(c)

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Unknown priorities fall back to the default rather than failing.
	priority, _ := model.ParsePriority(req.Priority)

	task, err := s.tasks.Create(c.Request().Context(), user, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     parseDueDate(req.DueDate),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c echo.Context) error {
	user := currentUser(c)
	id, err := paramID(c)
	if err != nil {
		return err
	}

	task, err := s.tasks.Get(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	user := currentUser(c)
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		priority, _ := model.ParsePriority(*req.Priority)
		update.Priority = &priority
	}
	if req.DueDate != nil {
		if due := parseDueDate(*req.DueDate); due != nil {
			update.DueDate = due
		} else {
			update.ClearDue = true
		}
	}

	task, err := s.tasks.Update(c.Request().Context(), user, id, update)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	user := currentUser(c)
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(c.Request().Context(), user, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleTask(c echo.Context) error {
	user := currentUser(c)
	id, err := paramID(c)
	if err != nil {
		return err
	}

	result, err := s.tasks.Toggle(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}
