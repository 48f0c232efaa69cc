package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ListHandler struct {
	listService     ListServiceInterface
	calendarService CalendarServiceInterface
	ganttService    GanttServiceInterface
}

func NewListHandler(listService ListServiceInterface, calendarService CalendarServiceInterface, ganttService GanttServiceInterface) *ListHandler {
	return &ListHandler{
		listService:     listService,
		calendarService: calendarService,
		ganttService:    ganttService,
	}
}

func (h *ListHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateListRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	list, err := h.listService.Create(context.Background(), req.Name, userID, req.TeamID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("not a member of this team")
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound("team not found")
		default:
			c.InternalServerError("failed to create list")
		}
		return
	}

	_ = c.JSON(201, list)
}

func (h *ListHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	lists, err := h.listService.GetUserLists(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get lists")
		return
	}

	_ = c.JSON(200, lists)
}

func (h *ListHandler) Rename(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	var req dto.RenameListRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	list, err := h.listService.Rename(context.Background(), listID, userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListNotFound):
			c.NotFound("list not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("you cannot rename this list")
		default:
			c.InternalServerError("failed to rename list")
		}
		return
	}

	_ = c.JSON(200, list)
}

func (h *ListHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	if err := h.listService.Delete(context.Background(), listID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrListNotFound):
			c.NotFound("list not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("you cannot delete this list")
		case errors.Is(err, services.ErrLastList):
			c.BadRequest("you cannot delete your last list")
		default:
			c.InternalServerError("failed to delete list")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "list deleted"})
}

// Calendar serves the list as an iCalendar feed.
func (h *ListHandler) Calendar(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	ics, err := h.calendarService.RenderListCalendar(context.Background(), userID, listID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListNotFound):
			c.NotFound("list not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("you cannot access this list")
		default:
			c.InternalServerError("failed to render calendar")
		}
		return
	}

	c.Response.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	c.Response.WriteHeader(http.StatusOK)
	_, _ = c.Response.Write([]byte(ics))
}

func (h *ListHandler) Gantt(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	tasks, err := h.ganttService.GetListChart(context.Background(), userID, listID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListNotFound):
			c.NotFound("list not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("you cannot access this list")
		default:
			c.InternalServerError("failed to build chart")
		}
		return
	}

	_ = c.JSON(200, tasks)
}
