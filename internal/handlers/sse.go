package handlers

import (
	"context"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// AccessCheckerInterface defines the access checks used by the SSE handler
type AccessCheckerInterface interface {
	HasAccessToList(ctx context.Context, userID, listID uuid.UUID) (bool, error)
}

type SSEHandler struct {
	hub    *sse.Hub
	access AccessCheckerInterface
}

func NewSSEHandler(hub *sse.Hub, access AccessCheckerInterface) *SSEHandler {
	return &SSEHandler{hub: hub, access: access}
}

// Connect opens the event stream. The client always receives its own
// user-scoped events; list streams are added with an optional ?list_id query
// parameter or a later subscribe call.
func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	lists := make(map[uuid.UUID]bool)
	if raw := c.QueryParam("list_id"); raw != "" {
		listID, err := uuid.Parse(raw)
		if err != nil {
			c.BadRequest("invalid list id")
			return
		}
		ok, err := h.access.HasAccessToList(context.Background(), userID, listID)
		if err != nil || !ok {
			c.NotFound("list not found")
			return
		}
		lists[listID] = true
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Lists:  lists,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	ok, err := h.access.HasAccessToList(context.Background(), userID, listID)
	if err != nil || !ok {
		c.NotFound("list not found")
		return
	}

	h.hub.SubscribeToList(clientID, listID)
	_ = c.JSON(200, map[string]string{"message": "subscribed"})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	h.hub.UnsubscribeFromList(clientID, listID)
	_ = c.JSON(200, map[string]string{"message": "unsubscribed"})
}
