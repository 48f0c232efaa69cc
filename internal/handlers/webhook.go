package handlers

import (
	"context"
	"errors"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type WebhookHandler struct {
	webhookService WebhookServiceInterface
}

func NewWebhookHandler(webhookService WebhookServiceInterface) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

func (h *WebhookHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateWebhookRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	webhook, err := h.webhookService.Create(context.Background(), req.Name, req.URL, req.Event)
	if err != nil {
		c.InternalServerError("failed to create webhook")
		return
	}

	_ = c.JSON(201, webhook)
}

func (h *WebhookHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	webhooks, err := h.webhookService.GetAll(context.Background())
	if err != nil {
		c.InternalServerError("failed to get webhooks")
		return
	}

	_ = c.JSON(200, webhooks)
}

func (h *WebhookHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	webhookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid webhook id")
		return
	}

	if err := h.webhookService.Delete(context.Background(), webhookID); err != nil {
		if errors.Is(err, services.ErrWebhookNotFound) {
			c.NotFound("webhook not found")
			return
		}
		c.InternalServerError("failed to delete webhook")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "webhook deleted"})
}
