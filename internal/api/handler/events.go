package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// EventLog exposes the retained decisions, newest first.
type EventLog interface {
	Recent() []domain.AccessDecision
}

type EventsHandler struct {
	log EventLog
}

func NewEventsHandler(log EventLog) *EventsHandler {
	return &EventsHandler{log: log}
}

// List GET /v1/events — the recent decision log, newest first, at most
// 500 entries.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	events := h.log.Recent()
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}
