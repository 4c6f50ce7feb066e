package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// RegistrationStarter begins an enrollment session.
type RegistrationStarter interface {
	Start(name string) error
}

type RegistrationHandler struct {
	registrar RegistrationStarter
	logger    *slog.Logger
}

func NewRegistrationHandler(registrar RegistrationStarter, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrar: registrar, logger: logger}
}

// StartRequest body for starting a registration.
type StartRequest struct {
	Name string `json:"name"`
}

// Start POST /v1/registrations — begins enrollment for a name. Session
// progress is observable only on the websocket feed; an already-active
// session is overwritten.
func (h *RegistrationHandler) Start(c *fiber.Ctx) error {
	var req StartRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidRequest.WithError(err)
	}

	name := strings.TrimSpace(req.Name)
	if err := h.registrar.Start(name); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"name": name, "status": "registering"})
}
