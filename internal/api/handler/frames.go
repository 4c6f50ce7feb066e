package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// 10MB, same bound as a generous camera snapshot
const maxFrameBytes = 10 * 1024 * 1024

var validFrameTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// FramePipeline runs one frame through detection and decision-making.
type FramePipeline interface {
	ProcessFrame(ctx context.Context, frame []byte) ([]domain.AccessDecision, error)
}

type FrameHandler struct {
	pipeline FramePipeline
	logger   *slog.Logger
}

func NewFrameHandler(pipeline FramePipeline, logger *slog.Logger) *FrameHandler {
	return &FrameHandler{pipeline: pipeline, logger: logger}
}

// Process POST /v1/frames — accepts a raw JPEG or PNG body and returns
// the decisions produced for that frame. During an active registration
// session the frame drives the session instead and the decision list is
// empty.
func (h *FrameHandler) Process(c *fiber.Ctx) error {
	contentType := c.Get(fiber.HeaderContentType)
	if !validFrameTypes[contentType] {
		return domain.ErrValidationFailed.WithError(errors.New("content type must be image/jpeg or image/png"))
	}

	frame := c.Body()
	if len(frame) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("empty frame body"))
	}
	if len(frame) > maxFrameBytes {
		return domain.ErrValidationFailed.WithError(errors.New("frame exceeds maximum size"))
	}

	decisions, err := h.pipeline.ProcessFrame(c.Context(), frame)
	if err != nil {
		return err
	}

	if decisions == nil {
		decisions = []domain.AccessDecision{}
	}
	return c.JSON(fiber.Map{"decisions": decisions})
}
