package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ws"
)

// IdentityStore is the slice of the repository the identity routes need.
type IdentityStore interface {
	List(ctx context.Context) ([]domain.Identity, error)
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
	UpdateAccessWindow(ctx context.Context, name string, window domain.AccessWindow) error
	GetThumbnail(ctx context.Context, name string) ([]byte, error)
}

// GalleryRefresher triggers an immediate snapshot reload after a
// mutation, so the matcher stops seeing deleted or renamed identities
// before the next interval tick.
type GalleryRefresher interface {
	Refresh(ctx context.Context) error
}

// Broadcaster pushes identity-change events to connected observers.
type Broadcaster interface {
	Broadcast(eventType ws.EventType, data interface{})
}

type IdentityHandler struct {
	store   IdentityStore
	gallery GalleryRefresher
	hub     Broadcaster
	logger  *slog.Logger
}

func NewIdentityHandler(store IdentityStore, gallery GalleryRefresher, hub Broadcaster, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		store:   store,
		gallery: gallery,
		hub:     hub,
		logger:  logger,
	}
}

// IdentityResponse is one enrolled identity as returned by the API.
type IdentityResponse struct {
	Name        string `json:"name"`
	AccessStart string `json:"access_start"`
	AccessEnd   string `json:"access_end"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// RenameRequest body for the rename endpoint.
type RenameRequest struct {
	NewName string `json:"new_name"`
}

// AccessWindowRequest body for the access-window endpoint.
type AccessWindowRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// List GET /v1/identities
func (h *IdentityHandler) List(c *fiber.Ctx) error {
	identities, err := h.store.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]IdentityResponse, 0, len(identities))
	for _, identity := range identities {
		resp := IdentityResponse{
			Name:        identity.Name,
			AccessStart: identity.AccessStart,
			AccessEnd:   identity.AccessEnd,
		}
		if len(identity.Thumbnail) > 0 {
			resp.Thumbnail = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(identity.Thumbnail)
		}
		if !identity.CreatedAt.IsZero() {
			resp.CreatedAt = identity.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		if !identity.UpdatedAt.IsZero() {
			resp.UpdatedAt = identity.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, resp)
	}

	return c.JSON(fiber.Map{"identities": out})
}

// Delete DELETE /v1/identities/:name
func (h *IdentityHandler) Delete(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	if err := h.store.Delete(c.Context(), name); err != nil {
		return err
	}

	h.refreshGallery(c.Context())
	h.hub.Broadcast(ws.EventIdentityDeleted, fiber.Map{"name": name})
	h.logger.Info("identity deleted", "name", name)

	return c.SendStatus(fiber.StatusNoContent)
}

// Rename PUT /v1/identities/:name/name
func (h *IdentityHandler) Rename(c *fiber.Ctx) error {
	oldName := strings.TrimSpace(c.Params("name"))
	if oldName == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	var req RenameRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidRequest.WithError(err)
	}
	newName := strings.TrimSpace(req.NewName)
	if newName == "" {
		return domain.ErrValidationFailed.WithError(errors.New("new_name is required"))
	}

	if err := h.store.Rename(c.Context(), oldName, newName); err != nil {
		return err
	}

	h.refreshGallery(c.Context())
	h.hub.Broadcast(ws.EventIdentityRenamed, fiber.Map{"old_name": oldName, "new_name": newName})
	h.logger.Info("identity renamed", "old_name", oldName, "new_name", newName)

	return c.JSON(fiber.Map{"name": newName})
}

// UpdateAccessWindow PUT /v1/identities/:name/access-window
func (h *IdentityHandler) UpdateAccessWindow(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	var req AccessWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidRequest.WithError(err)
	}

	window := domain.AccessWindow{Start: strings.TrimSpace(req.Start), End: strings.TrimSpace(req.End)}
	if !window.Valid() {
		return domain.ErrInvalidAccessWindow
	}

	if err := h.store.UpdateAccessWindow(c.Context(), name, window); err != nil {
		return err
	}

	h.refreshGallery(c.Context())
	h.logger.Info("access window updated", "name", name, "start", window.Start, "end", window.End)

	return c.JSON(fiber.Map{"name": name, "access_start": window.Start, "access_end": window.End})
}

// Thumbnail GET /v1/identities/:name/thumbnail
func (h *IdentityHandler) Thumbnail(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	thumbnail, err := h.store.GetThumbnail(c.Context(), name)
	if err != nil {
		return err
	}
	if len(thumbnail) == 0 {
		return domain.ErrNotFound
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(thumbnail)
}

func (h *IdentityHandler) refreshGallery(ctx context.Context) {
	if err := h.gallery.Refresh(ctx); err != nil {
		h.logger.Warn("gallery refresh after mutation failed", "error", err)
	}
}
