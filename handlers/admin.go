package handlers

import (
	"ytscribe/errors"
	"ytscribe/repository"
	"ytscribe/services/video"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the dashboard endpoints. All routes are mounted
// behind the session guard.
type AdminHandler struct {
	repo    repository.Repository
	service *video.Service
}

func NewAdminHandler(repo repository.Repository, service *video.Service) *AdminHandler {
	return &AdminHandler{repo: repo, service: service}
}

// ListVideos returns every record, most recently updated first.
func (h *AdminHandler) ListVideos(c *fiber.Ctx) error {
	records, err := h.repo.List(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (h *AdminHandler) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return errors.InvalidInput("AdminHandler.GetSetting", nil, "Setting key is required")
	}

	value, err := h.repo.GetSetting(c.Context(), key)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"key": key, "value": value},
	})
}

func (h *AdminHandler) SetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return errors.InvalidInput("AdminHandler.SetSetting", nil, "Setting key is required")
	}

	var body struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errors.InvalidInput("AdminHandler.SetSetting", err, "Invalid request body")
	}

	if err := h.repo.SetSetting(c.Context(), key, body.Value); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"key": key, "value": body.Value},
	})
}

// ResetVideo returns a failed record to pending so a later request
// retries it.
func (h *AdminHandler) ResetVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return errors.InvalidInput("AdminHandler.ResetVideo", nil, "ID is required")
	}

	if err := h.service.Reset(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
