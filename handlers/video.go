package handlers

import (
	"net/url"

	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/services/video"

	"github.com/gofiber/fiber/v2"
)

type VideoHandler struct {
	service *video.Service
}

func NewVideoHandler(service *video.Service) *VideoHandler {
	return &VideoHandler{service: service}
}

// Transcribe accepts a batch of videos in any mix of ID and URL form
// and returns per-item results.
func (h *VideoHandler) Transcribe(c *fiber.Ctx) error {
	var req models.TranscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput("VideoHandler.Transcribe", err, "Invalid request body")
	}

	result, err := h.service.TranscribeBatch(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// GetVideo returns the stored record for a video ID or URL-encoded URL.
func (h *VideoHandler) GetVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return errors.InvalidInput("VideoHandler.GetVideo", nil, "ID is required")
	}

	// The path segment may be a percent-encoded full URL.
	if decoded, err := url.QueryUnescape(id); err == nil {
		id = decoded
	}

	record, err := h.service.Lookup(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}
