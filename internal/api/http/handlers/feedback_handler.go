package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/service"
)

// FeedbackHandler exposes the feedback ledger.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedbackService}
}

// Create handles POST /events/:id/feedback.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	feedback, err := h.feedback.Create(c.Context(), auth.UserFromContext(c), c.Params("id"), service.FeedbackCreateInput{
		Comment: req.Comment,
		Rating:  req.Rating,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":         feedback.ID,
			"event_id":   feedback.EventID,
			"comment":    feedback.Comment,
			"rating":     feedback.Rating,
			"created_at": feedback.CreatedAt,
		},
	})
}

// List handles GET /events/:id/feedback, organizer-only.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	rows, err := h.feedback.ListForEvent(c.Context(), auth.UserFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	responses := make([]dto.FeedbackResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.NewFeedbackResponse(row))
	}
	return c.JSON(fiber.Map{"data": responses})
}
