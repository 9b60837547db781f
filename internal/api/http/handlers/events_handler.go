package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/service"
)

// EventsHandler exposes the event catalog.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService}
}

// Create handles POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	event, err := h.events.Create(c.Context(), auth.UserFromContext(c), service.EventCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    domain.EventCategory(req.Category),
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// List handles GET /events. Public; an organizer token narrows the
// listing to the organizer's own events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	input := service.EventListInput{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if search := c.Query("search"); search != "" {
		input.SearchTerm = &search
	}
	if category := c.Query("category"); category != "" {
		cat := domain.EventCategory(category)
		input.Category = &cat
	}

	eventsList, err := h.events.List(c.Context(), auth.UserFromContext(c), input)
	if err != nil {
		return err
	}

	responses := make([]dto.EventResponse, 0, len(eventsList))
	for i := range eventsList {
		responses = append(responses, dto.NewEventResponse(&eventsList[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.events.Get(c.Context(), auth.UserFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.EventDetailResponse{
		EventResponse: dto.NewEventResponse(&detail.Event),
		Tickets:       make([]dto.BasicTicketResponse, 0, len(detail.Tickets)),
		Feedback:      make([]dto.FeedbackResponse, 0, len(detail.Feedback)),
	}
	for _, t := range detail.Tickets {
		resp.Tickets = append(resp.Tickets, dto.BasicTicketResponse{
			ID:               t.Ticket.ID,
			PurchaseDate:     t.Ticket.PurchaseDate,
			AttendeeUsername: t.AttendeeUsername,
		})
	}
	for _, f := range detail.Feedback {
		resp.Feedback = append(resp.Feedback, dto.NewFeedbackResponse(f))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Update handles PATCH /events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	input := service.EventUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Price:       req.Price,
	}
	if req.Category != nil {
		cat := domain.EventCategory(*req.Category)
		input.Category = &cat
	}

	event, err := h.events.Update(c.Context(), auth.UserFromContext(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Delete handles DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.Context(), auth.UserFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
