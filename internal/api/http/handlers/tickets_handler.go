package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/service"
	"github.com/spec-kit/event-ticketing/internal/ticketrender"
)

// TicketsHandler exposes the ticket registry.
type TicketsHandler struct {
	tickets  *service.TicketService
	renderer *ticketrender.Renderer
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, renderer *ticketrender.Renderer) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, renderer: renderer}
}

// Create handles POST /tickets (manual purchase).
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EventID == "" {
		return fiber.NewError(http.StatusBadRequest, "event_id required")
	}

	ticket, err := h.tickets.Create(c.Context(), auth.UserFromContext(c), req.EventID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":            ticket.ID,
			"event_id":      ticket.EventID,
			"purchase_date": ticket.PurchaseDate,
		},
	})
}

// ListMine handles GET /tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	rows, err := h.tickets.ListForAttendee(c.Context(), auth.UserFromContext(c))
	if err != nil {
		return err
	}
	responses := make([]dto.AttendeeTicketResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.NewAttendeeTicketResponse(row))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// ListForOrganizer handles GET /tickets/organizer.
func (h *TicketsHandler) ListForOrganizer(c *fiber.Ctx) error {
	rows, err := h.tickets.ListForOrganizer(c.Context(), auth.UserFromContext(c))
	if err != nil {
		return err
	}
	responses := make([]dto.OrganizerTicketResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.NewOrganizerTicketResponse(row))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Print handles GET /tickets/:id/print, returning the PDF ticket.
func (h *TicketsHandler) Print(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)
	ticket, event, err := h.tickets.GetForHolder(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}

	pdf, err := h.renderer.RenderPDF(ticket, event, user.Username)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ticket-`+ticket.ID+`.pdf"`)
	return c.Send(pdf)
}
