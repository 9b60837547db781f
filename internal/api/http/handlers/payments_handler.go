package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/service"
)

// PaymentsHandler exposes the payment orchestrator.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: paymentService}
}

// Init handles POST /payments/chapa/init.
func (h *PaymentsHandler) Init(c *fiber.Ctx) error {
	var req dto.InitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EventID == "" {
		return fiber.NewError(http.StatusBadRequest, "event_id required")
	}

	result, err := h.payments.Initialize(c.Context(), auth.UserFromContext(c), req.EventID)
	if err != nil {
		return err
	}
	return c.JSON(dto.InitPaymentResponse{PaymentURL: result.PaymentURL, TxRef: result.TxRef})
}

// Verify handles GET /payments/chapa/verify?tx_ref=…
func (h *PaymentsHandler) Verify(c *fiber.Ctx) error {
	result, err := h.payments.Verify(c.Context(), c.Query("tx_ref"))
	if err != nil {
		return err
	}
	if result.Status != domain.PaymentStatusPaid {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": string(result.Status)})
	}
	return c.JSON(dto.NewPaymentSummaryResponse(result))
}

// Callback handles POST /payments/chapa/callback, the gateway webhook.
// tx_ref may arrive in the body or the query string.
func (h *PaymentsHandler) Callback(c *fiber.Ctx) error {
	var req dto.CallbackRequest
	_ = c.BodyParser(&req)
	txRef := req.TxRef
	if txRef == "" {
		txRef = c.Query("tx_ref")
	}

	result, err := h.payments.Verify(c.Context(), txRef)
	if err != nil {
		return err
	}
	if result.Status != domain.PaymentStatusPaid {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": string(result.Status)})
	}
	return c.JSON(fiber.Map{"status": string(result.Status)})
}

// List handles GET /payments, the caller's payment history.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	payments, err := h.payments.ListForUser(c.Context(), auth.UserFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	responses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, dto.NewPaymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Success handles GET /payment-success?tx_ref=…, the confirmation view.
func (h *PaymentsHandler) Success(c *fiber.Ctx) error {
	result, err := h.payments.Summary(c.Context(), c.Query("tx_ref"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPaymentSummaryResponse(result))
}
