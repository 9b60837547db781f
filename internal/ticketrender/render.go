// Package ticketrender produces printable PDF tickets carrying an
// HMAC-signed QR payload that door staff can validate offline.
package ticketrender

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// Renderer signs QR payloads and lays out the ticket PDF.
type Renderer struct {
	secret []byte
}

// NewRenderer builds a renderer with the injected signing secret.
func NewRenderer(secret string) *Renderer {
	return &Renderer{secret: []byte(secret)}
}

// QRPayload returns "eventID|ticketID|timestamp|signature".
func (r *Renderer) QRPayload(eventID, ticketID string) string {
	data := fmt.Sprintf("%s|%s|%d", eventID, ticketID, time.Now().Unix())

	h := hmac.New(sha256.New, r.secret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyPayload checks the signature on a scanned QR payload.
func (r *Renderer) VerifyPayload(payload string) bool {
	idx := lastPipe(payload)
	if idx < 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]

	h := hmac.New(sha256.New, r.secret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

// RenderPDF produces an A4 ticket for the given holder.
func (r *Renderer) RenderPDF(ticket *domain.Ticket, event *domain.Event, holder string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(r.QRPayload(event.ID, ticket.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Event Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", event.Date.Format("Mon, 02 Jan 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", event.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Attendee: %s", holder))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Ticket ID: %s", ticket.ID))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("ticket-qr", 10, pdf.GetY(), 60, 60, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func lastPipe(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' {
			return i
		}
	}
	return -1
}
