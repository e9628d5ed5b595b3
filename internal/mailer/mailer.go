package mailer

import (
	"fmt"
	"net/smtp"

	"delicias-backend/internal/models"
)

// Mailer sends buyer-facing notification emails over SMTP
type Mailer struct {
	addr string
	from string
}

// New creates a new Mailer
func New(addr, from string) *Mailer {
	return &Mailer{addr: addr, from: from}
}

// SendOrderConfirmation emails the buyer after the gateway approves payment
func (m *Mailer) SendOrderConfirmation(event *models.OrderCompletedEvent) error {
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"Subject: Confirmación de pedido %s\r\n"+
			"\r\n"+
			"¡Gracias por tu compra en Delicias de Meme!\r\n"+
			"Tu pago por $%.0f fue aprobado.\r\n"+
			"Número de pedido: %s\r\n",
		event.PayerEmail, event.ExternalReference,
		event.TotalPrice, event.ExternalReference))

	if err := smtp.SendMail(m.addr, nil, m.from, []string{event.PayerEmail}, msg); err != nil {
		return fmt.Errorf("failed to send confirmation mail: %w", err)
	}
	return nil
}

// SendOrderCancelled emails the buyer after a rejected or cancelled payment
func (m *Mailer) SendOrderCancelled(event *models.OrderCancelledEvent) error {
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"Subject: Pedido %s no procesado\r\n"+
			"\r\n"+
			"Tu pago para el pedido %s no pudo ser procesado.\r\n"+
			"Motivo: %s\r\n"+
			"Puedes intentarlo nuevamente desde la tienda.\r\n",
		event.PayerEmail, event.ExternalReference,
		event.ExternalReference, event.Reason))

	if err := smtp.SendMail(m.addr, nil, m.from, []string{event.PayerEmail}, msg); err != nil {
		return fmt.Errorf("failed to send cancellation mail: %w", err)
	}
	return nil
}
