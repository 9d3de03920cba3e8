package worker

// email_worker.go
// Sends the order confirmation email with the PDF receipt attached.
// Best-effort by design: the order is already committed when this runs, and
// a failed send is retried by the pool, then parked in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solucionesrptech/pasteleria-api/internal/infra"

	"github.com/rs/zerolog/log"
)

// OrderEmailPayload is the job envelope sent to QueueOrderEmail.
type OrderEmailPayload struct {
	ToEmail string        `json:"toEmail"`
	Receipt infra.Receipt `json:"receipt"`
}

type OrderEmailWorker struct {
	mailer *infra.Mailer
}

func NewOrderEmailWorker(mailer *infra.Mailer) *OrderEmailWorker {
	return &OrderEmailWorker{mailer: mailer}
}

func (w *OrderEmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload OrderEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("order_email: invalid payload")
		// Malformed payloads never become valid — do not retry.
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("order_email: empty recipient — skipping")
		return nil
	}

	pdf, err := infra.GenerateReceiptPDF(&payload.Receipt)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.Receipt.OrderID).Msg("order_email: receipt render failed")
		pdf = nil // send the email anyway, without attachment
	}

	subject := "Confirmación de pedido - Pastelería Bella"
	body := fmt.Sprintf(
		"Hola %s,\n\nRecibimos tu pedido por $%d CLP.\n"+
			"Puedes consultar su estado con el código: %s\n\n¡Gracias por tu compra!",
		payload.Receipt.CustomerName, payload.Receipt.TotalCLP, payload.Receipt.PublicToken,
	)

	if err := w.mailer.SendReceipt(payload.ToEmail, subject, body, pdf); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("order_email: send failed")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("order_id", payload.Receipt.OrderID).Msg("order_email: confirmation sent")
	return nil
}
