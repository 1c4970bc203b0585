package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sender is the outbound mail dependency; satisfied by infra.Mailer.
type Sender interface {
	Send(to, subject, body string) error
}

// StockAlertWorker emails the configured recipient when a raw roll
// drops to or below the low-stock threshold.
type StockAlertWorker struct {
	mailer Sender
	to     string
}

func NewStockAlertWorker(mailer Sender, to string) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, to: to}
}

func (w *StockAlertWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var p LowStockAlertPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("unmarshal stock alert payload: %w", err)
	}
	if w.to == "" {
		// No recipient configured; drop silently in development setups.
		log.Debug().Str("paper_code", p.PaperCode).Msg("low stock alert skipped, no recipient configured")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", p.PaperCode)
	body := fmt.Sprintf(
		"Roll %s (%s) is running low.\n\nRemaining: %s m\n\nPlease arrange a replenishment purchase.\n",
		p.PaperCode, p.ProductCode, p.AvailableQty,
	)
	if err := w.mailer.Send(w.to, subject, body); err != nil {
		return fmt.Errorf("send stock alert email: %w", err)
	}
	log.Info().Str("paper_code", p.PaperCode).Str("to", w.to).Msg("low stock alert sent")
	return nil
}
