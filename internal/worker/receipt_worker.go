package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt. Generates the PDF ticket for a
// completed sale and, when the cashier captured a customer email, chains an
// email job with the PDF attached. Receipt generation is strictly post-commit:
// a failure here never touches the sale.

import (
	"context"
	"encoding/json"
	"fmt"

	"shopcentral/internal/infra"
	"shopcentral/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string  `json:"sale_id"`
	PointsEarned  int     `json:"points_earned"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	dispatcher  *Dispatcher
	storagePath string
	shopName    string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, dispatcher *Dispatcher, storagePath, shopName string) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:    saleRepo,
		dispatcher:  dispatcher,
		storagePath: storagePath,
		shopName:    shopName,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the Sale (with item snapshots) from DB
//  3. Generate the PDF ticket
//  4. Chain an email job when a customer email was captured
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return nil
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: sale %s not found: %w", payload.SaleID, err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.shopName, w.storagePath, payload.PointsEarned)
	if err != nil {
		return fmt.Errorf("receipt_worker: pdf generation: %w", err)
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail:        *payload.CustomerEmail,
			Subject:        fmt.Sprintf("%s — your receipt", w.shopName),
			Body:           fmt.Sprintf("Thank you for your purchase.\nTotal: KSH %s", sale.Total.StringFixed(2)),
			AttachmentPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		}
	}
	return nil
}
