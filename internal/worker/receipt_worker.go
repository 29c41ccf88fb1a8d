package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"minimart/internal/infra"
	"minimart/internal/model"
	"minimart/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReceiptEmailPayload is the job envelope sent to QueueReceiptEmail.
type ReceiptEmailPayload struct {
	OrderNumber string `json:"order_number"`
	To          string `json:"to"`
}

// ReceiptMailer sends a rendered receipt.
type ReceiptMailer interface {
	SendReceipt(to, subject, body, fileName string, pdf []byte) error
}

// ReceiptWorker renders journalled receipts to PDF and mails them.
type ReceiptWorker struct {
	receipts    repository.ReceiptRepository
	mailer      ReceiptMailer
	layout      infra.ReceiptLayout
	storagePath string
}

func NewReceiptWorker(receipts repository.ReceiptRepository, mailer ReceiptMailer, layout infra.ReceiptLayout, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{receipts: receipts, mailer: mailer, layout: layout, storagePath: storagePath}
}

// Process implements Handler.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p ReceiptEmailPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Permanent(err)
	}
	if p.To == "" {
		log.Warn().Str("order", p.OrderNumber).Msg("receipt_worker: empty recipient, skipping")
		return nil
	}

	entry, err := w.receipts.FindByOrderNumber(ctx, p.OrderNumber)
	if errors.Is(err, repository.ErrReceiptNotFound) {
		return Permanent(err)
	}
	if err != nil {
		return err
	}
	var r model.Receipt
	if err := json.Unmarshal([]byte(entry.Body), &r); err != nil {
		return Permanent(fmt.Errorf("receipt %s: corrupt journal body: %w", p.OrderNumber, err))
	}

	pdf, err := infra.RenderReceiptPDF(&r, w.layout)
	if err != nil {
		return Permanent(err)
	}
	if entry.PDFPath == nil && w.storagePath != "" {
		if path, err := infra.SaveReceiptPDF(w.storagePath, r.OrderNumber, pdf); err == nil {
			entry.PDFPath = &path
		} else {
			log.Warn().Err(err).Str("order", p.OrderNumber).Msg("receipt_worker: could not archive PDF")
		}
	}

	subject := fmt.Sprintf("%s receipt %s", w.layout.StoreName, r.OrderNumber)
	body := fmt.Sprintf("Thank you for your purchase.\nTotal: %s%s\n", w.layout.Currency, r.Totals.Total.StringFixed(2))
	if err := w.mailer.SendReceipt(p.To, subject, body, infra.ReceiptFileName(r.OrderNumber), pdf); err != nil {
		if errors.Is(err, infra.ErrMailerDisabled) {
			return Permanent(err)
		}
		log.Error().Err(err).Str("to", p.To).Msg("receipt_worker: failed to send email")
		return err
	}

	to := p.To
	entry.EmailedTo = &to
	if err := w.receipts.Update(ctx, entry); err != nil {
		log.Warn().Err(err).Str("order", p.OrderNumber).Msg("receipt_worker: could not mark receipt as emailed")
	}
	log.Info().Str("to", p.To).Str("order", p.OrderNumber).Msg("receipt_worker: receipt sent")
	return nil
}
