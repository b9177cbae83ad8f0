// Package notify sends the transactional emails of the marketplace: order
// invoices, onboarding instructions, rejections and verification codes.
package notify

import (
	"context"
	"log/slog"

	"dinedash-server/models"
)

// Sender delivers one notification per call. Callers treat failures as
// non-fatal: the action that triggered the mail has already happened.
type Sender interface {
	SendInvoice(ctx context.Context, order *models.Order) error
	SendPartnerInstruction(ctx context.Context, email, name string) error
	SendRiderInstruction(ctx context.Context, email, name string) error
	SendRejection(ctx context.Context, email, name string) error
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogSender writes notifications to the logger instead of mailing them. It
// is used when no SMTP account is configured.
type LogSender struct {
	log *slog.Logger
}

var _ Sender = (*LogSender)(nil)

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendInvoice(ctx context.Context, order *models.Order) error {
	s.log.InfoContext(ctx, "invoice", "to", order.Email, "order_id", order.ID, "total", order.OrderTotal)
	return nil
}

func (s *LogSender) SendPartnerInstruction(ctx context.Context, email, name string) error {
	s.log.InfoContext(ctx, "partner instruction", "to", email, "name", name)
	return nil
}

func (s *LogSender) SendRiderInstruction(ctx context.Context, email, name string) error {
	s.log.InfoContext(ctx, "rider instruction", "to", email, "name", name)
	return nil
}

func (s *LogSender) SendRejection(ctx context.Context, email, name string) error {
	s.log.InfoContext(ctx, "rejection", "to", email, "name", name)
	return nil
}

// SendVerificationCode logs the recipient only; the code stays out of logs.
func (s *LogSender) SendVerificationCode(ctx context.Context, email, _ string) error {
	s.log.InfoContext(ctx, "verification code", "to", email)
	return nil
}
