package sync

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/integration"
	"github.com/billsync/backend/internal/infrastructure/settings"
)

// Webhook topics this service reacts to. Every other topic is acknowledged
// without action.
const (
	TopicOrdersPaid    = "orders/paid"
	TopicRefundsCreate = "refunds/create"
)

// webhookCreditReason tags credit notes issued from refund events
const webhookCreditReason = "refund via webhook"

// WebhookService authenticates inbound storefront events and dispatches
// the accounting action the topic and configuration call for. Downstream
// failures after authentication are logged and swallowed so the sender is
// always acknowledged; its redelivery policy is outside this system's
// control.
type WebhookService struct {
	secret     []byte
	accounting billing.AccountingGateway
	store      settings.Store
	defaults   Defaults
	logger     *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	secret string,
	accounting billing.AccountingGateway,
	store settings.Store,
	defaults Defaults,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		secret:     []byte(secret),
		accounting: accounting,
		store:      store,
		defaults:   defaults,
		logger:     logger,
	}
}

// VerifySignature checks the base64 HMAC-SHA256 signature over the raw,
// unparsed request body in constant time. It must run before any parsing;
// an empty secret or header never verifies.
func (s *WebhookService) VerifySignature(raw []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(raw)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Dispatch reads the event topic and, when the matching automation flag is
// on, issues the corresponding accounting document from the event payload.
// The caller must have verified the signature first. A non-nil return means
// the payload could not be read at all; accounting failures are logged here
// and reported as success so the sender is not retried into a duplicate
// document.
func (s *WebhookService) Dispatch(ctx context.Context, topic string, raw []byte) error {
	if topic != TopicOrdersPaid && topic != TopicRefundsCreate {
		s.logger.Debug("webhook topic ignored", zap.String("topic", topic))
		return nil
	}

	var order integration.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	// An unreadable settings document degrades to the zero value so the
	// static configuration flags still apply.
	current, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Error("failed to read settings, using defaults", zap.Error(err))
		current = settings.Settings{}
	}

	switch topic {
	case TopicOrdersPaid:
		if !AutoInvoiceEnabled(current, s.defaults) {
			s.logger.Debug("auto invoice disabled, order acknowledged without action",
				zap.String("order_ref", order.Ref()))
			return nil
		}
		s.issueInvoice(ctx, &order, current)
	case TopicRefundsCreate:
		if !AutoCreditNoteEnabled(current, s.defaults) {
			s.logger.Debug("auto credit note disabled, refund acknowledged without action",
				zap.String("order_ref", order.Ref()))
			return nil
		}
		s.issueCreditNote(ctx, &order, current)
	}
	return nil
}

func (s *WebhookService) issueInvoice(ctx context.Context, order *integration.Order, current settings.Settings) {
	series := ResolveSeries("", current, s.defaults)
	warehouse := ResolveWarehouse("", current, s.defaults)

	result, err := s.accounting.CreateDocument(ctx, order, billing.DocumentTypeInvoice, warehouse, series, current.SendPDF())
	if err != nil {
		s.logger.Error("webhook invoice creation failed",
			zap.String("order_ref", order.Ref()),
			zap.Error(err))
		return
	}
	s.logger.Info("webhook invoice issued",
		zap.String("order_ref", order.Ref()),
		zap.String("number", result.Number))
}

func (s *WebhookService) issueCreditNote(ctx context.Context, order *integration.Order, current settings.Settings) {
	series := ResolveSeries("", current, s.defaults)
	warehouse := ResolveWarehouse("", current, s.defaults)

	result, err := s.accounting.CreateCreditNote(ctx, order, warehouse, series, webhookCreditReason)
	if err != nil {
		s.logger.Error("webhook credit note creation failed",
			zap.String("order_ref", order.Ref()),
			zap.Error(err))
		return
	}
	s.logger.Info("webhook credit note issued",
		zap.String("order_ref", order.Ref()),
		zap.String("number", result.Number))
}
