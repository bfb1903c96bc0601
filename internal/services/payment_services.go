package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mt "github.com/MarioL13/TiendaFinal-sub000/external/midtrans"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrPaymentExists    = errors.New("payment already exists")
)

type PaymentStore interface {
	CreatePending(ctx context.Context, orderID int64, amount decimal.Decimal, provider, providerRef string, payload []byte) (int64, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error)
	MarkPaid(ctx context.Context, orderID int64, payload []byte) error
}

// SnapClient is the part of the Midtrans Snap client used here.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type PaymentService struct {
	Payments  PaymentStore
	Orders    *OrderService
	Snap      SnapClient
	ServerKey string
}

func NewPaymentService(pr PaymentStore, os *OrderService, sc SnapClient, serverKey string) *PaymentService {
	return &PaymentService{Payments: pr, Orders: os, Snap: sc, ServerKey: serverKey}
}

// Enabled reports whether a payment gateway is configured.
func (s *PaymentService) Enabled() bool {
	return s != nil && s.Snap != nil
}

// CreateSnapPayment opens a gateway transaction for a freshly confirmed
// online order and returns the redirect URL.
func (s *PaymentService) CreateSnapPayment(ctx context.Context, o *model.OrderSummary) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	if o.PaymentMode != model.PayOnline {
		return "", invalidf("order %d is not an online order", o.OrderID)
	}

	existing, err := s.Payments.GetByOrderID(ctx, o.OrderID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrPaymentExists
	}

	externalRef := fmt.Sprintf("ORDER-%d-%s", o.OrderID, uuid.NewString())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  externalRef,
			GrossAmt: o.Total.Ceil().IntPart(),
		},
	}

	resp, snapErr := s.Snap.CreateTransaction(req)
	if snapErr != nil {
		return "", fmt.Errorf("create snap transaction: %s", snapErr.Message)
	}

	payload, _ := json.Marshal(resp)

	if _, err := s.Payments.CreatePending(ctx, o.OrderID, o.Total, "midtrans", externalRef, payload); err != nil {
		return "", err
	}
	return resp.RedirectURL, nil
}

// HandleNotification processes a gateway webhook. Repeated notifications
// for a payment that is no longer pending are ignored.
func (s *PaymentService) HandleNotification(ctx context.Context, payload map[string]any) error {
	ref, ok := payload["order_id"].(string)
	if !ok {
		return invalidf("missing order_id")
	}

	var orderID int64
	if _, err := fmt.Sscanf(ref, "ORDER-%d-", &orderID); err != nil {
		return invalidf("invalid order reference")
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)
	if !mt.VerifySignature(ref, statusCode, grossAmount, signature, s.ServerKey) {
		return ErrInvalidSignature
	}

	p, err := s.Payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("payment for order %d: %w", orderID, repository.ErrNotFound)
	}
	if p.PaymentStatus != model.PaymentPending {
		return nil
	}

	raw, _ := json.Marshal(payload)
	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)

	switch transactionStatus {
	case "settlement":
		return s.markPaid(ctx, orderID, raw)
	case "capture":
		if fraudStatus == "accept" {
			return s.markPaid(ctx, orderID, raw)
		}
	case "expire", "cancel", "deny":
		return s.markFailed(ctx, orderID, raw)
	}
	return nil
}

func (s *PaymentService) markPaid(ctx context.Context, orderID int64, raw []byte) error {
	if err := s.Payments.MarkPaid(ctx, orderID, raw); err != nil {
		return err
	}
	log.Info().Int64("order_id", orderID).Msg("payment settled")
	return nil
}

// The payment flip and the cancellation commit together. On error the
// payment stays Pending and a redelivered notification retries both.
func (s *PaymentService) markFailed(ctx context.Context, orderID int64, raw []byte) error {
	failed, err := s.Orders.CancelUnpaid(ctx, orderID, raw)
	if err != nil {
		return err
	}
	if failed {
		log.Info().Int64("order_id", orderID).Msg("payment failed")
	}
	return nil
}
