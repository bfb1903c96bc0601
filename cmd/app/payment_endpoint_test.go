package main

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const notifyKey = "SB-Mid-server-test"

type pendingPayments struct{}

func (pendingPayments) CreatePending(ctx context.Context, orderID int64, amount decimal.Decimal, provider, ref string, payload []byte) (int64, error) {
	return 1, nil
}

func (pendingPayments) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	return &model.Payment{PaymentID: 1, OrderID: orderID, PaymentStatus: model.PaymentPending}, nil
}

func (pendingPayments) MarkPaid(ctx context.Context, orderID int64, payload []byte) error {
	return nil
}

type brokenCheckout struct{}

func (brokenCheckout) WithTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	return errors.New("connection reset")
}

func postNotification(t *testing.T, cs services.CheckoutStore, signature string) (int, string) {
	t.Helper()
	orders := services.NewOrderService(cs, newShopStore())
	ps := services.NewPaymentService(pendingPayments{}, orders, nil, notifyKey)
	e := echo.New()
	registerPaymentRoutes(e.Group("/api"), ps)

	ref := "ORDER-4-abc"
	if signature == "" {
		sum := sha512.Sum512([]byte(ref + "200" + "25.00" + notifyKey))
		signature = hex.EncodeToString(sum[:])
	}
	body, _ := json.Marshal(map[string]string{
		"order_id":           ref,
		"status_code":        "200",
		"gross_amount":       "25.00",
		"signature_key":      signature,
		"transaction_status": "expire",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notification", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp.Status
}

func TestPaymentNotificationStatus(t *testing.T) {
	tests := []struct {
		name       string
		store      services.CheckoutStore
		signature  string
		wantCode   int
		wantStatus string
	}{
		{"processed", newShopStore(), "", http.StatusOK, "ok"},
		{"bad signature", newShopStore(), "deadbeef", http.StatusOK, "ignored"},
		{"store failure is redelivered", brokenCheckout{}, "", http.StatusInternalServerError, "retry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := postNotification(t, tt.store, tt.signature)
			if code != tt.wantCode || status != tt.wantStatus {
				t.Errorf("got %d %q, want %d %q", code, status, tt.wantCode, tt.wantStatus)
			}
		})
	}
}
