package resend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendHTML(t *testing.T) {
	var got email
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m, err := NewResendMailer("key", "shop@example.com")
	if err != nil {
		t.Fatal(err)
	}
	m.baseURL = srv.URL

	if err := m.SendHTML(context.Background(), "ana@example.com", "Pedido", "<p>hola</p>"); err != nil {
		t.Fatal(err)
	}
	if got.From != "shop@example.com" || len(got.To) != 1 || got.To[0] != "ana@example.com" || got.HTML != "<p>hola</p>" {
		t.Fatalf("request = %+v", got)
	}
}

func TestSendHTMLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"statusCode":429,"name":"rate_limit_exceeded","message":"Too many requests"}`))
	}))
	defer srv.Close()

	m, _ := NewResendMailer("key", "shop@example.com")
	m.baseURL = srv.URL
	err := m.SendHTML(context.Background(), "a@b.co", "s", "h")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests || apiErr.Name != "rate_limit_exceeded" {
		t.Errorf("api error = %+v", apiErr)
	}
}

func TestNewResendMailerRequiresKey(t *testing.T) {
	if _, err := NewResendMailer("", "x"); err == nil {
		t.Fatal("expected error without api key")
	}
}
