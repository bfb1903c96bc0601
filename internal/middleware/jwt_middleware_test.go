package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, tokens *Tokens, header, target string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		cl := GetClaims(c)
		return c.JSON(http.StatusOK, map[string]interface{}{"uid": cl.UserID, "role": cl.Role})
	}
	e.GET("/p", h, append([]echo.MiddlewareFunc{tokens.Middleware()}, mws...)...)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, err := tokens.Generate(42, "ana@example.com", "user")
	if err != nil {
		t.Fatal(err)
	}
	cl, err := tokens.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if cl.UserID != 42 || cl.Email != "ana@example.com" || cl.Role != "user" {
		t.Fatalf("claims = %+v", cl)
	}
	if cl.IsAdmin() {
		t.Fatal("user must not be admin")
	}
}

func TestParseRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	other, _ := NewTokens("other", time.Hour).Generate(1, "a@b.co", "admin")
	if _, err := tokens.Parse(other); err == nil {
		t.Error("token signed with another secret accepted")
	}
	expired, _ := NewTokens("secret", -time.Minute).Generate(1, "a@b.co", "admin")
	if _, err := tokens.Parse(expired); err == nil {
		t.Error("expired token accepted")
	}
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	userTok, _ := tokens.Generate(7, "u@x.es", "user")
	adminTok, _ := tokens.Generate(1, "a@x.es", "admin")

	tests := []struct {
		name   string
		header string
		target string
		admin  bool
		want   int
	}{
		{"missing", "", "/p", false, http.StatusUnauthorized},
		{"malformed", "Token abc", "/p", false, http.StatusUnauthorized},
		{"garbage", "Bearer abc", "/p", false, http.StatusUnauthorized},
		{"user ok", "Bearer " + userTok, "/p", false, http.StatusOK},
		{"query token", "", "/p?token=" + userTok, false, http.StatusOK},
		{"user on admin route", "Bearer " + userTok, "/p", true, http.StatusForbidden},
		{"admin on admin route", "Bearer " + adminTok, "/p", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mws []echo.MiddlewareFunc
			if tt.admin {
				mws = append(mws, AdminOnly)
			}
			rec := serve(t, tokens, tt.header, tt.target, mws...)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
