package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/angkormart/angkormart-backend/pkg/auth"
	"github.com/angkormart/angkormart-backend/pkg/auth/session"
	"github.com/angkormart/angkormart-backend/pkg/config"
)

type stubSessionChecker struct {
	known map[string]bool
	err   error
}

func (s *stubSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[accessID], nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "angkormart-test",
		ExpirationMinutes: 10,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, jti string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsUserContext(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()
	jti := session.NewAccessID()
	checker := &stubSessionChecker{known: map[string]bool{jti: true}}

	var seen string
	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, userID, jti))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if seen != userID.String() {
		t.Fatalf("user id = %q, want %q", seen, userID)
	}
}

func TestAuthRejectsMissingOrBadTokens(t *testing.T) {
	cfg := authTestConfig()
	checker := &stubSessionChecker{known: map[string]bool{}}
	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	cases := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no header", func(r *http.Request) {}},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-jwt") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := authTestConfig()
	checker := &stubSessionChecker{known: map[string]bool{}}
	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, uuid.New(), session.NewAccessID()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
