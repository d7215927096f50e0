package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angkormart/angkormart-backend/internal/auth"
	"github.com/angkormart/angkormart-backend/internal/users"
	pkgauth "github.com/angkormart/angkormart-backend/pkg/auth"
	"github.com/angkormart/angkormart-backend/pkg/auth/session"
	"github.com/angkormart/angkormart-backend/pkg/config"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
)

type stubAuthService struct {
	registered  *auth.RegisterRequest
	loginResult *auth.LoginResponse
	refreshed   *auth.TokenPair
	loggedOut   string
	err         error
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = &req
	return &users.UserDTO{ID: uuid.New(), Email: req.Email}, nil
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResult, s.err
}

func (s *stubAuthService) Refresh(_ context.Context, _ auth.RefreshRequest) (*auth.TokenPair, error) {
	return s.refreshed, s.err
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func TestAuthRegisterCreatesAndLogsIn(t *testing.T) {
	svc := &stubAuthService{
		loginResult: &auth.LoginResponse{AccessToken: "at", RefreshToken: "rt"},
	}
	handler := AuthRegister(svc, nil)

	body := `{"email":"new@example.com","username":"newbie","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.registered == nil || svc.registered.Email != "new@example.com" {
		t.Fatalf("register not called with body: %+v", svc.registered)
	}
}

func TestAuthRegisterValidatesBody(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	cases := []string{
		`{"email":"not-an-email","username":"ok","password":"password123"}`,
		`{"email":"a@b.com","username":"x","password":"password123"}`,
		`{"email":"a@b.com","username":"okname","password":"short"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"a@b.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthRefreshRequiresBearer(t *testing.T) {
	handler := AuthRefresh(&stubAuthService{refreshed: &auth.TokenPair{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"rt"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthLogoutPassesJTI(t *testing.T) {
	cfg := config.JWTConfig{Secret: "s", Issuer: "i", ExpirationMinutes: 5}
	jti := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	svc := &stubAuthService{}
	handler := AuthLogout(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.loggedOut != jti {
		t.Fatalf("logout jti = %q, want %q", svc.loggedOut, jti)
	}
}
