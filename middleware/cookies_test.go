package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goToken "github.com/MrEthical07/goToken"
)

func TestSetAndReadTokenCookies(t *testing.T) {
	cfg := DefaultCookieConfig()
	pair := goToken.TokenPair{
		AccessToken:      "access",
		RefreshToken:     "refresh",
		AccessExpiresAt:  time.Now().Add(time.Minute),
		RefreshExpiresAt: time.Now().Add(time.Hour),
	}

	rr := httptest.NewRecorder()
	SetTokenCookies(rr, cfg, pair)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode {
			t.Fatalf("cookie %q missing hardening flags", c.Name)
		}
	}
	if cookies[1].Name != cfg.RefreshName || cookies[1].Path != "/auth" {
		t.Fatalf("unexpected refresh cookie %+v", cookies[1])
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if token, ok := RefreshTokenFromRequest(req, cfg); !ok || token != "refresh" {
		t.Fatalf("unexpected refresh token %q", token)
	}
	if token, ok := AccessTokenFromRequest(req, cfg); !ok || token != "access" {
		t.Fatalf("unexpected access token %q", token)
	}

	req.Header.Set("Authorization", "Bearer header-token")
	if token, _ := AccessTokenFromRequest(req, cfg); token != "header-token" {
		t.Fatalf("expected bearer header to win, got %q", token)
	}
}

func TestClearTokenCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	ClearTokenCookies(rr, DefaultCookieConfig())

	for _, c := range rr.Result().Cookies() {
		if c.MaxAge >= 0 || c.Value != "" {
			t.Fatalf("expected cookie %q to be expired, got %+v", c.Name, c)
		}
	}
}
