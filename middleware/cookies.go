package middleware

import (
	"net/http"
	"time"

	goToken "github.com/MrEthical07/goToken"
)

// CookieConfig names and scopes the cookies carrying a token pair.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	// RefreshPath limits the refresh cookie to the refresh and logout endpoints.
	RefreshPath string
	Domain      string
	Secure      bool
	SameSite    http.SameSite
}

// DefaultCookieConfig returns HttpOnly, Secure, SameSite=Strict cookies.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		AccessName:  "access_token",
		RefreshName: "refresh_token",
		RefreshPath: "/auth",
		Secure:      true,
		SameSite:    http.SameSiteStrictMode,
	}
}

// SetTokenCookies writes both tokens as HttpOnly cookies expiring with the tokens.
func SetTokenCookies(w http.ResponseWriter, cfg CookieConfig, pair goToken.TokenPair) {
	http.SetCookie(w, cfg.cookie(cfg.AccessName, "/", pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, cfg.cookie(cfg.RefreshName, cfg.refreshPath(), pair.RefreshToken, pair.RefreshExpiresAt))
}

// ClearTokenCookies expires both cookies on the client.
func ClearTokenCookies(w http.ResponseWriter, cfg CookieConfig) {
	for _, c := range []*http.Cookie{
		cfg.cookie(cfg.AccessName, "/", "", time.Unix(0, 0)),
		cfg.cookie(cfg.RefreshName, cfg.refreshPath(), "", time.Unix(0, 0)),
	} {
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

// RefreshTokenFromRequest reads the refresh cookie.
func RefreshTokenFromRequest(r *http.Request, cfg CookieConfig) (string, bool) {
	return cookieToken(r, cfg.RefreshName)
}

// AccessTokenFromRequest reads the bearer header, then the access cookie.
func AccessTokenFromRequest(r *http.Request, cfg CookieConfig) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	return cookieToken(r, cfg.AccessName)
}

func (cfg CookieConfig) refreshPath() string {
	if cfg.RefreshPath == "" {
		return "/"
	}
	return cfg.RefreshPath
}

func (cfg CookieConfig) cookie(name, path, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   cfg.Domain,
		Expires:  expires,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	}
}
