// Package auth is the identity gate in front of waitlist claims.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/globelend/waitlist-manager/internal/auth/jwt"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

const (
	// SessionCookie holds the session token set after a provider login.
	SessionCookie = "waitlist_session"

	DefaultSessionTTL = 30 * 24 * time.Hour
)

type Config struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieDomain string        `mapstructure:"cookie_domain"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	AdminToken   string        `mapstructure:"admin_token"`
}

// Identity is the authenticated caller as described by the identity provider.
type Identity struct {
	ExternalUserId string `json:"id"`
	Handle         string `json:"username,omitempty"`
	Name           string `json:"name,omitempty"`
	AvatarURL      string `json:"profileImageUrl,omitempty"`
}

// DisplayHandle returns the handle prefixed with "@", or "" when unknown.
func (i Identity) DisplayHandle() string {
	if i.Handle == "" {
		return ""
	}
	return "@" + i.Handle
}

type Gate struct {
	jwtAuth *jwtauth.JWTAuth
	c       Config
}

func New(c Config) (*Gate, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	return &Gate{
		jwtAuth: jwt.New(c.JWTSecret),
		c:       c,
	}, nil
}

// RequireSession returns the caller's identity or gerr.ErrUnauthenticated.
// The token is read from the session cookie, then from a bearer header.
func (g *Gate) RequireSession(r *http.Request) (Identity, error) {
	token := sessionToken(r)
	if token == "" {
		return Identity{}, gerr.ErrUnauthenticated
	}
	s, err := jwt.VerifySession(g.jwtAuth, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", gerr.ErrUnauthenticated, err)
	}
	return Identity{
		ExternalUserId: s.Subject,
		Handle:         s.Handle,
		Name:           s.Name,
		AvatarURL:      s.Picture,
	}, nil
}

// OptionalSession is RequireSession for endpoints where anonymous callers
// are not an error.
func (g *Gate) OptionalSession(r *http.Request) (Identity, bool) {
	id, err := g.RequireSession(r)
	return id, err == nil
}

// IssueSession signs a session for id and sets it as an http-only cookie.
func (g *Gate) IssueSession(w http.ResponseWriter, id Identity) error {
	token, err := jwt.NewSessionToken(g.jwtAuth, g.c.SessionTTL, jwt.Session{
		Subject: id.ExternalUserId,
		Handle:  id.Handle,
		Name:    id.Name,
		Picture: id.AvatarURL,
	})
	if err != nil {
		return fmt.Errorf("new session token: %w", err)
	}
	http.SetCookie(w, g.cookie(token, int(g.c.SessionTTL.Seconds())))
	return nil
}

// ClearSession expires the session cookie.
func (g *Gate) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, g.cookie("", -1))
}

// AdminEnabled reports whether an admin token is configured.
func (g *Gate) AdminEnabled() bool {
	return g.c.AdminToken != ""
}

// IsAdmin reports whether the request carries the configured admin bearer token.
func (g *Gate) IsAdmin(r *http.Request) bool {
	if !g.AdminEnabled() {
		return false
	}
	token := jwtauth.TokenFromHeader(r)
	return subtle.ConstantTimeCompare([]byte(token), []byte(g.c.AdminToken)) == 1
}

func (g *Gate) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		Domain:   g.c.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.c.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(jwtauth.TokenFromHeader(r))
}
