package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	claimHandle  = "handle"
	claimName    = "name"
	claimPicture = "picture"
)

// Session is the identity carried by a session token. Subject is the
// identity provider's stable user id.
type Session struct {
	Subject string
	Handle  string
	Name    string
	Picture string
}

func New(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// VerifySession checks signature and expiry and returns the session claims.
func VerifySession(jwtAuth *jwtauth.JWTAuth, token string) (Session, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return Session{}, err
	}
	if t.Subject() == "" {
		return Session{}, errors.New("token has no subject")
	}
	return Session{
		Subject: t.Subject(),
		Handle:  stringClaim(t.PrivateClaims(), claimHandle),
		Name:    stringClaim(t.PrivateClaims(), claimName),
		Picture: stringClaim(t.PrivateClaims(), claimPicture),
	}, nil
}

// NewSessionToken signs a session valid for ttl.
func NewSessionToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, s Session) (string, error) {
	if s.Subject == "" {
		return "", errors.New("session subject is required")
	}
	now := time.Now()
	claims := map[string]interface{}{
		"sub": s.Subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if s.Handle != "" {
		claims[claimHandle] = s.Handle
	}
	if s.Name != "" {
		claims[claimName] = s.Name
	}
	if s.Picture != "" {
		claims[claimPicture] = s.Picture
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return ts, err
	}
	return ts, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
