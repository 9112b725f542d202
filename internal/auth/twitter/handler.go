package twitter

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/globelend/waitlist-manager/internal/auth"
)

const (
	stateCookie    = "tw_state"
	verifierCookie = "tw_code_verifier"

	// flowMaxAge bounds how long a started login can be completed, in seconds.
	flowMaxAge = 900
)

// Login error codes appended to the waitlist page on failure.
const (
	ErrMissingParams  = "missing_params"
	ErrStateMismatch  = "state_mismatch"
	ErrCallbackFailed = "callback_failed"
)

// Handler serves the login start and callback endpoints.
type Handler struct {
	provider      *Provider
	gate          *auth.Gate
	baseURL       string
	secureCookies bool
}

func NewHandler(provider *Provider, gate *auth.Gate, baseURL string, secureCookies bool) *Handler {
	return &Handler{
		provider:      provider,
		gate:          gate,
		baseURL:       strings.TrimRight(baseURL, "/"),
		secureCookies: secureCookies,
	}
}

// Start stores a fresh state and PKCE verifier and redirects to the provider.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if !h.provider.Enabled() {
		http.Error(w, "social login is not configured", http.StatusServiceUnavailable)
		return
	}
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	http.SetCookie(w, h.flowCookie(stateCookie, state, flowMaxAge))
	http.SetCookie(w, h.flowCookie(verifierCookie, verifier, flowMaxAge))
	http.Redirect(w, r, h.provider.AuthCodeURL(state, verifier), http.StatusFound)
}

// Callback completes the login, issues the session and returns to the waitlist page.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, code := q.Get("state"), q.Get("code")
	if state == "" || code == "" {
		h.fail(w, r, ErrMissingParams)
		return
	}

	storedState, _ := r.Cookie(stateCookie)
	verifier, _ := r.Cookie(verifierCookie)
	if storedState == nil || verifier == nil || storedState.Value != state {
		h.fail(w, r, ErrStateMismatch)
		return
	}

	id, err := h.provider.Exchange(r.Context(), code, verifier.Value)
	if err != nil {
		slog.Default().ErrorContext(r.Context(), "social login callback failed",
			slog.String("err", err.Error()),
		)
		h.fail(w, r, ErrCallbackFailed)
		return
	}

	if err := h.gate.IssueSession(w, id); err != nil {
		slog.Default().ErrorContext(r.Context(), "can't issue session",
			slog.String("err", err.Error()),
		)
		h.fail(w, r, ErrCallbackFailed)
		return
	}
	h.clearFlow(w)
	http.Redirect(w, r, h.baseURL+"/waitlist", http.StatusFound)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, code string) {
	h.clearFlow(w)
	http.Redirect(w, r, h.baseURL+"/waitlist?error="+url.QueryEscape(code), http.StatusFound)
}

func (h *Handler) clearFlow(w http.ResponseWriter) {
	http.SetCookie(w, h.flowCookie(stateCookie, "", -1))
	http.SetCookie(w, h.flowCookie(verifierCookie, "", -1))
}

func (h *Handler) flowCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
