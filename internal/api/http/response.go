package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

const (
	msgInvalidPayload = "invalid payload"
	msgInternal       = "failed to process waitlist request"
)

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	ErrorText  string            `json:"error"`
	Details    map[string]string `json:"details,omitempty"`
	RetryAfter int               `json:"retryAfter,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if e.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(e.RetryAfter))
	}
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// errResponse maps the waitlist error taxonomy to a response.
func errResponse(err error) *ErrResponse {
	var (
		ve *gerr.ValidationError
		rl *gerr.RateLimitedError
	)
	switch {
	case errors.As(err, &ve):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			ErrorText:      msgInvalidPayload,
			Details:        ve.Fields,
		}
	case errors.Is(err, gerr.ErrUnauthenticated):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusUnauthorized,
			ErrorText:      gerr.ErrUnauthenticated.Error(),
		}
	case errors.Is(err, gerr.ErrConflict):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusConflict,
			ErrorText:      gerr.ConflictReason(err),
		}
	case errors.As(err, &rl):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusTooManyRequests,
			ErrorText:      gerr.ErrRateLimited.Error(),
			RetryAfter:     rl.RetryAfterSeconds(),
		}
	case errors.Is(err, gerr.ErrWaitlistFull):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusTooManyRequests,
			ErrorText:      gerr.ErrWaitlistFull.Error(),
		}
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      msgInternal,
	}
}

// writeError renders err, logging anything that is not the client's fault.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errResponse(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "waitlist request failed",
			slog.String("err", err.Error()),
			slog.String("path", r.URL.Path),
		)
	}
	_ = render.Render(w, r, resp)
}

// writeJSON renders v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
