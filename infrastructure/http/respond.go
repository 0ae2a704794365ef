package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"pair-chat/domain"
	"pair-chat/errors"

	"github.com/go-chi/render"
)

// APIError is the body of every response that is not a domain failure.
type APIError struct {
	Error string `json:"error"`
}

// respond writes a chat Result: failures become 400 with the failure payload,
// successes use successStatus with the success payload.
func respond[S any](w http.ResponseWriter, r *http.Request, result domain.Result[domain.Failure, S], successStatus int) {
	if result.IsFailure() {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, result.Failure())
		return
	}
	render.Status(r, successStatus)
	render.JSON(w, r, result.Success())
}

// badRequest answers a request that never reached the services.
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, domain.NewFailure(message))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, APIError{Error: message})
}

// renderAccountError maps the account sentinels to HTTP statuses.
func renderAccountError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, errors.ErrInvalidPassword):
		badRequest(w, r, err.Error())
	case errors.Is(err, errors.ErrUserAlreadyExists):
		renderError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, errors.ErrInvalidCredentials):
		renderError(w, r, http.StatusUnauthorized, err.Error())
	default:
		log.ErrorContext(r.Context(), "Account operation failed", "path", r.URL.Path, "error", err)
		renderError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// Recoverer turns a panic into a 500 carrying the panic message.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.ErrorContext(r.Context(), "Handler panicked", "path", r.URL.Path, "panic", rec)
					renderError(w, r, http.StatusInternalServerError, fmt.Sprint(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
