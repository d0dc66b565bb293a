package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP router: request ids, CORS with preflight
// short-circuit, panic recovery, and the intake endpoints under /api.
func NewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(h.recoverMiddleware)

	r.Route("/api", func(r chi.Router) {
		h.Register(r)
	})

	return r
}

// corsMiddleware applies the fixed CORS header set to every response and
// short-circuits OPTIONS preflight before any validation runs.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware converts any panic in an entry point into the generic
// internal-error envelope, so no raw internal message reaches the client.
func (h *Handlers) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				h.logger.Error(r.Context(), "panic in handler", "panic", p, "path", r.URL.Path)
				h.writeError(w, http.StatusInternalServerError, "Internal server error", codeInternalError, nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
