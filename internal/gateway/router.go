package gateway

import (
	"context"
	"net/http"
	"time"
)

// NewRouter wires one route per records operation plus health probes.
// ready reports whether the backing store answers a ping.
func NewRouter(handler *BookHandler, ready func(ctx context.Context) error) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /books", handler.Create)
	router.HandleFunc("GET /books", handler.List)
	router.HandleFunc("GET /books/{id}", handler.Get)
	router.HandleFunc("PATCH /books/{id}", handler.Update)
	router.HandleFunc("DELETE /books/{id}", handler.Delete)

	return router
}
