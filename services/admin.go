package services

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// NewAdminRouter serves the HTTP probes used by the orchestrator:
// /healthz answers while the process runs and /readyz only while the cart
// store is ready and reachable.
func NewAdminRouter(readiness Readiness) http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("cartservice-admin"))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet, http.MethodHead)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if !readiness.Ping(req.Context()) {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	}).Methods(http.MethodGet, http.MethodHead)

	return r
}
