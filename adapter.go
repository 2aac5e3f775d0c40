package jsonhttp

import (
	"log/slog"
	"net/http"
)

// AdapterOption configures Adapter.
type AdapterOption func(*adapterConfig)

type adapterConfig struct {
	log *slog.Logger
}

// WithErrorLog sets the logger used when Handle reports a negotiation
// defect. Defaults to slog.Default().
func WithErrorLog(log *slog.Logger) AdapterOption {
	return func(cfg *adapterConfig) { cfg.log = log }
}

// Adapter bridges a Handler onto net/http. The request body is read in
// full before the pipeline runs, so the pipeline itself performs no I/O.
// The recorded response is then played back: the status code, the first
// entity's headers, and every entity body in order. Status messages exist
// only in the model, since Go's HTTP server cannot transmit custom reason
// phrases. A non-nil Handle error is logged and answered with a bare 500.
func Adapter(h Handler, opts ...AdapterOption) http.Handler {
	if h == nil {
		panic("jsonhttp: nil Handler")
	}
	cfg := adapterConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := NewRecorder()
		if err := h.Handle(newHTTPRequest(r), rec); err != nil {
			cfg.log.ErrorContext(r.Context(), "charset negotiation failed",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		entities := rec.Entities()
		if len(entities) > 0 {
			for name, values := range entities[0].Header {
				for _, v := range values {
					w.Header().Add(name, v)
				}
			}
		}
		if status, ok := rec.Status(); ok {
			w.WriteHeader(status.Code)
		}
		for _, e := range entities {
			if len(e.Body) > 0 {
				_, _ = w.Write(e.Body)
			}
		}
	})
}
