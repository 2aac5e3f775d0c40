// Command sample demonstrates the github.com/bjaus/jsonhttp pipeline
// with a small note-taking API.
//
// Run:
//
//	go run ./cmd/sample
//	go run ./cmd/sample -config sample.yaml    — overlay settings from a YAML file
//
// Then explore:
//
//	POST http://localhost:8080/v1/notes          — create a note (typed pipeline)
//	POST http://localhost:8080/v1/notes/search   — search notes (typed pipeline)
//	ANY  http://localhost:8080/v1/echo           — echo parsed JSON (untyped pipeline)
//	GET  http://localhost:8080/healthz           — liveness probe
//
// For example:
//
//	curl -s -X POST localhost:8080/v1/notes \
//	  -H 'Content-Type: application/json' -H 'Accept: application/json' \
//	  -d '{"title":"groceries","body":"milk, eggs","tags":["home"]}'
//
// Configuration comes from the environment (a .env file is honored):
//
//	SAMPLE_ADDR        listen address            (default :8080)
//	SAMPLE_SERVICE     service name for traces   (default jsonhttp-sample)
//	SAMPLE_LOG_LEVEL   debug|info|warn|error     (default info)
//	SAMPLE_RATE_RPS    rate limit per client     (default 50)
//	SAMPLE_RATE_BURST  rate limit burst          (default 100)
//	SAMPLE_BODY_LIMIT  max request body bytes    (default 1048576)
//	SAMPLE_TIMEOUT     per-request timeout       (default 10s)
//
// A YAML file given via -config overrides the environment for the keys
// it sets: addr, service, log_level, rate_rps, rate_burst, body_limit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/jsonhttp"
)

func main() {
	configFlag := flag.String("config", "", "Optional YAML config file overlaid on the environment")
	flag.Parse()

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracer, err := initTracer(cfg.Service)
	if err != nil {
		slog.Error("tracer init failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			slog.Error("tracer shutdown failed", "err", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Addr, "service", cfg.Service)

	if err := serve(ctx, cfg, newRouter(cfg)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
	}

	slog.Info("server stopped")
}

// serve runs an HTTP server until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, cfg config, h http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newRouter(cfg config) http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(
		jsonhttp.Recovery(),
		jsonhttp.RequestID(),
		jsonhttp.Logger(slog.Default()),
		jsonhttp.Secure(),
		jsonhttp.CORS(),
		jsonhttp.Compress(),
		jsonhttp.RateLimit(cfg.RateRPS, cfg.RateBurst),
		jsonhttp.BodyLimit(cfg.BodyLimit),
		jsonhttp.Timeout(cfg.Timeout),
	)

	// Typed pipelines: POST-only, application/json in and out.
	r.Method(http.MethodPost, "/v1/notes", jsonhttp.Adapter(jsonhttp.Post(store.create)))
	r.Method(http.MethodPost, "/v1/notes/search", jsonhttp.Adapter(jsonhttp.Post(store.search)))

	// Untyped pipeline: any method, any JSON value. The entity transform
	// stamps every non-error response.
	r.Handle("/v1/echo", jsonhttp.Adapter(
		jsonhttp.JSON(echo, jsonhttp.WithEntityTransform(stamp)),
	))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	return r
}

// Configuration
// ---------------------------------------------------------------------------

type config struct {
	Addr      string        `env:"SAMPLE_ADDR" envDefault:":8080" yaml:"addr"`
	Service   string        `env:"SAMPLE_SERVICE" envDefault:"jsonhttp-sample" yaml:"service"`
	LogLevel  string        `env:"SAMPLE_LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	RateRPS   float64       `env:"SAMPLE_RATE_RPS" envDefault:"50" yaml:"rate_rps"`
	RateBurst int           `env:"SAMPLE_RATE_BURST" envDefault:"100" yaml:"rate_burst"`
	BodyLimit int64         `env:"SAMPLE_BODY_LIMIT" envDefault:"1048576" yaml:"body_limit"`
	Timeout   time.Duration `env:"SAMPLE_TIMEOUT" envDefault:"10s" yaml:"-"`
}

// loadConfig reads the environment (honoring a .env file when present)
// and then overlays the YAML file at path, if given.
func loadConfig(path string) (config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path) //nolint:gosec // user-provided CLI flag
		if err != nil {
			return config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	return cfg, nil
}

func (c config) logLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initTracer wires a stdout trace exporter so sampled spans show up in
// the server log. It returns the provider's shutdown func.
func initTracer(service string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", semconv.ServiceName(service)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// Handlers
// ---------------------------------------------------------------------------

// echo returns whatever JSON value was posted, wrapped with a timestamp.
// A JSON null comes through as nil and yields 204 No Content.
func echo(_ context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return map[string]any{
		"echo": v,
		"at":   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// stamp marks responses produced by the echo pipeline.
func stamp(e jsonhttp.Entity) jsonhttp.Entity {
	return e.WithHeader("X-Sample", "echo")
}

// Domain types
// ---------------------------------------------------------------------------

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateNoteRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

type SearchNotesRequest struct {
	Query string `json:"query"`
	Tag   string `json:"tag"`
	Limit int    `json:"limit"`
}

type SearchNotesResponse struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
}

// In-memory store
// ---------------------------------------------------------------------------

var store = &noteStore{
	notes: map[string]*Note{
		"1": {ID: "1", Title: "welcome", Body: "try POST /v1/notes", Tags: []string{"demo"}, CreatedAt: time.Now()},
	},
	nextID: 2,
}

type noteStore struct {
	mu     sync.RWMutex
	notes  map[string]*Note
	nextID int
}

// create adds a note. A failure here surfaces to the client as
// 500 Internal Server Error with the error's message.
func (s *noteStore) create(_ context.Context, in *CreateNoteRequest) (*Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("note title must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := &Note{
		ID:        fmt.Sprintf("%d", s.nextID),
		Title:     in.Title,
		Body:      in.Body,
		Tags:      in.Tags,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.notes[n.ID] = n

	cp := *n
	return &cp, nil
}

func (s *noteStore) search(_ context.Context, in *SearchNotesRequest) (*SearchNotesResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if in.Query != "" && !strings.Contains(n.Title, in.Query) && !strings.Contains(n.Body, in.Query) {
			continue
		}
		if in.Tag != "" && !hasTag(n.Tags, in.Tag) {
			continue
		}
		out = append(out, *n)
	}

	total := len(out)
	if in.Limit > 0 && len(out) > in.Limit {
		out = out[:in.Limit]
	}

	return &SearchNotesResponse{Notes: out, Total: total}, nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
