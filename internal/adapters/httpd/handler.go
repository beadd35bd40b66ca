package httpd

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
)

// Handler dispatches stylesheet requests to the compile cache.
type Handler struct {
	resolver ports.PathResolver
	cache    ports.CompileCache
	logger   ports.Logger
	tracer   ports.Tracer
	horizon  time.Duration
	now      func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithClock replaces the time source used for the Expires header.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates a Handler. Full responses expire horizon after they are sent.
func NewHandler(
	resolver ports.PathResolver,
	cache ports.CompileCache,
	logger ports.Logger,
	tracer ports.Tracer,
	horizon time.Duration,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		resolver: resolver,
		cache:    cache,
		logger:   logger,
		tracer:   tracer,
		horizon:  horizon,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Middleware serves resolved stylesheet requests and passes everything else,
// including requests for sources that do not exist, to next.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		key, ok := h.resolver.Resolve(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		info, err := os.Stat(key.String())
		if err != nil || info.IsDir() {
			next.ServeHTTP(w, r)
			return
		}

		h.serve(w, r, key, info.ModTime())
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, key domain.CacheKey, modTime time.Time) {
	ctx, span := h.tracer.Start(r.Context(), "http.stylesheet")
	defer span.End()
	span.SetAttribute("path", key.String())

	decision := Decide(modTime, r.Header.Get("If-Modified-Since"), h.now(), h.horizon)
	w.Header().Set("Content-Type", domain.ContentTypeCSS)

	if decision.NotModified {
		span.SetAttribute("status", http.StatusNotModified)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	css, err := h.cache.GetOrCompute(ctx, key)
	if err != nil {
		span.RecordError(err)
		h.logger.Error(zerr.With(zerr.Wrap(err, "failed to serve stylesheet"), "path", key.String()))
		w.Header().Del("Content-Type")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	decision.SetHeaders(w.Header())
	w.Header().Set("Content-Length", strconv.Itoa(len(css)))
	w.WriteHeader(http.StatusOK)
	span.SetAttribute("status", http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(css)
}
