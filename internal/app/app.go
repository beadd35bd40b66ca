// Package app implements the application layer for sassy.
package app

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"go.trai.ch/sassy/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/adapters/httpd"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/adapters/pipeline"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/adapters/sass"      //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	watcher      ports.Watcher
	metrics      *metrics.Prometheus

	traceOutput io.Writer
	onListen    func(net.Addr)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	tracer ports.Tracer,
	w ports.Watcher,
	m *metrics.Prometheus,
) *App {
	return &App{
		configLoader: loader,
		logger:       logger,
		tracer:       tracer,
		watcher:      w,
		metrics:      m,
		traceOutput:  os.Stdout,
	}
}

// WithTraceOutput sets where exported spans are written when tracing to stdout is enabled.
func (a *App) WithTraceOutput(w io.Writer) *App {
	a.traceOutput = w
	return a
}

// WithListenHook registers a function called with the bound address once the server listens.
func (a *App) WithListenHook(fn func(net.Addr)) *App {
	a.onListen = fn
	return a
}

// LoadOptions reads the configuration file. An empty path selects the default file.
func (a *App) LoadOptions(path string) (*domain.Options, error) {
	opts, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return opts, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts *domain.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	a.applyLogMode(opts)

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve root"), "root", opts.Root)
	}

	flush, err := a.setupTracing(opts)
	if err != nil {
		return err
	}
	defer flush()

	store := a.newStore(opts)

	if opts.Watch {
		inv := watcher.NewInvalidator(a.watcher, store, a.logger, root, opts.Debounce)
		if err := inv.Start(ctx); err != nil {
			// Serving keeps working without invalidation.
			a.logger.Error(zerr.Wrap(err, "file watching disabled"))
		} else {
			defer func() {
				if err := inv.Stop(); err != nil {
					a.logger.Error(zerr.Wrap(err, "failed to stop watcher"))
				}
			}()
		}
	}

	server := &http.Server{
		Handler:           a.router(opts, root, store),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", opts.Listen)
	if err != nil {
		return errors.Join(domain.ErrServerFailed, zerr.With(err, "listen", opts.Listen))
	}
	if a.onListen != nil {
		a.onListen(listener.Addr())
	}
	a.logger.Info("serving " + root + " on " + listener.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(domain.ErrServerFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Join(domain.ErrServerFailed, zerr.Wrap(err, "shutdown"))
		}
		return nil
	})

	err = g.Wait()
	a.logger.Info("server stopped")
	return err
}

// Compile runs the compiler and post-processors once for path and writes the CSS to w.
func (a *App) Compile(ctx context.Context, opts *domain.Options, path string, w io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	a.applyLogMode(opts)

	flush, err := a.setupTracing(opts)
	if err != nil {
		return err
	}
	defer flush()

	key, err := domain.NewCacheKey(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "invalid source path"), "path", path)
	}

	css, err := cache.NewDirect(a.deps(opts)).GetOrCompute(ctx, key)
	if err != nil {
		return err
	}
	if _, err := w.Write(css); err != nil {
		return zerr.Wrap(err, "failed to write output")
	}
	return nil
}

func (a *App) router(opts *domain.Options, root string, store ports.CompileCache) http.Handler {
	handler := httpd.NewHandler(httpd.NewResolver(root), store, a.logger, a.tracer, opts.ExpiresAfter)

	router := mux.NewRouter()
	if opts.Metrics {
		router.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	}
	router.PathPrefix("/").Handler(handler.Middleware(http.FileServer(http.Dir(root))))

	if opts.Gzip {
		return gziphandler.GzipHandler(router)
	}
	return router
}

func (a *App) newStore(opts *domain.Options) ports.CompileCache {
	if opts.Cache {
		return cache.New(a.deps(opts))
	}
	return cache.NewDirect(a.deps(opts))
}

func (a *App) deps(opts *domain.Options) cache.Deps {
	var m ports.Metrics = metrics.Discard{}
	if opts.Metrics {
		m = a.metrics
	}
	return cache.Deps{
		Transformer:   sass.NewCompiler(opts.Sass, a.logger, a.tracer),
		PostProcessor: pipeline.New(opts.Stages(), a.tracer),
		Metrics:       m,
		Logger:        a.logger,
		Tracer:        a.tracer,
	}
}

func (a *App) setupTracing(opts *domain.Options) (func(), error) {
	if !opts.TraceStdout {
		return func() {}, nil
	}
	shutdown, err := telemetry.Setup(a.traceOutput)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			a.logger.Error(zerr.Wrap(err, "failed to flush traces"))
		}
	}, nil
}

func (a *App) applyLogMode(opts *domain.Options) {
	if !opts.LogJSON {
		return
	}
	if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(true)
	}
}
