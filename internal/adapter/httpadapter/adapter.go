package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aurabx/harmony/internal/adapter"
	"github.com/aurabx/harmony/internal/envelope"
	"github.com/aurabx/harmony/internal/httpmw"
	"github.com/aurabx/harmony/internal/metrics"
	"github.com/aurabx/harmony/internal/pipeline"
)

// Adapter is the HTTP ProtocolAdapter of §4.E. One Adapter binds one
// (bind_address, bind_port) pair and dispatches every matched request to
// its pipeline.Executor.
type Adapter struct {
	name         string
	bindAddress  string
	bindPort     uint16
	routes       *routeTable
	executor     *pipeline.Executor
	logger       *slog.Logger
	coord        httpmw.ShutdownCoordinator
	recorder     metrics.HTTPMetrics
	liveHandler  http.HandlerFunc
	readyHandler http.HandlerFunc

	server   *http.Server
	listener net.Listener
}

// Config configures a new Adapter.
type Config struct {
	Name        string
	BindAddress string
	BindPort    uint16
	Routes      []Route
	Executor    *pipeline.Executor
	Logger      *slog.Logger
	Coordinator httpmw.ShutdownCoordinator
	Recorder    metrics.HTTPMetrics

	// LiveHandler/ReadyHandler, when set, are mounted at /healthz and
	// /readyz ahead of every configured Route. Only the network carrying
	// the management endpoint normally sets these, per §6.
	LiveHandler  http.HandlerFunc
	ReadyHandler http.HandlerFunc
}

// NewAdapter validates cfg.Routes for colliding path_prefixes (per §4.E,
// a start-up failure, not a request-time one) and builds an Adapter.
func NewAdapter(cfg Config) (*Adapter, error) {
	routes, err := newRouteTable(cfg.Routes)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		name:         cfg.Name,
		bindAddress:  cfg.BindAddress,
		bindPort:     cfg.BindPort,
		routes:       routes,
		executor:     cfg.Executor,
		logger:       logger,
		coord:        cfg.Coordinator,
		recorder:     cfg.Recorder,
		liveHandler:  cfg.LiveHandler,
		readyHandler: cfg.ReadyHandler,
	}, nil
}

func (a *Adapter) Protocol() envelope.Protocol { return envelope.ProtocolHTTP }

func (a *Adapter) Summary() string {
	return fmt.Sprintf("http adapter %q on %s:%d (%d routes)", a.name, a.bindAddress, a.bindPort, len(a.routes.routes))
}

func (a *Adapter) router() http.Handler {
	r := chi.NewRouter()
	r.Use(httpmw.RequestID)
	r.Use(httpmw.Recoverer(a.logger))
	if a.coord != nil {
		r.Use(httpmw.Shutdown(a.coord))
	}
	r.Use(httpmw.RequestLogger(a.logger))
	r.Use(httpmw.Tracing)
	if a.recorder != nil {
		r.Use(httpmw.Metrics(a.recorder))
	}
	r.Use(httpmw.SecureHeaders)
	r.Use(httpmw.BodyLimiter(32 << 20))
	if a.liveHandler != nil {
		r.Get("/healthz", a.liveHandler)
	}
	if a.readyHandler != nil {
		r.Get("/readyz", a.readyHandler)
	}
	r.Handle("/*", http.HandlerFunc(a.dispatch))
	return r
}

// Start binds the listener and serves in the background. It returns once
// the listener is live, per §5's "orchestrator must not report ready until
// every adapter's listener is bound".
func (a *Adapter) Start(ctx context.Context, shutdown adapter.ShutdownSignal) error {
	addr := fmt.Sprintf("%s:%d", a.bindAddress, a.bindPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("httpadapter %s: bind %s: %w", a.name, addr, err)
	}
	a.listener = listener
	a.server = &http.Server{Handler: a.router()}

	go func() {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("httpadapter.serve.error", "adapter", a.name, "error", err)
		}
	}()

	go a.awaitShutdown(shutdown)
	return nil
}

func (a *Adapter) awaitShutdown(shutdown adapter.ShutdownSignal) {
	if shutdown == nil {
		return
	}
	<-shutdown.Done()
	grace := time.Duration(shutdown.GracePeriod()) * time.Second
	if grace <= 0 {
		grace = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("httpadapter.shutdown.error", "adapter", a.name, "error", err)
	}
}
