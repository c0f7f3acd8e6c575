// Command harmony runs the protocol-agnostic healthcare data gateway: it
// loads a TOML topology file, resolves it into pipelines and protocol
// adapters, and serves until an interrupt or terminate signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/aurabx/harmony/internal/config"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/gatewayconfig"
	"github.com/aurabx/harmony/internal/observability"
	"github.com/aurabx/harmony/internal/orchestrator"
	"github.com/aurabx/harmony/internal/resilience"
)

const defaultConfigPath = "/etc/harmony/harmony-config.toml"

func main() {
	os.Exit(run())
}

// run implements §6's exit code contract: 0 normal termination, 1
// configuration invalid, 2 adapter bind failure.
func run() int {
	configPath := flag.String("config", defaultConfigPath, "path to the gateway topology TOML file")
	flag.Parse()

	envCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load process configuration: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(envCfg)
	slog.SetDefault(logger)

	gwCfg, err := gatewayconfig.Load(*configPath)
	if err != nil {
		logger.Error("config.load.failed", "path", *configPath, "error", err)
		return 1
	}
	logger.Info("config.loaded", "path", *configPath, "proxy_id", gwCfg.Proxy.ID)

	ctx := context.Background()
	var tpShutdown func(context.Context) error
	if envCfg.OTELEnabled {
		tp, err := observability.InitTracer(ctx, envCfg)
		if err != nil {
			logger.Error("tracer.init.failed", "error", err)
			return 1
		}
		otel.SetTracerProvider(tp)
		tpShutdown = tp.Shutdown
		logger.Info("tracing.enabled")
	}

	metricsReg, httpMetrics := observability.NewMetricsRegistry()
	resilienceCfg := resilience.NewResilienceConfig(envCfg)

	healthReg := observability.NewHealthCheckRegistry(metricsReg, "harmony")
	healthReg.AddLivenessCheck("process", func() error { return nil })

	o, err := orchestrator.New(gwCfg,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetricsRecorder(httpMetrics),
		orchestrator.WithResilienceConfig(resilienceCfg),
		orchestrator.WithHealthChecks(healthReg.LiveHandler(), healthReg.ReadyHandler()),
	)
	if err != nil {
		kind, _ := gwerrors.AsKind(err)
		logger.Error("orchestrator.build.failed", "kind", kind, "error", err)
		return 1
	}

	healthReg.AddReadinessCheck("adapters_resolved", func() error {
		if len(o.Adapters()) == 0 {
			return fmt.Errorf("no adapters resolved from configuration")
		}
		return nil
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = o.Run(ctx)
	if tpShutdown != nil {
		if shutdownErr := tpShutdown(context.Background()); shutdownErr != nil {
			logger.Error("tracer.shutdown.failed", "error", shutdownErr)
		}
	}
	if err != nil {
		logger.Error("adapter.bind.failed", "error", err)
		return 2
	}

	logger.Info("harmony.stopped")
	return 0
}
