package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/automaxprocs/maxprocs"

	appdiscovery "github.com/ahrav/gerrit-scout/internal/app/discovery"
	"github.com/ahrav/gerrit-scout/internal/config"
	"github.com/ahrav/gerrit-scout/internal/config/credentials/memory"
	"github.com/ahrav/gerrit-scout/internal/config/fileloader"
	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
	"github.com/ahrav/gerrit-scout/internal/infra/gerrit"
	"github.com/ahrav/gerrit-scout/pkg/common/logger"
	"github.com/ahrav/gerrit-scout/pkg/common/otel"
)

const svcName = "gerrit-scout"

func main() {
	_, _ = maxprocs.Set()

	v := viper.New()
	v.SetDefault("config", "scout.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("otel_endpoint", "")
	v.SetEnvPrefix("SCOUT")
	v.AutomaticEnv()

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	log := logger.New(os.Stdout, logLevel(v.GetString("log_level")), svcName, otel.GetTraceID)

	if err := execute(command, v, log); err != nil {
		fmt.Fprintf(os.Stderr, "scout %s: %v\n", command, err)
		os.Exit(1)
	}
}

func execute(command string, v *viper.Viper, log *logger.Logger) error {
	if command != "run" && command != "validate" {
		return fmt.Errorf("unknown command %q (want run or validate)", command)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := fileloader.NewFileLoader(v.GetString("config")).Load(ctx)
	if err != nil {
		return err
	}

	if command == "validate" {
		// Load already validated structure and server URLs.
		log.Info(ctx, "configuration is valid", "servers", len(cfg.Servers))
		return nil
	}

	tracer, cleanup, err := otel.InitTracing(log, otel.Config{
		ServiceName:      svcName,
		ExporterEndpoint: v.GetString("otel_endpoint"),
		Probability:      1,
		Enabled:          v.GetString("otel_endpoint") != "",
	})
	if err != nil {
		return err
	}
	defer cleanup(context.Background())

	return runDiscovery(ctx, cfg, log, tracer)
}

// runDiscovery scans every configured server in turn, logging each candidate
// the observer accepts. Cancellation stops between servers as well as between
// projects.
func runDiscovery(ctx context.Context, cfg *config.Config, log *logger.Logger, tracer trace.Tracer) error {
	creds := memory.NewStore(cfg.Auth)

	orch := appdiscovery.NewOrchestrator(func(settings discovery.ConnectionSettings) (discovery.ProjectLister, error) {
		return gerrit.NewClient(settings,
			gerrit.WithTracer(tracer),
			gerrit.WithPageSize(cfg.PageSize),
		), nil
	}, tracer)

	for _, server := range cfg.Servers {
		serverLog := log.With("server", server.Name)

		settings, err := appdiscovery.BuildSettings(server, creds, serverLog)
		if err != nil {
			return fmt.Errorf("server %q: %w", server.Name, err)
		}

		observer := discovery.ObserverFunc(func(ctx context.Context, projectName string, build discovery.CandidateFactory) (bool, error) {
			candidate := build()
			serverLog.Info(ctx, "discovered project",
				"project", projectName,
				"source_id", candidate.SourceID(),
				"traits", len(candidate.Traits()),
			)
			return false, nil
		})

		err = orch.Discover(ctx, settings, appdiscovery.TraitsFor(server), observer)
		switch {
		case err == nil:
		case appdiscovery.IsCancelled(err):
			serverLog.Info(ctx, "scan cancelled")
			return nil
		default:
			return fmt.Errorf("server %q: %w", server.Name, err)
		}
	}
	return nil
}

func logLevel(s string) logger.Level {
	switch s {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	}
	return logger.LevelInfo
}
