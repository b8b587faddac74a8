package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"calculator-api/internal/config"
	"calculator-api/internal/observability"
	"calculator-api/internal/server"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type flagValues struct {
	configFile  string
	envFile     string
	host        string
	port        int
	corsOrigins string
	logLevel    string
	logFile     string
	telemetry   bool
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "calculator-api",
		Short:        "HTTP service evaluating one binary arithmetic expression per request",
		SilenceUsage: true,
	}

	flags := bindFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), flags)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	}

	return cmd
}

func bindFlags(f *pflag.FlagSet) *flagValues {
	var flags flagValues
	defaults := config.Default()

	f.StringVar(&flags.configFile, "config", "", "path to a YAML config file")
	f.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	f.StringVar(&flags.host, "host", defaults.Host, "listen host")
	f.IntVar(&flags.port, "port", defaults.Port, "listen port")
	f.StringVar(&flags.corsOrigins, "cors-origins", strings.Join(defaults.CORS.AllowedOrigins, ","), "comma separated list of allowed CORS origins")
	f.StringVar(&flags.logLevel, "log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	f.StringVar(&flags.logFile, "log-file", "", "also write logs to this file, rotated by size")
	f.BoolVar(&flags.telemetry, "telemetry", false, "export traces, metrics and logs over OTLP")

	return &flags
}

// resolveConfig layers defaults, the optional YAML file, the environment
// (after the dotenv file is loaded) and explicitly set flags, then validates the result.
func resolveConfig(f *pflag.FlagSet, flags *flagValues) (config.Config, error) {
	if err := loadDotEnv(flags.envFile); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()

	if flags.configFile != "" {
		if err := config.LoadFile(flags.configFile, &cfg); err != nil {
			return config.Config{}, err
		}
	}

	if err := config.ApplyEnv(&cfg, nil); err != nil {
		return config.Config{}, err
	}

	if f.Changed("host") {
		cfg.Host = flags.host
	}
	if f.Changed("port") {
		cfg.Port = flags.port
	}
	if f.Changed("cors-origins") {
		cfg.CORS.AllowedOrigins = config.SplitList(flags.corsOrigins)
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if f.Changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	if f.Changed("telemetry") {
		cfg.Telemetry.Enabled = flags.telemetry
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	// Logger
	if err := observability.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, log export
	shutdownTelemetry, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	// Router
	router, err := server.NewRouter(cfg)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.Strings("cors_origins", cfg.CORS.AllowedOrigins),
			zap.Bool("telemetry", cfg.Telemetry.Enabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return waitForShutdown(srv, serveErr, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, serveErr <-chan error, timeout time.Duration) error {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-stop:
		observability.Logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
