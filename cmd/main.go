package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/zynor/internal/cli"
	"github.com/UnknownOlympus/zynor/internal/client/api"
	"github.com/UnknownOlympus/zynor/internal/client/resource"
	"github.com/UnknownOlympus/zynor/internal/config"
	"github.com/UnknownOlympus/zynor/internal/credentials"
	"github.com/UnknownOlympus/zynor/internal/health"
	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/UnknownOlympus/zynor/internal/notify"
	"github.com/UnknownOlympus/zynor/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	os.Exit(run())
}

func run() int {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment. Stdout belongs to command output.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	lang := i18n.MustLocalizer().For(cfg.Locale)

	// ZYNOR_TOKEN wins over the token file.
	store := credentials.NewFileStore(logger, cfg.Credentials)
	tokens := credentials.Chain{credentials.Env(credentials.EnvToken), store}

	client, err := api.NewClient(logger, cfg.API.URL, apiOptions(cfg.API, tokens, appMetrics)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, lang.Tf("cli.error", map[string]any{"error": err}))
		return cli.ExitError
	}
	logger.DebugContext(ctx, "API client configured",
		"base_url", client.BaseURL(), "root", client.Root(), "rewrite", cfg.API.Rewrite, "lang", lang.Code())

	checker := health.NewAPIChecker(client)
	probe := health.NewProbe(logger, checker, cfg.Health.Interval, appMetrics)

	var watchers []health.Observer
	if cfg.Telegram.Enabled() {
		notifier, notifyErr := notify.NewTelegram(logger, cfg.Telegram.Token, cfg.Telegram.ChatIDs, lang, checker.URL())
		if notifyErr != nil {
			logger.ErrorContext(ctx, "Telegram alerts disabled", "error", notifyErr)
		} else {
			watchers = append(watchers, notifier.HealthChanged)
		}
	}

	var monitor func(ctx context.Context)
	if cfg.Monitor.Port > 0 {
		monitor = func(ctx context.Context) {
			server.StartMonitoringServer(ctx, logger, reg, probe, cfg.API.URL, cfg.Monitor.Port)
		}
	}

	app := cli.New(cli.Deps{
		Log:      logger,
		Lang:     lang,
		Clients:  resource.New(client, logger, appMetrics),
		Probe:    probe,
		Tokens:   tokens,
		Store:    store,
		Metrics:  appMetrics,
		Watchers: watchers,
		Monitor:  monitor,
	})

	code := app.Run(ctx, os.Args[1:])
	logger.DebugContext(ctx, "Command finished", "args", os.Args[1:], "exit_code", code)
	return code
}

// apiOptions maps the API configuration to client options. With rewrite
// off, requests go to /x first and fall back to <root>/x on 404.
func apiOptions(cfg config.APIConfig, tokens credentials.Provider, m *metrics.Metrics) []api.Option {
	opts := []api.Option{
		api.WithRoot(cfg.Root),
		api.WithTimeout(cfg.Timeout),
		api.WithCredentials(tokens),
		api.WithMetrics(m),
	}
	if !cfg.Rewrite {
		opts = append(opts, api.WithoutPathRewrite())
	}
	return opts
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
