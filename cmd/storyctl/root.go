package main

import (
	"context"
	"errors"
	"os"
	"time"

	"cyoa-server/internal/app"
	"cyoa-server/internal/config"
	"cyoa-server/shared/interfaces"
	sharedLogger "cyoa-server/shared/logger"
	"cyoa-server/shared/messaging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile string
	verbose bool
	timeout time.Duration

	console = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
)

var rootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "Play and administer branching stories from the terminal",
	Long: `storyctl talks to the configured storage directly (SQLite by default),
so stories started here are visible to the HTTP server and vice versa.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		console = console.Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show service logs")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for the command")
}

// serviceLogger keeps the services quiet unless --verbose is set.
func serviceLogger(cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Logger
	logCfg.Encoding = "console"
	logCfg.OutputPath = "stderr"
	logCfg.Level = "warn"
	if verbose {
		logCfg.Level = "debug"
	}
	return sharedLogger.New(logCfg)
}

type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *app.Storage
	app     *app.App
	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	_ = s.logger.Sync()
}

// openStorage loads configuration and connects to storage without building the services.
func openStorage(ctx context.Context, migrate bool) (*session, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logger, err := serviceLogger(cfg)
	if err != nil {
		return nil, err
	}
	storage, err := app.OpenStorage(ctx, cfg, migrate, logger)
	if err != nil {
		return nil, err
	}
	console.Debug().Str("driver", storage.Driver).Msg("Storage opened")
	return &session{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		closers: []func(){storage.Close},
	}, nil
}

// openApp opens migrated storage and wires the story services. Parameter and
// template changes are announced on RabbitMQ when it is configured, so a running
// server drops its caches.
func openApp(ctx context.Context) (*session, error) {
	s, err := openStorage(ctx, true)
	if err != nil {
		return nil, err
	}

	var publisher interfaces.ConfigEventPublisher = messaging.NoopPublisher{}
	if s.cfg.RabbitMQ.URL != "" {
		conn, err := messaging.Connect(s.cfg.RabbitMQ.URL, s.cfg.RabbitMQ.MaxRetries, s.cfg.RabbitMQ.RetryDelay, s.logger)
		if err != nil {
			console.Warn().Err(err).Str("url", messaging.MaskURL(s.cfg.RabbitMQ.URL)).Msg("RabbitMQ unavailable, config changes will not be broadcast")
		} else {
			s.closers = append(s.closers, func() { _ = conn.Close() })
			rabbitPublisher, err := messaging.NewRabbitMQConfigEventPublisher(conn, s.logger)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.closers = append(s.closers, func() { _ = rabbitPublisher.Close() })
			publisher = rabbitPublisher
		}
	}

	application, err := app.New(ctx, s.cfg, s.storage, publisher, s.logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.app = application
	// App.Close also closes the storage, so it replaces the storage closer.
	s.closers[0] = func() {
		if err := application.Close(); err != nil {
			console.Warn().Err(err).Msg("Error while closing")
		}
	}
	return s, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

var errNoMigrations = errors.New("storage driver has no migrations")
