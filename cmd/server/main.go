package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/UkralStul/blog-service/internal/api"
	"github.com/UkralStul/blog-service/internal/auth"
	"github.com/UkralStul/blog-service/internal/config"
	"github.com/UkralStul/blog-service/internal/logging"
	"github.com/UkralStul/blog-service/internal/storage"
	"github.com/UkralStul/blog-service/internal/storage/inmemory"
	"github.com/UkralStul/blog-service/internal/storage/sqlstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "blog-service",
		Short:         "Personal blog REST backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to a config file (yaml, json or toml)")
	flags.String("storage", config.StorageSQLite, "Storage type (sqlite, postgres or in-memory)")
	flags.String("dsn", "", "Database DSN; a file path for sqlite")
	flags.String("env", config.EnvDevelopment, "Environment (development or production)")
	flags.String("port", "3000", "HTTP port")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("seed", false, "Fill an empty store with demo data")

	for key, flag := range map[string]string{
		config.KeyStorageDriver: "storage",
		config.KeyStorageDSN:    "dsn",
		config.KeyEnv:           "env",
		config.KeyPort:          "port",
		config.KeyLogLevel:      "log-level",
		config.KeySeed:          "seed",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), v)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), v)
			},
		},
	)
	return root
}

// setup читает конфигурацию и строит логгер.
func setup(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	if cfg.UsesInsecureSigningKey() {
		logger.Warn("using the default signing key; set JWT_SECRET before deploying")
	}
	return cfg, logger, nil
}

// openStorage открывает выбранное хранилище и создает схему.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.Storage.Driver == config.StorageInMemory {
		return inmemory.New(), nil
	}

	store, err := sqlstore.New(sqlstore.Options{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("database schema initialized", zap.String("driver", cfg.Storage.Driver))
	return store, nil
}

func migrate(ctx context.Context, v *viper.Viper) error {
	cfg, logger, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Storage.Driver == config.StorageInMemory {
		return errors.New("nothing to migrate for in-memory storage")
	}
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return store.Close()
}

func serve(ctx context.Context, v *viper.Viper) error {
	cfg, logger, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting server", zap.String("storage", cfg.Storage.Driver), zap.String("env", cfg.Env))
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Seed {
		if err := fillWithMockData(ctx, store, logger); err != nil {
			return err
		}
	}

	tokens := auth.NewTokens(cfg.Auth.SigningKey, auth.WithTTL(cfg.Auth.TokenTTL))
	srv := api.NewServer(store, tokens,
		api.WithLogger(logger),
		api.WithAllowedOrigins(cfg.HTTP.AllowedOrigins),
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
