package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unicornviz/unicornviz/internal/server"
	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/config"
	"github.com/unicornviz/unicornviz/pkg/pipeline"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// newServeCmd creates the serve command for running the HTTP dashboard.
func newServeCmd() *cobra.Command {
	var configPath, listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "bind address (overrides config)")

	return cmd
}

// runServe builds the runner from config and serves until interrupted.
func runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	c, err := newCacheBackend(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	if cfg.Corpus.Enabled {
		corpus, err := source.NewCorpus(ctx, cfg.Corpus.URI, cfg.Corpus.Database, cfg.Corpus.Collection)
		if err != nil {
			return fmt.Errorf("corpus store: %w", err)
		}
		defer corpus.Close(context.Background())
		if err := corpus.Seed(ctx); err != nil {
			logger.Warn("seeding corpus failed", "error", err)
		}
		runner.RegisterSource(corpus)
		logger.Info("corpus source enabled", "uri", cfg.Corpus.URI)
	}

	return server.New(runner, cfg, logger).Run(ctx)
}

// newCacheBackend builds the configured cache backend.
func newCacheBackend(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		logger.Debug("using redis cache", "addr", cfg.Redis.Addr)
		return c, nil
	case config.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
		}
		logger.Debug("using file cache", "dir", dir)
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
