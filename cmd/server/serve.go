package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "cv-builder/internal/adapter/http"
	"cv-builder/internal/adapter/repository"
	"cv-builder/internal/config"
	"cv-builder/internal/domain"
	"cv-builder/internal/infrastructure/migration"
	"cv-builder/internal/logger"
	"cv-builder/internal/render"
	"cv-builder/internal/state"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/ai"
	infra "cv-builder/pkg/infrastructure"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort  string
	serveEmpty bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP server exposing the CV state, preview, export and generation endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides APP_PORT)")
	serveCmd.Flags().BoolVar(&serveEmpty, "empty", false, "Start with an empty CV instead of the example")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.App.Port = servePort
	}
	logger.Init(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewExportsPool(ctx, cfg.Export.DatabaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("export log database not available")
		pool = nil
	}
	if pool != nil {
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	exports := repository.NewExportsRepo(pool)

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}

	client, err := ai.New(ctx, ai.Options{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		ServiceURL:  cfg.AI.ServiceURL,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout(),
		MaxRetries:  cfg.AI.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("init ai client: %w", err)
	}

	html, err := render.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	docs := infra.NewChromedpRenderer(infra.ChromeOptions{
		ExecPath:      cfg.Chrome.Path,
		MaxConcurrent: int64(cfg.Chrome.MaxConcurrent),
		Timeout:       cfg.Chrome.Timeout(),
	})

	var exportLog usecase.ExportLog
	if exports.Enabled() {
		exportLog = exports
	}
	exporter := usecase.NewExporter(html, docs, sink, exportLog, cfg.Export.Attempts)

	initial := domain.ExampleState()
	if serveEmpty {
		initial = domain.EmptyState()
	}
	store := state.NewStore(initial)
	generator := usecase.NewGenerator(client, store, usecase.NewTaskRegistry(), 0)

	h := httpadapter.NewHandler(store, exporter, generator, exports, cfg.IsProduction())
	app := httpadapter.NewApp(h, httpadapter.RouterConfig{
		AppName:         cfg.App.Name,
		Production:      cfg.IsProduction(),
		AccessLog:       true,
		RateLimitMax:    cfg.RateLimit.Max,
		RateLimitWindow: cfg.RateLimit.Expiration(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr()).Str("env", cfg.App.Env).Msg("server listening")
		return app.Listen(cfg.ListenAddr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		h.Close()
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	generator.Wait()
	return nil
}

func newSink(cfg *config.Config) (usecase.ArtifactSink, error) {
	switch cfg.Export.Sink {
	case "filesystem":
		logger.Info().Str("dir", cfg.Export.Dir).Msg("exports are kept on disk")
		return infra.NewFilesystemStore(cfg.Export.Dir), nil
	case "minio":
		store, err := infra.NewMinIOStore(infra.MinIOOptions{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKeyID,
			SecretAccessKey: cfg.MinIO.SecretAccessKey,
			UseSSL:          cfg.MinIO.UseSSL,
			BucketName:      cfg.MinIO.BucketName,
			Location:        cfg.MinIO.Location,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Str("bucket", cfg.MinIO.BucketName).Msg("exports are uploaded to minio")
		return store, nil
	default:
		return nil, nil
	}
}
