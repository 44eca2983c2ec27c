package cmd

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
	"go.uber.org/zap"

	"github.com/ahmadsufyan455/star-one/pkg/analyzer"
	"github.com/ahmadsufyan455/star-one/pkg/config"
	"github.com/ahmadsufyan455/star-one/pkg/feedback"
	"github.com/ahmadsufyan455/star-one/pkg/llm"
	"github.com/ahmadsufyan455/star-one/pkg/pipeline"
	"github.com/ahmadsufyan455/star-one/pkg/playstore"
	"github.com/ahmadsufyan455/star-one/pkg/quota"
	"github.com/ahmadsufyan455/star-one/pkg/server"
)

var (
	addr       string
	configPath string
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	generator, err := llm.CreateFromEnv(cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}

	tracker := quota.New(cfg.Quota.Limit, cfg.Quota.Window)
	pipe := pipeline.New(playstore.NewClient(nil), analyzer.New(generator), tracker, logger)
	srv := server.New(pipe, tracker, feedback.NewMemoryStore(), logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
