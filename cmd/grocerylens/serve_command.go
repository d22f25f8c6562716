package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"grocerylens/internal/grocery"
	"grocerylens/internal/httpapi"
	"grocerylens/internal/logging"
	"grocerylens/internal/preflight"
	"grocerylens/internal/scan"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), ctx, bind)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to paths.api_bind)")
	return cmd
}

func runServer(cmdCtx context.Context, ctx *commandContext, bind string) error {
	if ctx == nil {
		return errors.New("command context is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := ctx.serverLogger()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another grocerylens server is already using %s", cfg.Paths.DataDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	for _, result := range preflight.Failed(preflight.RunAll(signalCtx, cfg, preflight.Options{})) {
		logger.Warn("preflight check failed",
			slog.String("check", result.Name),
			slog.String("detail", result.Detail),
		)
	}

	store, err := grocery.Open(cfg)
	if err != nil {
		logger.Error("open grocery store", logging.Error(err))
		return err
	}
	defer store.Close()

	ranker := ctx.ranker()
	scanner := scan.New(
		newVisionClient(cfg, logger),
		scan.WithItems(store),
		scan.WithRanker(ranker),
		scan.WithLogger(logger),
		scan.WithMinSimilarity(cfg.Matching.MinSimilarity),
	)

	if strings.TrimSpace(bind) == "" {
		bind = cfg.Paths.APIBind
	}
	server := httpapi.New(httpapi.Deps{
		Bind:    bind,
		Store:   store,
		Scanner: scanner,
		Places:  newPlacesClient(cfg, logger),
		Ranker:  ranker,
		Logger:  logger,
	})
	if err := server.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	server.Stop()
	logger.Info("grocerylens server shutting down")
	return nil
}
