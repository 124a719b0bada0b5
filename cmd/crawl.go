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
	"golang.org/x/sync/errgroup"

	"github.com/goodwatch/goodwatch-crawler/internal/app"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Starts the crawl loops for every configured data source",
		Long: `Runs one poll loop per data source plus the operational HTTP server
(probes, metrics, source status). The process runs until interrupted.`,
		RunE: runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", appInstance.Config.Server.Port),
		Handler:           appInstance.Ops.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	group.Go(func() error {
		logger.Info("ops server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	for _, source := range appInstance.Sources {
		source := source
		group.Go(func() error {
			if err := appInstance.Scheduler.Run(ctx, source); !errors.Is(err, context.Canceled) {
				return fmt.Errorf("data source %s: %w", source.Config().Name, err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("crawler stopped")
	return nil
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
