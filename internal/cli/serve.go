package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/brolli/brolli/internal/httpapi"
	"github.com/brolli/brolli/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the voucher, risk assessment and chat endpoints.

Example:
  brolli serve
  brolli serve --addr :8080 --network base
  NETWORK=hardhat LICENSE_SIGNER_PRIVATE_KEY=0x... brolli serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :3001)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(appOptions{metrics: true, llm: true})
	if err != nil {
		return err
	}
	defer a.Close()

	var limiter *worker.Limiter
	if rps := a.cfg.RateLimiting.RequestsPerSecond; rps > 0 {
		limiter = worker.NewLimiter(rps, a.cfg.RateLimiting.BurstSize)
	}

	srv := httpapi.New(httpapi.Options{
		Catalog:   a.catalog,
		Issuer:    a.issuer,
		Engine:    a.engine,
		Responder: a.responder,
		Chat:      a.chat,
		Limiter:   limiter,
		Logger:    a.log.Named("http"),
		Metrics:   a.metrics,
	})

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go srv.SweepLimiter(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("api server starting",
			zap.String("addr", a.cfg.Server.Addr),
			zap.String("network", a.issuer.Network().String()),
			zap.Int64("chain_id", a.issuer.ChainID()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
