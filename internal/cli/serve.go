package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
	"github.com/aristath/tnuos/internal/modules/reports"
	"github.com/aristath/tnuos/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		log := e.log

		log.Info().Msg("Starting tnuos API server")

		analyzer := opportunities.NewAnalyzer(e.calc, log)
		forecaster := forecast.NewForecaster(e.calc, log)
		generator := reports.NewGenerator(e.calc, forecaster, analyzer, log)

		srv := server.New(server.Config{
			Log:        log,
			Config:     e.cfg,
			Rates:      e.repo,
			Calculator: e.calc,
			Analyzer:   analyzer,
			Forecaster: forecaster,
			Reports:    generator,
		})

		// Start server in goroutine
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}()

		log.Info().Int("port", e.cfg.Port).Msg("Server started successfully")

		// Wait for interrupt signal
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info().Msg("Shutting down server...")

		// Graceful shutdown with a bounded window for in-flight requests
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}

		log.Info().Msg("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
