package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/fisworks/amendtrack/internal/api"
	"github.com/fisworks/amendtrack/internal/config"
	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Log.Level != "" {
			os.Setenv("LOG_LEVEL", cfg.Log.Level)
		}

		db, err := database.Connect()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.WaitForDB(db, 30*time.Second); err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		prometheus.MustRegister(database.NewStatsCollector(db))

		svc := service.NewAmendmentService(db)
		router := api.NewRouter(db, svc, cfg)

		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Printf("received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Printf("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
