package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/geo"
	"github.com/justsurfingit/lead-scout/internal/handlers"
	"github.com/justsurfingit/lead-scout/internal/pipeline"
	"github.com/justsurfingit/lead-scout/internal/services"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		store, closer, err := openStorage(ctx, cfg)
		if err != nil {
			return eris.Wrap(err, "open storage")
		}
		defer closer.Close()

		discovery, enrich, err := openProviders(ctx, cfg)
		if err != nil {
			return eris.Wrap(err, "open provider")
		}

		geoCtx, cancelGeo := context.WithTimeout(ctx, 5*time.Second)
		location := geo.Resolve(geoCtx, locator(cfg))
		cancelGeo()

		pipe := pipeline.Open(ctx, store, pipeline.Keys{
			Leads: cfg.Pipeline.LeadsKey,
			Jobs:  cfg.Pipeline.JobsKey,
		})

		llm := services.NewLLMService(discovery, enrich, services.LLMConfig{
			Timeout:       time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
			MaxAttempts:   cfg.Provider.MaxAttempts,
			RatePerMinute: cfg.Provider.RatePerMinute,
			JSONMode:      cfg.Provider.JSONMode,
		})
		leadService := services.NewLeadService(llm, pipe, location, cfg.Views.PageSize)
		jobService := services.NewJobService(llm, pipe, cfg.Views.PageSize)
		pipelineService := services.NewPipelineService(pipe, leadService, cfg.Views.PageSize)

		if cfg.Log.Format != "console" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := handlers.NewRouter(cfg.Server.CORSOrigins,
			handlers.NewLeadHandler(leadService),
			handlers.NewJobHandler(jobService),
			handlers.NewPipelineHandler(pipelineService),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("provider", discovery.Name()),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
