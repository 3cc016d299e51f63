package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/serisow/loopforge/asset"
	"github.com/serisow/loopforge/composer"
	"github.com/serisow/loopforge/config"
	"github.com/serisow/loopforge/db"
	"github.com/serisow/loopforge/handlers"
	"github.com/serisow/loopforge/jobstore"
	"github.com/serisow/loopforge/logging"
	"github.com/serisow/loopforge/notify"
	"github.com/serisow/loopforge/preset"
	"github.com/serisow/loopforge/progress"
	"github.com/serisow/loopforge/server"
	"github.com/serisow/loopforge/worker"
)

func main() {
	cfg := config.Load()

	logger, err := initLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := asset.DefaultCatalog()

	store := progress.NewMemoryStore(logger)
	store.StartSweeper(cfg.ProgressRetention, cfg.ProgressSweepInterval)
	defer store.StopSweeper()

	runner := composer.NewFFmpegRunner(logger, cfg.FFmpegPath, cfg.FFprobePath)
	c := composer.New(logger, store, runner, cfg.AssetsDir, cfg.OverlaysEnabled)
	presets := preset.New(logger, catalog, c, cfg.OutputDir)

	pool := worker.NewPool(logger, presets, cfg.MaxConcurrentEncodes, cfg.RenderQueueSize)

	var history jobstore.Repository
	if cfg.DatabaseURL != "" {
		pgPool, err := db.Connect(ctx, logger, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to the database: %v", err)
		}
		defer pgPool.Close()

		repo, err := jobstore.NewPostgresRepository(ctx, pgPool, logger)
		if err != nil {
			log.Fatalf("Failed to initialize render history: %v", err)
		}
		history = repo
		pool.SetHistory(history)
	}

	if cfg.SMSEnabled() {
		pool.SetNotifier(notify.NewSMSNotifier(logger, notify.SMSConfig{
			AccountSID:       cfg.TwilioAccountSID,
			AuthToken:        cfg.TwilioAuthToken,
			FromNumber:       cfg.TwilioFromNumber,
			ToNumber:         cfg.TwilioToNumber,
			NotifyOnComplete: cfg.TwilioNotifyOnComplete,
		}))
	}

	pool.Start(ctx)

	cleanup := composer.NewCleanupService(logger, cfg.OutputDir, cfg.OutputRetentionDays)
	cleanup.StartSchedule(cfg.OutputCleanupInterval)

	videoHandler := handlers.NewVideoHandler(logger, pool, store, history)
	r := server.SetupRoutes(videoHandler)
	n := setupNegroni(r)

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg.Domains, cfg.CertCacheDir, cfg.HTTPSPort)
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		server.ServeDevelopment(srv)
	}
}

func initLogger(cfg config.Config) (*slog.Logger, error) {
	handler, err := logging.NewDailyFileHandler(cfg.LogDir, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}
