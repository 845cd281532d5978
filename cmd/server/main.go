package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/advdiary/advdiary/internal/advisory"
	"github.com/advdiary/advdiary/internal/auth"
	"github.com/advdiary/advdiary/internal/cache"
	"github.com/advdiary/advdiary/internal/config"
	"github.com/advdiary/advdiary/internal/diary"
	"github.com/advdiary/advdiary/internal/export"
	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/internal/server"
	"github.com/advdiary/advdiary/internal/store"
	"github.com/advdiary/advdiary/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := store.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := store.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	repo := records.NewRepository(store.New(db))
	snapshots := cache.New(cfg.CacheTTL)
	sessions := auth.NewSessions(repo, cfg.SessionTTL, log)
	svc := diary.New(repo, snapshots, log)
	advisor := advisory.NewGenerator(cfg, log)

	exporter, err := export.NewExporter(cfg, log)
	if err != nil {
		// The renderer is optional; the ledger keeps working without it.
		log.Error("History export disabled", "error", err)
		exporter = nil
	}

	srv := server.New(cfg, svc, sessions, advisor, exporter, snapshots, log)

	log.Info("Starting Adv Diary",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DatabasePath,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
