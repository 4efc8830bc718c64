package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/pureflow/water-quality-viewer/services/api/config"
	"github.com/pureflow/water-quality-viewer/services/api/db"
	"github.com/pureflow/water-quality-viewer/services/api/geo"
	httpserver "github.com/pureflow/water-quality-viewer/services/api/http"
	"github.com/pureflow/water-quality-viewer/services/api/hubeau"
	"github.com/pureflow/water-quality-viewer/services/api/waterquality"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection error: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		log.Fatalf("db schema error: %v", err)
	}

	water := waterquality.New(hubeau.New(cfg.HubeauBaseURL), cfg.HistoryWindow)
	geocoder := geo.New(cfg.GeoBaseURL)

	srv := httpserver.New(cfg, water, geocoder, store)
	log.Infof("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
