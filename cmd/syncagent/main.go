package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/keyfold/syncengine/internal/adapter"
	"github.com/keyfold/syncengine/internal/config"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/service"
	"github.com/keyfold/syncengine/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sync-agent")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	remote := adapter.NewHTTPRemoteStore(adapter.HTTPClientConfig{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.RequestTimeout,
	})

	var engine *service.Engine
	feed := adapter.NewWebsocketFeed(adapter.WebsocketFeedConfig{
		URL: cfg.Remote.FeedURL,
		OnStateChange: func(online bool) {
			engine.SetOnline(online)
		},
	}, log)

	engine = service.NewEngine(cfg, storages, remote, feed, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = engine.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start sync engine")
	}

	<-ctx.Done()
	engine.Stop()

	log.Info().Msg("sync agent shut down")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
