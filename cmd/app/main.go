package main

import (
	"flag"
	"log"
	"os"

	"StockMetrics/internal/di"
	"StockMetrics/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s ai=%s redis=%t kafka=%t clickhouse=%t",
		cfg.Environment, cfg.AI.Provider, cfg.Cache.Redis.Enabled, cfg.Kafka.Enabled, cfg.ClickHouse.Enabled)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	runErr := app.Run()
	cleanup()
	if runErr != nil {
		log.Printf("app error: %v", runErr)
		os.Exit(1)
	}
}
