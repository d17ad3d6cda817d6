package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/filedrop/internal/client/cli"
	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/config"
	"github.com/dmitrijs2005/filedrop/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/filedrop/internal/client/services"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}
	defer db.Close()

	api, err := client.NewHTTPClient(cfg.ServerURL, nil, cfg.RequestTimeout, log)
	if err != nil {
		return err
	}

	prefs := services.NewMetadataPreferences(metadata.NewSQLiteRepository(db))

	log.Debug(ctx, "client starting", "server", cfg.ServerURL, "db", cfg.DatabasePath)
	return cli.NewApp(ctx, cfg, api, prefs, log, os.Stdout).Run(ctx, os.Stdin)
}
