package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/mduarte/ata/internal/cli"
	"github.com/mduarte/ata/internal/config"
	"github.com/mduarte/ata/internal/service"
	"github.com/mduarte/ata/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	configPath := os.Getenv("ATA_CONFIG")
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	// Determine DB path: env var, config file, or default ~/.ata/ata.db
	dbPath := os.Getenv("ATA_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".ata", "ata.db")
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return err
	}
	if os.Getenv("ATA_DB") != "" {
		cfg.Database.Path = dbPath
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	docs := service.NewDocumentService(store, logger)

	app := &cli.App{
		Documents: docs,
		Import:    service.NewImportService(docs),
		Store:     store,
		Config:    cfg,
	}

	// Detect interactive terminal for wizard and browse entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
