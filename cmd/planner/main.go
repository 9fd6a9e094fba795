package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"planner/internal/config"
	"planner/internal/storage"
	"planner/internal/tasks"
	"planner/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to config.toml")
	backend := flag.String("backend", "", "storage backend: sqlite or file (overrides config)")
	dbPath := flag.String("db", "", "storage path: database file or data dir (overrides config)")
	logPath := flag.String("log", "", "debug log file (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
		cfg.DataDir = *dbPath
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}

	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "planner")
		if err != nil {
			fmt.Printf("failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	slot, err := storage.OpenBackend(cfg.Backend, cfg.StoragePath())
	if err != nil {
		fmt.Printf("failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer slot.Close()

	store := tasks.Open(slot)
	log.Printf("loaded %d tasks from %s (%s)", store.Len(), cfg.StoragePath(), cfg.Backend)

	if err := ui.Run(store, cfg); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
