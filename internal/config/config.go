package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"

	"planner/internal/storage"
	"planner/internal/tasks"
)

const (
	AppName               = "planner"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "planner.db"
	DefaultDataDirName    = "data"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Left        string `toml:"left"`
	Right       string `toml:"right"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Edit        string `toml:"edit"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	NextField   string `toml:"next_field"`
	PrevField   string `toml:"prev_field"`
	Focus       string `toml:"focus"`
	FilterAll   string `toml:"filter_all"`
	FilterToday string `toml:"filter_today"`
	FilterWeek  string `toml:"filter_week"`
	FilterDone  string `toml:"filter_completed"`
	Sort        string `toml:"sort"`
	PrevMonth   string `toml:"prev_month"`
	NextMonth   string `toml:"next_month"`
	Help        string `toml:"help"`
}

type Config struct {
	Backend              string   `toml:"backend"`
	DBPath               string   `toml:"db_path"`
	DataDir              string   `toml:"data_dir"`
	LogPath              string   `toml:"log_path"`
	DefaultFilter        string   `toml:"default_filter"`
	DefaultSort          string   `toml:"default_sort"`
	TodayIncludesUndated bool     `toml:"today_includes_undated"`
	Categories           []string `toml:"categories"`
	Keys                 Keymap   `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/planner/config.toml, falling
// back to ~/.config/planner/config.toml and finally the working directory.
func ResolveConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Keys missing from the file keep their defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(filepath.Dir(path), DefaultDataDirName)
	}
	return cfg, nil
}

// StoragePath is the location handed to the configured backend.
func (c Config) StoragePath() string {
	if c.Backend == storage.BackendFile {
		return c.DataDir
	}
	return c.DBPath
}

func (c Config) Filter() tasks.FilterMode {
	m, _ := tasks.ParseFilterMode(c.DefaultFilter)
	return m
}

func (c Config) Sort() tasks.SortMode {
	m, _ := tasks.ParseSortMode(c.DefaultSort)
	return m
}

func (c Config) validate() error {
	switch c.Backend {
	case "", storage.BackendSQLite, storage.BackendFile:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DefaultFilter != "" {
		if _, err := tasks.ParseFilterMode(c.DefaultFilter); err != nil {
			return err
		}
	}
	if c.DefaultSort != "" {
		if _, err := tasks.ParseSortMode(c.DefaultSort); err != nil {
			return err
		}
	}
	return nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func defaultConfig(dir string) Config {
	return Config{
		Backend:              storage.BackendSQLite,
		DBPath:               filepath.Join(dir, DefaultDBName),
		DataDir:              filepath.Join(dir, DefaultDataDirName),
		DefaultFilter:        string(tasks.FilterAll),
		DefaultSort:          string(tasks.SortAdded),
		TodayIncludesUndated: true,
		Categories:           []string{"personal", "work", "shopping", "health", "other"},
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Left:        "h",
			Right:       "l",
			Toggle:      " ",
			Delete:      "d",
			Edit:        "e",
			Confirm:     "enter",
			Cancel:      "esc",
			NextField:   "tab",
			PrevField:   "shift+tab",
			Focus:       "tab",
			FilterAll:   "1",
			FilterToday: "2",
			FilterWeek:  "3",
			FilterDone:  "4",
			Sort:        "s",
			PrevMonth:   "[",
			NextMonth:   "]",
			Help:        "?",
		},
	}
}
