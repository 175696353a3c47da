package cmdutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/lepinkainen/ankideck/internal/pipeline"
)

// BaseCommandConfig holds the settings shared by every lesson kind command
type BaseCommandConfig struct {
	// ConfigKey is the config section of the kind, e.g. "vocabulary"
	ConfigKey string
	DataFile  string
	OutputDir string
	AudioDir  string
	Layout    string
	Overwrite bool
	Manifest  bool
	Delay     string
}

// ResolvePaths fills empty paths from the kind's config section and checks
// that the required ones are present.
func ResolvePaths(cfg *BaseCommandConfig) error {
	// If flags weren't provided, try to get values from config
	if cfg.DataFile == "" {
		cfg.DataFile = viper.GetString(cfg.ConfigKey + ".data")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = viper.GetString(cfg.ConfigKey + ".out")
	}
	if cfg.AudioDir == "" {
		cfg.AudioDir = viper.GetString(cfg.ConfigKey + ".audio")
	}

	// Check if required values are still missing
	if cfg.DataFile == "" {
		return fmt.Errorf("data file is required (provide via --data flag or %s.data in config)", cfg.ConfigKey)
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("output directory is required (provide via --out flag or %s.out in config)", cfg.ConfigKey)
	}

	cfg.DataFile = filepath.Clean(cfg.DataFile)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	if cfg.AudioDir != "" {
		cfg.AudioDir = filepath.Clean(cfg.AudioDir)
	}

	// Create directories if they don't exist
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}

// Options resolves cfg into pipeline options. Flags win over config values;
// config values win over the built-in defaults.
func Options(cfg *BaseCommandConfig) (pipeline.Options, error) {
	if err := ResolvePaths(cfg); err != nil {
		return pipeline.Options{}, err
	}

	layout := cfg.Layout
	if layout == "" {
		layout = config.Layout
	}
	if !config.ValidLayout(layout) {
		return pipeline.Options{}, fmt.Errorf("unknown layout %q (use %s or %s)", layout, config.LayoutPerDeck, config.LayoutCombined)
	}

	delay := config.DownloadDelay
	if cfg.Delay != "" {
		d, err := time.ParseDuration(cfg.Delay)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid delay %q: %w", cfg.Delay, err)
		}
		delay = d
	}

	return pipeline.Options{
		DataFile:  cfg.DataFile,
		OutputDir: cfg.OutputDir,
		AudioDir:  cfg.AudioDir,
		Layout:    layout,
		Overwrite: cfg.Overwrite || config.OverwriteFiles,
		Manifest:  cfg.Manifest,
		Delay:     delay,
	}, nil
}

// LogResult reports a finished run.
func LogResult(kind string, result *pipeline.Result) {
	written := 0
	for _, f := range result.Files {
		if f.Written {
			written++
		}
	}

	args := []any{
		"kind", kind,
		"notes", result.Notes,
		"decks", len(result.Decks),
		"files", len(result.Files),
		"written", written,
	}
	if result.Audio != nil {
		args = append(args,
			"downloaded", result.Audio.Downloaded,
			"skipped", result.Audio.Skipped,
			"failed", result.Audio.Failed)
	}
	slog.Info("Conversion complete", args...)
}
