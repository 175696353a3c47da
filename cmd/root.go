package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/ankideck/cmd/lessontable"
	"github.com/lepinkainen/ankideck/cmd/pronunciation"
	"github.com/lepinkainen/ankideck/cmd/serialcourse"
	"github.com/lepinkainen/ankideck/cmd/vocabulary"
	"github.com/lepinkainen/ankideck/internal/cmdutil"
	"github.com/lepinkainen/ankideck/internal/config"
)

var (
	convertSerialCourse  = serialcourse.Convert
	convertVocabulary    = vocabulary.Convert
	convertPronunciation = pronunciation.Convert
	convertLessonTable   = lessontable.Convert
)

const (
	appName        = "ankideck"
	appDescription = "Convert Immersive Chinese scrape exports into Anki import files and download their audio."
	envPrefix      = "ANKIDECK"
)

// CLI represents the complete command structure for the ankideck application
type CLI struct {
	// Global flags
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Config  string `help:"Path to config file (defaults to ./config.yaml when present)"`

	SerialCourse  SerialCourseCmd  `cmd:"" name:"serial-course" help:"Create serial course decks"`
	Vocabulary    VocabularyCmd    `cmd:"" help:"Create vocabulary decks"`
	Pronunciation PronunciationCmd `cmd:"" help:"Create pronunciation decks"`
	LessonTable   LessonTableCmd   `cmd:"" name:"lesson-table" help:"Create lesson decks from exported HTML tables"`
}

// KindFlags are shared by every lesson kind command
type KindFlags struct {
	Data      string `short:"d" help:"CSV source file"`
	Out       string `short:"o" help:"CSV target directory"`
	Audio     string `short:"a" help:"Audio target directory (enables audio download)"`
	Layout    string `help:"Output layout: per-deck or combined (defaults to config)"`
	Overwrite bool   `help:"Overwrite existing CSV files"`
	Manifest  bool   `help:"Write a YAML manifest of the generated decks"`
	Delay     string `help:"Minimum delay between audio downloads, e.g. 1s (defaults to config)"`
}

func (f KindFlags) commandConfig(configKey string) *cmdutil.BaseCommandConfig {
	return &cmdutil.BaseCommandConfig{
		ConfigKey: configKey,
		DataFile:  f.Data,
		OutputDir: f.Out,
		AudioDir:  f.Audio,
		Layout:    f.Layout,
		Overwrite: f.Overwrite,
		Manifest:  f.Manifest,
		Delay:     f.Delay,
	}
}

// SerialCourseCmd represents the serial-course command
type SerialCourseCmd struct {
	KindFlags `embed:""`
}

// VocabularyCmd represents the vocabulary command
type VocabularyCmd struct {
	KindFlags `embed:""`
}

// PronunciationCmd represents the pronunciation command
type PronunciationCmd struct {
	KindFlags `embed:""`
}

// LessonTableCmd represents the lesson-table command
type LessonTableCmd struct {
	KindFlags `embed:""`
}

// Execute runs the Kong-based CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	kctx := kong.Parse(&cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if err := initConfig(cli.Config); err != nil {
		initLogging(cli.Verbose)
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	initLogging(cli.Verbose)

	// Execute the selected command
	if err := kctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig(path string) error {
	config.SetDefaults()

	// Enable environment variable support, e.g. ANKIDECK_VOCABULARY_DATA
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("Config file not found, using defaults")
	}

	// Initialize global config
	config.InitConfig()

	if !config.ValidLayout(config.Layout) {
		return fmt.Errorf("unknown layout %q in config", config.Layout)
	}
	return nil
}

func logLevel(verbose bool) slog.Level {
	if verbose || strings.EqualFold(viper.GetString("log.level"), "debug") {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func initLogging(verbose bool) {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: logLevel(verbose),
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}

// Run methods for each command

func (c *SerialCourseCmd) Run(ctx context.Context) error {
	return convertSerialCourse(ctx, c.commandConfig(serialcourse.Name))
}

func (c *VocabularyCmd) Run(ctx context.Context) error {
	return convertVocabulary(ctx, c.commandConfig(vocabulary.Name))
}

func (c *PronunciationCmd) Run(ctx context.Context) error {
	return convertPronunciation(ctx, c.commandConfig(pronunciation.Name))
}

func (c *LessonTableCmd) Run(ctx context.Context) error {
	return convertLessonTable(ctx, c.commandConfig(lessontable.Name))
}
