package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// LayoutPerDeck writes one CSV file per deck
	LayoutPerDeck = "per-deck"
	// LayoutCombined writes every deck into a single CSV file
	LayoutCombined = "combined"

	// DefaultDownloadDelay is the minimum spacing between audio downloads
	DefaultDownloadDelay = time.Second
	// DefaultAudioBaseURL is where audio referenced only by identifier lives
	DefaultAudioBaseURL = "https://www.immersivechinese.com"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing CSV files should be overwritten
	OverwriteFiles bool
	// Layout selects per-deck or combined CSV output
	Layout = LayoutPerDeck
	// DownloadDelay is the minimum spacing between two network fetches
	DownloadDelay = DefaultDownloadDelay
	// AudioBaseURL is the base for synthesized vocabulary and male audio URLs
	AudioBaseURL = DefaultAudioBaseURL
)

// SetDefaults registers the default values with viper
func SetDefaults() {
	viper.SetDefault("overwrite", false)
	viper.SetDefault("layout", LayoutPerDeck)
	viper.SetDefault("delay", DefaultDownloadDelay.String())
	viper.SetDefault("audio.base_url", DefaultAudioBaseURL)
	viper.SetDefault("log.level", "info")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	OverwriteFiles = viper.GetBool("overwrite")
	Layout = viper.GetString("layout")
	DownloadDelay = viper.GetDuration("delay")
	AudioBaseURL = viper.GetString("audio.base_url")
}

// ValidLayout reports whether layout names a known output layout
func ValidLayout(layout string) bool {
	return layout == LayoutPerDeck || layout == LayoutCombined
}
