package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OverwriteFiles bool
	Layout         string
	DownloadDelay  time.Duration
	AudioBaseURL   string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OverwriteFiles: config.OverwriteFiles,
		Layout:         config.Layout,
		DownloadDelay:  config.DownloadDelay,
		AudioBaseURL:   config.AudioBaseURL,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
	config.Layout = state.Layout
	config.DownloadDelay = state.DownloadDelay
	config.AudioBaseURL = state.AudioBaseURL
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with common defaults:
// per-deck layout, no overwrite and no download delay.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	ResetConfig(t)

	config.OverwriteFiles = false
	config.Layout = config.LayoutPerDeck
	config.DownloadDelay = 0
	config.AudioBaseURL = config.DefaultAudioBaseURL
}

// SetAudioBaseURL points synthesized audio URLs at a test server.
func SetAudioBaseURL(t *testing.T, baseURL string) {
	t.Helper()

	orig := config.AudioBaseURL
	config.AudioBaseURL = baseURL
	t.Cleanup(func() { config.AudioBaseURL = orig })
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// Note: viper doesn't have an Unset function, so we can't
		// restore the "unset" state. This is a known limitation.
	})
}
