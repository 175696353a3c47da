package cmdutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/lepinkainen/ankideck/internal/fetch"
	"github.com/lepinkainen/ankideck/internal/pipeline"
	"github.com/lepinkainen/ankideck/internal/testutil"
)

func TestResolvePathsUsesConfigFallbacks(t *testing.T) {
	testutil.ResetConfig(t)

	tempDir := t.TempDir()
	testutil.SetViperValue(t, "vocabulary.data", filepath.Join(tempDir, "vocab.csv"))
	testutil.SetViperValue(t, "vocabulary.out", filepath.Join(tempDir, "csv", "vocabulary"))
	testutil.SetViperValue(t, "vocabulary.audio", filepath.Join(tempDir, "audio"))

	cfg := &BaseCommandConfig{ConfigKey: "vocabulary"}

	err := ResolvePaths(cfg)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(tempDir, "vocab.csv"), cfg.DataFile)
	require.Equal(t, filepath.Join(tempDir, "csv", "vocabulary"), cfg.OutputDir)
	require.Equal(t, filepath.Join(tempDir, "audio"), cfg.AudioDir)
	require.DirExists(t, cfg.OutputDir)
}

func TestResolvePathsPrefersFlags(t *testing.T) {
	testutil.ResetConfig(t)

	tempDir := t.TempDir()
	testutil.SetViperValue(t, "pronunciation.data", "from-config.csv")
	testutil.SetViperValue(t, "pronunciation.out", "from-config")

	cfg := &BaseCommandConfig{
		ConfigKey: "pronunciation",
		DataFile:  filepath.Join(tempDir, "flag.csv"),
		OutputDir: filepath.Join(tempDir, "out") + "/",
	}

	err := ResolvePaths(cfg)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(tempDir, "flag.csv"), cfg.DataFile)
	require.Equal(t, filepath.Join(tempDir, "out"), cfg.OutputDir)
	require.Empty(t, cfg.AudioDir)
}

func TestResolvePathsRequiresDataAndOut(t *testing.T) {
	testutil.ResetConfig(t)

	err := ResolvePaths(&BaseCommandConfig{ConfigKey: "serial-course"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--data flag or serial-course.data")

	err = ResolvePaths(&BaseCommandConfig{ConfigKey: "serial-course", DataFile: "in.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out flag or serial-course.out")
}

func TestOptions(t *testing.T) {
	testutil.SetTestConfig(t)
	tempDir := t.TempDir()

	testCases := []struct {
		name     string
		cfg      BaseCommandConfig
		setup    func()
		expected pipeline.Options
		errMsg   string
	}{
		{
			name: "defaults from config",
			cfg:  BaseCommandConfig{ConfigKey: "vocabulary", DataFile: "in.csv", OutputDir: tempDir},
			setup: func() {
				config.Layout = config.LayoutCombined
				config.DownloadDelay = 2 * time.Second
				config.OverwriteFiles = true
			},
			expected: pipeline.Options{
				DataFile:  "in.csv",
				OutputDir: tempDir,
				Layout:    config.LayoutCombined,
				Overwrite: true,
				Delay:     2 * time.Second,
			},
		},
		{
			name: "flags win",
			cfg: BaseCommandConfig{
				ConfigKey: "vocabulary",
				DataFile:  "in.csv",
				OutputDir: tempDir,
				AudioDir:  "audio",
				Layout:    config.LayoutPerDeck,
				Manifest:  true,
				Delay:     "250ms",
			},
			expected: pipeline.Options{
				DataFile:  "in.csv",
				OutputDir: tempDir,
				AudioDir:  "audio",
				Layout:    config.LayoutPerDeck,
				Manifest:  true,
				Delay:     250 * time.Millisecond,
			},
		},
		{
			name:   "bad layout",
			cfg:    BaseCommandConfig{ConfigKey: "vocabulary", DataFile: "in.csv", OutputDir: tempDir, Layout: "zip"},
			errMsg: `unknown layout "zip"`,
		},
		{
			name:   "bad delay",
			cfg:    BaseCommandConfig{ConfigKey: "vocabulary", DataFile: "in.csv", OutputDir: tempDir, Delay: "soon"},
			errMsg: `invalid delay "soon"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.SetTestConfig(t)
			if tc.setup != nil {
				tc.setup()
			}

			cfg := tc.cfg
			opts, err := Options(&cfg)
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, opts)
		})
	}
}

func TestLogResult(t *testing.T) {
	// Only checks that reporting copes with runs with and without audio
	LogResult("vocabulary", &pipeline.Result{
		Notes: 2,
		Files: []pipeline.OutputFile{{Path: "a.csv", Written: true}, {Path: "b.csv"}},
	})
	LogResult("vocabulary", &pipeline.Result{Audio: &fetch.Summary{Downloaded: 1}})
}
