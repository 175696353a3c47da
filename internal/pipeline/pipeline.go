// Package pipeline drives a conversion run: load, normalize, aggregate,
// write and optionally fetch audio.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/fetch"
	"github.com/lepinkainen/ankideck/internal/ratelimit"
)

// LockFileName is created in the audio directory while assets are fetched.
const LockFileName = ".ankideck.lock"

// Options configures a single run.
type Options struct {
	DataFile  string
	OutputDir string
	// AudioDir enables the audio stage when set
	AudioDir  string
	Layout    string
	Overwrite bool
	Manifest  bool
	// Delay is the minimum spacing between two network fetches
	Delay time.Duration
}

// Result summarizes a completed run.
type Result struct {
	Stage    Stage
	Rows     int
	Notes    int
	Decks    []*deck.Deck
	Files    []OutputFile
	Manifest string
	Audio    *fetch.Summary
}

type normalized struct {
	notes  []deck.Note
	assets map[string][]fetch.Asset
	order  []fetch.Asset
}

type run struct {
	kind   Kind
	opts   Options
	result *Result
}

func (r *run) enter(stage Stage, args ...any) {
	r.result.Stage = stage
	slog.Info("Pipeline stage", append([]any{"kind", r.kind.Name(), "stage", stage.String()}, args...)...)
}

// Run converts opts.DataFile into flashcard CSV files for kind. Any load,
// normalization or write error aborts the run. Audio download failures are
// only logged and counted.
func Run(ctx context.Context, kind Kind, opts Options) (*Result, error) {
	if opts.DataFile == "" {
		return nil, fmt.Errorf("data file is required")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Layout == "" {
		opts.Layout = config.LayoutPerDeck
	}
	if !config.ValidLayout(opts.Layout) {
		return nil, fmt.Errorf("unknown layout %q", opts.Layout)
	}

	r := &run{kind: kind, opts: opts, result: &Result{Stage: Started}}

	rows, err := r.load()
	if err != nil {
		return nil, err
	}
	r.result.Rows = len(rows)
	r.enter(Loaded, "rows", len(rows))

	norm, err := r.normalize(rows)
	if err != nil {
		return nil, err
	}
	r.result.Notes = len(norm.notes)
	r.enter(Normalized, "notes", len(norm.notes))

	agg, err := deck.Aggregate(norm.notes)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate notes: %w", err)
	}
	r.result.Decks = agg.Decks()
	r.enter(Aggregated, "decks", agg.Len())

	if err := r.write(ctx, agg, norm); err != nil {
		return nil, err
	}
	r.enter(Written, "files", len(r.result.Files))

	if opts.AudioDir == "" {
		return r.result, nil
	}

	summary, err := r.fetchAudio(ctx, norm.order)
	if err != nil {
		return nil, err
	}
	r.result.Audio = &summary
	r.enter(AudioFetched,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return r.result, nil
}

func (r *run) load() ([]csvutil.Row, error) {
	slog.Debug("Loading rows", "file", r.opts.DataFile)

	rows, err := csvutil.LoadRows(r.opts.DataFile, r.kind.InputColumns())
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", r.opts.DataFile, err)
	}

	rows, err = r.kind.Expand(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to expand rows: %w", err)
	}
	return rows, nil
}

func (r *run) normalize(rows []csvutil.Row) (*normalized, error) {
	norm := &normalized{
		notes:  make([]deck.Note, 0, len(rows)),
		assets: make(map[string][]fetch.Asset),
	}

	for i, row := range rows {
		raw := row.Clone()
		note, err := r.kind.Normalize(row)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize row %d: %w", i+1, err)
		}
		note.NoteType = r.kind.NoteType()
		norm.notes = append(norm.notes, note)

		for _, a := range r.kind.Assets(raw, note) {
			if a.URL == "" || a.Path == "" {
				continue
			}
			norm.assets[note.ID] = append(norm.assets[note.ID], a)
			norm.order = append(norm.order, a)
		}
	}

	return norm, nil
}

func (r *run) fetchAudio(ctx context.Context, assets []fetch.Asset) (fetch.Summary, error) {
	if err := os.MkdirAll(r.opts.AudioDir, 0755); err != nil {
		return fetch.Summary{}, fmt.Errorf("failed to create audio directory: %w", err)
	}

	lockPath := filepath.Join(r.opts.AudioDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fetch.Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fetch.Summary{}, fmt.Errorf("audio directory %s is in use by another run", r.opts.AudioDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release audio lock", "lock", lockPath, "error", err)
		}
	}()

	placed := make([]fetch.Asset, len(assets))
	for i, a := range assets {
		placed[i] = fetch.Asset{URL: a.URL, Path: filepath.Join(r.opts.AudioDir, a.Path)}
	}

	limiter := ratelimit.New(r.kind.Name()+" audio", r.opts.Delay)
	slog.Debug("Fetching audio", "assets", len(placed), "dir", r.opts.AudioDir, "delay", limiter.Interval())
	return fetch.New(limiter).FetchAll(ctx, placed)
}
