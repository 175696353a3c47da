package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/fileutil"
)

// OutputFile is one CSV file of a run.
type OutputFile struct {
	Path  string
	Decks []*deck.Deck
	// Written is false when an existing file was left untouched
	Written bool
}

// Notes returns the number of notes stored in the file.
func (f OutputFile) Notes() int {
	n := 0
	for _, d := range f.Decks {
		n += len(d.Notes)
	}
	return n
}

func (r *run) plan(agg *deck.Aggregator) ([]OutputFile, error) {
	if r.opts.Layout == config.LayoutCombined {
		return []OutputFile{{
			Path:  fileutil.GetCSVFilePath(r.kind.Name(), r.opts.OutputDir),
			Decks: agg.Decks(),
		}}, nil
	}

	files := make([]OutputFile, 0, agg.Len())
	owners := make(map[string]string, agg.Len())
	for _, d := range agg.Decks() {
		path := fileutil.GetCSVFilePath(d.Name, r.opts.OutputDir)
		if other, taken := owners[path]; taken {
			return nil, fmt.Errorf("decks %q and %q both map to %s", other, d.Key, filepath.Base(path))
		}
		owners[path] = d.Key
		files = append(files, OutputFile{Path: path, Decks: []*deck.Deck{d}})
	}
	return files, nil
}

// records returns the header-less CSV records of a file in deck order. The
// combined layout prefixes each record with its note type and deck path.
func (r *run) records(file OutputFile) [][]string {
	columns := r.kind.OutputColumns()
	combined := r.opts.Layout == config.LayoutCombined

	records := make([][]string, 0, file.Notes())
	for _, d := range file.Decks {
		for _, n := range d.Notes {
			values := n.Values(columns)
			if combined {
				values = append([]string{n.NoteType, d.Path}, values...)
			}
			records = append(records, values)
		}
	}
	return records
}

func (r *run) write(ctx context.Context, agg *deck.Aggregator, norm *normalized) error {
	files, err := r.plan(agg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		file := &files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			written, err := r.writeFile(file.Path, r.records(*file))
			if err != nil {
				return err
			}
			file.Written = written
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.result.Files = files

	if r.opts.Manifest {
		path, err := r.writeManifest(files, norm)
		if err != nil {
			return err
		}
		r.result.Manifest = path
	}

	return nil
}

func (r *run) writeFile(path string, records [][]string) (bool, error) {
	data, err := csvutil.Encode(records)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", path, err)
	}

	written, err := fileutil.WriteFileWithOverwrite(path, data, 0644, r.opts.Overwrite)
	if err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if !written {
		slog.Debug("CSV file exists, skipping", "filename", path)
		return false, nil
	}

	slog.Info("Wrote CSV file", "filename", path, "notes", len(records))
	return true, nil
}
