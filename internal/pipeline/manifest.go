package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/ankideck/internal/fileutil"
)

// Manifest describes the files of a run for later inspection.
type Manifest struct {
	Kind     string          `yaml:"kind"`
	NoteType string          `yaml:"noteType"`
	Layout   string          `yaml:"layout"`
	Decks    []ManifestEntry `yaml:"decks"`
}

// ManifestEntry is one deck of a manifest.
type ManifestEntry struct {
	Name  string   `yaml:"name"`
	Path  string   `yaml:"path"`
	File  string   `yaml:"file"`
	Notes int      `yaml:"notes"`
	Audio []string `yaml:"audio,omitempty"`
}

// ManifestPath returns where the manifest of kind is written.
func ManifestPath(outputDir, kind string) string {
	return filepath.Join(outputDir, kind+".manifest.yaml")
}

func (r *run) buildManifest(files []OutputFile, norm *normalized) Manifest {
	m := Manifest{
		Kind:     r.kind.Name(),
		NoteType: r.kind.NoteType(),
		Layout:   r.opts.Layout,
	}

	for _, f := range files {
		for _, d := range f.Decks {
			entry := ManifestEntry{
				Name:  d.Name,
				Path:  d.Path,
				File:  filepath.Base(f.Path),
				Notes: len(d.Notes),
			}
			seen := make(map[string]struct{})
			for _, n := range d.Notes {
				for _, a := range norm.assets[n.ID] {
					if _, dup := seen[a.Path]; dup {
						continue
					}
					seen[a.Path] = struct{}{}
					entry.Audio = append(entry.Audio, a.Path)
				}
			}
			m.Decks = append(m.Decks, entry)
		}
	}
	return m
}

func (r *run) writeManifest(files []OutputFile, norm *normalized) (string, error) {
	path := ManifestPath(r.opts.OutputDir, r.kind.Name())

	m := r.buildManifest(files, norm)
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	written, err := fileutil.WriteFileWithOverwrite(path, data, 0644, r.opts.Overwrite)
	if err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	if written {
		slog.Info("Wrote manifest", "filename", path, "decks", len(m.Decks))
	} else {
		slog.Debug("Manifest exists, skipping", "filename", path)
	}
	return path, nil
}
