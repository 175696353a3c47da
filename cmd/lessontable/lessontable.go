// Package lessontable converts exports that store each lesson as one row
// with the exercises in an embedded HTML table.
package lessontable

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/ankideck/internal/audiofile"
	"github.com/lepinkainen/ankideck/internal/cmdutil"
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/fetch"
	"github.com/lepinkainen/ankideck/internal/htmltable"
	"github.com/lepinkainen/ankideck/internal/normalize"
	"github.com/lepinkainen/ankideck/internal/pipeline"
)

// Name is the command and config key of this kind
const Name = "lesson-table"

// NoteType is the importer note type for lesson table cards
const NoteType = "IC Lesson"

// Input columns of the lesson export
const (
	ColOrder    = "web-scraper-order"
	ColStartURL = "web-scraper-start-url"
	ColName     = "name"
	ColHref     = "href"
	ColTable    = "table"
)

// Derived output columns
const (
	ColAudioFast = "audioFast"
	ColAudioSlow = "audioSlow"
)

var inputColumns = []string{ColOrder, ColStartURL, ColName, ColHref, ColTable}

var outputColumns = []string{
	htmltable.ColIdentifier,
	htmltable.ColPinyin,
	htmltable.ColSimplified,
	htmltable.ColTraditional,
	htmltable.ColTranslation,
	ColAudioFast,
	ColAudioSlow,
}

var requiredColumns = []string{
	htmltable.ColIdentifier,
	ColName,
	htmltable.ColPinyin,
	htmltable.ColSimplified,
	htmltable.ColTraditional,
	htmltable.ColTranslation,
	htmltable.ColAudioFastURL,
}

// Kind implements pipeline.Kind for lesson table exports.
type Kind struct{}

// New returns a lesson table Kind.
func New() *Kind {
	return &Kind{}
}

func (k *Kind) Name() string            { return Name }
func (k *Kind) NoteType() string        { return NoteType }
func (k *Kind) InputColumns() []string  { return inputColumns }
func (k *Kind) OutputColumns() []string { return outputColumns }

// Expand replaces every lesson row with one row per exercise of its table.
func (k *Kind) Expand(rows []csvutil.Row) ([]csvutil.Row, error) {
	var out []csvutil.Row
	for _, row := range rows {
		name := normalize.LessonName(row[ColName], "")

		exercises, err := htmltable.Extract(row[ColTable])
		if err != nil {
			return nil, fmt.Errorf("lesson %q: %w", name, err)
		}
		slog.Debug("Processed lesson", "lesson", name, "exercises", len(exercises))

		extra := csvutil.Row{
			ColOrder:    row[ColOrder],
			ColStartURL: row[ColStartURL],
			ColName:     row[ColName],
			ColHref:     row[ColHref],
		}
		for _, ex := range exercises {
			out = append(out, ex.Row(extra))
		}
	}
	return out, nil
}

// Normalize validates an exercise row produced by Expand.
func (k *Kind) Normalize(row csvutil.Row) (deck.Note, error) {
	name := normalize.LessonName(row[ColName], "")
	normalize.Trim(row, requiredColumns...)
	normalize.Trim(row, htmltable.ColAudioSlowURL)
	row[ColName] = name

	id := row[htmltable.ColIdentifier]
	if err := normalize.Require(row, id, requiredColumns...); err != nil {
		return deck.Note{}, err
	}

	fastURL := row[htmltable.ColAudioFastURL]
	fast, err := audiofile.Fast(fastURL)
	if err != nil {
		return deck.Note{}, fmt.Errorf("%s: %w", id, err)
	}
	slow, err := audiofile.SlowFor(fastURL, row[htmltable.ColAudioSlowURL])
	if err != nil {
		return deck.Note{}, fmt.Errorf("%s: %w", id, err)
	}

	return deck.Note{
		ID:       id,
		DeckKey:  name,
		DeckName: name,
		DeckPath: "IC::Lessons::" + name,
		Fields: map[string]string{
			htmltable.ColIdentifier:  id,
			htmltable.ColPinyin:      row[htmltable.ColPinyin],
			htmltable.ColSimplified:  row[htmltable.ColSimplified],
			htmltable.ColTraditional: row[htmltable.ColTraditional],
			htmltable.ColTranslation: row[htmltable.ColTranslation],
			ColAudioFast:             fast,
			ColAudioSlow:             slow,
		},
	}, nil
}

func (k *Kind) Assets(row csvutil.Row, note deck.Note) []fetch.Asset {
	assets := []fetch.Asset{{
		URL:  strings.TrimSpace(row[htmltable.ColAudioFastURL]),
		Path: note.Fields[ColAudioFast],
	}}
	if slow := note.Fields[ColAudioSlow]; slow != "" {
		assets = append(assets, fetch.Asset{URL: strings.TrimSpace(row[htmltable.ColAudioSlowURL]), Path: slow})
	}
	return assets
}

// Convert runs the lesson table conversion with the resolved command settings.
func Convert(ctx context.Context, cfg *cmdutil.BaseCommandConfig) error {
	opts, err := cmdutil.Options(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx, New(), opts)
	if err != nil {
		return err
	}

	cmdutil.LogResult(Name, result)
	return nil
}
