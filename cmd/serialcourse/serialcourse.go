// Package serialcourse converts the serial course export. Lessons are grouped
// by chapter, and every exercise may carry fast, male and slow recordings.
package serialcourse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/ankideck/internal/audiofile"
	"github.com/lepinkainen/ankideck/internal/cmdutil"
	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/fetch"
	"github.com/lepinkainen/ankideck/internal/normalize"
	"github.com/lepinkainen/ankideck/internal/pipeline"
)

// Name is the command and config key of this kind
const Name = "serial-course"

// Kind implements pipeline.Kind for serial course exports.
type Kind struct {
	// AudioBaseURL is where the male voice recordings are served from
	AudioBaseURL string
}

// New returns a Kind using the configured audio base URL.
func New() *Kind {
	return &Kind{AudioBaseURL: config.AudioBaseURL}
}

func (k *Kind) Name() string            { return Name }
func (k *Kind) NoteType() string        { return NoteType }
func (k *Kind) InputColumns() []string  { return inputColumns }
func (k *Kind) OutputColumns() []string { return outputColumns }

func (k *Kind) Expand(rows []csvutil.Row) ([]csvutil.Row, error) {
	return rows, nil
}

// Normalize validates a serial course row and derives its audio file names
// and chapter deck.
func (k *Kind) Normalize(row csvutil.Row) (deck.Note, error) {
	name := normalize.LessonName(row[ColLesson], "")
	normalize.Trim(row, inputColumns...)
	normalize.NullToEmpty(row, ColNote, ColAudioMaleID)
	row[ColLesson] = name

	id := row[ColIdentifier]
	if err := normalize.Require(row, id, requiredColumns...); err != nil {
		return deck.Note{}, err
	}

	fastURL := row[ColAudioFastURL]
	slowURL := row[ColAudioSlowURL]

	fast, err := audiofile.Fast(fastURL)
	if err != nil {
		return deck.Note{}, fmt.Errorf("%s: %w", id, err)
	}
	slow, err := audiofile.SlowFor(fastURL, slowURL)
	if err != nil {
		return deck.Note{}, fmt.Errorf("%s: %w", id, err)
	}
	if slow == "" {
		slog.Debug("Missing slow audio", "identifier", id)
	}

	male := ""
	if row[ColAudioMaleID] != "" {
		if male, err = audiofile.Male(fastURL); err != nil {
			return deck.Note{}, fmt.Errorf("%s: %w", id, err)
		}
	}

	chapter, err := normalize.ChapterOf(row[ColLessonHref])
	if err != nil {
		return deck.Note{}, fmt.Errorf("%s: %w", id, err)
	}

	return deck.Note{
		ID:       id,
		DeckKey:  chapter + "::" + name,
		DeckName: name,
		DeckPath: fmt.Sprintf("IC::Serial Course::Chapter %s::%s", chapter, name),
		Fields: map[string]string{
			ColIdentifier:    id,
			ColSimplified:    row[ColSimplified],
			ColTraditional:   row[ColTraditional],
			ColPinyin:        row[ColPinyin],
			ColTranslation:   row[ColTranslation],
			ColNote:          row[ColNote],
			ColAudioFast:     fast,
			ColAudioFastMale: male,
			ColAudioSlow:     slow,
		},
	}, nil
}

// Assets returns the fast recording, then the male voice and the slow
// recording when the row has them.
func (k *Kind) Assets(row csvutil.Row, note deck.Note) []fetch.Asset {
	fastURL := strings.TrimSpace(row[ColAudioFastURL])
	assets := []fetch.Asset{{URL: fastURL, Path: note.Fields[ColAudioFast]}}

	if male := note.Fields[ColAudioFastMale]; male != "" {
		maleID := strings.TrimSpace(row[ColAudioMaleID])
		assets = append(assets, fetch.Asset{
			URL:  fmt.Sprintf("%s/male/%s%s", strings.TrimSuffix(k.AudioBaseURL, "/"), maleID, audiofile.Extension),
			Path: male,
		})
	}

	if slow := note.Fields[ColAudioSlow]; slow != "" {
		assets = append(assets, fetch.Asset{URL: strings.TrimSpace(row[ColAudioSlowURL]), Path: slow})
	}

	return assets
}

// Convert runs the serial course conversion with the resolved command settings.
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
