// Package vocabulary converts the vocabulary export into one deck per lesson.
// Vocabulary rows carry no audio URL; the audio is looked up by identifier.
package vocabulary

import (
	"context"
	"fmt"
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
const Name = "vocabulary"

// Kind implements pipeline.Kind for vocabulary exports.
type Kind struct {
	// AudioBaseURL is where vocabulary audio is served from
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

// Normalize validates a vocabulary row. The lesson column holds the bare
// lesson number.
func (k *Kind) Normalize(row csvutil.Row) (deck.Note, error) {
	normalize.Trim(row, inputColumns...)

	id := row[ColIdentifier]
	if err := normalize.Require(row, id, ColIdentifier, ColLesson, ColSimplified, ColTraditional, ColPinyin, ColTranslation); err != nil {
		return deck.Note{}, err
	}

	name := "Lesson " + normalize.LessonName(row[ColLesson], "")

	audio, err := audiofile.FromIdentifier(id)
	if err != nil {
		return deck.Note{}, err
	}

	return deck.Note{
		ID:       id,
		DeckKey:  name,
		DeckName: name,
		DeckPath: "IC::Vocabulary::" + name,
		Fields: map[string]string{
			ColIdentifier:  id,
			ColSimplified:  row[ColSimplified],
			ColTraditional: row[ColTraditional],
			ColPinyin:      row[ColPinyin],
			ColTranslation: row[ColTranslation],
			ColAudio:       audio,
		},
	}, nil
}

func (k *Kind) Assets(_ csvutil.Row, note deck.Note) []fetch.Asset {
	return []fetch.Asset{{
		URL:  fmt.Sprintf("%s/vocab/%s%s", strings.TrimSuffix(k.AudioBaseURL, "/"), note.ID, audiofile.Extension),
		Path: note.Fields[ColAudio],
	}}
}

// Convert runs the vocabulary conversion with the resolved command settings.
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
