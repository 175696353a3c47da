// Package pronunciation converts the pronunciation export. Exercises only
// have one recording; the export repeats it as the slow audio.
package pronunciation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lepinkainen/ankideck/internal/audiofile"
	"github.com/lepinkainen/ankideck/internal/cmdutil"
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/errors"
	"github.com/lepinkainen/ankideck/internal/fetch"
	"github.com/lepinkainen/ankideck/internal/normalize"
	"github.com/lepinkainen/ankideck/internal/pipeline"
)

// Name is the command and config key of this kind
const Name = "pronunciation"

var (
	lessonNumberPattern = regexp.MustCompile(`\d+`)
	slidePattern        = regexp.MustCompile(`^main_slide-(\d+)$`)
)

// Kind implements pipeline.Kind for pronunciation exports.
type Kind struct{}

// New returns a pronunciation Kind.
func New() *Kind {
	return &Kind{}
}

func (k *Kind) Name() string            { return Name }
func (k *Kind) NoteType() string        { return NoteType }
func (k *Kind) InputColumns() []string  { return inputColumns }
func (k *Kind) OutputColumns() []string { return outputColumns }

func (k *Kind) Expand(rows []csvutil.Row) ([]csvutil.Row, error) {
	return rows, nil
}

// Identifier builds the card identifier "P<lesson>-<slide>" from a lesson
// name and a raw "main_slide-<n>" identifier.
func Identifier(name, raw string) (string, error) {
	lesson := lessonNumberPattern.FindString(name)
	if lesson == "" {
		return "", errors.NewMalformedReferenceError(name, "lesson name has no number")
	}
	m := slidePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", errors.NewMalformedReferenceError(raw, "expected main_slide-<n>")
	}
	return fmt.Sprintf("P%s-%s", lesson, m[1]), nil
}

// Normalize validates a pronunciation row.
func (k *Kind) Normalize(row csvutil.Row) (deck.Note, error) {
	name := normalize.LessonName(row[ColLesson], LessonPrefix)
	normalize.Trim(row, inputColumns...)
	normalize.NullToEmpty(row, ColDescription)
	row[ColLesson] = name

	if err := normalize.Require(row, row[ColIdentifier], ColIdentifier, ColLesson, ColPinyin, ColAudioFastURL); err != nil {
		return deck.Note{}, err
	}

	id, err := Identifier(name, row[ColIdentifier])
	if err != nil {
		return deck.Note{}, err
	}

	fastURL := row[ColAudioFastURL]
	if slowURL := row[ColAudioSlowURL]; slowURL != fastURL {
		return deck.Note{}, fmt.Errorf("%s: %w", id,
			errors.NewMalformedReferenceError(slowURL, "slow audio is not a duplicate of fast audio"))
	}
	audio, err := audiofile.Fast(fastURL)
	if err != nil {
		return deck.Note{}, fmt.Errorf("%s: %w", id, err)
	}

	return deck.Note{
		ID:       id,
		DeckKey:  name,
		DeckName: name,
		DeckPath: "IC::Pronunciation::" + name,
		Fields: map[string]string{
			ColIdentifier:  id,
			ColPinyin:      row[ColPinyin],
			ColDescription: row[ColDescription],
			ColAudio:       audio,
		},
	}, nil
}

func (k *Kind) Assets(row csvutil.Row, note deck.Note) []fetch.Asset {
	return []fetch.Asset{{URL: strings.TrimSpace(row[ColAudioFastURL]), Path: note.Fields[ColAudio]}}
}

// Convert runs the pronunciation conversion with the resolved command settings.
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
