package pipeline

import (
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/fetch"
)

// Kind describes one lesson export format: which columns it reads, how a
// row becomes a note and which audio the note references.
type Kind interface {
	// Name is the command and file name of the kind, e.g. "vocabulary"
	Name() string
	// NoteType is the importer's note type for this kind
	NoteType() string
	// InputColumns must all be present in the input header
	InputColumns() []string
	// OutputColumns is the fixed column order of the written CSV
	OutputColumns() []string
	// Expand turns loaded rows into one row per note. Most kinds return
	// the rows unchanged.
	Expand(rows []csvutil.Row) ([]csvutil.Row, error)
	// Normalize validates a row and converts it into a note
	Normalize(row csvutil.Row) (deck.Note, error)
	// Assets lists the audio a note references. Paths are bare file names;
	// the driver places them in the audio directory.
	Assets(row csvutil.Row, note deck.Note) []fetch.Asset
}
