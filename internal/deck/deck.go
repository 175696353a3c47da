// Package deck groups normalized notes into named decks.
//
// Decks are kept in first-seen order and their notes in insertion order, so
// the same input always yields the same output files.
package deck

import (
	"github.com/lepinkainen/ankideck/internal/errors"
)

// Note is one normalized flashcard record.
type Note struct {
	ID       string
	DeckKey  string
	DeckName string
	// DeckPath is the hierarchical deck name used by the importer, e.g.
	// "IC::Vocabulary::Lesson 3"
	DeckPath string
	NoteType string
	Fields   map[string]string
}

// Values returns the note fields in column order.
func (n Note) Values(columns []string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = n.Fields[col]
	}
	return values
}

// Deck is an ordered group of notes sharing a deck key.
type Deck struct {
	Key   string
	Name  string
	Path  string
	Notes []Note
}

// Aggregator is an insertion-ordered mapping of deck key to deck.
type Aggregator struct {
	order []*Deck
	byKey map[string]*Deck
	ids   map[string]string
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		byKey: make(map[string]*Deck),
		ids:   make(map[string]string),
	}
}

// Add appends note to its deck, creating the deck on first sight of its key.
// The first note seen for a key decides the deck's name and path.
// A repeated note ID fails with DuplicateIdentifierError.
func (a *Aggregator) Add(note Note) error {
	if _, seen := a.ids[note.ID]; seen {
		return errors.NewDuplicateIdentifierError(note.ID)
	}
	a.ids[note.ID] = note.DeckKey

	d, ok := a.byKey[note.DeckKey]
	if !ok {
		d = &Deck{Key: note.DeckKey, Name: note.DeckName, Path: note.DeckPath}
		a.byKey[note.DeckKey] = d
		a.order = append(a.order, d)
	}
	d.Notes = append(d.Notes, note)
	return nil
}

// Decks returns the decks in the order their keys were first seen.
func (a *Aggregator) Decks() []*Deck {
	return a.order
}

// Get returns the deck for key.
func (a *Aggregator) Get(key string) (*Deck, bool) {
	d, ok := a.byKey[key]
	return d, ok
}

// Len returns the number of decks.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// All returns every note, deck by deck.
func (a *Aggregator) All() []Note {
	var notes []Note
	for _, d := range a.order {
		notes = append(notes, d.Notes...)
	}
	return notes
}

// Aggregate groups notes into decks. It stops at the first duplicate ID.
func Aggregate(notes []Note) (*Aggregator, error) {
	a := NewAggregator()
	for _, n := range notes {
		if err := a.Add(n); err != nil {
			return nil, err
		}
	}
	return a, nil
}
