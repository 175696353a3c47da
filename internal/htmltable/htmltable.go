// Package htmltable extracts lesson exercises from the HTML table embedded in
// a scraped lesson row.
package htmltable

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/errors"
)

// ExpectedExercises is the nominal number of exercises in one lesson table.
const ExpectedExercises = 25

// Row attributes
const (
	AttrAudioFast = "data-audio-fast"
	AttrAudioSlow = "data-audio-slow"
	AttrLabel     = "data-toastr-text"
)

// Row columns produced by Exercise.Row
const (
	ColIdentifier   = "identifier"
	ColPinyin       = "pinyin"
	ColSimplified   = "simplified"
	ColTraditional  = "traditional"
	ColTranslation  = "translation"
	ColAudioFastURL = "audioFastUrl"
	ColAudioSlowURL = "audioSlowUrl"
)

// labelRoles maps a label class to the exercise field it fills.
var labelRoles = []struct {
	class string
	role  string
}{
	{class: "show_pinyin_text", role: ColPinyin},
	{class: "show_simplified_characters_text", role: ColSimplified},
	{class: "show_traditional_characters_text", role: ColTraditional},
	{class: "show_translation_characters_text", role: ColTranslation},
}

// Exercise is one row of a lesson table.
type Exercise struct {
	Label       string
	AudioFast   string
	AudioSlow   string
	ID          string
	Pinyin      string
	Simplified  string
	Traditional string
	Translation string
}

// Row returns the exercise as a raw row. Entries in extra are copied over
// first, so the exercise's own columns win on conflict.
func (e Exercise) Row(extra csvutil.Row) csvutil.Row {
	row := make(csvutil.Row, len(extra)+7)
	for k, v := range extra {
		row[k] = v
	}
	row[ColIdentifier] = e.ID
	row[ColPinyin] = e.Pinyin
	row[ColSimplified] = e.Simplified
	row[ColTraditional] = e.Traditional
	row[ColTranslation] = e.Translation
	row[ColAudioFastURL] = e.AudioFast
	row[ColAudioSlowURL] = e.AudioSlow
	return row
}

func (e *Exercise) set(role, value string) {
	switch role {
	case ColPinyin:
		e.Pinyin = value
	case ColSimplified:
		e.Simplified = value
	case ColTraditional:
		e.Traditional = value
	case ColTranslation:
		e.Translation = value
	}
}

// Extract parses a lesson table fragment and returns its exercises in
// document order. The fragment may be the bare table body.
func Extract(fragment string) ([]Exercise, error) {
	html := strings.TrimSpace(fragment)
	if !strings.HasPrefix(strings.ToLower(html), "<table") {
		html = "<table>" + html + "</table>"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse lesson table: %w", err)
	}

	rows := doc.Find("table").First().ChildrenFiltered("tbody").ChildrenFiltered("tr")

	exercises := make([]Exercise, 0, rows.Length())
	var extractErr error
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		ex, err := extractRow(i, tr)
		if err != nil {
			extractErr = err
			return false
		}
		exercises = append(exercises, ex)
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	if len(exercises) != ExpectedExercises {
		slog.Warn("Unexpected exercise count", "count", len(exercises), "expected", ExpectedExercises)
	}

	return exercises, nil
}

func extractRow(i int, tr *goquery.Selection) (Exercise, error) {
	label, _ := tr.Attr(AttrLabel)
	label = strings.TrimSpace(label)
	if label == "" {
		label = "row " + strconv.Itoa(i+1)
	}

	ex := Exercise{Label: label}

	fast, ok := tr.Attr(AttrAudioFast)
	if !ok || strings.TrimSpace(fast) == "" {
		return ex, errors.NewMissingAudioError(AttrAudioFast, label)
	}
	slow, ok := tr.Attr(AttrAudioSlow)
	if !ok || strings.TrimSpace(slow) == "" {
		return ex, errors.NewMissingAudioError(AttrAudioSlow, label)
	}
	ex.AudioFast = strings.TrimSpace(fast)
	ex.AudioSlow = strings.TrimSpace(slow)
	if ex.AudioSlow == ex.AudioFast {
		slog.Debug("Missing slow audio", "row", label)
		ex.AudioSlow = ""
	}

	var cellErr error
	tr.ChildrenFiltered("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		labels := td.Find("label")
		if labels.Length() == 0 {
			text := strings.TrimSpace(td.Text())
			if text == "" {
				cellErr = errors.NewEmptyFieldError(ColIdentifier, label)
				return false
			}
			ex.ID = text
			return true
		}

		// only the first label classifies the cell
		l := labels.First()
		for _, lr := range labelRoles {
			if !l.HasClass(lr.class) {
				continue
			}
			text := strings.TrimSpace(l.Text())
			if text == "" {
				cellErr = errors.NewEmptyFieldError(lr.role, label)
				return false
			}
			ex.set(lr.role, text)
			break
		}
		return true
	})
	if cellErr != nil {
		return ex, cellErr
	}

	if ex.ID == "" {
		return ex, errors.NewEmptyFieldError(ColIdentifier, label)
	}

	return ex, nil
}
