// Package normalize holds the field-level rules shared by every lesson kind:
// lesson name cleanup, trimming, the "null" sentinel and required-field
// validation. Source-system quirks stay here so the rest of the pipeline
// never sees them.
package normalize

import (
	"regexp"
	"strings"

	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/errors"
)

// NullSentinel is the literal the scraper writes for a missing optional value.
const NullSentinel = "null"

// Chapter maps a lesson URL slug to its chapter number.
type Chapter struct {
	Slug   string
	Number string
}

// Chapters is ordered; earlier slugs take precedence when several match at
// the same position.
var Chapters = []Chapter{
	{Slug: "absolute-beginner", Number: "1"},
	{Slug: "early-beginner", Number: "2"},
	{Slug: "mid-level-beginner", Number: "3"},
	{Slug: "upper-beginner", Number: "4"},
	{Slug: "advanced-beginner", Number: "5"},
	{Slug: "basic-intermediate", Number: "6"},
	{Slug: "lower-intermediate", Number: "7"},
	{Slug: "intermediate", Number: "8"},
	{Slug: "extra-stories", Number: "99"},
}

var chapterPattern = buildChapterPattern(Chapters)

func buildChapterPattern(chapters []Chapter) *regexp.Regexp {
	slugs := make([]string, len(chapters))
	for i, c := range chapters {
		slugs[i] = regexp.QuoteMeta(c.Slug)
	}
	return regexp.MustCompile(strings.Join(slugs, "|"))
}

// LessonName returns the display name from a raw lesson cell. The scraper
// stores the name followed by a newline and a pinyin descriptor; only the
// first line is kept. A given prefix (e.g. "Pronunciation ") is removed.
func LessonName(raw, prefix string) string {
	name := strings.TrimSpace(raw)
	if i := strings.IndexAny(name, "\r\n"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	return strings.TrimSpace(strings.TrimPrefix(name, prefix))
}

// Trim trims surrounding whitespace from the given columns in place.
func Trim(row csvutil.Row, columns ...string) {
	for _, col := range columns {
		if v, ok := row[col]; ok {
			row[col] = strings.TrimSpace(v)
		}
	}
}

// NullToEmpty replaces the null sentinel with an empty string in optional columns.
func NullToEmpty(row csvutil.Row, columns ...string) {
	for _, col := range columns {
		if row[col] == NullSentinel {
			row[col] = ""
		}
	}
}

// Require fails with a ValidationError naming the first column, in the
// given order, whose value is empty.
func Require(row csvutil.Row, id string, columns ...string) error {
	for _, col := range columns {
		if row[col] == "" {
			return errors.NewValidationError(col, id)
		}
	}
	return nil
}

// ChapterOf resolves the chapter number for a lesson link.
func ChapterOf(href string) (string, error) {
	slug := chapterPattern.FindString(href)
	if slug == "" {
		return "", errors.NewUnknownChapterError(href)
	}
	for _, c := range Chapters {
		if c.Slug == slug {
			return c.Number, nil
		}
	}
	return "", errors.NewUnknownChapterError(href)
}
