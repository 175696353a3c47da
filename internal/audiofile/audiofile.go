// Package audiofile maps remote audio references to local file names.
//
// All names carry the "IC " prefix so imported media don't collide with
// other decks in the flashcard collection.
package audiofile

import (
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/lepinkainen/ankideck/internal/errors"
)

const (
	// Prefix is prepended to every derived file name
	Prefix = "IC "
	// Extension is used for names synthesized from a bare identifier
	Extension = ".mp4"
)

var slowPattern = regexp.MustCompile(`^(.+) (Slow)(.+)$`)

// BaseName returns the last path segment of a URL, ignoring query and
// fragment and decoding percent escapes when possible.
func BaseName(rawURL string) string {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return base
}

// checkFlat rejects names that would leave the audio directory once joined
// onto it. Escaped separators only show up after decoding, so the check runs
// on the decoded name.
func checkFlat(name, ref string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.NewMalformedReferenceError(ref, "audio name is not a plain file name")
	}
	return nil
}

// Fast returns the file name for a fast (normal speed) audio URL.
func Fast(rawURL string) (string, error) {
	base := BaseName(rawURL)
	if err := checkFlat(base, rawURL); err != nil {
		return "", err
	}
	name := Prefix + base
	slog.Debug("Derived audio filename", "from", base, "to", name)
	return name, nil
}

// Slow returns the file name for a slow audio URL, moving the "Slow" marker
// from the middle of the name to just before the extension so that a fast
// and slow pair differ only by the trailing role.
//
// An empty URL yields an empty name.
func Slow(rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}

	base := BaseName(rawURL)
	if err := checkFlat(base, rawURL); err != nil {
		return "", err
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	m := slowPattern.FindStringSubmatch(stem)
	if m == nil {
		return "", errors.NewMalformedReferenceError(rawURL, "missing Slow marker in slow audio name")
	}

	name := Prefix + m[1] + m[3] + " " + m[2] + ext
	slog.Debug("Derived audio filename", "from", base, "to", name)
	return name, nil
}

// SlowFor returns the slow file name for a fast/slow URL pair. A slow URL
// identical to the fast one means there is no distinct slow recording and
// yields an empty name.
func SlowFor(fastURL, slowURL string) (string, error) {
	if slowURL == fastURL {
		return "", nil
	}
	return Slow(slowURL)
}

// Male returns the file name for the male voice variant of a fast audio URL.
func Male(fastURL string) (string, error) {
	base := BaseName(fastURL)
	if err := checkFlat(base, fastURL); err != nil {
		return "", err
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	name := Prefix + stem + " Male" + Extension
	slog.Debug("Derived audio filename", "from", base, "to", name)
	return name, nil
}

// FromIdentifier synthesizes a file name for records that only carry a key.
func FromIdentifier(id string) (string, error) {
	if err := checkFlat(id, id); err != nil {
		return "", err
	}
	return Prefix + id + Extension, nil
}
