// Package fetch downloads referenced audio assets into a local directory.
//
// A fetch is idempotent per target path: an existing file is never
// requested again. Failed downloads are reported in the Result and logged,
// they never abort the batch.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lepinkainen/ankideck/internal/errors"
	"github.com/lepinkainen/ankideck/internal/fileutil"
	"github.com/lepinkainen/ankideck/internal/ratelimit"
)

// Asset is a remote file and the local path it is saved to.
type Asset struct {
	URL  string
	Path string
}

// Outcome is the result kind of a single fetch.
type Outcome int

const (
	// Skipped means the target already existed and no request was made
	Skipped Outcome = iota
	// Downloaded means the file was fetched and saved
	Downloaded
	// Failed means the request or the save failed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Downloaded:
		return "downloaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes what happened to one asset.
type Result struct {
	Asset   Asset
	Outcome Outcome
	Err     error
	Bytes   int64
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
	Results    []Result
}

var httpClientNew = func() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// Fetcher issues GET requests paced by a shared limiter.
type Fetcher struct {
	client  *http.Client
	limiter *ratelimit.Limiter
}

// New returns a Fetcher that waits on the limiter before every request and
// restarts its interval once the request has finished.
// The limiter is owned by the caller; a nil limiter disables pacing.
func New(limiter *ratelimit.Limiter) *Fetcher {
	if limiter == nil {
		limiter = ratelimit.New("audio", 0)
	}
	return &Fetcher{
		client:  httpClientNew(),
		limiter: limiter,
	}
}

// Fetch downloads a single asset unless its target already exists.
func (f *Fetcher) Fetch(ctx context.Context, asset Asset) Result {
	if fileutil.FileExists(asset.Path) {
		slog.Debug("Audio file exists, skipping", "path", asset.Path)
		return Result{Asset: asset, Outcome: Skipped}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return f.fail(asset, errors.NewFetchError(asset.URL, err))
	}
	defer f.limiter.Done()

	slog.Debug("Downloading audio", "url", asset.URL, "path", asset.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return f.fail(asset, errors.NewFetchError(asset.URL, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(asset, errors.NewFetchError(asset.URL, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return f.fail(asset, errors.NewFetchStatusError(asset.URL, resp.StatusCode))
	}

	var n int64
	err = fileutil.WriteAtomic(asset.Path, 0644, func(w io.Writer) error {
		var copyErr error
		n, copyErr = io.Copy(w, resp.Body)
		return copyErr
	})
	if err != nil {
		return f.fail(asset, errors.NewFetchError(asset.URL, err))
	}

	slog.Info("Downloaded audio", "path", asset.Path, "size", humanize.Bytes(uint64(n)))
	return Result{Asset: asset, Outcome: Downloaded, Bytes: n}
}

func (f *Fetcher) fail(asset Asset, err error) Result {
	slog.Error("Failed to download audio", "url", asset.URL, "path", asset.Path, "error", err)
	return Result{Asset: asset, Outcome: Failed, Err: err}
}

// FetchAll fetches assets one at a time, in order, skipping repeated target
// paths. Only a cancelled context stops the batch early.
func (f *Fetcher) FetchAll(ctx context.Context, assets []Asset) (Summary, error) {
	var summary Summary
	var total int64

	for _, asset := range Dedupe(assets) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res := f.Fetch(ctx, asset)
		summary.Results = append(summary.Results, res)
		switch res.Outcome {
		case Skipped:
			summary.Skipped++
		case Downloaded:
			summary.Downloaded++
			total += res.Bytes
		case Failed:
			summary.Failed++
		}
	}

	slog.Info("Audio download finished",
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"size", humanize.Bytes(uint64(total)))

	return summary, nil
}

// Dedupe returns assets with repeated target paths removed, keeping the first.
func Dedupe(assets []Asset) []Asset {
	seen := make(map[string]struct{}, len(assets))
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, dup := seen[a.Path]; dup {
			continue
		}
		seen[a.Path] = struct{}{}
		out = append(out, a)
	}
	return out
}
