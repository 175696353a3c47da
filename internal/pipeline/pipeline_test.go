package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/ankideck/internal/audiofile"
	"github.com/lepinkainen/ankideck/internal/config"
	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/deck"
	"github.com/lepinkainen/ankideck/internal/errors"
	"github.com/lepinkainen/ankideck/internal/fetch"
	"github.com/lepinkainen/ankideck/internal/normalize"
	"github.com/lepinkainen/ankideck/internal/testutil"
)

// testKind is a minimal lesson kind: one text field and one audio file per row.
type testKind struct {
	audioBase string
}

func (testKind) Name() string            { return "test" }
func (testKind) NoteType() string        { return "IC Test" }
func (testKind) InputColumns() []string  { return []string{"id", "lesson", "text", "audio"} }
func (testKind) OutputColumns() []string { return []string{"id", "text", "audio"} }

func (testKind) Expand(rows []csvutil.Row) ([]csvutil.Row, error) {
	return rows, nil
}

func (testKind) Normalize(row csvutil.Row) (deck.Note, error) {
	normalize.Trim(row, "id", "text", "audio")
	name := normalize.LessonName(row["lesson"], "")
	if err := normalize.Require(row, row["id"], "id", "text"); err != nil {
		return deck.Note{}, err
	}
	audio, err := audiofile.FromIdentifier(row["id"])
	if err != nil {
		return deck.Note{}, err
	}
	return deck.Note{
		ID:       row["id"],
		DeckKey:  name,
		DeckName: name,
		DeckPath: "IC::Test::" + name,
		Fields: map[string]string{
			"id":    row["id"],
			"text":  row["text"],
			"audio": audio,
		},
	}, nil
}

func (k testKind) Assets(row csvutil.Row, note deck.Note) []fetch.Asset {
	if row["audio"] == "" {
		return nil
	}
	return []fetch.Asset{{URL: k.audioBase + "/" + row["audio"], Path: note.Fields["audio"]}}
}

const twoDeckInput = `id,lesson,text,audio
1,"Lesson 1
descriptor",hello,one.mp4
2,Lesson 2,world,two.mp4
3,"Lesson 1
descriptor",again,three.mp4
`

func setup(t *testing.T, input string) (*testutil.TestEnv, Options) {
	t.Helper()
	testutil.SetTestConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("input.csv", input)
	return env, Options{
		DataFile:  env.Path("input.csv"),
		OutputDir: env.Path("out"),
	}
}

func audioServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if strings.HasSuffix(r.URL.Path, "missing.mp4") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("audio " + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_PerDeck(t *testing.T) {
	env, opts := setup(t, twoDeckInput)

	result, err := Run(context.Background(), testKind{}, opts)
	require.NoError(t, err)

	assert.Equal(t, Written, result.Stage)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 3, result.Notes)
	require.Len(t, result.Decks, 2)
	assert.Equal(t, "Lesson 1", result.Decks[0].Name)
	assert.Len(t, result.Decks[0].Notes, 2)
	assert.Equal(t, "Lesson 2", result.Decks[1].Name)
	assert.Len(t, result.Decks[1].Notes, 1)
	assert.Nil(t, result.Audio)

	env.AssertFileEquals("out/Lesson 1.csv", "1,hello,IC 1.mp4\n3,again,IC 3.mp4\n")
	env.AssertFileEquals("out/Lesson 2.csv", "2,world,IC 2.mp4\n")

	require.Len(t, result.Files, 2)
	for _, f := range result.Files {
		assert.True(t, f.Written)
	}
	assert.Equal(t, 2, result.Files[0].Notes())
}

func TestRun_Combined(t *testing.T) {
	env, opts := setup(t, twoDeckInput)
	opts.Layout = config.LayoutCombined

	result, err := Run(context.Background(), testKind{}, opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	env.AssertFileEquals("out/test.csv",
		"IC Test,IC::Test::Lesson 1,1,hello,IC 1.mp4\n"+
			"IC Test,IC::Test::Lesson 1,3,again,IC 3.mp4\n"+
			"IC Test,IC::Test::Lesson 2,2,world,IC 2.mp4\n")
}

func TestRun_IdempotentWithAudio(t *testing.T) {
	env, opts := setup(t, twoDeckInput)
	var hits int32
	server := audioServer(t, &hits)
	opts.AudioDir = env.Path("audio")
	kind := testKind{audioBase: server.URL}

	result, err := Run(context.Background(), kind, opts)
	require.NoError(t, err)
	assert.Equal(t, AudioFetched, result.Stage)
	require.NotNil(t, result.Audio)
	assert.Equal(t, 3, result.Audio.Downloaded)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Equal(t, "audio /one.mp4", env.ReadFileString("audio/IC 1.mp4"))

	first := env.ReadFileString("out/Lesson 1.csv")

	result, err = Run(context.Background(), kind, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Audio.Downloaded)
	assert.Equal(t, 3, result.Audio.Skipped)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "second run must not hit the network")
	for _, f := range result.Files {
		assert.False(t, f.Written, "existing CSV files are left untouched")
	}
	assert.Equal(t, first, env.ReadFileString("out/Lesson 1.csv"))
}

func TestRun_Overwrite(t *testing.T) {
	env, opts := setup(t, twoDeckInput)
	env.WriteFileString("out/Lesson 2.csv", "stale\n")

	_, err := Run(context.Background(), testKind{}, opts)
	require.NoError(t, err)
	env.AssertFileEquals("out/Lesson 2.csv", "stale\n")

	opts.Overwrite = true
	_, err = Run(context.Background(), testKind{}, opts)
	require.NoError(t, err)
	env.AssertFileEquals("out/Lesson 2.csv", "2,world,IC 2.mp4\n")
}

func TestRun_FetchFailureDoesNotAbort(t *testing.T) {
	env, opts := setup(t, `id,lesson,text,audio
1,Lesson 1,hello,missing.mp4
2,Lesson 1,world,two.mp4
`)
	var hits int32
	server := audioServer(t, &hits)
	opts.AudioDir = env.Path("audio")

	result, err := Run(context.Background(), testKind{audioBase: server.URL}, opts)
	require.NoError(t, err)

	assert.Equal(t, AudioFetched, result.Stage)
	assert.Equal(t, 1, result.Audio.Failed)
	assert.Equal(t, 1, result.Audio.Downloaded)
	env.RequireFileExists("out/Lesson 1.csv")
	env.RequireFileNotExists("audio/IC 1.mp4")
	env.RequireFileExists("audio/IC 2.mp4")
}

func TestRun_ValidationAborts(t *testing.T) {
	env, opts := setup(t, `id,lesson,text,audio
1,Lesson 1,hello,one.mp4
2,Lesson 1,  ,two.mp4
`)

	_, err := Run(context.Background(), testKind{}, opts)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), `"text"`)
	assert.Contains(t, err.Error(), "row 2")
	assert.False(t, env.FileExists("out"), "nothing is written after a failed row")
}

func TestRun_DuplicateIdentifier(t *testing.T) {
	_, opts := setup(t, `id,lesson,text,audio
1,Lesson 1,hello,one.mp4
1,Lesson 2,world,two.mp4
`)

	_, err := Run(context.Background(), testKind{}, opts)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateIdentifierError(err))
}

func TestRun_MissingColumn(t *testing.T) {
	_, opts := setup(t, "id,lesson,text\n1,Lesson 1,hello\n")

	_, err := Run(context.Background(), testKind{}, opts)
	require.Error(t, err)
	assert.True(t, errors.IsMissingColumnError(err))
}

func TestRun_DeckFileCollision(t *testing.T) {
	_, opts := setup(t, `id,lesson,text,audio
1,Part A/B,hello,one.mp4
2,Part A-B,world,two.mp4
`)

	_, err := Run(context.Background(), testKind{}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both map to")
}

func TestRun_Manifest(t *testing.T) {
	env, opts := setup(t, twoDeckInput)
	opts.Manifest = true
	opts.AudioDir = env.Path("audio")
	var hits int32
	server := audioServer(t, &hits)

	result, err := Run(context.Background(), testKind{audioBase: server.URL}, opts)
	require.NoError(t, err)
	assert.Equal(t, ManifestPath(opts.OutputDir, "test"), result.Manifest)

	var m Manifest
	require.NoError(t, yaml.Unmarshal(env.ReadFile("out/test.manifest.yaml"), &m))
	assert.Equal(t, "test", m.Kind)
	assert.Equal(t, "IC Test", m.NoteType)
	assert.Equal(t, config.LayoutPerDeck, m.Layout)
	require.Len(t, m.Decks, 2)
	assert.Equal(t, ManifestEntry{
		Name:  "Lesson 1",
		Path:  "IC::Test::Lesson 1",
		File:  "Lesson 1.csv",
		Notes: 2,
		Audio: []string{"IC 1.mp4", "IC 3.mp4"},
	}, m.Decks[0])
}

func TestRun_AudioDirLocked(t *testing.T) {
	env, opts := setup(t, twoDeckInput)
	opts.AudioDir = env.Path("audio")
	env.MkdirAll("audio")

	lock := flock.New(filepath.Join(opts.AudioDir, LockFileName))
	ok, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = lock.Unlock() })

	_, err = Run(context.Background(), testKind{}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in use by another run")
}

func TestRun_InvalidOptions(t *testing.T) {
	_, opts := setup(t, twoDeckInput)

	testCases := []struct {
		name   string
		mutate func(*Options)
		msg    string
	}{
		{name: "no data", mutate: func(o *Options) { o.DataFile = "" }, msg: "data file is required"},
		{name: "no output", mutate: func(o *Options) { o.OutputDir = "" }, msg: "output directory is required"},
		{name: "bad layout", mutate: func(o *Options) { o.Layout = "zip" }, msg: `unknown layout "zip"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := opts
			tc.mutate(&o)
			_, err := Run(context.Background(), testKind{}, o)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestStage_String(t *testing.T) {
	stages := []Stage{Started, Loaded, Normalized, Aggregated, Written, AudioFetched}
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.String()
	}
	assert.Equal(t, []string{"started", "loaded", "normalized", "aggregated", "written", "audio-fetched"}, names)
	assert.Equal(t, "unknown", Stage(99).String())
}
