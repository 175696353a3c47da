package htmltable

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lepinkainen/ankideck/internal/csvutil"
	"github.com/lepinkainen/ankideck/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fastURL = "https://cdn.example.com/audio/Lesson 1 Exercise 1.mp4"
	slowURL = "https://cdn.example.com/audio/Lesson 1 Slow Exercise 1.mp4"
)

func exerciseRow(label, fast, slow, id, pinyin string) string {
	return fmt.Sprintf(`<tr data-toastr-text=%q data-audio-fast=%q data-audio-slow=%q>
  <td>%s</td>
  <td><label class="show_pinyin_text">%s</label></td>
  <td><label class="show_simplified_characters_text">你好</label></td>
  <td><label class="show_traditional_characters_text">你好</label></td>
  <td><label class="show_translation_characters_text">Hello</label></td>
</tr>`, label, fast, slow, id, pinyin)
}

func TestExtract(t *testing.T) {
	fragment := "<tbody>" +
		exerciseRow("1-01", fastURL, slowURL, "1-01", " nǐ hǎo ") +
		exerciseRow("1-02", fastURL, fastURL, "1-02", "xiè xie") +
		"</tbody>"

	exercises, err := Extract(fragment)
	require.NoError(t, err)
	require.Len(t, exercises, 2)

	first := exercises[0]
	assert.Equal(t, "1-01", first.Label)
	assert.Equal(t, "1-01", first.ID)
	assert.Equal(t, "nǐ hǎo", first.Pinyin)
	assert.Equal(t, "你好", first.Simplified)
	assert.Equal(t, "你好", first.Traditional)
	assert.Equal(t, "Hello", first.Translation)
	assert.Equal(t, fastURL, first.AudioFast)
	assert.Equal(t, slowURL, first.AudioSlow)

	assert.Equal(t, "1-02", exercises[1].ID)
	assert.Empty(t, exercises[1].AudioSlow, "slow identical to fast means no slow audio")
}

func TestExtract_FullTableAndBareRows(t *testing.T) {
	row := exerciseRow("1-01", fastURL, slowURL, "1-01", "nǐ hǎo")

	testCases := []struct {
		name     string
		fragment string
	}{
		{name: "bare rows", fragment: row},
		{name: "tbody", fragment: "<tbody>" + row + "</tbody>"},
		{name: "full table", fragment: "<table class=\"lesson\"><tbody>" + row + "</tbody></table>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exercises, err := Extract(tc.fragment)
			require.NoError(t, err)
			require.Len(t, exercises, 1)
			assert.Equal(t, "1-01", exercises[0].ID)
		})
	}
}

func TestExtract_CountDeviationIsNotAnError(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= ExpectedExercises+2; i++ {
		id := fmt.Sprintf("1-%02d", i)
		b.WriteString(exerciseRow(id, fastURL, slowURL, id, "nǐ hǎo"))
	}

	exercises, err := Extract(b.String())
	require.NoError(t, err)
	assert.Len(t, exercises, ExpectedExercises+2)
	for i, ex := range exercises {
		assert.Equal(t, fmt.Sprintf("1-%02d", i+1), ex.ID, "document order")
	}
}

func TestExtract_MissingAudio(t *testing.T) {
	testCases := []struct {
		name      string
		row       string
		attribute string
	}{
		{
			name:      "empty fast",
			row:       exerciseRow("1-01", "", slowURL, "1-01", "nǐ hǎo"),
			attribute: AttrAudioFast,
		},
		{
			name:      "empty slow",
			row:       exerciseRow("1-01", fastURL, "", "1-01", "nǐ hǎo"),
			attribute: AttrAudioSlow,
		},
		{
			name:      "absent slow",
			row:       `<tr data-toastr-text="1-01" data-audio-fast="a.mp4"><td>1-01</td></tr>`,
			attribute: AttrAudioSlow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.row)
			require.Error(t, err)
			assert.True(t, errors.IsMissingAudioError(err))
			assert.Contains(t, err.Error(), tc.attribute)
			assert.Contains(t, err.Error(), "1-01")
		})
	}
}

func TestExtract_EmptyFields(t *testing.T) {
	testCases := []struct {
		name string
		row  string
		role string
	}{
		{
			name: "blank identifier",
			row:  exerciseRow("1-01", fastURL, slowURL, "  ", "nǐ hǎo"),
			role: ColIdentifier,
		},
		{
			name: "blank pinyin",
			row:  exerciseRow("1-01", fastURL, slowURL, "1-01", " "),
			role: ColPinyin,
		},
		{
			name: "no identifier cell",
			row:  `<tr data-toastr-text="1-01" data-audio-fast="a.mp4" data-audio-slow="b.mp4"><td><label class="show_pinyin_text">nǐ</label></td></tr>`,
			role: ColIdentifier,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.row)
			require.Error(t, err)
			assert.True(t, errors.IsEmptyFieldError(err))
			assert.Contains(t, err.Error(), tc.role+" shouldn't be empty")
		})
	}
}

func TestExtract_UnknownLabelIgnored(t *testing.T) {
	row := `<tr data-toastr-text="1-01" data-audio-fast="a.mp4" data-audio-slow="b.mp4">
  <td>1-01</td>
  <td><label class="show_zhuyin_text"></label></td>
  <td><label class="show_pinyin_text">nǐ hǎo</label></td>
</tr>`

	exercises, err := Extract(row)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "nǐ hǎo", exercises[0].Pinyin)
}

func TestExtract_OnlyFirstLabelClassifiesCell(t *testing.T) {
	row := `<tr data-toastr-text="1-01" data-audio-fast="a.mp4" data-audio-slow="b.mp4">
  <td>1-01</td>
  <td><label class="show_pinyin_text">nǐ hǎo</label><label class="show_translation_characters_text"></label></td>
  <td><label class="show_translation_characters_text">Hello</label><label class="show_translation_characters_text">Bye</label></td>
</tr>`

	exercises, err := Extract(row)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "nǐ hǎo", exercises[0].Pinyin)
	assert.Equal(t, "Hello", exercises[0].Translation)
}

func TestExtract_RowLabelFallback(t *testing.T) {
	row := `<tr data-audio-fast="" data-audio-slow="b.mp4"><td>1-01</td></tr>`

	_, err := Extract(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestExercise_Row(t *testing.T) {
	ex := Exercise{
		ID:          "1-01",
		Pinyin:      "nǐ hǎo",
		Simplified:  "你好",
		Traditional: "你好",
		Translation: "Hello",
		AudioFast:   fastURL,
	}

	row := ex.Row(csvutil.Row{"name": "Lesson 1\nnǐ hǎo", ColIdentifier: "overridden"})

	assert.Equal(t, "Lesson 1\nnǐ hǎo", row["name"])
	assert.Equal(t, "1-01", row[ColIdentifier])
	assert.Equal(t, "Hello", row[ColTranslation])
	assert.Equal(t, fastURL, row[ColAudioFastURL])
	assert.Equal(t, "", row[ColAudioSlowURL])
}
