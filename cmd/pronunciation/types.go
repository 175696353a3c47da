package pronunciation

// Input columns of the pronunciation export
const (
	ColOrder        = "web-scraper-order"
	ColStartURL     = "web-scraper-start-url"
	ColLesson       = "lesson"
	ColLessonHref   = "lesson-href"
	ColPinyin       = "pinyin"
	ColDescription  = "description"
	ColAudioFastURL = "audioFastUrl"
	ColAudioSlowURL = "audioSlowUrl"
	ColIdentifier   = "identifier"
)

// ColAudio holds the derived audio file name
const ColAudio = "audio"

// NoteType is the importer note type for pronunciation cards
const NoteType = "IC Pronunciation"

// LessonPrefix is stripped from lesson names
const LessonPrefix = "Pronunciation "

var inputColumns = []string{
	ColOrder,
	ColStartURL,
	ColLesson,
	ColLessonHref,
	ColPinyin,
	ColDescription,
	ColAudioFastURL,
	ColAudioSlowURL,
	ColIdentifier,
}

var outputColumns = []string{
	ColIdentifier,
	ColPinyin,
	ColDescription,
	ColAudio,
}
