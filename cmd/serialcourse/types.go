package serialcourse

// Input columns of the serial course export
const (
	ColOrder        = "web-scraper-order"
	ColStartURL     = "web-scraper-start-url"
	ColLesson       = "lesson"
	ColLessonHref   = "lesson-href"
	ColPinyin       = "pinyin"
	ColSimplified   = "simplified"
	ColTraditional  = "traditional"
	ColTranslation  = "translation"
	ColNote         = "note"
	ColAudioFastURL = "audioFastUrl"
	ColAudioMaleID  = "audioFastMaleId"
	ColAudioSlowURL = "audioSlowUrl"
	ColIdentifier   = "identifier"
)

// Derived output columns
const (
	ColAudioFast     = "audioFast"
	ColAudioFastMale = "audioFastMale"
	ColAudioSlow     = "audioSlow"
)

// NoteType is the importer note type for serial course cards
const NoteType = "IC Serial Course"

var inputColumns = []string{
	ColOrder,
	ColStartURL,
	ColLesson,
	ColLessonHref,
	ColPinyin,
	ColSimplified,
	ColTraditional,
	ColTranslation,
	ColNote,
	ColAudioFastURL,
	ColAudioMaleID,
	ColAudioSlowURL,
	ColIdentifier,
}

var outputColumns = []string{
	ColIdentifier,
	ColSimplified,
	ColTraditional,
	ColPinyin,
	ColTranslation,
	ColNote,
	ColAudioFast,
	ColAudioFastMale,
	ColAudioSlow,
}

// requiredColumns are checked in this order
var requiredColumns = []string{
	ColIdentifier,
	ColLesson,
	ColLessonHref,
	ColPinyin,
	ColSimplified,
	ColTraditional,
	ColTranslation,
	ColAudioFastURL,
}
