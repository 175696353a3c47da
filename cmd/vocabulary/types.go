package vocabulary

// Input columns of the vocabulary export
const (
	ColOrder       = "web-scraper-order"
	ColStartURL    = "web-scraper-start-url"
	ColIdentifier  = "identifier"
	ColLesson      = "lesson"
	ColSimplified  = "simplified"
	ColTraditional = "traditional"
	ColPinyin      = "pinyin"
	ColTranslation = "translation"
)

// ColAudio holds the derived audio file name
const ColAudio = "audio"

// NoteType is the importer note type for vocabulary cards
const NoteType = "IC Vocabulary"

var inputColumns = []string{
	ColOrder,
	ColStartURL,
	ColIdentifier,
	ColLesson,
	ColSimplified,
	ColTraditional,
	ColPinyin,
	ColTranslation,
}

var outputColumns = []string{
	ColIdentifier,
	ColSimplified,
	ColTraditional,
	ColPinyin,
	ColTranslation,
	ColAudio,
}
