package pipeline

// Stage is a step of a run. Stages are entered strictly in order.
type Stage int

const (
	// Started is the state before any input was read
	Started Stage = iota
	// Loaded means the input rows were read and expanded
	Loaded
	// Normalized means every row became a validated note
	Normalized
	// Aggregated means notes were grouped into decks
	Aggregated
	// Written means the CSV output is on disk
	Written
	// AudioFetched means every referenced asset was handled
	AudioFetched
)

func (s Stage) String() string {
	switch s {
	case Started:
		return "started"
	case Loaded:
		return "loaded"
	case Normalized:
		return "normalized"
	case Aggregated:
		return "aggregated"
	case Written:
		return "written"
	case AudioFetched:
		return "audio-fetched"
	default:
		return "unknown"
	}
}
