package whisper

// Segment is one timed utterance unit emitted by the engine.
//
// Start and End are seconds from the beginning of the media, End >= Start.
// Text is the raw transcribed text; surrounding whitespace is preserved here
// and trimmed at formatting time. ID is whatever identifier the engine
// assigned; subtitle numbering ignores it and uses emission order instead.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// payload matches the JSON document the Python Whisper CLI writes alongside
// the media file when output_format is json.
type payload struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}
