package whisper

import (
	"fmt"
	"strings"

	"subgen/internal/services"
)

// Task selects what the engine does with the recognized speech.
type Task string

const (
	// TaskTranscribe keeps the source language.
	TaskTranscribe Task = "transcribe"
	// TaskTranslate translates into English. Whisper supports no other
	// target language.
	TaskTranslate Task = "translate"
)

// ModelTiers enumerates the model sizes the engine accepts.
var ModelTiers = []string{"tiny", "base", "small", "medium", "large", "large-v2", "large-v3", "turbo"}

// Parameter defaults. The Slovak prompt is substituted when no initial
// prompt is supplied and the language is the default ("sk").
const (
	DefaultModel             = "turbo"
	DefaultLanguage          = "sk"
	DefaultTemperature       = 0.0
	DefaultBestOf            = 3
	DefaultBeamSize          = 5
	DefaultPatience          = 1.0
	DefaultLengthPenalty     = 1.0
	DefaultCompressionRatio  = 2.4
	DefaultLogprobThreshold  = -1.0
	DefaultNoSpeechThreshold = 0.6
	slovakPrompt             = "Slovenský text o teológii a kresťanstve."
)

// Config is the transcription parameter set handed to the engine.
//
// Instances are constructed once per generation request (or reused across
// requests by a caller) and shallow-copied with field overrides; they are
// never mutated concurrently. Suppress token values are sentinel integers
// interpreted by the engine, not validated here.
type Config struct {
	Model    string
	Language string
	Task     Task

	WordTimestamps bool
	Temperature    float64
	BestOf         int
	BeamSize       int
	Patience       float64
	LengthPenalty  float64
	SuppressTokens []int

	// Anti-hallucination knobs; semantics owned entirely by the engine.
	ConditionOnPreviousText   bool
	CompressionRatioThreshold float64
	LogprobThreshold          float64
	NoSpeechThreshold         float64

	InitialPrompt string
}

// ResolveDefaultPrompt picks the initial prompt for a language. A supplied
// prompt always wins; otherwise the default language gets its fixed prompt
// and every other language gets none.
func ResolveDefaultPrompt(language, supplied string) string {
	if supplied != "" {
		return supplied
	}
	if language == DefaultLanguage {
		return slovakPrompt
	}
	return ""
}

// NewConfig builds a Config with repository defaults for the given language
// and task. The initial prompt is resolved through ResolveDefaultPrompt so
// construction is a single step with no hidden post-construction mutation.
func NewConfig(language string, task Task, initialPrompt string) Config {
	return Config{
		Model:                     DefaultModel,
		Language:                  language,
		Task:                      task,
		WordTimestamps:            true,
		Temperature:               DefaultTemperature,
		BestOf:                    DefaultBestOf,
		BeamSize:                  DefaultBeamSize,
		Patience:                  DefaultPatience,
		LengthPenalty:             DefaultLengthPenalty,
		SuppressTokens:            []int{-1},
		ConditionOnPreviousText:   false,
		CompressionRatioThreshold: DefaultCompressionRatio,
		LogprobThreshold:          DefaultLogprobThreshold,
		NoSpeechThreshold:         DefaultNoSpeechThreshold,
		InitialPrompt:             ResolveDefaultPrompt(language, initialPrompt),
	}
}

// DefaultConfig is the stock Slovak transcription preset.
func DefaultConfig() Config {
	return NewConfig(DefaultLanguage, TaskTranscribe, "")
}

// SlovakConfig transcribes Slovak speech with the theological prompt.
func SlovakConfig() Config {
	return NewConfig("sk", TaskTranscribe, slovakPrompt)
}

// TranslateToEnglishConfig translates Slovak speech into English.
func TranslateToEnglishConfig() Config {
	cfg := NewConfig("sk", TaskTranslate, "")
	cfg.InitialPrompt = ""
	return cfg
}

// EnglishConfig transcribes English speech with no prompt.
func EnglishConfig() Config {
	return NewConfig("en", TaskTranscribe, "")
}

// Params exports the engine parameter mapping. The initial prompt is always
// present as a string, never unset; the engine rejects a null prompt.
func (c Config) Params() map[string]any {
	return map[string]any{
		"language":                    c.Language,
		"task":                        string(c.Task),
		"word_timestamps":             c.WordTimestamps,
		"temperature":                 c.Temperature,
		"best_of":                     c.BestOf,
		"beam_size":                   c.BeamSize,
		"patience":                    c.Patience,
		"length_penalty":              c.LengthPenalty,
		"suppress_tokens":             append([]int(nil), c.SuppressTokens...),
		"initial_prompt":              c.InitialPrompt,
		"condition_on_previous_text":  c.ConditionOnPreviousText,
		"compression_ratio_threshold": c.CompressionRatioThreshold,
		"logprob_threshold":           c.LogprobThreshold,
		"no_speech_threshold":         c.NoSpeechThreshold,
	}
}

// MergeParams layers caller overrides on top of an exported parameter
// mapping, last write wins per key. Keys the engine schema does not track
// pass through untouched so callers can reach engine parameters this record
// has no field for.
func MergeParams(base, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overrides))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}
	return merged
}

// Set assigns one named field of the schema. Unknown field names are
// rejected with a configuration error rather than silently ignored, so a
// typo cannot drop a requested parameter on the floor.
func (c *Config) Set(field string, value any) error {
	switch field {
	case "model":
		model, err := stringValue(field, value)
		if err != nil {
			return err
		}
		c.Model = model
	case "language":
		lang, err := stringValue(field, value)
		if err != nil {
			return err
		}
		c.Language = lang
	case "task":
		task, err := stringValue(field, value)
		if err != nil {
			return err
		}
		switch Task(task) {
		case TaskTranscribe, TaskTranslate:
			c.Task = Task(task)
		default:
			return services.Wrap(services.ErrConfiguration, "whisper", "set", fmt.Sprintf("task must be %q or %q, got %q", TaskTranscribe, TaskTranslate, task), nil)
		}
	case "word_timestamps":
		return boolValue(field, value, &c.WordTimestamps)
	case "temperature":
		return floatValue(field, value, &c.Temperature)
	case "best_of":
		return intValue(field, value, &c.BestOf)
	case "beam_size":
		return intValue(field, value, &c.BeamSize)
	case "patience":
		return floatValue(field, value, &c.Patience)
	case "length_penalty":
		return floatValue(field, value, &c.LengthPenalty)
	case "suppress_tokens":
		tokens, ok := value.([]int)
		if !ok {
			return badFieldType(field, value)
		}
		c.SuppressTokens = append([]int(nil), tokens...)
	case "condition_on_previous_text":
		return boolValue(field, value, &c.ConditionOnPreviousText)
	case "compression_ratio_threshold":
		return floatValue(field, value, &c.CompressionRatioThreshold)
	case "logprob_threshold":
		return floatValue(field, value, &c.LogprobThreshold)
	case "no_speech_threshold":
		return floatValue(field, value, &c.NoSpeechThreshold)
	case "initial_prompt":
		prompt, err := stringValue(field, value)
		if err != nil {
			return err
		}
		c.InitialPrompt = prompt
	default:
		return services.Wrap(services.ErrConfiguration, "whisper", "set", fmt.Sprintf("unknown field %q", field), nil)
	}
	return nil
}

func stringValue(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", badFieldType(field, value)
	}
	return strings.TrimSpace(s), nil
}

func boolValue(field string, value any, dst *bool) error {
	b, ok := value.(bool)
	if !ok {
		return badFieldType(field, value)
	}
	*dst = b
	return nil
}

func intValue(field string, value any, dst *int) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case float64:
		*dst = int(v)
	default:
		return badFieldType(field, value)
	}
	return nil
}

func floatValue(field string, value any, dst *float64) error {
	switch v := value.(type) {
	case float64:
		*dst = v
	case int:
		*dst = float64(v)
	default:
		return badFieldType(field, value)
	}
	return nil
}

func badFieldType(field string, value any) error {
	return services.Wrap(services.ErrConfiguration, "whisper", "set", fmt.Sprintf("field %q: unsupported value type %T", field, value), nil)
}
