package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"subgen/internal/whisper"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Model == "" {
		return errors.New("whisper.model must be set")
	}
	if !slices.Contains(whisper.ModelTiers, c.Whisper.Model) {
		return fmt.Errorf("whisper.model must be one of %s", strings.Join(whisper.ModelTiers, ", "))
	}
	switch whisper.Task(c.Whisper.Task) {
	case whisper.TaskTranscribe, whisper.TaskTranslate:
	default:
		return fmt.Errorf("whisper.task must be %q or %q", whisper.TaskTranscribe, whisper.TaskTranslate)
	}
	if c.Whisper.Language == "" {
		return errors.New("whisper.language must be set")
	}
	for name, value := range map[string]float64{
		"whisper.temperature":                 c.Whisper.Temperature,
		"whisper.patience":                    c.Whisper.Patience,
		"whisper.length_penalty":              c.Whisper.LengthPenalty,
		"whisper.compression_ratio_threshold": c.Whisper.CompressionRatioThreshold,
		"whisper.logprob_threshold":           c.Whisper.LogprobThreshold,
		"whisper.no_speech_threshold":         c.Whisper.NoSpeechThreshold,
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if c.Whisper.BestOf < 1 {
		return errors.New("whisper.best_of must be at least 1")
	}
	if c.Whisper.BeamSize < 1 {
		return errors.New("whisper.beam_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
