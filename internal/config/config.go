package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subgen/internal/whisper"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for media lookup and output.
type Paths struct {
	// AssetsDir is searched first when the media argument is a bare filename.
	AssetsDir string `toml:"assets_dir"`
	// OutputDir receives bare output filenames.
	OutputDir string `toml:"output_dir"`
	// ModelCacheDir holds Whisper model downloads and the engine run lock.
	ModelCacheDir string `toml:"model_cache_dir"`
}

// Whisper contains the transcription parameter defaults handed to the engine.
type Whisper struct {
	Model          string `toml:"model"`
	PythonBinary   string `toml:"python_binary"`
	Language       string `toml:"language"`
	Task           string `toml:"task"`
	WordTimestamps bool   `toml:"word_timestamps"`

	Temperature    float64 `toml:"temperature"`
	BestOf         int     `toml:"best_of"`
	BeamSize       int     `toml:"beam_size"`
	Patience       float64 `toml:"patience"`
	LengthPenalty  float64 `toml:"length_penalty"`
	SuppressTokens []int   `toml:"suppress_tokens"`
	InitialPrompt  string  `toml:"initial_prompt"`

	ConditionOnPreviousText   bool    `toml:"condition_on_previous_text"`
	CompressionRatioThreshold float64 `toml:"compression_ratio_threshold"`
	LogprobThreshold          float64 `toml:"logprob_threshold"`
	NoSpeechThreshold         float64 `toml:"no_speech_threshold"`
}

// History contains configuration for the generation history store.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subgen.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Whisper Whisper `toml:"whisper"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/subgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has its path fields expanded and its language code normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// TranscriptionConfig converts the [whisper] section into the engine
// parameter record, resolving the default initial prompt for the configured
// language.
func (c *Config) TranscriptionConfig() whisper.Config {
	return whisper.Config{
		Model:                     c.Whisper.Model,
		Language:                  c.Whisper.Language,
		Task:                      whisper.Task(c.Whisper.Task),
		WordTimestamps:            c.Whisper.WordTimestamps,
		Temperature:               c.Whisper.Temperature,
		BestOf:                    c.Whisper.BestOf,
		BeamSize:                  c.Whisper.BeamSize,
		Patience:                  c.Whisper.Patience,
		LengthPenalty:             c.Whisper.LengthPenalty,
		SuppressTokens:            append([]int(nil), c.Whisper.SuppressTokens...),
		ConditionOnPreviousText:   c.Whisper.ConditionOnPreviousText,
		CompressionRatioThreshold: c.Whisper.CompressionRatioThreshold,
		LogprobThreshold:          c.Whisper.LogprobThreshold,
		NoSpeechThreshold:         c.Whisper.NoSpeechThreshold,
		InitialPrompt:             whisper.ResolveDefaultPrompt(c.Whisper.Language, c.Whisper.InitialPrompt),
	}
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves tilde shortcuts and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
