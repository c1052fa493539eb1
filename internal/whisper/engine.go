package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"subgen/internal/services"
)

// Engine is the external transcription collaborator. Load acquires a model
// instance for a named size tier; Run feeds it a media file plus a flat
// parameter mapping and returns ordered segments. Both calls block for as
// long as the engine needs; cancellation happens through the context.
type Engine interface {
	Load(ctx context.Context, model string) error
	Run(ctx context.Context, mediaPath string, params map[string]any) ([]Segment, error)
}

// CommandEngine drives the Python Whisper CLI (python -m whisper) as the
// transcription engine. Output is requested in JSON form and decoded from
// the file Whisper writes next to its other artifacts.
type CommandEngine struct {
	pythonBinary string
	cacheDir     string
	model        string

	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewCommandEngine creates an engine wrapper around the given Python
// interpreter. cacheDir holds Whisper model downloads and the cross-process
// run lock; it is created on Load.
func NewCommandEngine(pythonBinary, cacheDir string) *CommandEngine {
	if pythonBinary == "" {
		pythonBinary = "python"
	}
	return &CommandEngine{pythonBinary: pythonBinary, cacheDir: cacheDir}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *CommandEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Load records the model tier for subsequent runs. The Python CLI resolves
// and downloads the weights itself on first use, so loading here is a
// validation plus cache directory setup step.
func (e *CommandEngine) Load(_ context.Context, model string) error {
	if !slices.Contains(ModelTiers, model) {
		return services.Wrap(services.ErrConfiguration, "engine", "load", fmt.Sprintf("unknown model tier %q (choose from %s)", model, strings.Join(ModelTiers, ", ")), nil)
	}
	if e.cacheDir != "" {
		if err := os.MkdirAll(e.cacheDir, 0o755); err != nil {
			return services.Wrap(services.ErrEngine, "engine", "load", "ensure cache directory", err)
		}
	}
	e.model = model
	return nil
}

// Run transcribes mediaPath with the loaded model. Engine runs are
// serialized across processes with a file lock in the cache directory;
// concurrent first-time model downloads corrupt the cache.
func (e *CommandEngine) Run(ctx context.Context, mediaPath string, params map[string]any) ([]Segment, error) {
	if e.model == "" {
		return nil, services.Wrap(services.ErrEngine, "engine", "run", "model not loaded", nil)
	}

	if e.cacheDir != "" {
		lock := flock.New(filepath.Join(e.cacheDir, "subgen.lock"))
		if err := lock.Lock(); err != nil {
			return nil, services.Wrap(services.ErrEngine, "engine", "run", "acquire engine lock", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	outputDir, err := os.MkdirTemp("", "subgen-whisper-")
	if err != nil {
		return nil, services.Wrap(services.ErrEngine, "engine", "run", "create output directory", err)
	}
	defer os.RemoveAll(outputDir)

	args := e.buildArgs(mediaPath, outputDir, params)
	if err := e.run(ctx, e.pythonBinary, args...); err != nil {
		return nil, services.Wrap(services.ErrEngine, "engine", "run", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrEngine, "engine", "run", "read whisper output", err)
	}

	var result payload
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, services.Wrap(services.ErrEngine, "engine", "run", "parse whisper json", err)
	}
	return result.Segments, nil
}

func (e *CommandEngine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if e.cacheDir != "" && os.Getenv("XDG_CACHE_HOME") == "" {
		// Whisper resolves its download root from XDG_CACHE_HOME.
		cmd.Env = append(os.Environ(), "XDG_CACHE_HOME="+filepath.Dir(e.cacheDir))
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the python -m whisper invocation. Parameter keys map
// one to one onto CLI flags and are emitted in sorted order so invocations
// are deterministic; keys outside the tracked schema still become flags.
func (e *CommandEngine) buildArgs(mediaPath, outputDir string, params map[string]any) []string {
	args := make([]string, 0, 12+2*len(params))
	args = append(args,
		"-m", "whisper",
		mediaPath,
		"--model", e.model,
		"--output_dir", outputDir,
		"--output_format", "json",
	)

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		args = append(args, "--"+key, formatParamValue(params[key]))
	}
	return args
}

// formatParamValue renders a parameter value the way the Whisper argparse
// surface expects it. Booleans use Python literals; token lists are
// comma-joined.
func formatParamValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []int:
		parts := make([]string, len(v))
		for i, token := range v {
			parts[i] = strconv.Itoa(token)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
