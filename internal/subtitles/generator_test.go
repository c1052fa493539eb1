package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"subgen/internal/history"
	"subgen/internal/services"
	"subgen/internal/whisper"
)

// stubEngine records load and run calls and returns canned segments.
type stubEngine struct {
	loadCalls  int
	loadedWith string
	loadErr    error

	runCalls  int
	runParams map[string]any
	runErr    error
	segments  []whisper.Segment
}

func (s *stubEngine) Load(_ context.Context, model string) error {
	s.loadCalls++
	s.loadedWith = model
	return s.loadErr
}

func (s *stubEngine) Run(_ context.Context, _ string, params map[string]any) ([]whisper.Segment, error) {
	s.runCalls++
	s.runParams = params
	if s.runErr != nil {
		return nil, s.runErr
	}
	return s.segments, nil
}

func writeMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(path, []byte("fake media"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	return path
}

func TestTranscribeMissingMediaFailsBeforeEngine(t *testing.T) {
	engine := &stubEngine{}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	_, err := gen.Transcribe(context.Background(), "/nonexistent/talk.mp4", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if engine.loadCalls != 0 || engine.runCalls != 0 {
		t.Fatalf("engine must not be touched: loads=%d runs=%d", engine.loadCalls, engine.runCalls)
	}
}

func TestTranscribeLoadsOnce(t *testing.T) {
	media := writeMedia(t)
	engine := &stubEngine{segments: []whisper.Segment{{Start: 0, End: 1, Text: "hi"}}}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	for i := 0; i < 3; i++ {
		if _, err := gen.Transcribe(context.Background(), media, nil); err != nil {
			t.Fatalf("Transcribe %d returned error: %v", i, err)
		}
	}
	if engine.loadCalls != 1 {
		t.Fatalf("expected one load, got %d", engine.loadCalls)
	}
	if engine.loadedWith != whisper.DefaultModel {
		t.Fatalf("expected model %q, got %q", whisper.DefaultModel, engine.loadedWith)
	}
	if engine.runCalls != 3 {
		t.Fatalf("expected 3 runs, got %d", engine.runCalls)
	}
}

func TestEnsureLoadedIdempotent(t *testing.T) {
	engine := &stubEngine{}
	gen := NewGenerator(engine, whisper.DefaultConfig())
	ctx := context.Background()

	if err := gen.EnsureLoaded(ctx); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	if err := gen.EnsureLoaded(ctx); err != nil {
		t.Fatalf("EnsureLoaded second call: %v", err)
	}
	if engine.loadCalls != 1 {
		t.Fatalf("expected one load, got %d", engine.loadCalls)
	}
}

func TestTranscribeMergesOverrides(t *testing.T) {
	media := writeMedia(t)
	engine := &stubEngine{}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	_, err := gen.Transcribe(context.Background(), media, map[string]any{
		"temperature": 0.7,
		"vad_filter":  true,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if engine.runParams["temperature"] != 0.7 {
		t.Fatalf("override must win, got %v", engine.runParams["temperature"])
	}
	if engine.runParams["vad_filter"] != true {
		t.Fatal("unknown override key must pass through to the engine")
	}
	if engine.runParams["beam_size"] != whisper.DefaultBeamSize {
		t.Fatalf("configured default must survive, got %v", engine.runParams["beam_size"])
	}
	if _, ok := engine.runParams["initial_prompt"].(string); !ok {
		t.Fatal("initial_prompt must always reach the engine as a string")
	}
}

func TestGenerateWritesAndReturnsSRT(t *testing.T) {
	media := writeMedia(t)
	output := filepath.Join(t.TempDir(), "out", "subtitles.srt")
	engine := &stubEngine{segments: []whisper.Segment{
		{ID: 9, Start: 0, End: 1.2, Text: " hi "},
	}}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	content, err := gen.Generate(context.Background(), GenerateRequest{
		MediaPath:  media,
		OutputPath: output,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,200\nhi\n\n"
	if content != want {
		t.Fatalf("Generate content = %q, want %q", content, want)
	}
	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != want {
		t.Fatalf("persisted content = %q, want %q", written, want)
	}
}

func TestGenerateLanguageAndTranslateOverrides(t *testing.T) {
	media := writeMedia(t)
	engine := &stubEngine{}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateRequest{
		MediaPath:  media,
		OutputPath: filepath.Join(t.TempDir(), "out.srt"),
		Language:   "cs",
		Translate:  true,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if engine.runParams["language"] != "cs" {
		t.Fatalf("expected language override, got %v", engine.runParams["language"])
	}
	if engine.runParams["task"] != "translate" {
		t.Fatalf("expected forced translate task, got %v", engine.runParams["task"])
	}
}

func TestGenerateTranslated(t *testing.T) {
	media := writeMedia(t)
	engine := &stubEngine{}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	_, err := gen.GenerateTranslated(context.Background(), media, filepath.Join(t.TempDir(), "out.srt"), "sk", nil)
	if err != nil {
		t.Fatalf("GenerateTranslated returned error: %v", err)
	}
	if engine.runParams["task"] != "translate" || engine.runParams["language"] != "sk" {
		t.Fatalf("unexpected params: task=%v language=%v", engine.runParams["task"], engine.runParams["language"])
	}
}

func TestGenerateStorageFailure(t *testing.T) {
	media := writeMedia(t)
	engine := &stubEngine{segments: []whisper.Segment{{Start: 0, End: 1, Text: "hi"}}}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	// The output path is an existing directory, so the write must fail.
	content, err := gen.Generate(context.Background(), GenerateRequest{
		MediaPath:  media,
		OutputPath: t.TempDir(),
	})
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if content != "" {
		t.Fatalf("expected no content on storage failure, got %q", content)
	}
}

func TestGenerateEngineFailurePropagates(t *testing.T) {
	media := writeMedia(t)
	runErr := services.Wrap(services.ErrEngine, "engine", "run", "decode failed", nil)
	engine := &stubEngine{runErr: runErr}
	gen := NewGenerator(engine, whisper.DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateRequest{
		MediaPath:  media,
		OutputPath: filepath.Join(t.TempDir(), "out.srt"),
	})
	if !errors.Is(err, services.ErrEngine) {
		t.Fatalf("expected engine error, got %v", err)
	}
}

func TestUpdateConfig(t *testing.T) {
	gen := NewGenerator(&stubEngine{}, whisper.DefaultConfig())

	if err := gen.UpdateConfig(map[string]any{"temperature": 0.3, "beam_size": 8}); err != nil {
		t.Fatalf("UpdateConfig returned error: %v", err)
	}
	cfg := gen.Config()
	if cfg.Temperature != 0.3 || cfg.BeamSize != 8 {
		t.Fatalf("unexpected config after update: %+v", cfg)
	}
}

func TestUpdateConfigRejectsUnknownFieldAtomically(t *testing.T) {
	gen := NewGenerator(&stubEngine{}, whisper.DefaultConfig())

	err := gen.UpdateConfig(map[string]any{"temperature": 0.9, "beam_width": 8})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if got := gen.Config().Temperature; got != whisper.DefaultTemperature {
		t.Fatalf("config must be unchanged after rejected update, temperature=%v", got)
	}
}

func TestGenerateRecordsHistory(t *testing.T) {
	media := writeMedia(t)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	engine := &stubEngine{segments: []whisper.Segment{
		{Start: 0, End: 1, Text: "one"},
		{Start: 1, End: 2.5, Text: "two"},
	}}
	gen := NewGenerator(engine, whisper.DefaultConfig(), WithHistory(store))

	output := filepath.Join(t.TempDir(), "out.srt")
	if _, err := gen.Generate(context.Background(), GenerateRequest{MediaPath: media, OutputPath: output, Translate: true}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	entries, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.SegmentCount != 2 || entry.DurationSeconds != 2.5 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Task != "translate" {
		t.Fatalf("expected translate task recorded, got %q", entry.Task)
	}
	if entry.OutputPath != output {
		t.Fatalf("unexpected output path %q", entry.OutputPath)
	}
}
