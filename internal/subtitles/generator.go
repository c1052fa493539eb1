package subtitles

import (
	"context"
	"log/slog"

	"subgen/internal/fileutil"
	"subgen/internal/history"
	"subgen/internal/logging"
	"subgen/internal/services"
	"subgen/internal/srt"
	"subgen/internal/whisper"
)

// Generator produces SRT subtitle files from media via the Whisper engine.
type Generator struct {
	engine  whisper.Engine
	config  whisper.Config
	logger  *slog.Logger
	history *history.Store
	loaded  bool
}

// Option customizes Generator construction.
type Option func(*Generator)

// WithLogger attaches a logger. Without it the generator stays silent.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithHistory attaches a generation history store. Recording failures are
// logged and swallowed; history never blocks subtitle output.
func WithHistory(store *history.Store) Option {
	return func(g *Generator) {
		g.history = store
	}
}

// NewGenerator creates a Generator around the given engine and parameter
// configuration. The engine stays unloaded until the first transcription.
func NewGenerator(engine whisper.Engine, config whisper.Config, opts ...Option) *Generator {
	g := &Generator{
		engine: engine,
		config: config,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns a copy of the current parameter configuration.
func (g *Generator) Config() whisper.Config {
	cfg := g.config
	cfg.SuppressTokens = append([]int(nil), cfg.SuppressTokens...)
	return cfg
}

// EnsureLoaded performs the engine's model acquisition exactly once.
// Subsequent calls are no-ops; the generator never returns to the unloaded
// state.
func (g *Generator) EnsureLoaded(ctx context.Context) error {
	if g.loaded {
		return nil
	}
	g.logger.Info("loading whisper model", "model", g.config.Model)
	if err := g.engine.Load(ctx, g.config.Model); err != nil {
		return err
	}
	g.loaded = true
	g.logger.Info("model loaded", "model", g.config.Model)
	return nil
}

// Transcribe runs the engine against mediaPath and returns its segments
// unmodified. The configured parameters are exported and merged with
// overrides, last write wins per key. A missing media file fails with a
// not-found error before the engine is touched.
func (g *Generator) Transcribe(ctx context.Context, mediaPath string, overrides map[string]any) ([]whisper.Segment, error) {
	if !fileutil.Exists(mediaPath) {
		return nil, services.Wrap(services.ErrNotFound, "generator", "transcribe", "media file not found: "+mediaPath, nil)
	}
	if err := g.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	params := whisper.MergeParams(g.config.Params(), overrides)

	if task, _ := params["task"].(string); task == string(whisper.TaskTranslate) {
		g.logger.Info("translating to English", "media", mediaPath, "source_language", params["language"])
	} else {
		g.logger.Info("transcribing", "media", mediaPath, "language", params["language"])
	}

	segments, err := g.engine.Run(ctx, mediaPath, params)
	if err != nil {
		return nil, err
	}
	g.logger.Info("transcription complete", "media", mediaPath, "segments", len(segments))
	return segments, nil
}

// GenerateRequest describes one subtitle generation.
type GenerateRequest struct {
	// MediaPath is the media file to transcribe.
	MediaPath string
	// OutputPath receives the SRT text (UTF-8, overwrite).
	OutputPath string
	// Language overrides the configured source language when set.
	Language string
	// Translate forces the translate-to-English task regardless of the
	// configured task.
	Translate bool
	// Overrides are additional engine parameters, applied last.
	Overrides map[string]any
}

// Generate transcribes the media, formats the result as SRT, persists it to
// the output path, and returns the formatted text. The write happens before
// the return: on a storage failure the text is discarded and a storage
// error surfaces instead.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	overrides := whisper.MergeParams(nil, req.Overrides)
	if req.Language != "" {
		overrides["language"] = req.Language
	}
	if req.Translate {
		overrides["task"] = string(whisper.TaskTranslate)
	}

	segments, err := g.Transcribe(ctx, req.MediaPath, overrides)
	if err != nil {
		return "", err
	}

	content := srt.FormatDocument(segments)
	if err := fileutil.WriteText(req.OutputPath, content); err != nil {
		return "", services.Wrap(services.ErrStorage, "generator", "generate", "", err)
	}
	g.logger.Info("subtitles saved", "output", req.OutputPath)

	g.recordHistory(ctx, req, overrides, segments)
	return content, nil
}

// GenerateTranslated generates English subtitles by translating from the
// given source language.
func (g *Generator) GenerateTranslated(ctx context.Context, mediaPath, outputPath, sourceLanguage string, overrides map[string]any) (string, error) {
	return g.Generate(ctx, GenerateRequest{
		MediaPath:  mediaPath,
		OutputPath: outputPath,
		Language:   sourceLanguage,
		Translate:  true,
		Overrides:  overrides,
	})
}

// UpdateConfig applies a partial set of field assignments to the held
// parameter configuration. Unknown fields are rejected with a configuration
// error and the configuration stays untouched; the update is all or nothing.
func (g *Generator) UpdateConfig(fields map[string]any) error {
	updated := g.Config()
	for field, value := range fields {
		if err := updated.Set(field, value); err != nil {
			return err
		}
	}
	g.config = updated
	return nil
}

func (g *Generator) recordHistory(ctx context.Context, req GenerateRequest, overrides map[string]any, segments []whisper.Segment) {
	if g.history == nil {
		return
	}

	lang := g.config.Language
	if value, ok := overrides["language"].(string); ok && value != "" {
		lang = value
	}
	task := string(g.config.Task)
	if value, ok := overrides["task"].(string); ok && value != "" {
		task = value
	}
	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	entry := history.Entry{
		MediaPath:       req.MediaPath,
		OutputPath:      req.OutputPath,
		Language:        lang,
		Task:            task,
		Model:           g.config.Model,
		SegmentCount:    len(segments),
		DurationSeconds: duration,
	}
	if _, err := g.history.Record(ctx, entry); err != nil {
		g.logger.Warn("record generation history", "error", err)
	}
}
