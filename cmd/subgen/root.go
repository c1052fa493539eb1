package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subgen/internal/history"
	"subgen/internal/language"
	"subgen/internal/logging"
	"subgen/internal/srt"
	"subgen/internal/subtitles"
	"subgen/internal/whisper"
)

type generateOptions struct {
	output        string
	model         string
	lang          string
	translate     bool
	temperature   float64
	bestOf        int
	beamSize      int
	initialPrompt string

	conditionOnPreviousText   bool
	compressionRatioThreshold float64
	logprobThreshold          float64
	noSpeechThreshold         float64

	preview bool
	quiet   bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts generateOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "subgen <media-file>",
		Short: "Generate SRT subtitles from media using OpenAI Whisper",
		Long: `subgen transcribes a media file with the external Whisper engine and
writes the result as a SubRip (.srt) subtitle file.

A bare media filename is looked up in the configured assets directory first,
then relative to the current working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the media file to subtitle. Example: subgen talk.mp4\nRun subgen --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, args[0], &opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output SRT file path (default: subtitles.srt or subtitles_en.srt in the output dir)")
	flags.StringVarP(&opts.model, "model", "m", "", "Whisper model size ("+strings.Join(whisper.ModelTiers, ", ")+")")
	flags.StringVarP(&opts.lang, "language", "l", "", "Source language code")
	flags.BoolVar(&opts.translate, "translate", false, "Translate to English (Whisper only supports translation to English)")
	flags.Float64Var(&opts.temperature, "temperature", whisper.DefaultTemperature, "Temperature for sampling")
	flags.IntVar(&opts.bestOf, "best-of", whisper.DefaultBestOf, "Number of candidates to generate")
	flags.IntVar(&opts.beamSize, "beam-size", whisper.DefaultBeamSize, "Beam size for beam search")
	flags.StringVar(&opts.initialPrompt, "initial-prompt", "", "Initial prompt to guide transcription")
	flags.BoolVar(&opts.conditionOnPreviousText, "condition-on-previous-text", false, "Condition on previous text (can cause repetition)")
	flags.Float64Var(&opts.compressionRatioThreshold, "compression-ratio-threshold", whisper.DefaultCompressionRatio, "Compression ratio threshold to detect repetitive text")
	flags.Float64Var(&opts.logprobThreshold, "logprob-threshold", whisper.DefaultLogprobThreshold, "Log probability threshold to detect low-confidence segments")
	flags.Float64Var(&opts.noSpeechThreshold, "no-speech-threshold", whisper.DefaultNoSpeechThreshold, "No-speech threshold to detect silence/music")
	flags.BoolVar(&opts.preview, "preview", false, "Show a preview of the generated subtitles")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")

	rootCmd.AddCommand(newModelsCommand())
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, mediaArg string, opts *generateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logLevel := cfg.Logging.Level
	if opts.quiet {
		logLevel = "error"
	}
	logger, err := logging.New(logging.Options{Level: logLevel, Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	mediaPath, err := resolveMediaPath(cfg, mediaArg)
	if err != nil {
		return err
	}
	outputPath, err := resolveOutputPath(cfg, opts.output, opts.translate)
	if err != nil {
		return err
	}

	transcription := cfg.TranscriptionConfig()
	if cmd.Flags().Changed("model") {
		if err := transcription.Set("model", opts.model); err != nil {
			return err
		}
	}

	requestLanguage := ""
	if cmd.Flags().Changed("language") {
		requestLanguage = language.ToISO2(opts.lang)
		if requestLanguage == "" {
			return fmt.Errorf("unrecognized language %q", opts.lang)
		}
	}

	generatorOpts := []subtitles.Option{subtitles.WithLogger(logger)}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("open history store", "error", err)
		} else {
			defer store.Close()
			generatorOpts = append(generatorOpts, subtitles.WithHistory(store))
		}
	}

	engine := whisper.NewCommandEngine(cfg.Whisper.PythonBinary, cfg.Paths.ModelCacheDir)
	generator := subtitles.NewGenerator(engine, transcription, generatorOpts...)

	logger.Info("generating subtitles",
		"media", mediaPath,
		"output", outputPath,
		"model", transcription.Model,
	)

	content, err := generator.Generate(cmd.Context(), subtitles.GenerateRequest{
		MediaPath:  mediaPath,
		OutputPath: outputPath,
		Language:   requestLanguage,
		Translate:  opts.translate,
		Overrides:  flagOverrides(cmd, opts),
	})
	if err != nil {
		return err
	}

	if opts.preview {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintln(out, srt.Preview(content, 30))
		fmt.Fprintln(out, strings.Repeat("=", 60))
	}
	return nil
}

// flagOverrides maps explicitly set flags onto engine parameter overrides.
// Flags left at their defaults stay absent so values from the configuration
// file keep winning for them.
func flagOverrides(cmd *cobra.Command, opts *generateOptions) map[string]any {
	overrides := make(map[string]any)
	changed := cmd.Flags().Changed
	if changed("temperature") {
		overrides["temperature"] = opts.temperature
	}
	if changed("best-of") {
		overrides["best_of"] = opts.bestOf
	}
	if changed("beam-size") {
		overrides["beam_size"] = opts.beamSize
	}
	if changed("initial-prompt") {
		overrides["initial_prompt"] = opts.initialPrompt
	}
	if changed("condition-on-previous-text") {
		overrides["condition_on_previous_text"] = opts.conditionOnPreviousText
	}
	if changed("compression-ratio-threshold") {
		overrides["compression_ratio_threshold"] = opts.compressionRatioThreshold
	}
	if changed("logprob-threshold") {
		overrides["logprob_threshold"] = opts.logprobThreshold
	}
	if changed("no-speech-threshold") {
		overrides["no_speech_threshold"] = opts.noSpeechThreshold
	}
	return overrides
}
