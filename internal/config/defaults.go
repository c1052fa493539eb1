package config

import "subgen/internal/whisper"

const (
	defaultAssetsDir     = "public/assets"
	defaultOutputDir     = "public"
	defaultModelCacheDir = "~/.cache/subgen/whisper"
	defaultHistoryPath   = "~/.local/share/subgen/history.db"
	defaultPythonBinary  = "python"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir:     defaultAssetsDir,
			OutputDir:     defaultOutputDir,
			ModelCacheDir: defaultModelCacheDir,
		},
		Whisper: Whisper{
			Model:                     whisper.DefaultModel,
			PythonBinary:              defaultPythonBinary,
			Language:                  whisper.DefaultLanguage,
			Task:                      string(whisper.TaskTranscribe),
			WordTimestamps:            true,
			Temperature:               whisper.DefaultTemperature,
			BestOf:                    whisper.DefaultBestOf,
			BeamSize:                  whisper.DefaultBeamSize,
			Patience:                  whisper.DefaultPatience,
			LengthPenalty:             whisper.DefaultLengthPenalty,
			SuppressTokens:            []int{-1},
			ConditionOnPreviousText:   false,
			CompressionRatioThreshold: whisper.DefaultCompressionRatio,
			LogprobThreshold:          whisper.DefaultLogprobThreshold,
			NoSpeechThreshold:         whisper.DefaultNoSpeechThreshold,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
