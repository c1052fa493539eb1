package main

import (
	"fmt"
	"path/filepath"

	"subgen/internal/config"
	"subgen/internal/fileutil"
)

// Default output filenames when no --output is given.
const (
	defaultOutputName          = "subtitles.srt"
	defaultTranslateOutputName = "subtitles_en.srt"
)

// resolveMediaPath locates the media file. A bare filename is looked up in
// the configured assets directory first and then relative to the current
// working directory; a path with directory components resolves relative to
// the current working directory.
func resolveMediaPath(cfg *config.Config, arg string) (string, error) {
	if filepath.IsAbs(arg) {
		return arg, nil
	}

	cwdPath, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve media path: %w", err)
	}

	if filepath.Dir(arg) != "." {
		return cwdPath, nil
	}

	assetsPath := filepath.Join(cfg.Paths.AssetsDir, arg)
	if fileutil.Exists(assetsPath) {
		return assetsPath, nil
	}
	if fileutil.Exists(cwdPath) {
		return cwdPath, nil
	}
	return "", fmt.Errorf("media file not found: %s (searched %s and %s)", arg, assetsPath, cwdPath)
}

// resolveOutputPath decides where the SRT file lands. A bare filename goes
// into the configured output directory; a path with directory components
// resolves relative to the current working directory. An empty argument
// picks the conventional default name for the task.
func resolveOutputPath(cfg *config.Config, arg string, translate bool) (string, error) {
	if arg == "" {
		name := defaultOutputName
		if translate {
			name = defaultTranslateOutputName
		}
		return filepath.Join(cfg.Paths.OutputDir, name), nil
	}
	if filepath.IsAbs(arg) {
		return arg, nil
	}
	if filepath.Dir(arg) != "." {
		resolved, err := filepath.Abs(arg)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		return resolved, nil
	}
	return filepath.Join(cfg.Paths.OutputDir, arg), nil
}
