package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subgen/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.AssetsDir = filepath.Join(t.TempDir(), "assets")
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "output")
	if err := os.MkdirAll(cfg.Paths.AssetsDir, 0o755); err != nil {
		t.Fatalf("mkdir assets: %v", err)
	}
	return &cfg
}

func TestResolveMediaPathPrefersAssetsDir(t *testing.T) {
	cfg := testConfig(t)
	assetPath := filepath.Join(cfg.Paths.AssetsDir, "talk.mp4")
	if err := os.WriteFile(assetPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	resolved, err := resolveMediaPath(cfg, "talk.mp4")
	if err != nil {
		t.Fatalf("resolveMediaPath returned error: %v", err)
	}
	if resolved != assetPath {
		t.Fatalf("expected assets path %q, got %q", assetPath, resolved)
	}
}

func TestResolveMediaPathFallsBackToCwd(t *testing.T) {
	cfg := testConfig(t)
	work := t.TempDir()
	chdir(t, work)
	if err := os.WriteFile(filepath.Join(work, "talk.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	resolved, err := resolveMediaPath(cfg, "talk.mp4")
	if err != nil {
		t.Fatalf("resolveMediaPath returned error: %v", err)
	}
	if resolved != filepath.Join(work, "talk.mp4") {
		t.Fatalf("expected cwd path, got %q", resolved)
	}
}

func TestResolveMediaPathMissingListsCandidates(t *testing.T) {
	cfg := testConfig(t)
	_, err := resolveMediaPath(cfg, "missing.mp4")
	if err == nil {
		t.Fatal("expected error for missing media")
	}
	if !strings.Contains(err.Error(), cfg.Paths.AssetsDir) {
		t.Fatalf("expected assets candidate in error %q", err)
	}
}

func TestResolveMediaPathWithDirectoryComponentsSkipsAssets(t *testing.T) {
	cfg := testConfig(t)
	work := t.TempDir()
	chdir(t, work)

	// Existence is not checked for explicit paths; the orchestrator does that.
	resolved, err := resolveMediaPath(cfg, filepath.Join("clips", "talk.mp4"))
	if err != nil {
		t.Fatalf("resolveMediaPath returned error: %v", err)
	}
	if resolved != filepath.Join(work, "clips", "talk.mp4") {
		t.Fatalf("expected cwd-relative path, got %q", resolved)
	}
}

func TestResolveOutputPathDefaults(t *testing.T) {
	cfg := testConfig(t)

	plain, err := resolveOutputPath(cfg, "", false)
	if err != nil {
		t.Fatalf("resolveOutputPath returned error: %v", err)
	}
	if plain != filepath.Join(cfg.Paths.OutputDir, "subtitles.srt") {
		t.Fatalf("unexpected default output %q", plain)
	}

	translated, err := resolveOutputPath(cfg, "", true)
	if err != nil {
		t.Fatalf("resolveOutputPath returned error: %v", err)
	}
	if translated != filepath.Join(cfg.Paths.OutputDir, "subtitles_en.srt") {
		t.Fatalf("unexpected translate output %q", translated)
	}
}

func TestResolveOutputPathBareFilenameGoesToOutputDir(t *testing.T) {
	cfg := testConfig(t)
	resolved, err := resolveOutputPath(cfg, "episode1.srt", false)
	if err != nil {
		t.Fatalf("resolveOutputPath returned error: %v", err)
	}
	if resolved != filepath.Join(cfg.Paths.OutputDir, "episode1.srt") {
		t.Fatalf("unexpected output %q", resolved)
	}
}

func TestResolveOutputPathWithDirectoryComponentsUsesCwd(t *testing.T) {
	cfg := testConfig(t)
	work := t.TempDir()
	chdir(t, work)

	resolved, err := resolveOutputPath(cfg, filepath.Join("subs", "out.srt"), false)
	if err != nil {
		t.Fatalf("resolveOutputPath returned error: %v", err)
	}
	if resolved != filepath.Join(work, "subs", "out.srt") {
		t.Fatalf("unexpected output %q", resolved)
	}
}

func TestResolveOutputPathAbsolutePassesThrough(t *testing.T) {
	cfg := testConfig(t)
	abs := filepath.Join(t.TempDir(), "out.srt")
	resolved, err := resolveOutputPath(cfg, abs, false)
	if err != nil {
		t.Fatalf("resolveOutputPath returned error: %v", err)
	}
	if resolved != abs {
		t.Fatalf("expected %q, got %q", abs, resolved)
	}
}

// chdir changes the working directory for the test and restores it on
// cleanup, mirroring testing.T.Chdir which requires a newer Go release.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
