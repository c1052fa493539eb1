// Package deps probes the external tools subgen needs at runtime: the
// Python interpreter, the openai-whisper package installed into it, and
// the ffmpeg binary Whisper uses for audio decoding.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Status reports the availability of one external dependency.
type Status struct {
	Name      string
	Command   string
	Available bool
	Detail    string
}

type commandOutput func(ctx context.Context, name string, args ...string) (string, error)

// Checker evaluates the external dependencies for a configured Python
// interpreter.
type Checker struct {
	pythonBinary string
	runCommand   commandOutput
}

// NewChecker creates a Checker for the given interpreter. An empty binary
// name falls back to "python".
func NewChecker(pythonBinary string) *Checker {
	if pythonBinary == "" {
		pythonBinary = "python"
	}
	return &Checker{pythonBinary: pythonBinary}
}

// WithCommandOutput sets a custom command runner (for testing).
func (c *Checker) WithCommandOutput(run commandOutput) {
	c.runCommand = run
}

// Check probes every dependency and returns one status per tool. Required
// tools come first; a caller can refuse to run when any of them is missing.
func (c *Checker) Check(ctx context.Context) []Status {
	return []Status{
		c.checkPython(),
		c.checkWhisper(ctx),
		checkFFmpeg(),
	}
}

// Missing reports whether any probed dependency is unavailable.
func Missing(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Available {
			return true
		}
	}
	return false
}

func (c *Checker) checkPython() Status {
	status := Status{Name: "Python", Command: c.pythonBinary}
	resolved, err := exec.LookPath(c.pythonBinary)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", c.pythonBinary)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// checkWhisper imports the whisper package inside the interpreter so the
// probe matches exactly what a transcription run will do.
func (c *Checker) checkWhisper(ctx context.Context) Status {
	status := Status{Name: "Whisper", Command: c.pythonBinary + " -m whisper"}
	output, err := c.output(ctx, c.pythonBinary, "-c", "import whisper; print(whisper.__version__)")
	if err != nil {
		status.Detail = "whisper package not importable"
		return status
	}
	status.Available = true
	if version := strings.TrimSpace(output); version != "" {
		status.Detail = "version " + version
	}
	return status
}

func checkFFmpeg() Status {
	status := Status{Name: "FFmpeg", Command: "ffmpeg"}
	resolved, err := exec.LookPath("ffmpeg")
	if err != nil {
		status.Detail = `binary "ffmpeg" not found`
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

func (c *Checker) output(ctx context.Context, name string, args ...string) (string, error) {
	if c.runCommand != nil {
		return c.runCommand(ctx, name, args...)
	}
	out, err := exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
	return string(out), err
}
