package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a referenced media file that does not exist at any
	// resolved candidate path. Raised before the engine is ever invoked.
	ErrNotFound = errors.New("not found")
	// ErrEngine marks a failure raised by the external transcription engine
	// during load or run. Propagated unchanged, never retried.
	ErrEngine = errors.New("engine failure")
	// ErrStorage marks a failure writing the output artifact.
	ErrStorage = errors.New("storage failure")
	// ErrConfiguration marks an invalid or unrecognized configuration value.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks caller input that failed validation.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrEngine
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
