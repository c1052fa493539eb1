package srt

import (
	"fmt"
	"strings"

	"subgen/internal/whisper"
)

// FormatTimestamp converts seconds to the SRT timestamp form HH:MM:SS,mmm.
//
// Milliseconds truncate rather than round, and every component derives from
// integer division on the total millisecond count so no component is rounded
// independently. Hours grow past 99 without wrapping. Negative input is a
// caller error and clamps to the zero timestamp.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds * 1000)
	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	secs := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// FormatSegment renders one numbered SRT block with its trailing blank line.
// Text is trimmed of surrounding whitespace only; interior whitespace and
// line breaks survive verbatim.
func FormatSegment(index int, segment whisper.Segment) string {
	start := FormatTimestamp(segment.Start)
	end := FormatTimestamp(segment.End)
	return fmt.Sprintf("%d\n%s --> %s\n%s\n\n", index, start, end, strings.TrimSpace(segment.Text))
}

// FormatDocument renders an ordered segment sequence as complete SRT text.
// Indices are assigned as position+1 in the input; segments are never
// reordered, filtered, or merged. An empty sequence yields an empty string.
func FormatDocument(segments []whisper.Segment) string {
	var sb strings.Builder
	for i, segment := range segments {
		sb.WriteString(FormatSegment(i+1, segment))
	}
	return sb.String()
}

// Preview returns content unchanged when it has at most maxLines lines;
// otherwise the first maxLines lines followed by a summary of how many were
// omitted. Read-only, never touches the persisted artifact.
func Preview(content string, maxLines int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	remaining := len(lines) - maxLines
	return strings.Join(lines[:maxLines], "\n") + fmt.Sprintf("\n\n... (%d more lines)", remaining)
}
