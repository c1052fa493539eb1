// Package srt renders timed transcription segments as SubRip subtitle text.
//
// The document is a derived, stateless artifact: the same segment sequence
// always produces byte-identical output, blocks are numbered by position in
// the input, and any identifier the engine attached to a segment is ignored.
package srt
