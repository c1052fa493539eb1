// Package whisper models the transcription parameter set and the boundary to
// the external Whisper engine.
//
// The engine itself is an opaque collaborator: it accepts a media path and a
// flat parameter mapping and returns ordered, timed segments. This package
// supplies the Config record with repository defaults and named presets, the
// pure default-prompt resolution, the export/merge rules for engine
// parameters, and a CommandEngine that shells out to the Python Whisper CLI.
package whisper
