// Package subtitles coordinates transcription and SRT generation.
//
// The Generator owns a lazily loaded handle to the external Whisper engine:
// the first transcription (or an explicit EnsureLoaded call) moves it from
// unloaded to loaded exactly once, and it never unloads within an instance's
// lifetime. Instances are not safe for concurrent use; run one Generator per
// concurrent job.
package subtitles
