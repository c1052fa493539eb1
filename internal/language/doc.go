// Package language normalizes the language codes fed to the transcription
// engine.
//
// Whisper expects ISO 639-1 codes; CLI flags and config files may carry
// 3-letter codes or full word forms ("slovak"), so every language value is
// funneled through here before it reaches the engine parameter mapping.
package language
