// Package services defines the shared error vocabulary consumed by the
// generation pipeline and the CLI.
//
// Failures are tagged with sentinel markers (missing media, engine failure,
// storage failure, configuration mistake) so callers can classify them with
// errors.Is while the Wrap helper keeps the component/operation context in
// the message. The CLI maps every surfaced error to exit code 1; the markers
// exist for library callers and tests.
package services
