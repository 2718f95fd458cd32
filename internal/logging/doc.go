// Package logging builds the slog loggers used by callscribe.
//
// Each configured output gets its own handler: terminals receive the
// colourised console format, files receive plain console lines or JSON, and
// a fan-out handler ties them together. Context helpers attach run and
// request identifiers so batch and API log lines can be correlated.
package logging
