package domain

import "errors"

// Ingestion failures. Any of these aborts the whole ingestion with no
// partial activity persisted.
var (
	// ErrUnsupportedFormat means the file extension is not one of
	// gpx/tcx/fit.
	ErrUnsupportedFormat = errors.New("unsupported activity file format")

	// ErrNoTrackData means a GPX container had no usable track.
	ErrNoTrackData = errors.New("no track data in file")

	// ErrInsufficientTrackData means the container yielded fewer than
	// two waypoints.
	ErrInsufficientTrackData = errors.New("insufficient track data in file")

	// ErrDecodeFailure wraps malformed-input errors from the underlying
	// format libraries.
	ErrDecodeFailure = errors.New("failed to decode activity file")

	// ErrAthleteNotFound means the referenced athlete profile is missing.
	ErrAthleteNotFound = errors.New("athlete not found")

	// ErrActivityNotFound means the referenced activity is missing.
	ErrActivityNotFound = errors.New("activity not found")
)
