// Package apperr defines the error taxonomy from spec §7. Every sentinel
// here is meant to be matched with errors.Is by callers deciding how to
// degrade a request; wrapping follows the teacher's own fmt.Errorf("...: %w",
// err) convention (see models/dwd/downloader.go, models/noaa/downlaoder.go)
// rather than a structured-error library.
package apperr

import "errors"

var (
	// ErrOutsideGrid means a requested coordinate does not lie inside any
	// domain's grid. Reader construction returns this; callers translate it
	// into "no data for this location" rather than surfacing it raw.
	ErrOutsideGrid = errors.New("openmeteo: coordinate outside grid")

	// ErrStaticFileMissing means a domain has no elevation file available.
	// Elevation correction is skipped and StaticLookup returns none — this
	// is never returned from Get itself.
	ErrStaticFileMissing = errors.New("openmeteo: static file missing")

	// ErrDecode means a chunk's bytes could not be decoded. Fatal for the
	// enclosing request only; callers should log the chunk identity
	// alongside this error.
	ErrDecode = errors.New("openmeteo: chunk decode failure")

	// ErrTimeout means an upstream fetch exceeded its deadline. Propagated
	// with a retry-advisory meaning: the caller may retry the same request.
	ErrTimeout = errors.New("openmeteo: upstream fetch timeout")

	// ErrCancelled means the caller's context was cancelled. Propagated
	// silently — never logged as a failure.
	ErrCancelled = errors.New("openmeteo: request cancelled")

	// ErrUnknownVariable means a variable name did not resolve to any
	// canonical tag, including through alias resolution. Spec §7 treats this
	// as a fatal programmer error, never expected at runtime.
	ErrUnknownVariable = errors.New("openmeteo: unknown variable")
)

// MissingChunk is deliberately not an error value: spec §7 states an absent
// or empty archive chunk is signalled as NaN-filled data, never raised. Code
// that would otherwise construct a "missing chunk" error should instead
// return (nil, nil) or all-NaN samples — see archive.ChunkCache.Get.
