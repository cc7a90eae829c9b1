package analysis

import "errors"

// Sentinel error kinds for the engine. Callers match with errors.Is.
var (
	// ErrMalformedEvent means an input event is missing required fields or
	// carries contradictory ones. The whole run is aborted; there are no
	// partial results.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrScoringConfig means the bucket or weight tables are incomplete or
	// inconsistent. This is a configuration bug, not bad match data.
	ErrScoringConfig = errors.New("invalid scoring configuration")
)
