// Package generrors defines the sentinel errors for every fatal
// condition in spec §7 (Error Handling Design), so callers can
// errors.Is against a stable set of failure kinds instead of parsing
// messages.
package generrors

import "errors"

var (
	// Input validation (checked before any work begins).
	ErrInvalidAllele        = errors.New("genotree: allele outside {0, 1}")
	ErrNonMonotonicPosition = errors.New("genotree: site positions are not monotonically nondecreasing")
	ErrEmptyPanel           = errors.New("genotree: empty sample or site panel")
	ErrMalformedPanel       = errors.New("genotree: panel arrays do not match declared dimensions")

	// Invariant violations during build (indicate an algorithm bug).
	ErrSegmentOverlap = errors.New("genotree: segments overlap or leave a gap at a site")
	ErrNonTopological = errors.New("genotree: ancestor id order is not a valid topological order")

	// Matcher failures.
	ErrUnderflow         = errors.New("genotree: likelihood underflow after normalization")
	ErrNoEligibleParents = errors.New("genotree: no eligible parent ancestors for query (K=0)")

	// Resource exhaustion. genotree's segment lists are growable vectors
	// (see segment.NewCap), not fixed-block arenas, so this is never
	// returned in practice; it is kept for parity with the documented
	// error taxonomy and for callers that pattern-match on it.
	ErrArenaExhausted = errors.New("genotree: arena exhausted; grow the configured block size")
)
