// Package resolve handles entity identifier resolution for Linear resources.
//
// Resolvers convert user-supplied names, emails, and keys into Linear's
// opaque IDs: opaque-ID fast path, then exact case-insensitive name match
// against the relevant collection, scoped to a team where the entity is
// team-scoped (workflow states, cycles). All resolvers use the cache with
// invalidate-on-miss semantics.
package resolve

import "strings"

// LooksLikeID reports whether the candidate string should be treated as an
// already-opaque Linear ID and passed through without a lookup.
//
// The check is "contains a hyphen", matching Linear's UUID-shaped IDs. It is
// a fast-path heuristic, not a validation: a hyphenated display name would be
// misclassified. Every resolver routes through this one function so the
// check can be tightened (e.g. to a strict UUID shape) in one place.
func LooksLikeID(candidate string) bool {
	return strings.Contains(candidate, "-")
}
