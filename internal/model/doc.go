// Package model defines the domain entities and data structures of raidsign.
//
// # Domain Entities
//
//   - Raid: a scheduled activity identified by a free-text name
//   - Signup: one user's registration for a raid, owned by that raid
//   - RosterSummary: a raid's signups partitioned into tank, healer and dps
//
// Role text is stored exactly as typed. ParseRole classifies it
// case-insensitively; anything else is RoleUnknown.
//
// # Responses
//
// Commands produce a Response, either plain text or a list of Embeds. The
// types carry no gateway dependency; internal/discord renders them.
//
// # Error Types
//
// Sentinels classify failures for errors.Is:
//
//	ErrValidation  missing or malformed command arguments (ValidationError)
//	ErrNotFound    the referenced raid does not exist
//	ErrConflict    a name policy was violated or a name is ambiguous
//	ErrStore       the document store failed (StoreError)
//
// ProblemDetails is the user-facing rendering of a failure, built by the
// handler package's error mapper.
package model
