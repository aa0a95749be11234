package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUnresolvedTeam is returned in strict mode when no lookup
	// strategy matched a feed name.
	ErrUnresolvedTeam = errors.New("unresolved team name")

	// ErrAmbiguousTeamPair is returned when an event's home and away
	// names resolve to the same identity.
	ErrAmbiguousTeamPair = errors.New("home and away resolved to the same team")
)
