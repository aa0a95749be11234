package team

import (
	"context"

	"github.com/google/uuid"
)

// Repository describes team identity persistence needs from use cases.
type Repository interface {
	// FindByName looks a name up case-insensitively against canonical
	// names and aliases, preferring teams that carry ratings data.
	FindByName(ctx context.Context, name string) (Match, bool, error)

	// FindLoose compares the name with punctuation and spacing stripped
	// against canonical names and aliases stripped the same way,
	// preferring rated teams and breaking ties by canonical-name order.
	FindLoose(ctx context.Context, name string) (Match, bool, error)

	// Create inserts a team with the given canonical name. On a
	// uniqueness conflict it returns the existing team's id.
	Create(ctx context.Context, canonicalName string) (uuid.UUID, error)

	// AddAlias records a raw spelling for a team. Duplicate
	// (alias, source) pairs are a no-op.
	AddAlias(ctx context.Context, teamID uuid.UUID, alias, source string) error

	// RecordResolution appends one audit row. Never read back.
	RecordResolution(ctx context.Context, audit ResolutionAudit) error
}
