package postgres

import (
	"github.com/google/uuid"
)

type teamMatchModel struct {
	ID            uuid.UUID `db:"id"`
	CanonicalName string    `db:"canonical_name"`
	HasRatings    bool      `db:"has_ratings"`
}

type teamAliasInsertModel struct {
	TeamID uuid.UUID `db:"team_id"`
	Alias  string    `db:"alias"`
	Source string    `db:"source"`
}

// inserted_at is left to the column default.
type resolutionAuditInsertModel struct {
	InputName    string  `db:"input_name"`
	ResolvedName *string `db:"resolved_name"`
	Source       string  `db:"source"`
	Context      string  `db:"context"`
	HasRatings   bool    `db:"has_ratings"`
}
