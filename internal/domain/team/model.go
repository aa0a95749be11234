package team

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceOddsAPI tags aliases and audit rows created from odds feed names.
const SourceOddsAPI = "the_odds_api"

// Resolution audit contexts.
const (
	ContextHomeTeam = "home_team"
	ContextAwayTeam = "away_team"
)

// Team is a stable internal identity for a club or college program,
// distinct from any raw textual name a feed uses for it.
type Team struct {
	ID            uuid.UUID
	CanonicalName string
}

func (t Team) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("team id is required")
	}
	if t.CanonicalName == "" {
		return fmt.Errorf("team canonical name is required")
	}

	return nil
}

// Alias is one recorded raw spelling of a team, unique per (alias, source).
type Alias struct {
	TeamID uuid.UUID
	Alias  string
	Source string
}

// Match is a lookup hit against canonical names or aliases.
type Match struct {
	ID            uuid.UUID
	CanonicalName string
	HasRatings    bool
}

// ResolutionAudit is the write-only trail of every resolution attempt.
// ResolvedName is nil when strict mode rejected the input.
type ResolutionAudit struct {
	InputName    string
	ResolvedName *string
	Source       string
	Context      string
	HasRatings   bool
	InsertedAt   time.Time
}
