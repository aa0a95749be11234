package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const StatusScheduled = "scheduled"

// Game links one external event to two resolved team identities.
type Game struct {
	ID           uuid.UUID
	ExternalID   string
	HomeTeamID   uuid.UUID
	AwayTeamID   uuid.UUID
	CommenceTime time.Time
	Status       string
}

func (g Game) Validate() error {
	if g.ExternalID == "" {
		return fmt.Errorf("game external id is required")
	}
	if g.HomeTeamID == uuid.Nil || g.AwayTeamID == uuid.Nil {
		return fmt.Errorf("game team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game home and away teams must differ")
	}

	return nil
}
