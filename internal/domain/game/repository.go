package game

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists games keyed on their external event id.
type Repository interface {
	// Upsert inserts the game or, on an external id conflict, overwrites
	// the team associations and commence time and resets the status to
	// scheduled. Returns the stored game's id.
	Upsert(ctx context.Context, g Game) (uuid.UUID, error)
}
