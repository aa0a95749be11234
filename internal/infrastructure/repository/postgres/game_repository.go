package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/courtline/odds-ingestion/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Upsert overwrites team associations and commence time on an external
// id conflict, so later resolver improvements self-heal older rows.
func (r *GameRepository) Upsert(ctx context.Context, g game.Game) (uuid.UUID, error) {
	if err := g.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("validate game: %w", err)
	}

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id,
		`INSERT INTO games (id, external_id, home_team_id, away_team_id, commence_time, status)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (external_id) DO UPDATE SET
             home_team_id = EXCLUDED.home_team_id,
             away_team_id = EXCLUDED.away_team_id,
             commence_time = EXCLUDED.commence_time,
             status = 'scheduled'
         RETURNING id`,
		g.ID, g.ExternalID, g.HomeTeamID, g.AwayTeamID, g.CommenceTime, g.Status,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert game external_id=%s: %w", g.ExternalID, err)
	}

	return id, nil
}
