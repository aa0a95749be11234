package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/courtline/odds-ingestion/internal/domain/team"
	qb "github.com/courtline/odds-ingestion/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// name_match_key and name_loose_key are store-side helpers installed by
// the migrations: the first lowercases and strips punctuation, the
// second additionally strips spacing.
const findByNameQuery = `
WITH matched AS (
    SELECT t.id, t.canonical_name
    FROM teams t
    WHERE name_match_key(t.canonical_name) = name_match_key($1)
    UNION
    SELECT t.id, t.canonical_name
    FROM teams t
    JOIN team_aliases a ON a.team_id = t.id
    WHERE name_match_key(a.alias) = name_match_key($1)
)
SELECT m.id,
       m.canonical_name,
       EXISTS (SELECT 1 FROM team_ratings tr WHERE tr.team_id = m.id) AS has_ratings
FROM matched m
ORDER BY has_ratings DESC, m.canonical_name ASC
LIMIT 1`

const findLooseQuery = `
WITH matched AS (
    SELECT t.id, t.canonical_name
    FROM teams t
    WHERE name_loose_key(t.canonical_name) = name_loose_key($1)
    UNION
    SELECT t.id, t.canonical_name
    FROM teams t
    JOIN team_aliases a ON a.team_id = t.id
    WHERE name_loose_key(a.alias) = name_loose_key($1)
)
SELECT m.id,
       m.canonical_name,
       EXISTS (SELECT 1 FROM team_ratings tr WHERE tr.team_id = m.id) AS has_ratings
FROM matched m
ORDER BY has_ratings DESC, m.canonical_name ASC
LIMIT 1`

func (r *TeamRepository) FindByName(ctx context.Context, name string) (team.Match, bool, error) {
	return r.findOne(ctx, findByNameQuery, name)
}

func (r *TeamRepository) FindLoose(ctx context.Context, name string) (team.Match, bool, error) {
	return r.findOne(ctx, findLooseQuery, name)
}

func (r *TeamRepository) findOne(ctx context.Context, query, name string) (team.Match, bool, error) {
	var row teamMatchModel
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if isNotFound(err) {
			return team.Match{}, false, nil
		}
		return team.Match{}, false, fmt.Errorf("select team match: %w", err)
	}

	return team.Match{
		ID:            row.ID,
		CanonicalName: row.CanonicalName,
		HasRatings:    row.HasRatings,
	}, true, nil
}

// Create is idempotent under concurrent creation: a canonical-name
// conflict resolves to the existing team's id.
func (r *TeamRepository) Create(ctx context.Context, canonicalName string) (uuid.UUID, error) {
	if canonicalName == "" {
		return uuid.Nil, fmt.Errorf("canonical name is required")
	}

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id,
		`INSERT INTO teams (id, canonical_name) VALUES ($1, $2)
         ON CONFLICT (canonical_name) DO NOTHING
         RETURNING id`,
		uuid.New(), canonicalName,
	)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return uuid.Nil, fmt.Errorf("insert team %q: %w", canonicalName, err)
	}

	// Conflict: somebody created it first.
	if err := r.db.GetContext(ctx, &id,
		`SELECT id FROM teams WHERE canonical_name = $1`, canonicalName,
	); err != nil {
		return uuid.Nil, fmt.Errorf("select team after conflict %q: %w", canonicalName, err)
	}
	return id, nil
}

func (r *TeamRepository) AddAlias(ctx context.Context, teamID uuid.UUID, alias, source string) error {
	query, args, err := qb.InsertModel("team_aliases", teamAliasInsertModel{
		TeamID: teamID,
		Alias:  alias,
		Source: source,
	}, "ON CONFLICT (alias, source) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert alias query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert alias %q: %w", alias, err)
	}
	return nil
}

func (r *TeamRepository) RecordResolution(ctx context.Context, audit team.ResolutionAudit) error {
	query, args, err := qb.InsertModel("team_resolution_audit", resolutionAuditInsertModel{
		InputName:    audit.InputName,
		ResolvedName: audit.ResolvedName,
		Source:       audit.Source,
		Context:      audit.Context,
		HasRatings:   audit.HasRatings,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert audit query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert resolution audit for %q: %w", audit.InputName, err)
	}
	return nil
}
