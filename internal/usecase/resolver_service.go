package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/courtline/odds-ingestion/internal/domain/game"
	"github.com/courtline/odds-ingestion/internal/domain/team"
	"github.com/courtline/odds-ingestion/internal/platform/logging"
)

// ResolverService maps raw feed team names to stable identities and
// upserts the game rows they belong to.
type ResolverService struct {
	teams  team.Repository
	games  game.Repository
	strict bool
	logger *logging.Logger
}

func NewResolverService(teams team.Repository, games game.Repository, strict bool, logger *logging.Logger) *ResolverService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{
		teams:  teams,
		games:  games,
		strict: strict,
		logger: logger,
	}
}

// ResolveTeam resolves one raw name, records an alias and an audit row,
// and in permissive mode creates the team when nothing matched.
// auditContext is team.ContextHomeTeam or team.ContextAwayTeam.
func (s *ResolverService) ResolveTeam(ctx context.Context, rawName, auditContext string) (team.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveTeam")
	defer span.End()

	rawName = strings.TrimSpace(rawName)
	if rawName == "" {
		return team.Match{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	match, found, err := s.lookup(ctx, rawName)
	if err != nil {
		return team.Match{}, err
	}

	if found {
		if !strings.EqualFold(match.CanonicalName, rawName) {
			if err := s.teams.AddAlias(ctx, match.ID, rawName, team.SourceOddsAPI); err != nil {
				return team.Match{}, fmt.Errorf("record alias for %q: %w", rawName, err)
			}
		}
		if err := s.audit(ctx, rawName, &match.CanonicalName, auditContext, match.HasRatings); err != nil {
			return team.Match{}, err
		}
		return match, nil
	}

	if s.strict {
		if err := s.audit(ctx, rawName, nil, auditContext, false); err != nil {
			return team.Match{}, err
		}
		s.logger.WarnContext(ctx, "strict mode rejected team name", "input_name", rawName, "context", auditContext)
		return team.Match{}, fmt.Errorf("%w: %q", ErrUnresolvedTeam, rawName)
	}

	canonical := team.CanonicalizeName(rawName)
	id, err := s.teams.Create(ctx, canonical)
	if err != nil {
		return team.Match{}, fmt.Errorf("create team %q: %w", canonical, err)
	}
	if !strings.EqualFold(canonical, rawName) {
		if err := s.teams.AddAlias(ctx, id, rawName, team.SourceOddsAPI); err != nil {
			return team.Match{}, fmt.Errorf("record alias for %q: %w", rawName, err)
		}
	}
	if err := s.audit(ctx, rawName, &canonical, auditContext, false); err != nil {
		return team.Match{}, err
	}

	s.logger.InfoContext(ctx, "created team", "canonical_name", canonical, "input_name", rawName)
	return team.Match{ID: id, CanonicalName: canonical}, nil
}

// lookup probes candidates for an exact hit, preferring rated teams,
// then falls back to one loose comparison on the raw input.
func (s *ResolverService) lookup(ctx context.Context, rawName string) (team.Match, bool, error) {
	var fallback *team.Match
	for _, candidate := range team.NameCandidates(rawName) {
		match, ok, err := s.teams.FindByName(ctx, candidate)
		if err != nil {
			return team.Match{}, false, fmt.Errorf("find team by name %q: %w", candidate, err)
		}
		if !ok {
			continue
		}
		if match.HasRatings {
			return match, true, nil
		}
		if fallback == nil {
			m := match
			fallback = &m
		}
	}

	loose, ok, err := s.teams.FindLoose(ctx, rawName)
	if err != nil {
		return team.Match{}, false, fmt.Errorf("find team loose %q: %w", rawName, err)
	}
	if ok && loose.HasRatings {
		return loose, true, nil
	}
	if fallback != nil {
		return *fallback, true, nil
	}
	if ok {
		return loose, true, nil
	}
	return team.Match{}, false, nil
}

// ResolveGame resolves both sides of an event, rejects events whose
// sides collapse to one identity, and upserts the game row.
func (s *ResolverService) ResolveGame(ctx context.Context, event ExternalEvent) (uuid.UUID, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveGame")
	defer span.End()

	if event.ID == "" {
		return uuid.Nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	home, err := s.ResolveTeam(ctx, event.HomeTeam, team.ContextHomeTeam)
	if err != nil {
		return uuid.Nil, err
	}
	away, err := s.ResolveTeam(ctx, event.AwayTeam, team.ContextAwayTeam)
	if err != nil {
		return uuid.Nil, err
	}

	if home.ID == away.ID {
		s.logger.WarnContext(ctx, "home and away collapsed to one team",
			"event_id", event.ID,
			"home_team", event.HomeTeam,
			"away_team", event.AwayTeam,
			"team_id", home.ID,
		)
		return uuid.Nil, fmt.Errorf("%w: event %s (home %q, away %q)", ErrAmbiguousTeamPair, event.ID, event.HomeTeam, event.AwayTeam)
	}

	gameID, err := s.games.Upsert(ctx, game.Game{
		ID:           uuid.New(),
		ExternalID:   event.ID,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		CommenceTime: event.CommenceTime,
		Status:       game.StatusScheduled,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert game for event %s: %w", event.ID, err)
	}

	return gameID, nil
}

func (s *ResolverService) audit(ctx context.Context, inputName string, resolvedName *string, auditContext string, hasRatings bool) error {
	err := s.teams.RecordResolution(ctx, team.ResolutionAudit{
		InputName:    inputName,
		ResolvedName: resolvedName,
		Source:       team.SourceOddsAPI,
		Context:      auditContext,
		HasRatings:   hasRatings,
	})
	if err != nil {
		return fmt.Errorf("record resolution audit for %q: %w", inputName, err)
	}
	return nil
}
