package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/courtline/odds-ingestion/internal/domain/odds"
	"github.com/courtline/odds-ingestion/internal/platform/cache"
	"github.com/courtline/odds-ingestion/internal/platform/logging"
)

type OddsSyncConfig struct {
	PollInterval time.Duration

	FetchFullGame   bool
	FetchFirstHalf  bool
	FetchSecondHalf bool

	// MaintenanceInterval drives cache eviction and freshness pruning.
	MaintenanceInterval time.Duration
	CacheEvictThreshold int
	FreshnessMaxAge     time.Duration
}

func (c OddsSyncConfig) withDefaults() OddsSyncConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	if c.MaintenanceInterval <= 0 {
		c.MaintenanceInterval = time.Hour
	}
	if c.CacheEvictThreshold < 1 {
		c.CacheEvictThreshold = 10000
	}
	if c.FreshnessMaxAge <= 0 {
		c.FreshnessMaxAge = 24 * time.Hour
	}
	return c
}

// OddsSyncService drives one ingestion cycle: fetch -> filter -> resolve
// -> extract -> commit, and the continuous polling loop around it.
type OddsSyncService struct {
	fetcher    OddsFetcher
	resolver   *ResolverService
	extractor  *SnapshotExtractor
	identities *cache.IdentityCache
	freshness  *cache.FreshnessTracker
	snapshots  odds.Repository
	publisher  odds.Publisher
	runState   *RunState
	validate   *validator.Validate
	cfg        OddsSyncConfig
	logger     *logging.Logger
}

func NewOddsSyncService(
	fetcher OddsFetcher,
	resolver *ResolverService,
	extractor *SnapshotExtractor,
	identities *cache.IdentityCache,
	freshness *cache.FreshnessTracker,
	snapshots odds.Repository,
	publisher odds.Publisher,
	runState *RunState,
	cfg OddsSyncConfig,
	logger *logging.Logger,
) *OddsSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &OddsSyncService{
		fetcher:    fetcher,
		resolver:   resolver,
		extractor:  extractor,
		identities: identities,
		freshness:  freshness,
		snapshots:  snapshots,
		publisher:  publisher,
		runState:   runState,
		validate:   validator.New(),
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// Run polls continuously until the context is canceled. Cycle outcomes
// feed the run state; failures never stop the loop.
func (s *OddsSyncService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting odds ingestion loop", "poll_interval", s.cfg.PollInterval)

	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()
	maintenance := time.NewTicker(s.cfg.MaintenanceInterval)
	defer maintenance.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-maintenance.C:
			if s.identities.MaybeEvict(s.cfg.CacheEvictThreshold) {
				s.logger.Info("cleared identity cache", "threshold", s.cfg.CacheEvictThreshold)
			}
			if removed := s.freshness.Prune(s.cfg.FreshnessMaxAge); removed > 0 {
				s.logger.Info("pruned freshness tracker", "removed", removed)
			}
		case <-poll.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one cycle and records the outcome in the run state.
// Returns the cycle error for run-once invocations.
func (s *OddsSyncService) RunOnce(ctx context.Context) error {
	start := time.Now()
	count, err := s.RunCycle(ctx)
	if err != nil {
		s.runState.RecordError()
		s.logger.ErrorContext(ctx, "poll cycle failed", "error", err)
		return err
	}

	s.runState.RecordSuccess(count)
	s.logger.InfoContext(ctx, "poll cycle completed",
		"snapshots", count,
		"duration", time.Since(start),
	)
	return nil
}

// RunCycle runs fetch -> filter -> resolve -> extract -> commit once and
// returns the number of snapshots committed.
func (s *OddsSyncService) RunCycle(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsSyncService.RunCycle")
	defer span.End()

	ids, err := s.fetcher.FetchEventList(ctx)
	if err != nil {
		return 0, err
	}

	newIDs := s.freshness.FilterNew(ids)
	optionalIDs := newIDs
	if !s.cfg.FetchFullGame {
		// Without the full-market fetch nothing else covers stale
		// events, so optional sets fetch everything.
		optionalIDs = ids
	}

	var events []ExternalEvent
	if s.cfg.FetchFullGame {
		full, err := s.fetcher.FetchFullOdds(ctx)
		if err != nil {
			return 0, err
		}
		events = append(events, full...)
	}
	if s.cfg.FetchFirstHalf {
		fetched, err := s.fetchEventSet(ctx, optionalIDs, odds.PeriodFirstHalf)
		if err != nil {
			return 0, err
		}
		events = append(events, fetched...)
	}
	if s.cfg.FetchSecondHalf {
		fetched, err := s.fetchEventSet(ctx, optionalIDs, odds.PeriodSecondHalf)
		if err != nil {
			return 0, err
		}
		events = append(events, fetched...)
	}

	snapshots, skipped, err := s.resolveAndExtract(ctx, events)
	if err != nil {
		return 0, err
	}
	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped events in cycle", "skipped", skipped)
	}

	if err := s.commit(ctx, snapshots); err != nil {
		return 0, err
	}

	return len(snapshots), nil
}

func (s *OddsSyncService) fetchEventSet(ctx context.Context, ids []string, period string) ([]ExternalEvent, error) {
	fetched := make([]ExternalEvent, 0, len(ids))
	for _, id := range ids {
		event, err := s.fetcher.FetchEventOdds(ctx, id, period)
		if err != nil {
			return nil, err
		}
		if event == nil || len(event.Bookmakers) == 0 {
			continue
		}
		fetched = append(fetched, *event)
	}

	s.logger.InfoContext(ctx, "fetched period odds",
		"period", period,
		"available", len(fetched),
		"requested", len(ids),
	)
	return fetched, nil
}

func (s *OddsSyncService) resolveAndExtract(ctx context.Context, events []ExternalEvent) ([]odds.Snapshot, int, error) {
	now := time.Now().UTC()
	snapshots := make([]odds.Snapshot, 0, len(events)*4)
	skipped := 0

	for _, event := range events {
		event := event
		gameID, err := s.identities.GetOrCreate(ctx, event.ID, func(ctx context.Context) (uuid.UUID, error) {
			return s.resolver.ResolveGame(ctx, event)
		})
		if err != nil {
			if isSkippableResolution(err) {
				skipped++
				s.logger.WarnContext(ctx, "skipping event",
					"event_id", event.ID,
					"home_team", event.HomeTeam,
					"away_team", event.AwayTeam,
					"error", err,
				)
				continue
			}
			return nil, 0, fmt.Errorf("resolve event %s: %w", event.ID, err)
		}

		for _, bookmaker := range event.Bookmakers {
			for _, market := range bookmaker.Markets {
				snapshot := s.extractor.Extract(market, bookmaker.Key, gameID, event.ID, event.HomeTeam, now)
				if snapshot == nil {
					continue
				}
				if err := s.validate.StructCtx(ctx, snapshot); err != nil {
					s.logger.WarnContext(ctx, "dropping invalid snapshot",
						"event_id", event.ID,
						"bookmaker", bookmaker.Key,
						"market_key", market.Key,
						"error", err,
					)
					continue
				}
				snapshots = append(snapshots, *snapshot)
			}
		}
	}

	return snapshots, skipped, nil
}

// commit writes the relational transaction and the stream publish
// concurrently. Either sink failing fails the cycle; there is no
// cross-sink transaction or reconciliation.
func (s *OddsSyncService) commit(ctx context.Context, snapshots []odds.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		if err := s.snapshots.UpsertSnapshots(ctx, snapshots); err != nil {
			return fmt.Errorf("store snapshots: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		if err := s.publisher.PublishSnapshots(ctx, snapshots); err != nil {
			return fmt.Errorf("publish snapshots: %w", err)
		}
		return nil
	})

	return p.Wait()
}

func isSkippableResolution(err error) bool {
	return errors.Is(err, ErrUnresolvedTeam) ||
		errors.Is(err, ErrAmbiguousTeamPair) ||
		errors.Is(err, ErrInvalidInput)
}
