package usecase

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/courtline/odds-ingestion/internal/domain/odds"
	"github.com/courtline/odds-ingestion/internal/platform/logging"
)

// marketKeys maps provider market keys to (market type, period) via the
// _h1/_h2 suffix convention. Unknown keys are skipped.
var marketKeys = map[string]struct {
	Type   string
	Period string
}{
	"spreads":    {odds.MarketSpreads, odds.PeriodFull},
	"totals":     {odds.MarketTotals, odds.PeriodFull},
	"h2h":        {odds.MarketH2H, odds.PeriodFull},
	"spreads_h1": {odds.MarketSpreads, odds.PeriodFirstHalf},
	"totals_h1":  {odds.MarketTotals, odds.PeriodFirstHalf},
	"h2h_h1":     {odds.MarketH2H, odds.PeriodFirstHalf},
	"spreads_h2": {odds.MarketSpreads, odds.PeriodSecondHalf},
	"totals_h2":  {odds.MarketTotals, odds.PeriodSecondHalf},
	"h2h_h2":     {odds.MarketH2H, odds.PeriodSecondHalf},
}

// SnapshotExtractor turns one bookmaker market into a canonical
// snapshot. Stateless.
type SnapshotExtractor struct {
	logger *logging.Logger
}

func NewSnapshotExtractor(logger *logging.Logger) *SnapshotExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotExtractor{logger: logger}
}

// Extract returns nil for unrecognized market keys. Outcomes are
// matched by name: the home team name selects the home side of spreads
// and h2h, Over/Under select the totals fields.
func (e *SnapshotExtractor) Extract(market ExternalMarket, bookmaker string, gameID uuid.UUID, externalID, homeTeam string, asOf time.Time) *odds.Snapshot {
	mapped, ok := marketKeys[market.Key]
	if !ok {
		return nil
	}

	snapshot := &odds.Snapshot{
		Time:       asOf,
		GameID:     gameID,
		ExternalID: externalID,
		Bookmaker:  bookmaker,
		MarketType: mapped.Type,
		Period:     mapped.Period,
	}

	for _, outcome := range market.Outcomes {
		switch mapped.Type {
		case odds.MarketSpreads:
			if outcome.Name == homeTeam {
				snapshot.HomeLine = outcome.Point
				snapshot.HomePrice = outcome.Price
			} else {
				snapshot.AwayLine = outcome.Point
				snapshot.AwayPrice = outcome.Price
			}
		case odds.MarketTotals:
			if outcome.Name == "Over" {
				snapshot.TotalLine = outcome.Point
				snapshot.OverPrice = outcome.Price
			} else if outcome.Name == "Under" {
				snapshot.UnderPrice = outcome.Price
			}
		case odds.MarketH2H:
			if outcome.Name == homeTeam {
				snapshot.HomePrice = outcome.Price
			} else {
				snapshot.AwayPrice = outcome.Price
			}
		}
	}

	// Spread sides are expected to be complementary; log but keep
	// snapshots where the book disagrees with itself.
	if snapshot.HomeLine != nil && snapshot.AwayLine != nil {
		if drift := math.Abs(*snapshot.HomeLine + *snapshot.AwayLine); drift > 0.5 {
			e.logger.Warn("spread lines are not complementary",
				"game_id", gameID,
				"bookmaker", bookmaker,
				"market_key", market.Key,
				"home_line", *snapshot.HomeLine,
				"away_line", *snapshot.AwayLine,
			)
		}
	}

	return snapshot
}
