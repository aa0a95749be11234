package odds

import (
	"time"

	"github.com/google/uuid"
)

// Market types.
const (
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
	MarketH2H     = "h2h"
)

// Game periods.
const (
	PeriodFull       = "full"
	PeriodFirstHalf  = "1h"
	PeriodSecondHalf = "2h"
)

// Snapshot is one normalized odds observation. Natural key:
// (Time, GameID, Bookmaker, MarketType, Period); value fields are
// overwritten on re-observation.
type Snapshot struct {
	Time       time.Time `json:"time" validate:"required"`
	GameID     uuid.UUID `json:"game_id" validate:"required"`
	ExternalID string    `json:"external_id" validate:"required"`
	Bookmaker  string    `json:"bookmaker" validate:"required"`
	MarketType string    `json:"market_type" validate:"required,oneof=spreads totals h2h"`
	Period     string    `json:"period" validate:"required,oneof=full 1h 2h"`

	HomeLine  *float64 `json:"home_line"`
	AwayLine  *float64 `json:"away_line"`
	TotalLine *float64 `json:"total_line"`

	HomePrice  *int `json:"home_price"`
	AwayPrice  *int `json:"away_price"`
	OverPrice  *int `json:"over_price"`
	UnderPrice *int `json:"under_price"`
}
