package postgres

import (
	"time"

	"github.com/google/uuid"
)

type oddsSnapshotInsertModel struct {
	Time       time.Time `db:"time"`
	GameID     uuid.UUID `db:"game_id"`
	ExternalID string    `db:"external_id"`
	Bookmaker  string    `db:"bookmaker"`
	MarketType string    `db:"market_type"`
	Period     string    `db:"period"`
	HomeLine   *float64  `db:"home_line"`
	AwayLine   *float64  `db:"away_line"`
	TotalLine  *float64  `db:"total_line"`
	HomePrice  *int      `db:"home_price"`
	AwayPrice  *int      `db:"away_price"`
	OverPrice  *int      `db:"over_price"`
	UnderPrice *int      `db:"under_price"`
}
