package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtline/odds-ingestion/internal/domain/odds"
	qb "github.com/courtline/odds-ingestion/internal/platform/querybuilder"
)

type OddsRepository struct {
	db *sqlx.DB
}

func NewOddsRepository(db *sqlx.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

const snapshotConflictClause = `ON CONFLICT (time, game_id, bookmaker, market_type, period) DO UPDATE SET
    home_line = EXCLUDED.home_line,
    away_line = EXCLUDED.away_line,
    total_line = EXCLUDED.total_line,
    home_price = EXCLUDED.home_price,
    away_price = EXCLUDED.away_price,
    over_price = EXCLUDED.over_price,
    under_price = EXCLUDED.under_price`

// UpsertSnapshots writes every snapshot in one transaction; a reader
// never observes a partially committed cycle.
func (r *OddsRepository) UpsertSnapshots(ctx context.Context, snapshots []odds.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, snapshot := range snapshots {
		insertModel := oddsSnapshotInsertModel{
			Time:       snapshot.Time,
			GameID:     snapshot.GameID,
			ExternalID: snapshot.ExternalID,
			Bookmaker:  snapshot.Bookmaker,
			MarketType: snapshot.MarketType,
			Period:     snapshot.Period,
			HomeLine:   snapshot.HomeLine,
			AwayLine:   snapshot.AwayLine,
			TotalLine:  snapshot.TotalLine,
			HomePrice:  snapshot.HomePrice,
			AwayPrice:  snapshot.AwayPrice,
			OverPrice:  snapshot.OverPrice,
			UnderPrice: snapshot.UnderPrice,
		}

		query, args, err := qb.InsertModel("odds_snapshots", insertModel, snapshotConflictClause)
		if err != nil {
			return fmt.Errorf("build upsert snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert snapshot game=%s bookmaker=%s market=%s: %w",
				snapshot.GameID, snapshot.Bookmaker, snapshot.MarketType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert snapshots tx: %w", err)
	}

	return nil
}
