package stream

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/courtline/odds-ingestion/internal/domain/odds"
	"github.com/courtline/odds-ingestion/internal/platform/logging"
)

// DefaultStream is the stream downstream consumers read live odds from.
const DefaultStream = "odds.live"

// Publisher appends odds snapshots to a Redis stream.
type Publisher struct {
	client *redis.Client
	stream string
	logger *logging.Logger
}

func NewPublisher(client *redis.Client, streamName string, logger *logging.Logger) *Publisher {
	if streamName == "" {
		streamName = DefaultStream
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		client: client,
		stream: streamName,
		logger: logger,
	}
}

func (p *Publisher) PublishSnapshots(ctx context.Context, snapshots []odds.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	for _, snapshot := range snapshots {
		payload, err := sonic.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshal snapshot game=%s: %w", snapshot.GameID, err)
		}

		err = p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]interface{}{
				"game_id":     snapshot.GameID.String(),
				"bookmaker":   snapshot.Bookmaker,
				"market_type": snapshot.MarketType,
				"data":        string(payload),
			},
		}).Err()
		if err != nil {
			return fmt.Errorf("xadd snapshot game=%s bookmaker=%s: %w", snapshot.GameID, snapshot.Bookmaker, err)
		}
	}

	p.logger.DebugContext(ctx, "published snapshots to stream", "stream", p.stream, "count", len(snapshots))
	return nil
}
