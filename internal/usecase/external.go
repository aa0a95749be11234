package usecase

import (
	"context"
	"time"
)

// ExternalEvent is one game as the odds provider reports it, already
// decoded from the provider payload.
type ExternalEvent struct {
	ID           string
	SportKey     string
	CommenceTime time.Time
	HomeTeam     string
	AwayTeam     string
	Bookmakers   []ExternalBookmaker
}

type ExternalBookmaker struct {
	Key        string
	Title      string
	LastUpdate *time.Time
	Markets    []ExternalMarket
}

type ExternalMarket struct {
	Key        string
	LastUpdate *time.Time
	Outcomes   []ExternalOutcome
}

type ExternalOutcome struct {
	Name  string
	Price *int
	Point *float64
}

// OddsFetcher is the rate-limited provider access the orchestrator
// depends on. Period selects the optional market set for per-event
// fetches ("1h" or "2h").
type OddsFetcher interface {
	// FetchEventList returns all current event ids. Hard failure.
	FetchEventList(ctx context.Context) ([]string, error)

	// FetchFullOdds returns full-game odds for every event. Hard failure.
	FetchFullOdds(ctx context.Context) ([]ExternalEvent, error)

	// FetchEventOdds returns one event's odds for an optional market
	// set, or nil when that data is unavailable.
	FetchEventOdds(ctx context.Context, eventID, period string) (*ExternalEvent, error)
}
