package oddsapi

import (
	"fmt"
	"time"

	"github.com/courtline/odds-ingestion/internal/domain/odds"
	"github.com/courtline/odds-ingestion/internal/usecase"
)

// MarketSet selects which market keys and bookmakers a fetch asks for.
// Period markets come from different books than full-game markets.
type MarketSet struct {
	Name       string
	Markets    string
	Bookmakers string
}

var (
	MarketSetFull = MarketSet{
		Name:       "full",
		Markets:    "spreads,totals,h2h",
		Bookmakers: "pinnacle,circa,bookmaker",
	}

	// Bovada has the widest first-half coverage for college basketball.
	MarketSetFirstHalf = MarketSet{
		Name:       "1h",
		Markets:    "spreads_h1,totals_h1,h2h_h1",
		Bookmakers: "bovada,pinnacle,circa,bookmaker",
	}

	MarketSetSecondHalf = MarketSet{
		Name:       "2h",
		Markets:    "spreads_h2,totals_h2,h2h_h2",
		Bookmakers: "draftkings,fanduel,pinnacle,bovada",
	}
)

func marketSetForPeriod(period string) (MarketSet, error) {
	switch period {
	case odds.PeriodFirstHalf:
		return MarketSetFirstHalf, nil
	case odds.PeriodSecondHalf:
		return MarketSetSecondHalf, nil
	case odds.PeriodFull, "":
		return MarketSetFull, nil
	default:
		return MarketSet{}, fmt.Errorf("unknown period %q", period)
	}
}

// Event is one upcoming or live game as the odds API reports it.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime *time.Time  `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key        string     `json:"key"`
	Title      string     `json:"title"`
	LastUpdate *time.Time `json:"last_update"`
	Markets    []Market   `json:"markets"`
}

type Market struct {
	Key        string     `json:"key"`
	LastUpdate *time.Time `json:"last_update"`
	Outcomes   []Outcome  `json:"outcomes"`
}

type Outcome struct {
	Name  string   `json:"name"`
	Price *int     `json:"price"`
	Point *float64 `json:"point"`
}

func toExternalEvent(event Event) usecase.ExternalEvent {
	out := usecase.ExternalEvent{
		ID:         event.ID,
		SportKey:   event.SportKey,
		HomeTeam:   event.HomeTeam,
		AwayTeam:   event.AwayTeam,
		Bookmakers: make([]usecase.ExternalBookmaker, 0, len(event.Bookmakers)),
	}
	if event.CommenceTime != nil {
		out.CommenceTime = *event.CommenceTime
	}
	for _, bookmaker := range event.Bookmakers {
		external := usecase.ExternalBookmaker{
			Key:        bookmaker.Key,
			Title:      bookmaker.Title,
			LastUpdate: bookmaker.LastUpdate,
			Markets:    make([]usecase.ExternalMarket, 0, len(bookmaker.Markets)),
		}
		for _, market := range bookmaker.Markets {
			externalMarket := usecase.ExternalMarket{
				Key:        market.Key,
				LastUpdate: market.LastUpdate,
				Outcomes:   make([]usecase.ExternalOutcome, 0, len(market.Outcomes)),
			}
			for _, outcome := range market.Outcomes {
				externalMarket.Outcomes = append(externalMarket.Outcomes, usecase.ExternalOutcome{
					Name:  outcome.Name,
					Price: outcome.Price,
					Point: outcome.Point,
				})
			}
			external.Markets = append(external.Markets, externalMarket)
		}
		out.Bookmakers = append(out.Bookmakers, external)
	}
	return out
}
