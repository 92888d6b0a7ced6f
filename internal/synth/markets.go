package synth

import (
	"math"
	"strings"

	"github.com/seenimoa/agripulse/pkg/models"
)

const (
	marketFloor = 0.9
	marketSpan  = 0.2
)

// MarketComparison quotes the commodity in every market, in catalog order.
// All markets share one stream per commodity, so a quote depends on the
// market's position in the catalog.
func MarketComparison(c models.Commodity, markets []models.Market) []models.MarketQuote {
	rng := StreamMarket.For(c.BasePrice)
	quotes := make([]models.MarketQuote, len(markets))
	for i, m := range markets {
		quotes[i] = models.MarketQuote{
			Market: m.Name,
			Price:  math.Round(c.BasePrice * (marketFloor + rng.Next()*marketSpan)),
		}
	}
	return quotes
}

// SummarizeMarkets finds the highest and lowest quotes and, if selected names
// one of the quoted markets, its spread against the best price. Ties keep the
// first market in catalog order. It returns nil for an empty quote set.
func SummarizeMarkets(quotes []models.MarketQuote, selected string) *models.MarketSummary {
	if len(quotes) == 0 {
		return nil
	}

	s := &models.MarketSummary{
		Best:    quotes[0],
		Lowest:  quotes[0],
		Tracked: len(quotes),
	}
	for _, q := range quotes[1:] {
		if q.Price > s.Best.Price {
			s.Best = q
		}
		if q.Price < s.Lowest.Price {
			s.Lowest = q
		}
	}

	if selected == "" {
		return s
	}
	for _, q := range quotes {
		if strings.EqualFold(q.Market, selected) {
			s.Selected = &q
			if s.Best.Price > 0 {
				s.SpreadPct = math.Round((q.Price-s.Best.Price)/s.Best.Price*1000) / 10
			}
			break
		}
	}
	return s
}
