package main

import (
	"fmt"
	"io"

	"github.com/seenimoa/agripulse/internal/config"
	"github.com/seenimoa/agripulse/internal/dashboard"
	"github.com/seenimoa/agripulse/pkg/models"
	"github.com/seenimoa/agripulse/pkg/utils"
)

const rule = "═══════════════════════════════════════════════════════"

func printCatalog(w io.Writer, cat config.CatalogConfig) {
	fmt.Fprintln(w, "Commodities:")
	for _, c := range cat.Commodities {
		fmt.Fprintf(w, "  %-3s %-10s %-10s base %s\n", c.Emoji, c.ID, c.Label, utils.FormatPricePerUnit(c.BasePrice, c.Unit))
	}
	fmt.Fprintln(w, "Markets:")
	for _, m := range cat.Markets {
		fmt.Fprintf(w, "  %s\n", m.Name)
	}
	if len(cat.States) > 0 {
		fmt.Fprintln(w, "States:")
		for _, s := range cat.States {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
}

func header(w io.Writer, title string, snap *dashboard.Snapshot) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s %s — %s\n", snap.Commodity.Emoji, snap.Commodity.Label, title)
	fmt.Fprintf(w, "  Current month: %s", snap.CurrentLabel)
	if snap.State != "" {
		fmt.Fprintf(w, "   State: %s", snap.State)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}

// priceCell prints an optional price, or a dash when absent.
func priceCell(p *float64) string {
	if p == nil {
		return "—"
	}
	return utils.FormatINR(*p)
}

func printPrices(w io.Writer, snap *dashboard.Snapshot) {
	header(w, "Price Series (₹/"+snap.Commodity.Unit+")", snap)
	fmt.Fprintf(w, "  %-5s %12s %12s %12s\n", "Month", "Actual", "Predicted", "Average")
	for i, p := range snap.Series {
		marker := ""
		switch {
		case i == snap.CurrentMonth:
			marker = "  ◀ now"
		case p.IsForecast:
			marker = "  forecast"
		}
		fmt.Fprintf(w, "  %-5s %12s %12s %12s%s\n",
			p.Month, priceCell(p.Actual), priceCell(p.Predicted), utils.FormatINR(p.Average), marker)
	}
}

func printMarkets(w io.Writer, snap *dashboard.Snapshot) {
	header(w, "Market Comparison", snap)
	sum := snap.Summary
	for _, q := range snap.Markets {
		var tags string
		if sum != nil && q.Market == sum.Best.Market {
			tags += "  best"
		}
		if sum != nil && sum.Selected != nil && q.Market == sum.Selected.Market {
			tags += "  ◀ selected"
		}
		fmt.Fprintf(w, "  %-16s %14s%s\n", q.Market, utils.FormatPricePerUnit(q.Price, snap.Commodity.Unit), tags)
	}
	if sum == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Best:    %s at %s\n", sum.Best.Market, utils.FormatINR(sum.Best.Price))
	fmt.Fprintf(w, "  Lowest:  %s at %s\n", sum.Lowest.Market, utils.FormatINR(sum.Lowest.Price))
	if sum.Selected != nil {
		fmt.Fprintf(w, "  Spread:  %s vs best\n", utils.FormatPct(sum.SpreadPct))
	}
}

func printAdvice(w io.Writer, snap *dashboard.Snapshot) {
	header(w, "Sell Advisory", snap)
	a := snap.Advice
	fmt.Fprintf(w, "  Current price:  %s\n", utils.FormatPricePerUnit(a.CurrentPrice, snap.Commodity.Unit))
	fmt.Fprintf(w, "  Previous month: %s\n", utils.FormatPricePerUnit(a.PreviousPrice, snap.Commodity.Unit))
	fmt.Fprintf(w, "  Change:         %s\n", utils.FormatPct(a.PctChange))
	fmt.Fprintf(w, "  Trend:          %s\n", trendBadge(a.Trend))
	fmt.Fprintf(w, "  Recommendation: %s\n", a.Recommendation)
	if a.HasTarget() {
		fmt.Fprintf(w, "  Target:         %s at %s\n", *a.RecommendedMonth, utils.FormatINR(*a.RecommendedPrice))
	}
	fmt.Fprintf(w, "  %s\n", a.Reason)
}

func printDashboard(w io.Writer, snaps []*dashboard.Snapshot) {
	fmt.Fprintln(w, rule)
	if len(snaps) > 0 {
		fmt.Fprintf(w, "  AgriPulse — %s\n", snaps[0].CurrentLabel)
	}
	fmt.Fprintln(w, rule)
	for _, s := range snaps {
		a := s.Advice
		fmt.Fprintf(w, "  %-3s %-9s %16s %7s  %-11s %s\n",
			s.Commodity.Emoji, s.Commodity.Label,
			utils.FormatPricePerUnit(a.CurrentPrice, s.Commodity.Unit),
			utils.FormatPct(a.PctChange), trendBadge(a.Trend), a.Recommendation)
	}
}

func trendBadge(t models.Trend) string {
	switch t {
	case models.TrendBullish:
		return "▲ " + string(t)
	case models.TrendBearish:
		return "▼ " + string(t)
	default:
		return "● " + string(t)
	}
}
