package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seenimoa/agripulse/pkg/models"
	"github.com/seenimoa/agripulse/pkg/utils"
)

// MonthsPerYear is the required size of the month catalog.
const MonthsPerYear = 12

var (
	// ErrInvalidCatalog is wrapped by every catalog validation failure.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUnknownCommodity is returned when a commodity id is not in the catalog.
	ErrUnknownCommodity = errors.New("unknown commodity")
	// ErrInvalidMonth is returned for a current-month index outside the calendar.
	ErrInvalidMonth = errors.New("invalid current month")
)

// Commodity looks up a commodity by id. The lookup is case-insensitive and
// ignores surrounding whitespace.
func (c CatalogConfig) Commodity(id string) (models.Commodity, error) {
	key := utils.NormalizeCommodityID(id)
	for _, cm := range c.Commodities {
		if cm.ID == key {
			return cm, nil
		}
	}
	return models.Commodity{}, fmt.Errorf("%w: %q", ErrUnknownCommodity, id)
}

// CheckMonth reports whether month is a valid current-month index.
func (c CatalogConfig) CheckMonth(month int) error {
	if month < 0 || month >= len(c.Months) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMonth, month, len(c.Months)-1)
	}
	return nil
}

// Validate rejects catalogs the synthesizers cannot serve: missing or
// duplicate commodity ids, non-positive base prices, an empty market list,
// a month catalog of the wrong size, and a current month outside it. All
// problems are reported together. Commodity ids are normalized in place.
func Validate(cfg *Config) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidCatalog}, args...)...))
	}

	cat := &cfg.Catalog
	if len(cat.Commodities) == 0 {
		invalid("no commodities")
	}
	seen := make(map[string]bool, len(cat.Commodities))
	for i := range cat.Commodities {
		cm := &cat.Commodities[i]
		cm.ID = utils.NormalizeCommodityID(cm.ID)
		switch {
		case cm.ID == "":
			invalid("commodity %d has no id", i)
		case seen[cm.ID]:
			invalid("duplicate commodity %q", cm.ID)
		}
		seen[cm.ID] = true
		if cm.BasePrice <= 0 {
			invalid("commodity %q has non-positive base price %v", cm.ID, cm.BasePrice)
		}
		if strings.TrimSpace(cm.Label) == "" {
			cm.Label = cm.ID
		}
	}

	if len(cat.Markets) == 0 {
		invalid("no markets")
	}
	for i, m := range cat.Markets {
		if strings.TrimSpace(m.Name) == "" {
			invalid("market %d has no name", i)
		}
	}

	if len(cat.Months) != MonthsPerYear {
		invalid("month catalog has %d labels, want %d", len(cat.Months), MonthsPerYear)
	} else if err := cat.CheckMonth(cfg.Forecast.CurrentMonth); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidCatalog, err))
	}

	return errors.Join(errs...)
}
