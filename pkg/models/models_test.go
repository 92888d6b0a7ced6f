package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

// ── MonthPoint Tests ──

func TestMonthPointPresence(t *testing.T) {
	tests := []struct {
		name          string
		p             MonthPoint
		wantActual    bool
		wantPredicted bool
	}{
		{"past", MonthPoint{Month: "Jan", Actual: ptr(2100)}, true, false},
		{"current", MonthPoint{Month: "Jul", Actual: ptr(2306), Predicted: ptr(2306)}, true, true},
		{"forecast", MonthPoint{Month: "Dec", Predicted: ptr(2410), IsForecast: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.HasActual(); got != tt.wantActual {
				t.Errorf("HasActual: got %v, want %v", got, tt.wantActual)
			}
			if got := tt.p.HasPredicted(); got != tt.wantPredicted {
				t.Errorf("HasPredicted: got %v, want %v", got, tt.wantPredicted)
			}
		})
	}
}

func TestMonthPointAbsentValuesAreNull(t *testing.T) {
	data, err := json.Marshal(MonthPoint{Month: "Oct", Predicted: ptr(1820), Average: 1790, IsForecast: true})
	if err != nil {
		t.Fatalf("json.Marshal(MonthPoint) error: %v", err)
	}
	want := `{"month":"Oct","actual":null,"predicted":1820,"avg":1790,"is_forecast":true}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

// ── Classification Tests ──

func TestClassificationHasTarget(t *testing.T) {
	month := "Nov"
	var r ClassificationResult
	if r.HasTarget() {
		t.Error("zero value should have no target")
	}
	r.RecommendedMonth = &month
	if r.HasTarget() {
		t.Error("month without price should have no target")
	}
	r.RecommendedPrice = ptr(2450)
	if !r.HasTarget() {
		t.Error("month and price should be a target")
	}
}

func TestClassificationJSONWithoutTarget(t *testing.T) {
	r := ClassificationResult{
		CurrentPrice:   2306,
		PreviousPrice:  2200,
		PctChange:      4.8,
		Trend:          TrendBullish,
		Recommendation: RecommendHold,
		Reason:         "Hold stock, best price expected in the forecast peak",
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal(ClassificationResult) error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"trend":"Bullish"`, `"recommendation":"HOLD"`, `"recommended_month":null`} {
		if !strings.Contains(s, want) {
			t.Errorf("%s does not contain %s", s, want)
		}
	}
}

func TestCalendarMonths(t *testing.T) {
	if len(CalendarMonths) != 12 {
		t.Fatalf("got %d months, want 12", len(CalendarMonths))
	}
	if CalendarMonths[0] != "Jan" || CalendarMonths[6] != "Jul" || CalendarMonths[11] != "Dec" {
		t.Errorf("unexpected labels: %v", CalendarMonths)
	}
}
