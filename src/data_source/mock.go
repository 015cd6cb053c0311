package datasource

import (
	"context"
	"fmt"
	"math"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// MockProvider serves deterministic synthetic series. It backs tests and the
// demo configuration, and lets failure modes be injected per symbol.
// -----------------------------------------------------------------------------

type MockProvider struct {
	// FailSymbols lists symbols whose FetchSeries always errors.
	FailSymbols map[string]bool

	// EmptySymbols lists symbols that resolve to a valid but empty series.
	EmptySymbols map[string]bool

	// NoDataSymbols lists symbols whose FetchSeries errors with ErrNoData.
	NoDataSymbols map[string]bool

	// NoMetadata lists symbols whose LookupSymbol errors.
	NoMetadata map[string]bool

	// Now anchors the generated series; zero means time.Now().UTC().
	Now time.Time
}

// -----------------------------------------------------------------------------

func NewMockProvider() *MockProvider {
	return &MockProvider{
		FailSymbols:   make(map[string]bool),
		EmptySymbols:  make(map[string]bool),
		NoDataSymbols: make(map[string]bool),
		NoMetadata:    make(map[string]bool),
	}
}

// -----------------------------------------------------------------------------

func (m *MockProvider) Name() string {
	return "mock"
}

// -----------------------------------------------------------------------------

// FetchSeries synthesizes one daily bar per calendar day of the period. The
// walk is a deterministic function of the symbol so repeated fetches agree.
func (m *MockProvider) FetchSeries(ctx context.Context, symbol, period string) (models.MInstrumentSeries, error) {
	if err := ctx.Err(); err != nil {
		return models.MInstrumentSeries{Symbol: symbol}, err
	}
	if m.FailSymbols[symbol] {
		return models.MInstrumentSeries{Symbol: symbol}, fmt.Errorf("mock: %s is configured to fail", symbol)
	}
	if m.NoDataSymbols[symbol] {
		return models.MInstrumentSeries{Symbol: symbol}, fmt.Errorf("mock: %s: %w", symbol, helpers.ErrNoData)
	}

	series := models.MInstrumentSeries{Symbol: symbol}
	if m.EmptySymbols[symbol] {
		return series, nil
	}

	now := m.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	start, err := models.PeriodStart(period, now)
	if err != nil {
		return series, err
	}

	base := 50.0 + float64(symbolSeed(symbol)%200)
	day := start
	for i := 0; !day.After(now); i++ {
		// Bounded oscillation around the base keeps prices positive.
		drift := math.Sin(float64(i)/7.0) * base * 0.05
		c := base + drift
		series.Bars = append(series.Bars, models.MPriceBar{
			Timestamp: day,
			Open:      c * 0.995,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1_000_000 + float64((symbolSeed(symbol)+uint32(i))%500_000),
		})
		day = day.AddDate(0, 0, 1)
	}
	return series, nil
}

// -----------------------------------------------------------------------------

func (m *MockProvider) LookupSymbol(ctx context.Context, symbol string) (models.MSymbolInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.MSymbolInfo{}, err
	}
	if m.NoMetadata[symbol] {
		return models.MSymbolInfo{}, fmt.Errorf("mock: no metadata for %s", symbol)
	}
	return models.MSymbolInfo{
		Symbol:   symbol,
		Name:     symbol + " Inc.",
		Currency: "USD",
	}, nil
}

// -----------------------------------------------------------------------------

// symbolSeed folds a symbol into a small deterministic integer (FNV-1a).
func symbolSeed(symbol string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(symbol); i++ {
		h ^= uint32(symbol[i])
		h *= 16777619
	}
	return h % 1000
}
