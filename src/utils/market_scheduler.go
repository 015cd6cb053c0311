package utils

import (
	"sync"
	"time"

	"market-dashboard/src/logger"
)

// MarketScheduler maps the tracked symbols to their venue calendars and
// answers whether any of them currently trades. The refresh loop uses it to
// slow down when everything it watches is closed.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(symbols []string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}
	ms.UpdateSymbols(symbols)
	return ms
}

// -----------------------------------------------------------------------------

// UpdateSymbols rebuilds the symbol-to-calendar mapping from scratch, so
// symbols removed from the configuration drop out.
func (ms *MarketScheduler) UpdateSymbols(symbols []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.Calendars = make(map[string]*TradingCalendar)
	for _, symbol := range symbols {
		if cal := GetCalendar(symbol); cal != nil {
			ms.Calendars[symbol] = cal
		}
	}

	unique := make(map[*TradingCalendar]bool)
	for _, cal := range ms.Calendars {
		unique[cal] = true
	}
	ms.Logger.Info("Mapped %d symbols to %d venue calendars", len(symbols), len(unique))
}

// -----------------------------------------------------------------------------

// AnyMarketOpen reports whether at least one tracked venue trades right now.
func (ms *MarketScheduler) AnyMarketOpen() bool {
	return ms.AnyMarketOpenAt(time.Now().UTC())
}

// AnyMarketOpenAt is the instant-parameterized form used by tests.
func (ms *MarketScheduler) AnyMarketOpenAt(t time.Time) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	unique := make(map[*TradingCalendar]bool)
	for _, cal := range ms.Calendars {
		unique[cal] = true
	}
	for cal := range unique {
		if cal.IsOpenOnMinute(t) {
			return true
		}
	}
	return false
}
