package datasource

import (
	"context"
	"errors"
	"sync"
	"time"

	"market-dashboard/src/analysis"
	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// Indices are probed over a short window: two bars are enough for the
// change metrics and the market-status heuristic.
const indexPeriod = "5d"

const (
	fetchRetries   = 3
	fetchBaseDelay = 500 * time.Millisecond
)

// -----------------------------------------------------------------------------

// Fetcher collects the series of one refresh cycle from a provider,
// isolating per-symbol failures: one instrument's error becomes an
// annotation next to the others' data, never an abort.
type Fetcher struct {
	Provider interfaces.IQuoteProvider
	Config   *models.MConfig
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewFetcher(provider interfaces.IQuoteProvider, cfg *models.MConfig, log *logger.Logger) *Fetcher {
	return &Fetcher{Provider: provider, Config: cfg, Logger: log}
}

// -----------------------------------------------------------------------------

// FetchAll retrieves the configured quote symbols over the given period and
// the benchmark indices over a short probe window.
func (f *Fetcher) FetchAll(ctx context.Context, period string) analysis.FetchedData {
	quotes, quoteErrs := f.FetchSymbols(ctx, f.Config.Dashboard.Symbols, period)
	indices, indexErrs := f.FetchSymbols(ctx, f.Config.Dashboard.Indices, indexPeriod)

	data := analysis.FetchedData{
		Quotes:      quotes,
		Indices:     indices,
		FetchErrors: append(quoteErrs, indexErrs...),
	}

	// The first configured index doubles as the market-status probe. A
	// probe that failed upstream must surface as Unknown, not as a stale
	// classification of an empty series.
	if len(f.Config.Dashboard.Indices) > 0 {
		probeSymbol := f.Config.Dashboard.Indices[0]
		probe, ok := data.Indices[probeSymbol]
		if !ok {
			data.ProbeFailed = true
		} else {
			data.Probe = probe
		}
	} else {
		data.ProbeFailed = true
	}

	return data
}

// -----------------------------------------------------------------------------

// errorSink accumulates fetch annotations across concurrent workers.
type errorSink struct {
	mu   sync.Mutex
	errs []models.MFetchError
}

func (s *errorSink) add(e models.MFetchError) {
	s.mu.Lock()
	s.errs = append(s.errs, e)
	s.mu.Unlock()
}

func (s *errorSink) errors() []models.MFetchError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// -----------------------------------------------------------------------------

// FetchSymbols retrieves symbols concurrently. Failed symbols are absent
// from the result map and reported as annotations; metadata failures degrade
// to the raw symbol string.
func (f *Fetcher) FetchSymbols(ctx context.Context, symbols []string, period string) (map[string]models.MInstrumentSeries, []models.MFetchError) {
	sink := &errorSink{}
	results := make(map[string]models.MInstrumentSeries, len(symbols))
	if len(symbols) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	concurrency := f.Config.Dashboard.ConcurrentSnapshots
	if concurrency <= 0 {
		concurrency = 4
	}
	sem := make(chan struct{}, concurrency)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var series models.MInstrumentSeries
			err := helpers.RetryWithBackoff("fetch "+sym, fetchRetries, fetchBaseDelay, func() error {
				var ferr error
				series, ferr = f.Provider.FetchSeries(ctx, sym, period)
				return ferr
			})
			if err != nil {
				// A provider may signal an empty window as ErrNoData; that
				// is a valid series, not a failure, and flows through as a
				// zero snapshot.
				if errors.Is(err, helpers.ErrNoData) {
					mu.Lock()
					results[sym] = models.MInstrumentSeries{Symbol: sym, Name: sym}
					mu.Unlock()
					return
				}
				perr := &helpers.ProviderError{Symbol: sym, Cause: err}
				f.Logger.Warning("%v", perr)
				sink.add(models.MFetchError{
					Symbol:  sym,
					Kind:    models.ErrKindProviderFailure,
					Message: perr.Error(),
				})
				return
			}

			// Metadata is best effort: a failed lookup falls back to the
			// symbol itself and never fails the snapshot.
			info, err := f.Provider.LookupSymbol(ctx, sym)
			if err != nil {
				merr := &helpers.MetadataError{Symbol: sym, Cause: err}
				series.Name = sym
				sink.add(models.MFetchError{
					Symbol:  sym,
					Kind:    models.ErrKindDegradedMetadata,
					Message: merr.Error(),
				})
			} else {
				series.Name = info.Name
			}

			mu.Lock()
			results[sym] = series
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	f.Logger.Info("Fetched %d/%d symbols from %s", len(results), len(symbols), f.Provider.Name())
	return results, sink.errors()
}
