package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"market-dashboard/src/analysis/core"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

const defaultConcurrency = 8

// -----------------------------------------------------------------------------

// Facade orchestrates batch snapshot computation over many instruments.
// The underlying engine is pure and stateless, so symbols are processed with
// plain parallel-map semantics: every worker reads only its own series and
// allocates its own snapshot.
type Facade struct {
	Config *models.MConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewFacade(cfg *models.MConfig, log *logger.Logger) *Facade {
	return &Facade{Config: cfg, Logger: log}
}

// -----------------------------------------------------------------------------

// FetchedData is the raw material of one refresh cycle: the series the
// provider returned, plus the failures it reported on the side.
type FetchedData struct {
	Quotes      map[string]models.MInstrumentSeries
	Indices     map[string]models.MInstrumentSeries
	Probe       models.MInstrumentSeries
	ProbeFailed bool
	FetchErrors []models.MFetchError
}

// -----------------------------------------------------------------------------

// SnapshotBatch computes quote snapshots for all series concurrently.
// An empty series still yields a zero-valued snapshot; it is reported as a
// no-data annotation rather than dropped, so one instrument's missing data
// never hides the rest of the batch.
func (f *Facade) SnapshotBatch(
	ctx context.Context,
	series map[string]models.MInstrumentSeries,
	now time.Time,
) (map[string]models.MQuoteSnapshot, []models.MFetchError) {

	snapshots := make(map[string]models.MQuoteSnapshot, len(series))
	var annotations []models.MFetchError
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, f.concurrency())

	for symbol, s := range series {
		wg.Add(1)
		go func(symbol string, s models.MInstrumentSeries) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			snap := core.ComputeSnapshot(s, now)
			// ComputeSnapshot already normalized the series; only long
			// windows need the downsampled recomputation.
			if max := f.Config.Dashboard.MaxComparisonPoints; max > 0 && len(s.Bars) > max {
				snap.Normalized = f.boundedComparison(s)
			}

			mu.Lock()
			snapshots[symbol] = snap
			if s.IsEmpty() {
				annotations = append(annotations, models.MFetchError{
					Symbol:  symbol,
					Kind:    models.ErrKindNoData,
					Message: "no data available for requested period",
				})
			}
			mu.Unlock()
		}(symbol, s)
	}
	wg.Wait()

	sortAnnotations(annotations)
	return snapshots, annotations
}

// -----------------------------------------------------------------------------

// IndexBatch computes the reduced index snapshots concurrently.
func (f *Facade) IndexBatch(
	ctx context.Context,
	series map[string]models.MInstrumentSeries,
	now time.Time,
) (map[string]models.MIndexSnapshot, []models.MFetchError) {

	snapshots := make(map[string]models.MIndexSnapshot, len(series))
	var annotations []models.MFetchError
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, f.concurrency())

	for symbol, s := range series {
		wg.Add(1)
		go func(symbol string, s models.MInstrumentSeries) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			snap := core.ComputeIndexSnapshot(s, now)

			mu.Lock()
			snapshots[symbol] = snap
			if s.IsEmpty() {
				annotations = append(annotations, models.MFetchError{
					Symbol:  symbol,
					Kind:    models.ErrKindNoData,
					Message: "no data available for requested period",
				})
			}
			mu.Unlock()
		}(symbol, s)
	}
	wg.Wait()

	sortAnnotations(annotations)
	return snapshots, annotations
}

// -----------------------------------------------------------------------------

// BuildDashboard assembles the full state of one refresh cycle: snapshots,
// index values, market status and the accumulated per-symbol errors.
func (f *Facade) BuildDashboard(ctx context.Context, data FetchedData, now time.Time) *models.MDashboardState {
	start := time.Now()

	quotes, quoteErrs := f.SnapshotBatch(ctx, data.Quotes, now)
	indices, indexErrs := f.IndexBatch(ctx, data.Indices, now)

	status := models.MarketStatusUnknown
	if !data.ProbeFailed {
		status = core.ClassifyMarketStatus(data.Probe, now)
	}

	errs := make([]models.MFetchError, 0, len(data.FetchErrors)+len(quoteErrs)+len(indexErrs))
	errs = append(errs, data.FetchErrors...)
	errs = append(errs, quoteErrs...)
	errs = append(errs, indexErrs...)
	sortAnnotations(errs)

	failed := make(map[string]struct{})
	for _, e := range errs {
		if e.Kind != models.ErrKindDegradedMetadata {
			failed[e.Symbol] = struct{}{}
		}
	}

	valid := 0
	for sym := range quotes {
		if _, ok := failed[sym]; !ok {
			valid++
		}
	}
	for sym := range indices {
		if _, ok := failed[sym]; !ok {
			valid++
		}
	}

	return &models.MDashboardState{
		Type:         "UPDATE",
		Quotes:       quotes,
		Indices:      indices,
		MarketStatus: status,
		Errors:       errs,
		Timestamp:    now.Unix(),
		ProcessingMetrics: models.MProcessingMetrics{
			SnapshotTimeSeconds: time.Since(start).Seconds(),
			ValidSymbols:        valid,
			FailedSymbols:       len(failed),
		},
	}
}

// -----------------------------------------------------------------------------

// boundedComparison recomputes the comparison series from a downsampled
// window so 6mo/1y payloads stay bounded. Callers check the length bound.
func (f *Facade) boundedComparison(s models.MInstrumentSeries) []models.MNormalizedPoint {
	s = models.MInstrumentSeries{
		Symbol: s.Symbol,
		Name:   s.Name,
		Bars:   ResampleBars(s.Bars, bucketSeconds(s.Bars, f.Config.Dashboard.MaxComparisonPoints)),
	}
	return core.NormalizeForComparison(s)
}

// -----------------------------------------------------------------------------

func (f *Facade) concurrency() int {
	if n := f.Config.Dashboard.ConcurrentSnapshots; n > 0 {
		return n
	}
	return defaultConcurrency
}

// -----------------------------------------------------------------------------

func sortAnnotations(errs []models.MFetchError) {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Symbol != errs[j].Symbol {
			return errs[i].Symbol < errs[j].Symbol
		}
		return errs[i].Kind < errs[j].Kind
	})
}
