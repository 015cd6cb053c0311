package datasource

import (
	"context"
	"fmt"
	"time"

	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------

// StoreProvider serves bar history and symbol metadata out of the database.
// Ingestion happens out-of-band (the seed tool or any external pipeline);
// this keeps the dashboard free of network transport concerns while still
// honoring the provider contract: ordered deduplicated bars, and an explicit
// error distinguishable from an empty-but-valid series.
type StoreProvider struct {
	DB     interfaces.IDatabase
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewStoreProvider(db interfaces.IDatabase, log *logger.Logger) *StoreProvider {
	return &StoreProvider{DB: db, Logger: log}
}

// -----------------------------------------------------------------------------

func (p *StoreProvider) Name() string { return "storage" }

// -----------------------------------------------------------------------------

func (p *StoreProvider) FetchSeries(ctx context.Context, symbol, period string) (models.MInstrumentSeries, error) {
	if err := ctx.Err(); err != nil {
		return models.MInstrumentSeries{Symbol: symbol}, err
	}

	from, err := models.PeriodStart(period, time.Now().UTC())
	if err != nil {
		return models.MInstrumentSeries{Symbol: symbol}, err
	}

	series, err := p.DB.LoadSeries(symbol, from)
	if err != nil {
		return models.MInstrumentSeries{Symbol: symbol}, fmt.Errorf("load series for %s: %w", symbol, err)
	}
	return series, nil
}

// -----------------------------------------------------------------------------

func (p *StoreProvider) LookupSymbol(ctx context.Context, symbol string) (models.MSymbolInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.MSymbolInfo{}, err
	}
	return p.DB.GetSymbolInfo(symbol)
}
