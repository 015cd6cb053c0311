package storage

import (
	"database/sql"
	"fmt"
	"time"

	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	schema := cfg.Name
	if schema == "" {
		schema = "market_dashboard"
	}
	return &PostgresDB{
		Config: cfg,
		Schema: schema,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	if _, err := db.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q.price_bars (
			symbol TEXT,
			ts BIGINT,
			open DOUBLE PRECISION,
			high DOUBLE PRECISION,
			low DOUBLE PRECISION,
			close DOUBLE PRECISION,
			volume DOUBLE PRECISION,
			PRIMARY KEY (symbol, ts)
		)`, d.Schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q.symbols (
			symbol TEXT PRIMARY KEY,
			name TEXT,
			sector TEXT,
			currency TEXT
		)`, d.Schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q.snapshots (
			symbol TEXT,
			computed_at BIGINT,
			current_price DOUBLE PRECISION,
			absolute_change DOUBLE PRECISION,
			percent_change DOUBLE PRECISION,
			volume_ratio DOUBLE PRECISION,
			volatility DOUBLE PRECISION,
			PRIMARY KEY (symbol, computed_at)
		)`, d.Schema),
	}

	for _, q := range queries {
		if _, err := d.DB.Exec(q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveBarsBulk(symbol string, bars []models.MPriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %q.price_bars (symbol, ts, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, ts) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`, d.Schema))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Timestamp.UTC().Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadSeries(symbol string, from time.Time) (models.MInstrumentSeries, error) {
	series := models.MInstrumentSeries{Symbol: symbol}

	rows, err := d.DB.Query(fmt.Sprintf(`
		SELECT ts, open, high, low, close, volume
		FROM %q.price_bars
		WHERE symbol = $1 AND ts >= $2
		ORDER BY ts ASC
	`, d.Schema), symbol, from.UTC().Unix())
	if err != nil {
		return series, err
	}
	defer rows.Close()

	for rows.Next() {
		var ts int64
		var bar models.MPriceBar
		if err := rows.Scan(&ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return series, err
		}
		bar.Timestamp = time.Unix(ts, 0).UTC()
		series.Bars = append(series.Bars, bar)
	}

	return series, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveSymbolInfo(info models.MSymbolInfo) error {
	_, err := d.DB.Exec(fmt.Sprintf(`
		INSERT INTO %q.symbols (symbol, name, sector, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			currency = excluded.currency
	`, d.Schema), info.Symbol, info.Name, info.Sector, info.Currency)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) GetSymbolInfo(symbol string) (models.MSymbolInfo, error) {
	var info models.MSymbolInfo
	err := d.DB.QueryRow(fmt.Sprintf(`
		SELECT symbol, name, sector, currency FROM %q.symbols WHERE symbol = $1
	`, d.Schema), symbol).Scan(&info.Symbol, &info.Name, &info.Sector, &info.Currency)
	if err != nil {
		return models.MSymbolInfo{}, fmt.Errorf("symbol %s not registered: %w", symbol, err)
	}
	return info, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveSnapshots(snaps []models.MQuoteSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %q.snapshots (symbol, computed_at, current_price, absolute_change, percent_change, volume_ratio, volatility)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, computed_at) DO UPDATE SET
			current_price = excluded.current_price,
			absolute_change = excluded.absolute_change,
			percent_change = excluded.percent_change,
			volume_ratio = excluded.volume_ratio,
			volatility = excluded.volatility
	`, d.Schema))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range snaps {
		_, err := stmt.Exec(s.Symbol, s.LastUpdate.UTC().Unix(), s.CurrentPrice, s.AbsoluteChange, s.PercentChange, s.VolumeRatio, s.Volatility)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	if _, err := d.DB.Exec(fmt.Sprintf("DELETE FROM %q.price_bars WHERE ts < $1", d.Schema), cutoff); err != nil {
		d.Logger.Error("Cleanup price_bars error: %v", err)
	}
	if _, err := d.DB.Exec(fmt.Sprintf("DELETE FROM %q.snapshots WHERE computed_at < $1", d.Schema), cutoff); err != nil {
		d.Logger.Error("Cleanup snapshots error: %v", err)
	}

	d.Logger.Info("Cleanup completed (cutoff %d)", cutoff)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
