package storage

import (
	"database/sql"
	"fmt"
	"time"

	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteDB, error) {
	return &SQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string.
	// Bars and metadata survive restarts; the seed tool is the write path.
	queries := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol TEXT,
			ts INTEGER,
			open REAL,
			high REAL,
			low REAL,
			close REAL,
			volume REAL,
			PRIMARY KEY (symbol, ts)
		);`,
		`CREATE TABLE IF NOT EXISTS symbols (
			symbol TEXT PRIMARY KEY,
			name TEXT,
			sector TEXT,
			currency TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			symbol TEXT,
			computed_at INTEGER,
			current_price REAL,
			absolute_change REAL,
			percent_change REAL,
			volume_ratio REAL,
			volatility REAL,
			PRIMARY KEY (symbol, computed_at)
		);`,
	}

	for _, q := range queries {
		if _, err := d.DB.Exec(q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SaveBarsBulk(symbol string, bars []models.MPriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price_bars (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, ts) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`)
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

func (d *SQLiteDB) LoadSeries(symbol string, from time.Time) (models.MInstrumentSeries, error) {
	series := models.MInstrumentSeries{Symbol: symbol}

	rows, err := d.DB.Query(`
		SELECT ts, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = ? AND ts >= ?
		ORDER BY ts ASC
	`, symbol, from.UTC().Unix())
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

func (d *SQLiteDB) SaveSymbolInfo(info models.MSymbolInfo) error {
	_, err := d.DB.Exec(`
		INSERT INTO symbols (symbol, name, sector, currency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			currency = excluded.currency
	`, info.Symbol, info.Name, info.Sector, info.Currency)
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) GetSymbolInfo(symbol string) (models.MSymbolInfo, error) {
	var info models.MSymbolInfo
	err := d.DB.QueryRow(`
		SELECT symbol, name, sector, currency FROM symbols WHERE symbol = ?
	`, symbol).Scan(&info.Symbol, &info.Name, &info.Sector, &info.Currency)
	if err != nil {
		return models.MSymbolInfo{}, fmt.Errorf("symbol %s not registered: %w", symbol, err)
	}
	return info, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SaveSnapshots(snaps []models.MQuoteSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO snapshots (symbol, computed_at, current_price, absolute_change, percent_change, volume_ratio, volatility)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, computed_at) DO UPDATE SET
			current_price = excluded.current_price,
			absolute_change = excluded.absolute_change,
			percent_change = excluded.percent_change,
			volume_ratio = excluded.volume_ratio,
			volatility = excluded.volatility
	`)
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

func (d *SQLiteDB) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	if _, err := d.DB.Exec("DELETE FROM price_bars WHERE ts < ?", cutoff); err != nil {
		d.Logger.Error("Cleanup price_bars error: %v", err)
	}
	if _, err := d.DB.Exec("DELETE FROM snapshots WHERE computed_at < ?", cutoff); err != nil {
		d.Logger.Error("Cleanup snapshots error: %v", err)
	}

	d.Logger.Info("Cleanup completed (cutoff %d)", cutoff)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
