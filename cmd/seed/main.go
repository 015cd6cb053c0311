package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"market-dashboard/src/config"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/storage"
)

// -----------------------------------------------------------------------------
// seed loads daily bars and symbol metadata from CSV exports into storage,
// one row per bar: symbol,date,open,high,low,close,volume. The date column
// accepts YYYY-MM-DD or RFC 3339.
// -----------------------------------------------------------------------------

func main() {

	configPath := flag.String("config", "config/default.yaml", "path to config file")
	barsPath := flag.String("bars", "", "CSV file of daily bars (symbol,date,open,high,low,close,volume)")
	symbolsPath := flag.String("symbols", "", "optional CSV file of symbol metadata (symbol,name,sector,currency)")
	flag.Parse()

	if *barsPath == "" && *symbolsPath == "" {
		fmt.Println("Nothing to do: provide -bars and/or -symbols")
		os.Exit(1)
	}

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel, "seed")

	var db interfaces.IDatabase
	switch cfg.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(cfg.MConfig, log)
	default:
		db, err = storage.NewSQLiteDB(cfg.MConfig, log)
	}
	if err != nil {
		log.Critical("Failed to init db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		log.Critical("Failed to migrate db: %v", err)
	}
	defer db.Close()

	if *symbolsPath != "" {
		if err := loadSymbols(db, *symbolsPath, log); err != nil {
			log.Critical("Symbol load failed: %v", err)
		}
	}
	if *barsPath != "" {
		if err := loadBars(db, *barsPath, log); err != nil {
			log.Critical("Bar load failed: %v", err)
		}
	}
}

// -----------------------------------------------------------------------------

func loadBars(db interfaces.IDatabase, path string, log *logger.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 7

	bySymbol := make(map[string][]models.MPriceBar)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line++
		if line == 1 && record[0] == "symbol" {
			continue // header
		}

		bar, err := parseBar(record)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		bySymbol[record[0]] = append(bySymbol[record[0]], bar)
	}

	total := 0
	for symbol, bars := range bySymbol {
		sort.Slice(bars, func(i, j int) bool {
			return bars[i].Timestamp.Before(bars[j].Timestamp)
		})
		if err := db.SaveBarsBulk(symbol, bars); err != nil {
			return fmt.Errorf("saving %s: %w", symbol, err)
		}
		total += len(bars)
	}

	log.Info("Loaded %d bars for %d symbols from %s", total, len(bySymbol), path)
	return nil
}

// -----------------------------------------------------------------------------

func parseBar(record []string) (models.MPriceBar, error) {
	ts, err := parseDate(record[1])
	if err != nil {
		return models.MPriceBar{}, err
	}

	fields := make([]float64, 5)
	for i, raw := range record[2:7] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.MPriceBar{}, fmt.Errorf("bad numeric field %q: %w", raw, err)
		}
		fields[i] = v
	}

	return models.MPriceBar{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

// -----------------------------------------------------------------------------

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", raw)
	}
	return t.UTC(), nil
}

// -----------------------------------------------------------------------------

func loadSymbols(db interfaces.IDatabase, path string, log *logger.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 4

	count := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line++
		if line == 1 && record[0] == "symbol" {
			continue
		}

		info := models.MSymbolInfo{
			Symbol:   record[0],
			Name:     record[1],
			Sector:   record[2],
			Currency: record[3],
		}
		if err := db.SaveSymbolInfo(info); err != nil {
			return fmt.Errorf("saving %s: %w", info.Symbol, err)
		}
		count++
	}

	log.Info("Loaded %d symbols from %s", count, path)
	return nil
}
