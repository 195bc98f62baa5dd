// Command analyze runs the analytics engine over already-ingested data:
// per-ticker price CSVs (as written by the ingestion scripts), optional
// provider fundamentals JSON, and an optional YAML config. It prints the
// comparison report as indented JSON; rendering is someone else's job.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"equity_analytics/pkg/core/config"
	"equity_analytics/pkg/core/fundamentals"
	"equity_analytics/pkg/core/logger"
	"equity_analytics/pkg/core/pipeline"
	"equity_analytics/pkg/models"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config path (defaults apply when empty)")
		subjectCSV = flag.String("subject", "", "price CSV for the subject ticker")
		peersCSV   = flag.String("peers", "", "comma-separated price CSVs for peer tickers")
		benchCSV   = flag.String("benchmark", "", "price CSV for the benchmark series")
		fundsDir   = flag.String("fundamentals", "", "directory of <ticker>.json provider statements (optional)")
		provider   = flag.String("provider", "yahoo", "fundamentals provider schema")
		currency   = flag.String("currency", "USD", "currency all series are quoted in")
	)
	flag.Parse()

	if *subjectCSV == "" || *benchCSV == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -subject prices.csv -benchmark spy.csv [-peers a.csv,b.csv] [flags]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	subject, err := loadTicker(*subjectCSV, *fundsDir, *provider, *currency)
	if err != nil {
		fatal(err)
	}
	benchmark, err := loadSeries(*benchCSV, *currency)
	if err != nil {
		fatal(err)
	}

	var peers []pipeline.TickerInput
	if *peersCSV != "" {
		for _, path := range strings.Split(*peersCSV, ",") {
			peer, err := loadTicker(strings.TrimSpace(path), *fundsDir, *provider, *currency)
			if err != nil {
				fatal(err)
			}
			peers = append(peers, peer)
		}
	}

	asOf := benchmark.Points[len(benchmark.Points)-1].Date

	report, err := pipeline.New(cfg).Run(context.Background(), pipeline.Request{
		Subject:   subject,
		Peers:     peers,
		Benchmark: benchmark,
		AsOf:      asOf,
	})
	if err != nil {
		fatal(err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "analyze:", err)
	os.Exit(1)
}

// loadTicker loads a price CSV plus, when present, the ticker's
// fundamentals statements from fundsDir. The last adjusted close doubles
// as the market price for multiples.
func loadTicker(csvPath, fundsDir, provider, currency string) (pipeline.TickerInput, error) {
	series, err := loadSeries(csvPath, currency)
	if err != nil {
		return pipeline.TickerInput{}, err
	}

	in := pipeline.TickerInput{
		Prices:      series,
		Provider:    provider,
		MarketPrice: series.Points[len(series.Points)-1].AdjClose,
	}

	if fundsDir != "" {
		path := filepath.Join(fundsDir, strings.ToLower(series.Meta.Ticker)+".json")
		raw, err := os.ReadFile(path)
		if err == nil {
			statements, err := fundamentals.ParseRawStatements(raw)
			if err != nil {
				return pipeline.TickerInput{}, fmt.Errorf("%s: %w", path, err)
			}
			in.Fundamentals = statements
		}
	}

	return in, nil
}

// loadSeries reads the ingestion CSV layout:
// Date,Open,High,Low,Close,Adj Close,Volume,ticker
func loadSeries(path, currency string) (models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Series{}, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return models.Series{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) < 2 {
		return models.Series{}, fmt.Errorf("%s: no data rows", path)
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Date", "Adj Close", "ticker"} {
		if _, ok := col[required]; !ok {
			return models.Series{}, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	series := models.Series{
		Meta: models.SeriesMeta{
			Source:   "csv",
			Currency: currency,
			Adjusted: true,
		},
	}

	for rowIdx, row := range rows[1:] {
		rowNum := rowIdx + 2 // 1-based, after the header
		date, err := models.ParseDate(row[col["Date"]])
		if err != nil {
			return models.Series{}, fmt.Errorf("%s: row %d: bad date %q", path, rowNum, row[col["Date"]])
		}
		point := models.PricePoint{Date: date}
		if point.AdjClose, err = parseCell(path, rowNum, "Adj Close", row[col["Adj Close"]]); err != nil {
			return models.Series{}, err
		}
		for _, c := range []struct {
			name string
			dst  *float64
		}{
			{"Open", &point.Open},
			{"High", &point.High},
			{"Low", &point.Low},
			{"Close", &point.Close},
			{"Volume", &point.Volume},
		} {
			i, ok := col[c.name]
			if !ok {
				continue
			}
			if *c.dst, err = parseCell(path, rowNum, c.name, row[i]); err != nil {
				return models.Series{}, err
			}
		}
		series.Meta.Ticker = strings.ToUpper(row[col["ticker"]])
		series.Points = append(series.Points, point)
	}

	return series, nil
}

// parseCell rejects malformed numeric cells outright; a corrupt price must
// fail the load, not enter the series as zero.
func parseCell(path string, row int, name, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: row %d: bad %s value %q", path, row, name, raw)
	}
	return f, nil
}
