// Package pipeline fans the per-ticker computations out in parallel and
// joins them at the comparison step. Ticker computations are independent:
// one failed peer is recorded on the report and excluded, it never aborts
// the batch. A failed subject does abort, since the report is about it.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"equity_analytics/pkg/core/compare"
	"equity_analytics/pkg/core/config"
	"equity_analytics/pkg/core/fundamentals"
	"equity_analytics/pkg/core/logger"
	"equity_analytics/pkg/core/returns"
	"equity_analytics/pkg/core/risk"
	"equity_analytics/pkg/core/timeseries"
	"equity_analytics/pkg/core/valuation"
	"equity_analytics/pkg/models"
)

// TickerInput is everything the engine needs for one ticker. All data is
// already materialized in memory by the ingestion collaborator; the
// pipeline performs no I/O.
type TickerInput struct {
	Prices models.Series

	// Fundamentals are optional; without them the ticker participates
	// with risk metrics only.
	Fundamentals []fundamentals.RawStatement
	Provider     string
	// Schema overrides the built-in table for Provider when set.
	Schema *fundamentals.ProviderSchema

	MarketPrice float64
	// DCF overrides the config-derived assumptions when set.
	DCF *valuation.DCFInput
	// Capital, when set, derives the DCF discount rate from the ticker's
	// capital structure instead of the configured default.
	Capital *valuation.CapitalStructure
}

// Request is one full engine invocation.
type Request struct {
	Subject   TickerInput
	Peers     []TickerInput
	Benchmark models.Series
	AsOf      time.Time
}

// Orchestrator wires the stages together under one configuration.
type Orchestrator struct {
	cfg *config.Config
}

// New returns an orchestrator; a nil config means defaults.
func New(cfg *config.Config) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Orchestrator{cfg: cfg}
}

// tickerResult is the outcome of one independent ticker computation.
type tickerResult struct {
	ticker string
	risk   *models.RiskMetrics
	val    *models.ValuationResult
	err    error
}

// Run executes the full flow: per-ticker alignment, returns, risk and
// valuation in parallel, then ranking. The context is checked between
// stages; abandoning the run is safe because no partial state survives it.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*models.ComparisonReport, error) {
	runID := uuid.New().String()
	log := logger.WithField("run_id", runID)

	// Validate the benchmark up front: every ticker computation needs it.
	benchAligned, err := timeseries.Align([]models.Series{req.Benchmark}, o.alignOptions())
	if err != nil {
		return nil, fmt.Errorf("benchmark rejected: %w", err)
	}
	if _, err := returns.Compute(benchAligned); err != nil {
		return nil, fmt.Errorf("benchmark returns: %w", err)
	}

	inputs := append([]TickerInput{req.Subject}, req.Peers...)
	results := make([]tickerResult, len(inputs))

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in TickerInput) {
			defer wg.Done()
			results[i] = o.computeTicker(ctx, in, req)
		}(i, in)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The subject's failure is the report's failure.
	if results[0].err != nil {
		return nil, fmt.Errorf("subject %s: %w", results[0].ticker, results[0].err)
	}

	subjectEntry := compare.EntryFrom(results[0].risk, results[0].val)
	var peerEntries []compare.Entry
	peerErrors := map[string]string{}
	for _, res := range results[1:] {
		if res.err != nil {
			log.WithField("ticker", res.ticker).WithError(res.err).Warn("peer excluded from report")
			peerErrors[res.ticker] = res.err.Error()
			continue
		}
		peerEntries = append(peerEntries, compare.EntryFrom(res.risk, res.val))
	}

	report, err := compare.Compare(subjectEntry, peerEntries, req.AsOf)
	if err != nil {
		return nil, err
	}
	if len(peerErrors) > 0 {
		report.Errors = peerErrors
	}
	report.ReportID = runID

	log.WithField("peers", len(peerEntries)).Info("comparison report complete")
	return report, nil
}

// computeTicker runs the full per-ticker chain:
// align -> returns -> risk, and fundamentals -> valuation when supplied.
func (o *Orchestrator) computeTicker(ctx context.Context, in TickerInput, req Request) tickerResult {
	ticker := in.Prices.Meta.Ticker
	res := tickerResult{ticker: ticker}

	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	aligned, err := timeseries.Align([]models.Series{in.Prices, req.Benchmark}, o.alignOptions())
	if err != nil {
		res.err = err
		return res
	}
	allReturns, err := returns.Compute(aligned)
	if err != nil {
		res.err = err
		return res
	}

	res.risk, err = risk.Compute(allReturns[ticker], allReturns[req.Benchmark.Meta.Ticker], risk.Params{
		RiskFreeRate:   o.cfg.RiskFreeRate,
		PeriodsPerYear: o.cfg.TradingPeriodsPerYear,
	})
	if err != nil {
		res.err = err
		return res
	}

	if len(in.Fundamentals) == 0 {
		return res
	}

	res.val, res.err = o.computeValuation(in, req.AsOf)
	return res
}

func (o *Orchestrator) computeValuation(in TickerInput, asOf time.Time) (*models.ValuationResult, error) {
	schema := in.Schema
	if schema == nil {
		var err error
		schema, err = fundamentals.BuiltinSchema(in.Provider)
		if err != nil {
			return nil, err
		}
	}

	records, err := fundamentals.NormalizeBatch(in.Fundamentals, schema)
	if err != nil {
		return nil, err
	}

	min := valuation.MultiplesInput{
		Record:      records[0],
		MarketPrice: in.MarketPrice,
	}
	if len(records) > 1 {
		min.Prior = records[1]
	}

	dcf := in.DCF
	if dcf == nil {
		dcf, err = o.deriveDCF(in, records)
		if err != nil {
			return nil, err
		}
	}
	return valuation.Compute(min, dcf, asOf)
}

// deriveDCF builds DCF assumptions from the configuration and the latest
// record's free cash flow. No FCF field means no DCF, multiples only. A
// supplied capital structure replaces the configured discount rate with a
// derived one.
func (o *Orchestrator) deriveDCF(in TickerInput, records []*models.FundamentalsRecord) (*valuation.DCFInput, error) {
	latest := records[0]
	fcf, ok := latest.Get(models.FieldFreeCashFlow)
	if !ok {
		return nil, nil
	}
	dcf := &valuation.DCFInput{
		Ticker:         latest.Ticker,
		StartingFCF:    fcf,
		GrowthRate:     o.cfg.DCF.GrowthRate,
		DiscountRate:   o.cfg.DCF.DiscountRate,
		TerminalGrowth: o.cfg.DCF.TerminalGrowth,
		HorizonYears:   o.cfg.DCF.HorizonYears,
	}
	if in.Capital != nil {
		rate, err := valuation.DeriveDiscountRate(*in.Capital)
		if err != nil {
			return nil, err
		}
		dcf.DiscountRate = rate.Rate
	}
	if shares, ok := latest.Get(models.FieldSharesOut); ok {
		dcf.SharesOutstanding = shares
	}
	debt, _ := latest.Get(models.FieldTotalDebt)
	cash, _ := latest.Get(models.FieldCash)
	dcf.NetDebt = debt - cash
	return dcf, nil
}

func (o *Orchestrator) alignOptions() timeseries.AlignOptions {
	return timeseries.AlignOptions{
		Policy:     o.cfg.FillPolicy,
		MaxFillGap: o.cfg.MaxFillGapDays,
	}
}
