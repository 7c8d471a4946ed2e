// Package tradecsv reads trade lists and writes computed series as CSV.
package tradecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"equityflow/num"
	"equityflow/types"
)

var tradesHeader = []string{
	"entry_index",
	"side",
	"entry_price",
	"amount",
	"exit_index", // empty for an open trade
	"exit_price",
}

// ReadTradesFile reads a trades CSV from path into a trading record.
func ReadTradesFile(path string, numCtx num.Context, txModel, holdModel types.CostModel) (*types.TradingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()

	return ReadTrades(f, numCtx, txModel, holdModel)
}

// ReadTrades parses a trades CSV into a trading record. One row per trade,
// columns per tradesHeader; only the last trade may leave the exit columns
// empty.
func ReadTrades(r io.Reader, numCtx num.Context, txModel, holdModel types.CostModel) (*types.TradingRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trades csv: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) != len(tradesHeader) {
		return nil, fmt.Errorf("trades csv: missing or malformed header")
	}

	record := types.NewTradingRecord(txModel, holdModel)
	for i, row := range rows[1:] {
		if err := applyTradeRow(record, row, numCtx); err != nil {
			return nil, fmt.Errorf("trades csv row %d: %w", i+1, err)
		}
	}
	return record, nil
}

func applyTradeRow(record *types.TradingRecord, row []string, numCtx num.Context) error {
	if len(row) != len(tradesHeader) {
		return fmt.Errorf("expected %d columns, got %d", len(tradesHeader), len(row))
	}

	entryIndex, err := strconv.Atoi(row[0])
	if err != nil {
		return fmt.Errorf("entry_index: %w", err)
	}
	side := types.Side(row[1])
	if side != types.SideTypeBuy && side != types.SideTypeSell {
		return fmt.Errorf("side: unknown value %q", row[1])
	}
	entryPrice, err := numCtx.FromString(row[2])
	if err != nil {
		return fmt.Errorf("entry_price: %w", err)
	}
	amount, err := numCtx.FromString(row[3])
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	if _, err := record.Enter(entryIndex, side, entryPrice, amount); err != nil {
		return err
	}
	if row[4] == "" {
		return nil
	}

	exitIndex, err := strconv.Atoi(row[4])
	if err != nil {
		return fmt.Errorf("exit_index: %w", err)
	}
	exitPrice, err := numCtx.FromString(row[5])
	if err != nil {
		return fmt.Errorf("exit_price: %w", err)
	}
	_, err = record.Exit(exitIndex, exitPrice, amount)
	return err
}

// WriteSeriesFile writes a computed per-bar series to a CSV file at path.
func WriteSeriesFile(path string, series *types.BarSeries, column string, values []num.Num) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create series file: %w", err)
	}
	defer f.Close()

	return WriteSeries(f, series, column, values)
}

// WriteSeries writes a computed per-bar series to any io.Writer as CSV.
// Pass os.Stdout for debugging, or a file.
func WriteSeries(w io.Writer, series *types.BarSeries, column string, values []num.Num) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"index", "timestamp", column}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, v := range values {
		row := []string{
			strconv.Itoa(i),
			series.Bar(i).Timestamp.Format(time.RFC3339),
			v.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
