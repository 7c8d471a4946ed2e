package types

import (
	"errors"

	"equityflow/num"
)

var ErrEmptySeries = errors.New("bar series has no bars")

// BarSeries is an ordered, zero-indexed sequence of bars together with the
// numeric context all derived values are computed in. Read-only after
// construction.
type BarSeries struct {
	ticker string
	bars   []Bar
	numCtx num.Context
}

func NewBarSeries(ticker string, numCtx num.Context, bars []Bar) (*BarSeries, error) {
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}
	return &BarSeries{
		ticker: ticker,
		bars:   bars,
		numCtx: numCtx,
	}, nil
}

func (s *BarSeries) Ticker() string {
	return s.ticker
}

func (s *BarSeries) Bar(index int) Bar {
	return s.bars[index]
}

// ClosePrice returns the closing price at index, bound to the series'
// numeric context.
func (s *BarSeries) ClosePrice(index int) num.Num {
	return s.numCtx.FromDecimal(s.bars[index].Close)
}

// EndIndex is the last valid bar index.
func (s *BarSeries) EndIndex() int {
	return len(s.bars) - 1
}

func (s *BarSeries) BarCount() int {
	return len(s.bars)
}

func (s *BarSeries) NumContext() num.Context {
	return s.numCtx
}
