package analysis

import (
	"fmt"
	"slices"

	"equityflow/num"
	"equityflow/types"
)

// CashFlow follows the cumulative multiplicative cash flow implied by a list
// of trades over a bar series. The index starts at 1 on the first bar; bars
// between trades carry the last level forward.
type CashFlow struct {
	series *types.BarSeries
	values []num.Num
}

// NewTradeCashFlow computes the cash flow of a single closed trade.
func NewTradeCashFlow(series *types.BarSeries, trade *types.Trade) (*CashFlow, error) {
	if trade.IsOpen() {
		return nil, ErrTradeNotClosed
	}
	c := newCashFlow(series)
	if err := c.calculateTrade(trade, trade.Exit().Index()); err != nil {
		return nil, err
	}
	c.fillToTheEnd()
	return c, nil
}

// NewCashFlow computes the cash flow of the closed trades of a record. An
// open trade is ignored.
func NewCashFlow(series *types.BarSeries, record *types.TradingRecord) (*CashFlow, error) {
	c := newCashFlow(series)
	if err := c.calculateClosedTrades(record); err != nil {
		return nil, err
	}
	c.fillToTheEnd()
	return c, nil
}

// NewCashFlowUpTo computes the cash flow of all trades of a record,
// accruing an open trade's unrealized cash flow up to finalIndex.
func NewCashFlowUpTo(series *types.BarSeries, record *types.TradingRecord, finalIndex int) (*CashFlow, error) {
	c := newCashFlow(series)
	if err := c.calculateClosedTrades(record); err != nil {
		return nil, err
	}
	if cur := record.CurrentTrade(); cur != nil {
		if err := c.calculateTrade(cur, finalIndex); err != nil {
			return nil, err
		}
	}
	c.fillToTheEnd()
	return c, nil
}

func newCashFlow(series *types.BarSeries) *CashFlow {
	return &CashFlow{
		series: series,
		values: []num.Num{series.NumContext().One()},
	}
}

// Value returns the cash flow level at the given bar index.
func (c *CashFlow) Value(index int) (num.Num, error) {
	if index < 0 || index >= len(c.values) {
		return num.NaN, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return c.values[index], nil
}

// Size is the number of bars covered, equal to the series' bar count.
func (c *CashFlow) Size() int {
	return c.series.BarCount()
}

// Values returns a copy of the whole cash-flow series.
func (c *CashFlow) Values() []num.Num {
	return slices.Clone(c.values)
}

func (c *CashFlow) calculateClosedTrades(record *types.TradingRecord) error {
	for _, trade := range record.Trades() {
		if trade.IsOpen() {
			continue
		}
		if err := c.calculateTrade(trade, trade.Exit().Index()); err != nil {
			return err
		}
	}
	return nil
}

func (c *CashFlow) calculateTrade(t *types.Trade, finalIndex int) error {
	endIndex := determineEndIndex(t, finalIndex, c.series.EndIndex())
	entryIndex := t.Entry().Index()

	begin := entryIndex + 1
	if begin > len(c.values) {
		last := c.values[len(c.values)-1]
		for len(c.values) < begin {
			c.values = append(c.values, last)
		}
	}

	nPeriods := endIndex - entryIndex
	if nPeriods <= 0 {
		return fmt.Errorf("%w: entry %d, end %d", ErrZeroPeriodTrade, entryIndex, endIndex)
	}

	totalCost := t.CostUpTo(endIndex, c.series.ClosePrice(endIndex))
	avgCost := totalCost.Div(totalCost.Context().FromInt(int64(nPeriods)))
	entryPrice := c.series.ClosePrice(entryIndex)

	for i := max(begin, 1); i <= endIndex; i++ {
		var ratio num.Num
		if t.Entry().IsBuy() {
			ratio = c.series.ClosePrice(i).Sub(avgCost).Div(entryPrice)
		} else {
			// TODO: short ratio should be -(ratio-1) with the cost
			// adjustment applied, like the long branch.
			ratio = c.series.ClosePrice(i).Div(entryPrice)
		}
		c.values = append(c.values, c.values[entryIndex].Mul(ratio))
	}
	return nil
}

// fillToTheEnd repeats the last level through the remaining bars.
func (c *CashFlow) fillToTheEnd() {
	last := c.values[len(c.values)-1]
	for len(c.values) <= c.series.EndIndex() {
		c.values = append(c.values, last)
	}
}
