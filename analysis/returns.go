package analysis

import (
	"fmt"
	"slices"
	"strings"

	"equityflow/num"
	"equityflow/types"
)

// ReturnType selects the period-return convention. The variant set is
// closed: every switch over it handles both cases.
type ReturnType int

const (
	// LogReturn computes r = ln(xNew/xOld). Log returns are additive across
	// periods, so the short-side return is simply the negation.
	LogReturn ReturnType = iota
	// ArithmeticReturn computes r = xNew/xOld - 1. Arithmetic returns do
	// not add up, so short positions compound through a return factor.
	ArithmeticReturn
)

// ParseReturnType maps the config spelling onto a ReturnType.
func ParseReturnType(s string) (ReturnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log":
		return LogReturn, nil
	case "arithmetic":
		return ArithmeticReturn, nil
	}
	return 0, fmt.Errorf("unknown return type %q", s)
}

func (rt ReturnType) String() string {
	if rt == ArithmeticReturn {
		return "arithmetic"
	}
	return "log"
}

// Calculate returns a single period return between two prices.
func (rt ReturnType) Calculate(xNew, xOld num.Num) num.Num {
	if rt == ArithmeticReturn {
		return xNew.Div(xOld).Sub(xOld.Context().One())
	}
	return xNew.Div(xOld).Log()
}

// shortPosition carries the compounding state needed to convert raw asset
// returns into the returns of an inverse exposure.
type shortPosition struct {
	growth     num.Num // product of (1 + raw return) since entry
	prevFactor num.Num // previous return factor, 1 - cumulative return
}

func newShortPosition(ctx num.Context) *shortPosition {
	return &shortPosition{growth: ctx.One(), prevFactor: ctx.One()}
}

// LeverageAdjustedReturn converts a raw asset return into the strategy
// return of a short position. Log returns negate; arithmetic returns are
// computed between consecutive return factors.
func (rt ReturnType) LeverageAdjustedReturn(assetReturn num.Num, short *shortPosition) num.Num {
	if rt != ArithmeticReturn {
		return assetReturn.Neg()
	}
	one := short.growth.Context().One()
	short.growth = short.growth.Mul(one.Add(assetReturn))
	factor := one.Add(one).Sub(short.growth)
	levered := factor.Div(short.prevFactor).Sub(one)
	short.prevFactor = factor
	return levered
}

// Returns computes the per-bar returns realized by holding the positions of
// a trade list, adjusted for amortized costs. Index 0 is the NaN sentinel:
// there is no prior bar to compare against. Idle bars yield zero.
type Returns struct {
	series     *types.BarSeries
	returnType ReturnType
	values     []num.Num
}

// NewTradeReturns computes the returns of a single trade, accruing an open
// trade up to the end of the series.
func NewTradeReturns(series *types.BarSeries, trade *types.Trade, returnType ReturnType) (*Returns, error) {
	r := newReturns(series, returnType)
	if err := r.calculateTrade(trade, series.EndIndex()); err != nil {
		return nil, err
	}
	r.fillToTheEnd()
	return r, nil
}

// NewReturns computes the returns of the closed trades of a record. An open
// trade is ignored.
func NewReturns(series *types.BarSeries, record *types.TradingRecord, returnType ReturnType) (*Returns, error) {
	r := newReturns(series, returnType)
	if err := r.calculateClosedTrades(record); err != nil {
		return nil, err
	}
	r.fillToTheEnd()
	return r, nil
}

// NewReturnsUpTo computes the returns of all trades of a record, accruing an
// open trade up to finalIndex.
func NewReturnsUpTo(series *types.BarSeries, record *types.TradingRecord, returnType ReturnType, finalIndex int) (*Returns, error) {
	r := newReturns(series, returnType)
	if err := r.calculateClosedTrades(record); err != nil {
		return nil, err
	}
	if cur := record.CurrentTrade(); cur != nil {
		if err := r.calculateTrade(cur, finalIndex); err != nil {
			return nil, err
		}
	}
	r.fillToTheEnd()
	return r, nil
}

func newReturns(series *types.BarSeries, returnType ReturnType) *Returns {
	return &Returns{
		series:     series,
		returnType: returnType,
		values:     []num.Num{num.NaN},
	}
}

// Value returns the period return at the given bar index. Index 0 is always
// the NaN sentinel.
func (r *Returns) Value(index int) (num.Num, error) {
	if index < 0 || index >= len(r.values) {
		return num.NaN, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return r.values[index], nil
}

// Size is the number of return periods, one less than the bar count.
func (r *Returns) Size() int {
	return r.series.BarCount() - 1
}

// Values returns a copy of the whole return series, NaN sentinel included.
func (r *Returns) Values() []num.Num {
	return slices.Clone(r.values)
}

func (r *Returns) calculateClosedTrades(record *types.TradingRecord) error {
	for _, trade := range record.Trades() {
		if trade.IsOpen() {
			continue
		}
		if err := r.calculateTrade(trade, trade.Exit().Index()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Returns) calculateTrade(t *types.Trade, finalIndex int) error {
	isLong := t.Entry().IsBuy()
	endIndex := determineEndIndex(t, finalIndex, r.series.EndIndex())
	entryIndex := t.Entry().Index()

	zero := r.series.NumContext().Zero()
	begin := entryIndex + 1
	for len(r.values) < begin {
		r.values = append(r.values, zero)
	}

	nPeriods := endIndex - entryIndex
	if nPeriods <= 0 {
		return fmt.Errorf("%w: entry %d, end %d", ErrZeroPeriodTrade, entryIndex, endIndex)
	}

	holdingCost := t.HoldingCostUpTo(endIndex)
	avgCost := holdingCost.Div(holdingCost.Context().FromInt(int64(nPeriods)))
	short := newShortPosition(r.series.NumContext())

	strategyReturn := func(assetReturn num.Num) num.Num {
		if isLong {
			return assetReturn
		}
		return r.returnType.LeverageAdjustedReturn(assetReturn, short)
	}

	// returns are iterative: each period compares against the previous
	// bar's raw close, starting from the cost-adjusted entry price
	lastPrice := t.Entry().NetPrice()
	for i := max(begin, 1); i < endIndex; i++ {
		intermediatePrice := applyCost(r.series.ClosePrice(i), avgCost, isLong)
		r.values = append(r.values, strategyReturn(r.returnType.Calculate(intermediatePrice, lastPrice)))
		lastPrice = r.series.ClosePrice(i)
	}

	// net return on the end bar, against the exit's net price when the
	// trade is closed
	exitPrice := r.series.ClosePrice(endIndex)
	if exit := t.Exit(); exit != nil {
		exitPrice = exit.NetPrice()
	}
	r.values = append(r.values, strategyReturn(r.returnType.Calculate(applyCost(exitPrice, avgCost, isLong), lastPrice)))
	return nil
}

// applyCost charges the amortized per-bar cost against the position: it
// lowers the effective price for longs and raises it for shorts.
func applyCost(rawPrice, avgCost num.Num, isLong bool) num.Num {
	if isLong {
		return rawPrice.Sub(avgCost)
	}
	return rawPrice.Add(avgCost)
}

// fillToTheEnd pads the remaining bars with zero returns.
func (r *Returns) fillToTheEnd() {
	zero := r.series.NumContext().Zero()
	for len(r.values) <= r.series.EndIndex() {
		r.values = append(r.values, zero)
	}
}
