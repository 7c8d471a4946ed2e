package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equityflow/cost"
	"equityflow/num"
	"equityflow/types"
)

func testSeries(t *testing.T, closes ...string) *types.BarSeries {
	t.Helper()
	bars := make([]types.Bar, len(closes))
	ts := time.UnixMilli(0)
	for i, c := range closes {
		bars[i] = types.Bar{
			Ticker:    "TEST",
			Close:     decimal.RequireFromString(c),
			Interval:  types.Day,
			Timestamp: ts.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	series, err := types.NewBarSeries("TEST", num.NewContext(32), bars)
	require.NoError(t, err)
	return series
}

func numOf(series *types.BarSeries, s string) num.Num {
	return series.NumContext().RequireFromString(s)
}

// closedLongTrade opens a long position at entryIndex and closes it at
// exitIndex, both priced at the bar close, with unit amount and zero costs.
func closedLongTrade(t *testing.T, series *types.BarSeries, entryIndex, exitIndex int) *types.Trade {
	t.Helper()
	return closedTrade(t, series, types.SideTypeBuy, entryIndex, exitIndex, cost.NewZeroCostModel(), cost.NewZeroCostModel())
}

func closedTrade(t *testing.T, series *types.BarSeries, side types.Side, entryIndex, exitIndex int, txModel, holdModel types.CostModel) *types.Trade {
	t.Helper()
	one := series.NumContext().One()
	entry := types.NewOrder(entryIndex, side, series.ClosePrice(entryIndex), one, txModel)
	exit := types.NewOrder(exitIndex, side.Opposite(), series.ClosePrice(exitIndex), one, txModel)
	trade, err := types.NewClosedTrade(entry, exit, txModel, holdModel)
	require.NoError(t, err)
	return trade
}

func assertValues(t *testing.T, values []num.Num, want ...string) {
	t.Helper()
	require.Len(t, values, len(want))
	for i, w := range want {
		var expected num.Num
		if w == "NaN" {
			expected = num.NaN
		} else {
			expected = num.NewContext(32).RequireFromString(w)
		}
		assert.True(t, values[i].Equal(expected), "index %d: got %s, want %s", i, values[i], w)
	}
}

func TestCashFlowSingleLongTrade(t *testing.T) {
	series := testSeries(t, "100", "110", "121", "100")
	trade := closedLongTrade(t, series, 0, 2)

	cf, err := NewTradeCashFlow(series, trade)
	require.NoError(t, err)

	assert.Equal(t, 4, cf.Size())
	assertValues(t, cf.Values(), "1", "1.1", "1.21", "1.21")
}

func TestCashFlowStartsAtOne(t *testing.T) {
	series := testSeries(t, "100", "110", "121", "100")
	record := types.NewTradingRecord(nil, nil)

	cf, err := NewCashFlow(series, record)
	require.NoError(t, err)

	v, err := cf.Value(0)
	require.NoError(t, err)
	assert.True(t, v.Equal(numOf(series, "1")))
	// no trades: flat at 1 through the whole series
	assertValues(t, cf.Values(), "1", "1", "1", "1")
}

func TestCashFlowGapCarriesLastValueForward(t *testing.T) {
	series := testSeries(t, "100", "110", "110", "110", "100", "120")
	record := types.NewTradingRecord(nil, nil)

	one := series.NumContext().One()
	_, err := record.Enter(0, types.SideTypeBuy, series.ClosePrice(0), one)
	require.NoError(t, err)
	_, err = record.Exit(1, series.ClosePrice(1), one)
	require.NoError(t, err)
	_, err = record.Enter(4, types.SideTypeBuy, series.ClosePrice(4), one)
	require.NoError(t, err)
	_, err = record.Exit(5, series.ClosePrice(5), one)
	require.NoError(t, err)

	cf, err := NewCashFlow(series, record)
	require.NoError(t, err)

	// idle bars 2 and 3 repeat the 1.1 level; second trade compounds on it
	assertValues(t, cf.Values(), "1", "1.1", "1.1", "1.1", "1.1", "1.32")
}

func TestCashFlowShortTradeKeepsRawRatio(t *testing.T) {
	series := testSeries(t, "100", "90", "80", "80")
	trade := closedTrade(t, series, types.SideTypeSell, 0, 2, cost.NewZeroCostModel(), cost.NewZeroCostModel())

	cf, err := NewTradeCashFlow(series, trade)
	require.NoError(t, err)

	// the short branch keeps the plain price ratio (no inversion)
	assertValues(t, cf.Values(), "1", "0.9", "0.8", "0.8")
}

func TestCashFlowAmortizesTransactionCost(t *testing.T) {
	series := testSeries(t, "100", "110", "110")
	txModel := cost.NewLinearTransactionCostModel(decimal.RequireFromString("0.01"))
	trade := closedTrade(t, series, types.SideTypeBuy, 0, 2, txModel, cost.NewZeroCostModel())

	cf, err := NewTradeCashFlow(series, trade)
	require.NoError(t, err)

	// exit cost = 110*1*0.01 = 1.1, amortized over 2 periods -> 0.55/bar
	assertValues(t, cf.Values(), "1", "1.0945", "1.0945")
}

func TestCashFlowOpenTradeAccruesUpToFinalIndex(t *testing.T) {
	series := testSeries(t, "100", "110", "121", "133.1")
	record := types.NewTradingRecord(nil, nil)
	_, err := record.Enter(0, types.SideTypeBuy, series.ClosePrice(0), series.NumContext().One())
	require.NoError(t, err)

	cf, err := NewCashFlowUpTo(series, record, 2)
	require.NoError(t, err)
	assertValues(t, cf.Values(), "1", "1.1", "1.21", "1.21")
}

func TestCashFlowClampsFinalIndexToSeriesEnd(t *testing.T) {
	series := testSeries(t, "100", "110", "121")
	record := types.NewTradingRecord(nil, nil)
	_, err := record.Enter(0, types.SideTypeBuy, series.ClosePrice(0), series.NumContext().One())
	require.NoError(t, err)

	cf, err := NewCashFlowUpTo(series, record, 500)
	require.NoError(t, err)
	assertValues(t, cf.Values(), "1", "1.1", "1.21")
}

func TestCashFlowIgnoresOpenTradeWithoutFinalIndex(t *testing.T) {
	series := testSeries(t, "100", "110", "121")
	record := types.NewTradingRecord(nil, nil)
	_, err := record.Enter(0, types.SideTypeBuy, series.ClosePrice(0), series.NumContext().One())
	require.NoError(t, err)

	cf, err := NewCashFlow(series, record)
	require.NoError(t, err)
	assertValues(t, cf.Values(), "1", "1", "1")
}

func TestCashFlowRejectsOpenSingleTrade(t *testing.T) {
	series := testSeries(t, "100", "110")
	entry := types.NewOrder(0, types.SideTypeBuy, series.ClosePrice(0), series.NumContext().One(), nil)
	trade := types.NewTrade(entry, nil, nil)

	_, err := NewTradeCashFlow(series, trade)
	assert.ErrorIs(t, err, ErrTradeNotClosed)
}

func TestCashFlowRejectsZeroPeriodAccrual(t *testing.T) {
	series := testSeries(t, "100", "110", "121")
	record := types.NewTradingRecord(nil, nil)
	// entered on the bar the accrual window ends on
	_, err := record.Enter(2, types.SideTypeBuy, series.ClosePrice(2), series.NumContext().One())
	require.NoError(t, err)

	_, err = NewCashFlowUpTo(series, record, 2)
	assert.ErrorIs(t, err, ErrZeroPeriodTrade)
}

func TestCashFlowValueOutOfRange(t *testing.T) {
	series := testSeries(t, "100", "110")
	cf, err := NewCashFlow(series, types.NewTradingRecord(nil, nil))
	require.NoError(t, err)

	_, err = cf.Value(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = cf.Value(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMaxDrawdown(t *testing.T) {
	series := testSeries(t, "100", "110", "121", "100")
	trade := closedLongTrade(t, series, 0, 3)

	cf, err := NewTradeCashFlow(series, trade)
	require.NoError(t, err)

	// peak 1.21 at bar 2, trough 1.0 at bar 3
	want := numOf(series, "0.21").Div(numOf(series, "1.21"))
	assert.True(t, MaxDrawdown(cf).Equal(want))
}

func TestMaxDrawdownFlatSeriesIsZero(t *testing.T) {
	series := testSeries(t, "100", "100", "100")
	cf, err := NewCashFlow(series, types.NewTradingRecord(nil, nil))
	require.NoError(t, err)

	assert.True(t, MaxDrawdown(cf).IsZero())
}
