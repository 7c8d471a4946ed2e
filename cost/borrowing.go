package cost

import (
	"github.com/shopspring/decimal"

	"equityflow/num"
	"equityflow/types"
)

// LinearBorrowingCostModel accrues a holding cost proportional to the time a
// short position stays open:
//
//	holdingCost = entryValue * feePerPeriod * periodsHeld
//
// Long trades and trades without an amount accrue nothing, and execution
// itself is free (borrowing cost is time-based, not per-order).
type LinearBorrowingCostModel struct {
	feePerPeriod decimal.Decimal
}

func NewLinearBorrowingCostModel(feePerPeriod decimal.Decimal) LinearBorrowingCostModel {
	return LinearBorrowingCostModel{feePerPeriod: feePerPeriod}
}

func (LinearBorrowingCostModel) Calculate(price, _ num.Num) num.Num {
	return price.Context().Zero()
}

func (m LinearBorrowingCostModel) TradeCost(t *types.Trade, finalIndex int, finalPrice num.Num) num.Num {
	entry := t.Entry()
	zero := entry.Price().Context().Zero()

	if !entry.IsSell() {
		return zero
	}
	if _, ok := entry.Amount(); !ok {
		return zero
	}

	periods := 0
	if exit := t.Exit(); exit != nil {
		periods = exit.Index() - entry.Index()
	} else {
		periods = finalIndex - entry.Index()
	}
	if periods <= 0 {
		return zero
	}

	ctx := entry.Price().Context()
	return entry.Value().
		Mul(ctx.FromInt(int64(periods))).
		Mul(ctx.FromDecimal(m.feePerPeriod))
}
