package cost

import (
	"github.com/shopspring/decimal"

	"equityflow/num"
	"equityflow/types"
)

// LinearTransactionCostModel charges a fee proportional to the traded value
// plus an optional fixed fee per order:
//
//	orderCost = price*amount*feePerTrade + initialFee
type LinearTransactionCostModel struct {
	feePerTrade decimal.Decimal
	initialFee  decimal.Decimal
}

// NewLinearTransactionCostModel creates a model with a proportional fee only.
func NewLinearTransactionCostModel(feePerTrade decimal.Decimal) LinearTransactionCostModel {
	return LinearTransactionCostModel{feePerTrade: feePerTrade}
}

// NewLinearTransactionCostModelWithInitialFee adds a fixed fee charged on
// every order on top of the proportional fee.
func NewLinearTransactionCostModelWithInitialFee(feePerTrade, initialFee decimal.Decimal) LinearTransactionCostModel {
	return LinearTransactionCostModel{feePerTrade: feePerTrade, initialFee: initialFee}
}

func (m LinearTransactionCostModel) Calculate(price, amount num.Num) num.Num {
	ctx := price.Context()
	return price.Mul(amount).
		Mul(ctx.FromDecimal(m.feePerTrade)).
		Add(ctx.FromDecimal(m.initialFee))
}

// TradeCost reuses the realized cost cached on the orders at creation time:
// the entry order's cost, replaced by the exit order's cost once the trade
// is closed. It does not re-derive the effective traded amount after entry
// fees.
func (m LinearTransactionCostModel) TradeCost(t *types.Trade, _ int, finalPrice num.Num) num.Num {
	if exit := t.Exit(); exit != nil {
		return exit.Cost()
	}
	return t.Entry().Cost()
}
