// Package cost implements the trading cost models consumed by orders,
// trades and the analysis engines.
package cost

import (
	"equityflow/num"
	"equityflow/types"
)

// ZeroCostModel is the no-op default: free execution, free holding.
type ZeroCostModel struct{}

func NewZeroCostModel() ZeroCostModel {
	return ZeroCostModel{}
}

func (ZeroCostModel) Calculate(price, _ num.Num) num.Num {
	return price.Context().Zero()
}

func (ZeroCostModel) TradeCost(_ *types.Trade, _ int, finalPrice num.Num) num.Num {
	return finalPrice.Context().Zero()
}
