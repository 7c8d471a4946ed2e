package types

import (
	"errors"
	"fmt"

	"equityflow/num"
)

var (
	ErrTradeClosed       = errors.New("trade is already closed")
	ErrExitBeforeEntry   = errors.New("exit index must be greater than entry index")
	ErrNoOpenTrade       = errors.New("no open trade")
	ErrOpenTradeConflict = errors.New("record already has an open trade")
)

// CostModel computes trading costs. Implementations are stateless or
// parameter-only and safe to share across trades and goroutines.
type CostModel interface {
	// Calculate returns the absolute cost of a single execution.
	Calculate(price, amount num.Num) num.Num
	// TradeCost returns the absolute cost accrued by a trade up to
	// finalIndex. finalPrice is the closing price at that index, used by
	// models that price open positions.
	TradeCost(t *Trade, finalIndex int, finalPrice num.Num) num.Num
}

// Trade pairs an entry order with an optional exit order. A trade without an
// exit is open.
type Trade struct {
	id               string
	entry            Order
	exit             *Order
	transactionModel CostModel
	holdingModel     CostModel
}

// NewTrade creates an open trade. Nil cost models behave as zero cost.
func NewTrade(entry Order, transactionModel, holdingModel CostModel) *Trade {
	return &Trade{
		entry:            entry,
		transactionModel: transactionModel,
		holdingModel:     holdingModel,
	}
}

// NewClosedTrade creates a trade with both legs in place.
func NewClosedTrade(entry, exit Order, transactionModel, holdingModel CostModel) (*Trade, error) {
	t := NewTrade(entry, transactionModel, holdingModel)
	if err := t.Close(exit); err != nil {
		return nil, err
	}
	return t, nil
}

// Close attaches the exit order. The exit must execute strictly after the
// entry.
func (t *Trade) Close(exit Order) error {
	if t.IsClosed() {
		return ErrTradeClosed
	}
	if exit.Index() <= t.entry.Index() {
		return fmt.Errorf("%w: entry %d, exit %d", ErrExitBeforeEntry, t.entry.Index(), exit.Index())
	}
	t.exit = &exit
	return nil
}

func (t *Trade) Id() string {
	return t.id
}

func (t *Trade) Entry() Order {
	return t.entry
}

// Exit returns the exit order, or nil while the trade is open.
func (t *Trade) Exit() *Order {
	return t.exit
}

func (t *Trade) IsOpen() bool {
	return t.exit == nil
}

func (t *Trade) IsClosed() bool {
	return t.exit != nil
}

// CostUpTo returns the total cost of the trade accrued up to finalIndex:
// transaction costs plus time-based holding costs. finalPrice is the closing
// price at finalIndex.
func (t *Trade) CostUpTo(finalIndex int, finalPrice num.Num) num.Num {
	total := finalPrice.Context().Zero()
	if t.transactionModel != nil {
		total = total.Add(t.transactionModel.TradeCost(t, finalIndex, finalPrice))
	}
	return total.Add(t.HoldingCostUpTo(finalIndex))
}

// HoldingCostUpTo returns only the time-based holding cost accrued up to
// finalIndex.
func (t *Trade) HoldingCostUpTo(finalIndex int) num.Num {
	if t.holdingModel == nil {
		return t.entry.Price().Context().Zero()
	}
	return t.holdingModel.TradeCost(t, finalIndex, t.entry.Price().Context().Zero())
}
