package types

import (
	"github.com/oklog/ulid/v2"

	"equityflow/num"
)

// TradingRecord is an ordered sequence of trades for a single-position
// strategy. At most one trade is open, and it is always the last one.
type TradingRecord struct {
	trades           []*Trade
	transactionModel CostModel
	holdingModel     CostModel
}

// NewTradingRecord creates an empty record. Orders created through Enter and
// Exit are priced with the given cost models; nil models mean zero cost.
func NewTradingRecord(transactionModel, holdingModel CostModel) *TradingRecord {
	return &TradingRecord{
		transactionModel: transactionModel,
		holdingModel:     holdingModel,
	}
}

// Enter opens a new trade at the given bar index. It fails while a previous
// trade is still open.
func (r *TradingRecord) Enter(index int, side Side, price, amount num.Num) (*Trade, error) {
	if cur := r.CurrentTrade(); cur != nil {
		return nil, ErrOpenTradeConflict
	}
	if last := r.lastTrade(); last != nil && index < last.Exit().Index() {
		return nil, ErrExitBeforeEntry
	}
	entry := NewOrder(index, side, price, amount, r.transactionModel)
	trade := NewTrade(entry, r.transactionModel, r.holdingModel)
	trade.id = ulid.Make().String()
	r.trades = append(r.trades, trade)
	return trade, nil
}

// Exit closes the open trade at the given bar index.
func (r *TradingRecord) Exit(index int, price, amount num.Num) (*Trade, error) {
	cur := r.CurrentTrade()
	if cur == nil {
		return nil, ErrNoOpenTrade
	}
	exit := NewOrder(index, cur.Entry().Side().Opposite(), price, amount, r.transactionModel)
	if err := cur.Close(exit); err != nil {
		return nil, err
	}
	return cur, nil
}

// Trades returns the trades in entry order. The returned slice is shared;
// callers must not mutate it.
func (r *TradingRecord) Trades() []*Trade {
	return r.trades
}

// CurrentTrade returns the open trade, or nil when the record is flat.
func (r *TradingRecord) CurrentTrade() *Trade {
	last := r.lastTrade()
	if last != nil && last.IsOpen() {
		return last
	}
	return nil
}

func (r *TradingRecord) lastTrade() *Trade {
	if len(r.trades) == 0 {
		return nil
	}
	return r.trades[len(r.trades)-1]
}
