// Package analysis derives equity and return series from a price series and
// a record of trades. Engines compute their whole per-bar buffer at
// construction; instances are immutable afterwards and safe for concurrent
// reads.
package analysis

import (
	"errors"

	"equityflow/types"
)

var (
	// ErrTradeNotClosed is returned when a call path that requires a closed
	// trade is given an open one.
	ErrTradeNotClosed = errors.New("trade is not closed")
	// ErrZeroPeriodTrade is returned when a trade's accrual window spans no
	// full period, which would make the amortized cost undefined.
	ErrZeroPeriodTrade = errors.New("trade spans zero periods")
	// ErrIndexOutOfRange is returned by Value for indices outside the
	// computed series.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// determineEndIndex bounds a trade's accrual window: a closed trade accrues
// no further than its exit, and nothing accrues past the end of the series.
func determineEndIndex(t *types.Trade, finalIndex, seriesEndIndex int) int {
	idx := finalIndex
	if exit := t.Exit(); exit != nil {
		idx = min(exit.Index(), finalIndex)
	}
	return min(idx, seriesEndIndex)
}
