package analysis

import (
	"equityflow/num"
)

// MaxDrawdown returns the deepest peak-to-trough decline of a cash-flow
// index, as a fraction of the peak. A series that never declines yields
// zero.
func MaxDrawdown(cf *CashFlow) num.Num {
	peak := cf.values[0]
	maxDD := cf.series.NumContext().Zero()

	for _, level := range cf.values {
		if level.GreaterThan(peak) {
			peak = level
		}
		if !peak.IsPositive() {
			continue
		}
		dd := peak.Sub(level).Div(peak)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	return maxDD
}
