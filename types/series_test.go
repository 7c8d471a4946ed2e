package types

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewBarSeries(t *testing.T) {
	_, err := NewBarSeries("TEST", testCtx, nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("NewBarSeries() error = %v, want ErrEmptySeries", err)
	}

	bars := []Bar{
		{Ticker: "TEST", Close: decimal.RequireFromString("100")},
		{Ticker: "TEST", Close: decimal.RequireFromString("110.5")},
	}
	s, err := NewBarSeries("TEST", testCtx, bars)
	if err != nil {
		t.Fatal(err)
	}

	if s.BarCount() != 2 || s.EndIndex() != 1 {
		t.Errorf("BarCount() = %d, EndIndex() = %d", s.BarCount(), s.EndIndex())
	}
	if !s.ClosePrice(1).Equal(testCtx.RequireFromString("110.5")) {
		t.Errorf("ClosePrice(1) = %v, want 110.5", s.ClosePrice(1))
	}
	if s.Ticker() != "TEST" {
		t.Errorf("Ticker() = %q", s.Ticker())
	}
}
