package tradecsv

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"equityflow/num"
	"equityflow/types"
)

var testCtx = num.NewContext(32)

func TestReadTrades(t *testing.T) {
	input := strings.Join([]string{
		"entry_index,side,entry_price,amount,exit_index,exit_price",
		"0,BUY,100,1,2,121",
		"4,SELL,120,2,,",
	}, "\n")

	record, err := ReadTrades(strings.NewReader(input), testCtx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	trades := record.Trades()
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}

	first := trades[0]
	if first.IsOpen() {
		t.Error("first trade should be closed")
	}
	if first.Entry().Index() != 0 || first.Exit().Index() != 2 {
		t.Errorf("first trade spans %d..%d, want 0..2", first.Entry().Index(), first.Exit().Index())
	}
	if !first.Entry().Price().Equal(testCtx.FromInt(100)) {
		t.Errorf("entry price = %v, want 100", first.Entry().Price())
	}

	cur := record.CurrentTrade()
	if cur == nil {
		t.Fatal("second trade should be the open current trade")
	}
	if cur.Entry().Side() != types.SideTypeSell {
		t.Errorf("open trade side = %v, want SELL", cur.Entry().Side())
	}
	if amount, ok := cur.Entry().Amount(); !ok || !amount.Equal(testCtx.FromInt(2)) {
		t.Errorf("open trade amount = %v, %v", amount, ok)
	}
}

func TestReadTradesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"bad header", "foo,bar\n"},
		{"bad side", "entry_index,side,entry_price,amount,exit_index,exit_price\n0,HOLD,100,1,,\n"},
		{"bad entry index", "entry_index,side,entry_price,amount,exit_index,exit_price\nx,BUY,100,1,,\n"},
		{"bad price", "entry_index,side,entry_price,amount,exit_index,exit_price\n0,BUY,abc,1,,\n"},
		{"overlapping trades", "entry_index,side,entry_price,amount,exit_index,exit_price\n0,BUY,100,1,5,110\n3,BUY,105,1,6,100\n"},
		{"open trade before last", "entry_index,side,entry_price,amount,exit_index,exit_price\n0,BUY,100,1,,\n5,BUY,105,1,7,100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadTrades(strings.NewReader(tt.input), testCtx, nil, nil); err == nil {
				t.Error("ReadTrades() should fail")
			}
		})
	}
}

func TestWriteSeries(t *testing.T) {
	bars := []types.Bar{
		{Close: decimal.RequireFromString("100"), Timestamp: time.UnixMilli(0).UTC()},
		{Close: decimal.RequireFromString("110"), Timestamp: time.UnixMilli(0).UTC().Add(24 * time.Hour)},
	}
	series, err := types.NewBarSeries("TEST", testCtx, bars)
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	values := []num.Num{num.NaN, testCtx.RequireFromString("0.1")}
	if err := WriteSeries(&sb, series, "return", values); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "index,timestamp,return" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0,1970-01-01T00:00:00Z,NaN") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",0.1") {
		t.Errorf("row 2 = %q", lines[2])
	}
}
