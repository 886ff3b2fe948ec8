package funding

import (
	"math/big"
	"testing"

	"poolscope/internal/model"
)

func TestDepositRoom(t *testing.T) {
	if room := DepositRoom(nil, big.NewInt(10)); room != nil {
		t.Fatalf("nil cap means uncapped, got %s", room)
	}
	if room := DepositRoom(big.NewInt(0), big.NewInt(10)); room != nil {
		t.Fatalf("zero cap means uncapped, got %s", room)
	}
	if room := DepositRoom(big.NewInt(100), big.NewInt(40)); room.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("room mismatch: %s", room)
	}
	if room := DepositRoom(big.NewInt(100), big.NewInt(140)); room.Sign() != 0 {
		t.Fatalf("overfunded pool floors at zero: %s", room)
	}
	if room := DepositRoom(big.NewInt(100), nil); room.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unknown funded falls back to the full cap: %s", room)
	}
}

func TestFormatAmount(t *testing.T) {
	value, _ := new(big.Int).SetString("1234500", 10)
	if got := FormatAmount(value, 6); got != "1.234500" {
		t.Fatalf("format mismatch: %s", got)
	}
	if got := FormatAmount(big.NewInt(-1234500), 6); got != "-1.234500" {
		t.Fatalf("negative format mismatch: %s", got)
	}
	if got := FormatAmount(big.NewInt(42), 0); got != "42" {
		t.Fatalf("zero-decimals format mismatch: %s", got)
	}
	if got := FormatAmount(nil, 6); got != "0" {
		t.Fatalf("nil format mismatch: %s", got)
	}
}

func TestBuildViewWithoutFigures(t *testing.T) {
	snap := &model.PoolSnapshot{
		PoolCapRaw: big.NewInt(1000000),
		FundedRaw:  big.NewInt(400000),
	}

	view := BuildView(snap, nil, "", 6)
	if view.Funded != "0.400000" {
		t.Fatalf("funded mismatch: %s", view.Funded)
	}
	if view.TokenSymbol != "" {
		t.Fatalf("unknown symbol must stay empty: %+v", view)
	}
	if view.Cap != "1.000000" {
		t.Fatalf("cap mismatch: %s", view.Cap)
	}
	if view.UserBalance != "" || view.UserAllowance != "" {
		t.Fatalf("unknown user figures must stay empty: %+v", view)
	}
	if view.CapReached {
		t.Fatalf("cap reached is unknowable without figures")
	}
}

func TestBuildViewWithFigures(t *testing.T) {
	snap := &model.PoolSnapshot{
		PoolCapRaw: big.NewInt(1000000),
		FundedRaw:  big.NewInt(400000),
	}
	figures := &model.FundingFigures{
		PoolFunded:        big.NewInt(1000000),
		UserBalance:       big.NewInt(250000),
		MaxDepositAllowed: big.NewInt(0),
	}

	view := BuildView(snap, figures, "USDC", 6)
	if view.TokenSymbol != "USDC" {
		t.Fatalf("symbol mismatch: %s", view.TokenSymbol)
	}
	if view.Funded != "1.000000" {
		t.Fatalf("funded mismatch: %s", view.Funded)
	}
	if view.UserBalance != "0.250000" {
		t.Fatalf("user balance mismatch: %s", view.UserBalance)
	}
	if view.UserAllowance != "" {
		t.Fatalf("nil allowance stays empty: %+v", view)
	}
	if !view.CapReached {
		t.Fatalf("zero room means the cap is reached")
	}
}

func TestCapReached(t *testing.T) {
	var figures *model.FundingFigures
	if figures.CapReached() {
		t.Fatalf("nil figures never report a reached cap")
	}
	if (&model.FundingFigures{}).CapReached() {
		t.Fatalf("unknown room never reports a reached cap")
	}
}
