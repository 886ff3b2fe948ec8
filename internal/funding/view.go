package funding

import (
	"math/big"

	"poolscope/internal/model"
)

// View is a display-ready summary of pool funding built from a snapshot and
// the fetched figures. Empty strings mark figures that are unknown.
type View struct {
	TokenSymbol   string `json:"token_symbol,omitempty"`
	Funded        string `json:"funded"`
	Cap           string `json:"cap,omitempty"`
	DepositRoom   string `json:"deposit_room,omitempty"`
	UserBalance   string `json:"user_balance,omitempty"`
	UserAllowance string `json:"user_allowance,omitempty"`
	CapReached    bool   `json:"cap_reached"`
}

// BuildView renders funding figures with the given token symbol and decimals.
// symbol may be empty when the token metadata could not be fetched.
func BuildView(snap *model.PoolSnapshot, figures *model.FundingFigures, symbol string, decimals uint8) View {
	view := View{TokenSymbol: symbol}
	if snap.PoolCapRaw != nil && snap.PoolCapRaw.Sign() > 0 {
		view.Cap = FormatAmount(snap.PoolCapRaw, decimals)
	}
	if figures == nil {
		view.Funded = FormatAmount(snap.FundedRaw, decimals)
		return view
	}
	view.Funded = FormatAmount(figures.PoolFunded, decimals)
	if figures.MaxDepositAllowed != nil {
		view.DepositRoom = FormatAmount(figures.MaxDepositAllowed, decimals)
	}
	if figures.UserBalance != nil {
		view.UserBalance = FormatAmount(figures.UserBalance, decimals)
	}
	if figures.UserAllowance != nil {
		view.UserAllowance = FormatAmount(figures.UserAllowance, decimals)
	}
	view.CapReached = figures.CapReached()
	return view
}

// FormatAmount renders a raw token amount as a decimal string.
func FormatAmount(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	if sign < 0 {
		return "-" + text
	}
	return text
}
