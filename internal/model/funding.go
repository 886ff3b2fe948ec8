package model

import "math/big"

// FundingFigures are the externally aggregated balance facts consulted by the
// action resolver for threshold checks. A nil field means that figure could
// not be fetched; consumers treat it as unknown rather than zero.
type FundingFigures struct {
	PoolFunded        *big.Int
	UserBalance       *big.Int
	UserAllowance     *big.Int
	MaxDepositAllowed *big.Int // nil when the pool is uncapped or the cap is unknown
}

// CapReached reports whether the pool cap is known to be filled.
func (f *FundingFigures) CapReached() bool {
	if f == nil || f.MaxDepositAllowed == nil {
		return false
	}
	return f.MaxDepositAllowed.Sign() <= 0
}
