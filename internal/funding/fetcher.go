// Package funding aggregates on-chain balances and allowances into the
// figures the action resolver and the status output consume. It degrades to
// explicit unknown markers instead of failing: a pool's stage and timeline
// never depend on this package being healthy.
package funding

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolscope/internal/chain"
	"poolscope/internal/erc20"
	"poolscope/internal/model"
)

// Fetcher collects funding figures for a pool via ERC20 calls.
type Fetcher struct {
	chain  *chain.Client
	logger *zap.Logger
}

// NewFetcher builds a Fetcher. The logger may be nil.
func NewFetcher(chainClient *chain.Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{chain: chainClient, logger: logger}
}

// Collect gathers funding figures for the snapshot and an optional wallet.
// Individual call failures leave the corresponding figure nil (unknown);
// only a completely unusable setup returns an error.
func (f *Fetcher) Collect(ctx context.Context, snap *model.PoolSnapshot, wallet string) *model.FundingFigures {
	figures := &model.FundingFigures{
		PoolFunded:        snap.FundedRaw,
		MaxDepositAllowed: DepositRoom(snap.PoolCapRaw, snap.FundedRaw),
	}

	if f.chain == nil || !common.IsHexAddress(snap.PurchaseToken) {
		return figures
	}
	token := common.HexToAddress(snap.PurchaseToken)

	if common.IsHexAddress(snap.Address) {
		pool := common.HexToAddress(snap.Address)
		if balance, err := erc20.BalanceOf(ctx, f.chain, token, pool); err == nil {
			figures.PoolFunded = balance
			figures.MaxDepositAllowed = DepositRoom(snap.PoolCapRaw, balance)
		} else {
			f.logger.Warn("pool balance fetch failed", zap.String("pool", snap.Address), zap.Error(err))
		}

		if common.IsHexAddress(wallet) {
			owner := common.HexToAddress(wallet)
			if balance, err := erc20.BalanceOf(ctx, f.chain, token, owner); err == nil {
				figures.UserBalance = balance
			} else {
				f.logger.Warn("user balance fetch failed", zap.String("wallet", wallet), zap.Error(err))
			}
			if allowance, err := erc20.Allowance(ctx, f.chain, token, owner, pool); err == nil {
				figures.UserAllowance = allowance
			} else {
				f.logger.Warn("user allowance fetch failed", zap.String("wallet", wallet), zap.Error(err))
			}
		}
	}

	return figures
}

// DepositRoom returns cap minus funded, floored at zero. A nil or zero cap
// means uncapped and yields nil (no limit to report).
func DepositRoom(cap, funded *big.Int) *big.Int {
	if cap == nil || cap.Sign() == 0 {
		return nil
	}
	if funded == nil {
		return new(big.Int).Set(cap)
	}
	room := new(big.Int).Sub(cap, funded)
	if room.Sign() < 0 {
		room.SetInt64(0)
	}
	return room
}
