package lifecycle

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"poolscope/internal/model"
)

// Role classifies the connected wallet relative to a pool.
type Role string

const (
	RoleVisitor  Role = "visitor"
	RoleSponsor  Role = "sponsor"
	RoleHolder   Role = "holder"
	RoleInvestor Role = "investor"
)

// ResolveRole maps a wallet address to its role for the pool. The sponsor
// check takes priority: a sponsor who is also the deal holder is a sponsor.
func ResolveRole(wallet string, snap *model.PoolSnapshot) Role {
	if strings.TrimSpace(wallet) == "" {
		return RoleVisitor
	}
	if sameAddress(wallet, snap.Sponsor) {
		return RoleSponsor
	}
	if sameAddress(wallet, snap.HolderAddress()) {
		return RoleHolder
	}
	return RoleInvestor
}

// sameAddress compares two addresses case-insensitively, via checksum
// normalization when both are hex addresses.
func sameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if common.IsHexAddress(a) && common.IsHexAddress(b) {
		return common.HexToAddress(a) == common.HexToAddress(b)
	}
	return strings.EqualFold(a, b)
}
