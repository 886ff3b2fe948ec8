package model

import (
	"math/big"
	"time"
)

// PoolSnapshot is the decoded, validated view of one pool and its optional deal.
// It is built once per refresh and never mutated; every derivation reads it as-is.
type PoolSnapshot struct {
	ChainID       uint64
	Address       string
	Sponsor       string
	PurchaseToken string

	Start          time.Time
	PurchaseExpiry time.Time
	DealDeadline   time.Time

	PoolCapRaw *big.Int // zero means uncapped
	FundedRaw  *big.Int

	DealAddress string // empty until a deal is presented
	Deal        *Deal
	UpfrontDeal *UpfrontDeal
}

// HasDeal reports whether either deal variant has been presented.
func (s *PoolSnapshot) HasDeal() bool {
	return s.Deal != nil || s.UpfrontDeal != nil
}

// HolderAddress returns the deal counterparty address, empty when no deal exists.
func (s *PoolSnapshot) HolderAddress() string {
	if s.Deal != nil {
		return s.Deal.HolderAddress
	}
	if s.UpfrontDeal != nil {
		return s.UpfrontDeal.HolderAddress
	}
	return ""
}

// Deal is the classic deal variant with a two-round redemption.
type Deal struct {
	HolderAddress           string
	HolderDeposited         bool
	HolderFundingExpiration time.Time
	CreatedAt               time.Time
	FundedAt                *time.Time // set once HolderDeposited, append-only fact
	HasOpenPeriod           bool
	Redemption              *RedemptionWindow // nil until the deal is created on-chain
	Vesting                 VestingSchedule
}

// RedemptionWindow describes the pro-rata and optional open redemption rounds.
type RedemptionWindow struct {
	Round        int // 1 = pro-rata, 2 = open
	ProRataStart time.Time
	ProRataEnd   time.Time
	OpenEnd      time.Time // meaningful only when the deal has an open period
	End          time.Time // overall redemption close
}

// VestingSchedule holds the cliff and linear vesting windows.
// Ends may be zero when only durations are known; consumers derive them from
// the variant's vesting anchor in that case.
type VestingSchedule struct {
	CliffEnd        time.Time
	CliffDuration   time.Duration
	VestingEnd      time.Time
	VestingDuration time.Duration
	End             time.Time
}

// UpfrontDeal is the deal variant without redemption rounds; acceptance happens
// in its own purchase window and vesting anchors at the deal start.
type UpfrontDeal struct {
	HolderAddress           string
	HolderDeposited         bool
	HolderFundingExpiration time.Time
	CreatedAt               time.Time
	DealStart               *time.Time // set once the holder deposit activates the deal
	AcceptanceExpiry        time.Time
	Vesting                 VestingSchedule
	SponsorClaim            bool // one-shot claim flags
	HolderClaim             bool
}
