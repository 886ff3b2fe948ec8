package model

import (
	"fmt"
	"math/big"
	"time"
)

// PoolRecord is the wire form of a pool snapshot as produced by the fetch layer.
// Timestamps are unix milliseconds; zero means absent. Raw amounts are decimal
// strings so amounts above 2^63 survive JSON round-trips.
type PoolRecord struct {
	ChainID          uint64             `json:"chain_id"`
	Address          string             `json:"address"`
	Sponsor          string             `json:"sponsor"`
	PurchaseToken    string             `json:"purchase_token,omitempty"`
	StartMs          int64              `json:"start_ms"`
	PurchaseExpiryMs int64              `json:"purchase_expiry_ms"`
	DealDeadlineMs   int64              `json:"deal_deadline_ms"`
	PoolCapRaw       string             `json:"pool_cap_raw,omitempty"`
	FundedRaw        string             `json:"funded_raw,omitempty"`
	DealAddress      string             `json:"deal_address,omitempty"`
	Deal             *DealRecord        `json:"deal,omitempty"`
	UpfrontDeal      *UpfrontDealRecord `json:"upfront_deal,omitempty"`
}

// DealRecord is the wire form of the classic deal variant.
type DealRecord struct {
	HolderAddress           string            `json:"holder_address"`
	HolderDeposited         bool              `json:"holder_deposited"`
	HolderFundingExpiryMs   int64             `json:"holder_funding_expiry_ms"`
	CreatedAtMs             int64             `json:"created_at_ms"`
	FundedAtMs              int64             `json:"funded_at_ms,omitempty"`
	HasOpenPeriod           bool              `json:"has_open_period"`
	Redemption              *RedemptionRecord `json:"redemption,omitempty"`
	Vesting                 VestingRecord     `json:"vesting"`
}

// RedemptionRecord is the wire form of the redemption rounds.
type RedemptionRecord struct {
	Round          int   `json:"round"`
	ProRataStartMs int64 `json:"pro_rata_start_ms"`
	ProRataEndMs   int64 `json:"pro_rata_end_ms"`
	OpenEndMs      int64 `json:"open_end_ms,omitempty"`
	EndMs          int64 `json:"end_ms"`
}

// VestingRecord is the wire form of the vesting schedule.
type VestingRecord struct {
	CliffEndMs        int64 `json:"cliff_end_ms,omitempty"`
	CliffDurationMs   int64 `json:"cliff_duration_ms"`
	VestingEndMs      int64 `json:"vesting_end_ms,omitempty"`
	VestingDurationMs int64 `json:"vesting_duration_ms"`
	EndMs             int64 `json:"end_ms,omitempty"`
}

// UpfrontDealRecord is the wire form of the upfront deal variant.
type UpfrontDealRecord struct {
	HolderAddress         string        `json:"holder_address"`
	HolderDeposited       bool          `json:"holder_deposited"`
	HolderFundingExpiryMs int64         `json:"holder_funding_expiry_ms"`
	CreatedAtMs           int64         `json:"created_at_ms"`
	DealStartMs           int64         `json:"deal_start_ms,omitempty"`
	AcceptanceExpiryMs    int64         `json:"acceptance_expiry_ms"`
	Vesting               VestingRecord `json:"vesting"`
	SponsorClaim          bool          `json:"sponsor_claim"`
	HolderClaim           bool          `json:"holder_claim"`
}

// ValidationError reports a malformed pool record rejected at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid pool record: %s: %s", e.Field, e.Reason)
}

// Snapshot validates the record and decodes it into a PoolSnapshot.
// The derivation functions assume this has run; they never re-validate.
func (r PoolRecord) Snapshot() (*PoolSnapshot, error) {
	if r.Address == "" {
		return nil, &ValidationError{Field: "address", Reason: "required"}
	}
	if r.StartMs <= 0 {
		return nil, &ValidationError{Field: "start_ms", Reason: "required"}
	}
	if r.PurchaseExpiryMs <= 0 {
		return nil, &ValidationError{Field: "purchase_expiry_ms", Reason: "required"}
	}
	if r.DealDeadlineMs <= 0 {
		return nil, &ValidationError{Field: "deal_deadline_ms", Reason: "required"}
	}
	if r.Deal != nil && r.UpfrontDeal != nil {
		return nil, &ValidationError{Field: "deal", Reason: "classic and upfront deal are mutually exclusive"}
	}

	poolCap, err := parseRawAmount(r.PoolCapRaw)
	if err != nil {
		return nil, &ValidationError{Field: "pool_cap_raw", Reason: err.Error()}
	}
	funded, err := parseRawAmount(r.FundedRaw)
	if err != nil {
		return nil, &ValidationError{Field: "funded_raw", Reason: err.Error()}
	}

	snap := &PoolSnapshot{
		ChainID:        r.ChainID,
		Address:        r.Address,
		Sponsor:        r.Sponsor,
		PurchaseToken:  r.PurchaseToken,
		Start:          time.UnixMilli(r.StartMs),
		PurchaseExpiry: time.UnixMilli(r.PurchaseExpiryMs),
		DealDeadline:   time.UnixMilli(r.DealDeadlineMs),
		PoolCapRaw:     poolCap,
		FundedRaw:      funded,
		DealAddress:    r.DealAddress,
	}

	if r.Deal != nil {
		deal := &Deal{
			HolderAddress:           r.Deal.HolderAddress,
			HolderDeposited:         r.Deal.HolderDeposited,
			HolderFundingExpiration: time.UnixMilli(r.Deal.HolderFundingExpiryMs),
			CreatedAt:               time.UnixMilli(r.Deal.CreatedAtMs),
			HasOpenPeriod:           r.Deal.HasOpenPeriod,
			Vesting:                 r.Deal.Vesting.schedule(),
		}
		if r.Deal.FundedAtMs > 0 {
			fundedAt := time.UnixMilli(r.Deal.FundedAtMs)
			deal.FundedAt = &fundedAt
		}
		if r.Deal.Redemption != nil {
			deal.Redemption = &RedemptionWindow{
				Round:        r.Deal.Redemption.Round,
				ProRataStart: time.UnixMilli(r.Deal.Redemption.ProRataStartMs),
				ProRataEnd:   time.UnixMilli(r.Deal.Redemption.ProRataEndMs),
				OpenEnd:      time.UnixMilli(r.Deal.Redemption.OpenEndMs),
				End:          time.UnixMilli(r.Deal.Redemption.EndMs),
			}
		}
		snap.Deal = deal
	}

	if r.UpfrontDeal != nil {
		upfront := &UpfrontDeal{
			HolderAddress:           r.UpfrontDeal.HolderAddress,
			HolderDeposited:         r.UpfrontDeal.HolderDeposited,
			HolderFundingExpiration: time.UnixMilli(r.UpfrontDeal.HolderFundingExpiryMs),
			CreatedAt:               time.UnixMilli(r.UpfrontDeal.CreatedAtMs),
			AcceptanceExpiry:        time.UnixMilli(r.UpfrontDeal.AcceptanceExpiryMs),
			Vesting:                 r.UpfrontDeal.Vesting.schedule(),
			SponsorClaim:            r.UpfrontDeal.SponsorClaim,
			HolderClaim:             r.UpfrontDeal.HolderClaim,
		}
		if r.UpfrontDeal.DealStartMs > 0 {
			start := time.UnixMilli(r.UpfrontDeal.DealStartMs)
			upfront.DealStart = &start
		}
		snap.UpfrontDeal = upfront
	}

	return snap, nil
}

func (v VestingRecord) schedule() VestingSchedule {
	sched := VestingSchedule{
		CliffDuration:   time.Duration(v.CliffDurationMs) * time.Millisecond,
		VestingDuration: time.Duration(v.VestingDurationMs) * time.Millisecond,
	}
	if v.CliffEndMs > 0 {
		sched.CliffEnd = time.UnixMilli(v.CliffEndMs)
	}
	if v.VestingEndMs > 0 {
		sched.VestingEnd = time.UnixMilli(v.VestingEndMs)
	}
	if v.EndMs > 0 {
		sched.End = time.UnixMilli(v.EndMs)
	}
	return sched
}

func parseRawAmount(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}
