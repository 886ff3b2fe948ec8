package lifecycle

import (
	"time"

	"poolscope/internal/model"
)

// DealTerms exposes the temporal facts shared by both deal variants so the
// classifier and resolvers run a single code path over classic and upfront
// deals.
type DealTerms interface {
	// HolderDeposited reports whether the counterparty funded the deal.
	HolderDeposited() bool
	// CreatedAt is the instant the deal was presented.
	CreatedAt() time.Time
	// FundingExpiry is the deadline for the holder deposit.
	FundingExpiry() time.Time
	// AcceptanceEnd is the instant investors can no longer accept the deal:
	// the redemption close for classic deals, the purchase window end for
	// upfront deals. ok is false while the window is not yet knowable.
	AcceptanceEnd() (end time.Time, ok bool)
	// VestingAnchor is the instant vesting is measured from.
	VestingAnchor() (anchor time.Time, ok bool)
	// VestingEnd is the instant the full vesting schedule completes.
	VestingEnd() (end time.Time, ok bool)
	// Schedule returns the vesting schedule.
	Schedule() model.VestingSchedule
}

// Terms returns the deal terms for the snapshot, nil when no deal exists.
func Terms(snap *model.PoolSnapshot) DealTerms {
	if snap == nil {
		return nil
	}
	if snap.Deal != nil {
		return classicTerms{deal: snap.Deal}
	}
	if snap.UpfrontDeal != nil {
		return upfrontTerms{deal: snap.UpfrontDeal}
	}
	return nil
}

type classicTerms struct {
	deal *model.Deal
}

func (t classicTerms) HolderDeposited() bool {
	return t.deal.HolderDeposited
}

func (t classicTerms) CreatedAt() time.Time {
	return t.deal.CreatedAt
}

func (t classicTerms) FundingExpiry() time.Time {
	return t.deal.HolderFundingExpiration
}

func (t classicTerms) AcceptanceEnd() (time.Time, bool) {
	if t.deal.Redemption == nil {
		return time.Time{}, false
	}
	return t.deal.Redemption.End, true
}

func (t classicTerms) VestingAnchor() (time.Time, bool) {
	return t.AcceptanceEnd()
}

func (t classicTerms) VestingEnd() (time.Time, bool) {
	return vestingEnd(t.deal.Vesting, t.VestingAnchor)
}

func (t classicTerms) Schedule() model.VestingSchedule {
	return t.deal.Vesting
}

type upfrontTerms struct {
	deal *model.UpfrontDeal
}

func (t upfrontTerms) HolderDeposited() bool {
	return t.deal.HolderDeposited
}

func (t upfrontTerms) CreatedAt() time.Time {
	return t.deal.CreatedAt
}

func (t upfrontTerms) FundingExpiry() time.Time {
	return t.deal.HolderFundingExpiration
}

func (t upfrontTerms) AcceptanceEnd() (time.Time, bool) {
	if t.deal.AcceptanceExpiry.IsZero() {
		return time.Time{}, false
	}
	return t.deal.AcceptanceExpiry, true
}

func (t upfrontTerms) VestingAnchor() (time.Time, bool) {
	if t.deal.DealStart == nil {
		return time.Time{}, false
	}
	return *t.deal.DealStart, true
}

func (t upfrontTerms) VestingEnd() (time.Time, bool) {
	return vestingEnd(t.deal.Vesting, t.VestingAnchor)
}

func (t upfrontTerms) Schedule() model.VestingSchedule {
	return t.deal.Vesting
}

func vestingEnd(sched model.VestingSchedule, anchorFn func() (time.Time, bool)) (time.Time, bool) {
	if !sched.End.IsZero() {
		return sched.End, true
	}
	anchor, ok := anchorFn()
	if !ok {
		return time.Time{}, false
	}
	return anchor.Add(sched.CliffDuration + sched.VestingDuration), true
}
