package lifecycle

import (
	"time"

	"poolscope/internal/model"
)

// Step names one entry of the pool progress timeline.
type Step string

const (
	StepPoolCreation      Step = "pool_creation"
	StepInvestmentWindow  Step = "investment_window"
	StepDealCreation      Step = "deal_creation"
	StepDealWindow        Step = "deal_window"
	StepProRataRedemption Step = "pro_rata_redemption"
	StepOpenRedemption    Step = "open_redemption"
	StepVestingCliff      Step = "vesting_cliff"
	StepVestingPeriod     Step = "vesting_period"
)

// Steps lists every timeline step in display order.
var Steps = []Step{
	StepPoolCreation,
	StepInvestmentWindow,
	StepDealCreation,
	StepDealWindow,
	StepProRataRedemption,
	StepOpenRedemption,
	StepVestingCliff,
	StepVestingPeriod,
}

// StepView is one timeline entry. DeadlineProgress is clamped to [0,100];
// a step whose window is not yet knowable reports IsDefined=false instead
// of guessing.
type StepView struct {
	IsDefined        bool    `json:"is_defined"`
	Active           bool    `json:"active"`
	IsDone           bool    `json:"is_done"`
	Value            string  `json:"value,omitempty"`
	Deadline         string  `json:"deadline,omitempty"`
	DeadlineProgress float64 `json:"deadline_progress"`
}

const deadlineLayout = "Jan 2, 2006 15:04 UTC"

// BuildTimeline computes every timeline step from the snapshot at the given
// instant. It does not consult the stage classifier; the two views are
// derived independently from the same temporal windows.
func BuildTimeline(snap *model.PoolSnapshot, now time.Time) map[Step]StepView {
	views := map[Step]StepView{
		StepPoolCreation: {
			IsDefined: true,
			IsDone:    true,
			Value:     snap.Start.UTC().Format(deadlineLayout),
		},
	}

	views[StepInvestmentWindow] = investmentWindow(snap, now)
	views[StepDealCreation] = dealCreation(snap, now)

	terms := Terms(snap)
	views[StepDealWindow] = dealWindow(terms, now)
	views[StepProRataRedemption] = proRataRedemption(snap.Deal, now)
	views[StepOpenRedemption] = openRedemption(snap.Deal, now)
	views[StepVestingCliff] = vestingCliff(terms, now)
	views[StepVestingPeriod] = vestingPeriod(terms, now)

	return views
}

func investmentWindow(snap *model.PoolSnapshot, now time.Time) StepView {
	progress, ok := windowProgress(snap.Start, snap.PurchaseExpiry, now)
	if !ok {
		return StepView{}
	}
	done := !now.Before(snap.PurchaseExpiry)
	return StepView{
		IsDefined:        true,
		Active:           !done,
		IsDone:           done,
		Deadline:         deadlineLabel(snap.PurchaseExpiry, now),
		DeadlineProgress: progress,
	}
}

func dealCreation(snap *model.PoolSnapshot, now time.Time) StepView {
	done := snap.DealAddress != "" || snap.HasDeal()
	view := StepView{
		IsDefined: true,
		Active:    !done && !now.Before(snap.PurchaseExpiry),
		IsDone:    done,
		Value:     snap.DealAddress,
		Deadline:  deadlineLabel(snap.DealDeadline, now),
	}
	if done {
		view.DeadlineProgress = 100
	}
	return view
}

func dealWindow(terms DealTerms, now time.Time) StepView {
	if terms == nil {
		return StepView{}
	}
	if terms.HolderDeposited() {
		return StepView{
			IsDefined:        true,
			IsDone:           true,
			Deadline:         deadlineLabel(terms.FundingExpiry(), now),
			DeadlineProgress: 100,
		}
	}
	progress, ok := windowProgress(terms.CreatedAt(), terms.FundingExpiry(), now)
	if !ok {
		return StepView{}
	}
	return StepView{
		IsDefined:        true,
		Active:           true,
		Deadline:         deadlineLabel(terms.FundingExpiry(), now),
		DeadlineProgress: progress,
	}
}

func proRataRedemption(deal *model.Deal, now time.Time) StepView {
	if deal == nil || deal.Redemption == nil {
		return StepView{}
	}
	progress, ok := windowProgress(deal.Redemption.ProRataStart, deal.Redemption.ProRataEnd, now)
	if !ok {
		return StepView{}
	}
	past := !now.Before(deal.Redemption.ProRataEnd)
	return StepView{
		IsDefined:        true,
		Active:           deal.HolderDeposited && !past,
		IsDone:           deal.HolderDeposited && past,
		Deadline:         deadlineLabel(deal.Redemption.ProRataEnd, now),
		DeadlineProgress: progress,
	}
}

func openRedemption(deal *model.Deal, now time.Time) StepView {
	if deal == nil || !deal.HasOpenPeriod || deal.Redemption == nil {
		return StepView{}
	}
	progress, ok := windowProgress(deal.Redemption.ProRataEnd, deal.Redemption.OpenEnd, now)
	if !ok {
		return StepView{}
	}
	past := !now.Before(deal.Redemption.OpenEnd)
	return StepView{
		IsDefined:        true,
		Active:           deal.HolderDeposited && !past,
		IsDone:           deal.HolderDeposited && past,
		Deadline:         deadlineLabel(deal.Redemption.OpenEnd, now),
		DeadlineProgress: progress,
	}
}

func vestingCliff(terms DealTerms, now time.Time) StepView {
	if terms == nil {
		return StepView{}
	}
	anchor, ok := terms.VestingAnchor()
	if !ok {
		return StepView{}
	}
	return spanView(anchor, terms.Schedule().CliffDuration, now)
}

func vestingPeriod(terms DealTerms, now time.Time) StepView {
	if terms == nil {
		return StepView{}
	}
	anchor, ok := terms.VestingAnchor()
	if !ok {
		return StepView{}
	}
	sched := terms.Schedule()
	return spanView(anchor.Add(sched.CliffDuration), sched.VestingDuration, now)
}

// spanView renders a window of the given duration starting at lower.
func spanView(lower time.Time, span time.Duration, now time.Time) StepView {
	upper := lower.Add(span)
	progress, ok := windowProgress(lower, upper, now)
	if !ok {
		return StepView{}
	}
	done := !now.Before(upper)
	return StepView{
		IsDefined:        true,
		Active:           !done && !now.Before(lower),
		IsDone:           done,
		Deadline:         deadlineLabel(upper, now),
		DeadlineProgress: progress,
	}
}

// windowProgress returns the elapsed share of [start, end] as a value in
// [0,100]. ok is false when the window has a non-positive span.
func windowProgress(start, end, now time.Time) (float64, bool) {
	total := end.Sub(start)
	if total <= 0 {
		return 0, false
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0, true
	}
	if elapsed >= total {
		return 100, true
	}
	return float64(elapsed) / float64(total) * 100, true
}

func deadlineLabel(end, now time.Time) string {
	if now.Before(end) {
		return "Ends " + end.UTC().Format(deadlineLayout)
	}
	return "Ended " + end.UTC().Format(deadlineLayout)
}
