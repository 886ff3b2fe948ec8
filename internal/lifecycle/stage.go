// Package lifecycle derives a pool's lifecycle stage, timeline, user role, and
// permitted actions from a snapshot and an explicit instant. Every function in
// this package is pure: same snapshot and same instant give the same result,
// with no clock reads and no side effects.
package lifecycle

import (
	"time"

	"poolscope/internal/model"
)

// Stage is a pool lifecycle stage. The machine is strictly forward-only:
// Funding -> SeekingDeal -> DealPresented -> Vesting -> Closed.
type Stage string

const (
	StageFunding       Stage = "funding"
	StageSeekingDeal   Stage = "seeking_deal"
	StageDealPresented Stage = "deal_presented"
	StageVesting       Stage = "vesting"
	StageClosed        Stage = "closed"
)

// StageOrder lists every stage in lifecycle order.
var StageOrder = []Stage{StageFunding, StageSeekingDeal, StageDealPresented, StageVesting, StageClosed}

// Status is the classified stage plus the ordered history of stages passed.
// History is monotonically nested: reaching a stage implies every earlier
// stage is present, with Funding always the root.
type Status struct {
	Current Stage
	History []Stage
}

// Classify computes the pool's current stage and stage history at the given
// instant. Comparisons are strict "before": equality at a boundary advances
// the machine.
func Classify(snap *model.PoolSnapshot, now time.Time) Status {
	history := []Stage{StageFunding}
	if now.Before(snap.PurchaseExpiry) {
		return Status{Current: StageFunding, History: history}
	}

	history = append(history, StageSeekingDeal)
	terms := Terms(snap)
	if terms == nil || !terms.HolderDeposited() {
		return Status{Current: StageSeekingDeal, History: history}
	}

	acceptEnd, ok := terms.AcceptanceEnd()
	if !ok {
		// Deal funded but the acceptance window is not on-chain yet.
		return Status{Current: StageSeekingDeal, History: history}
	}

	history = append(history, StageDealPresented)
	if now.Before(acceptEnd) {
		return Status{Current: StageDealPresented, History: history}
	}

	if vestEnd, ok := terms.VestingEnd(); ok {
		history = append(history, StageVesting)
		if now.Before(vestEnd) {
			return Status{Current: StageVesting, History: history}
		}
	}

	history = append(history, StageClosed)
	return Status{Current: StageClosed, History: history}
}

// HistoryStrings converts the stage history for storage.
func (s Status) HistoryStrings() []string {
	out := make([]string, 0, len(s.History))
	for _, stage := range s.History {
		out = append(out, string(stage))
	}
	return out
}
