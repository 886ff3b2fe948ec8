package lifecycle

import (
	"sort"
	"time"

	"poolscope/internal/model"
)

// Action is a pool action a caller may currently take. The set is a
// business-rule gate for the presentation layer, not a security boundary:
// executing an action still requires the matching on-chain permission.
type Action string

const (
	ActionInvest       Action = "invest"
	ActionCreateDeal   Action = "create_deal"
	ActionAwaitingDeal Action = "awaiting_deal"
	ActionFundDeal     Action = "fund_deal"
	ActionAcceptDeal   Action = "accept_deal"
	ActionWithdraw     Action = "withdraw"
	ActionClaim        Action = "claim"
)

// ActionSet is a deduplicated set of actions.
type ActionSet map[Action]struct{}

func (s ActionSet) add(action Action) {
	s[action] = struct{}{}
}

// Has reports whether the action is in the set.
func (s ActionSet) Has(action Action) bool {
	_, ok := s[action]
	return ok
}

// Sorted returns the actions as sorted strings for stable output.
func (s ActionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for action := range s {
		out = append(out, string(action))
	}
	sort.Strings(out)
	return out
}

// Resolution is the resolved action set. Undetermined holds actions whose
// balance-dependent refinement could not be checked because the funding
// aggregator was unavailable; they stay in Actions on stage grounds alone.
type Resolution struct {
	Actions      ActionSet
	Undetermined ActionSet
}

// ResolveActions computes the permitted actions for a role at a stage.
// figures may be nil when the funding aggregator is unavailable; stage-only
// actions still resolve and cap-dependent ones are marked undetermined.
func ResolveActions(role Role, stage Stage, snap *model.PoolSnapshot, now time.Time, figures *model.FundingFigures) Resolution {
	res := Resolution{
		Actions:      make(ActionSet),
		Undetermined: make(ActionSet),
	}

	switch stage {
	case StageFunding:
		resolveFunding(&res, snap, figures)
	case StageSeekingDeal:
		resolveSeekingDeal(&res, role, snap, now)
	case StageDealPresented:
		resolveDealPresented(&res, snap, now)
	case StageVesting, StageClosed:
		res.Actions.add(ActionWithdraw)
		resolveClaims(&res, role, snap)
	}

	return res
}

func resolveFunding(res *Resolution, snap *model.PoolSnapshot, figures *model.FundingFigures) {
	uncapped := snap.PoolCapRaw == nil || snap.PoolCapRaw.Sign() == 0
	switch {
	case uncapped:
		res.Actions.add(ActionInvest)
	case figures == nil:
		// Aggregator unavailable: invest on stage grounds, flag the cap check.
		res.Actions.add(ActionInvest)
		res.Undetermined.add(ActionInvest)
	case !figures.CapReached():
		res.Actions.add(ActionInvest)
	}
}

func resolveSeekingDeal(res *Resolution, role Role, snap *model.PoolSnapshot, now time.Time) {
	terms := Terms(snap)
	if terms == nil {
		res.Actions.add(ActionAwaitingDeal)
		if role == RoleSponsor {
			res.Actions.add(ActionCreateDeal)
		}
	} else if role == RoleHolder && !terms.HolderDeposited() {
		res.Actions.add(ActionFundDeal)
	}
	if !now.Before(snap.DealDeadline) {
		res.Actions.add(ActionWithdraw)
	}
}

func resolveDealPresented(res *Resolution, snap *model.PoolSnapshot, now time.Time) {
	terms := Terms(snap)
	if terms == nil {
		return
	}
	if end, ok := terms.AcceptanceEnd(); ok && now.Before(end) {
		res.Actions.add(ActionAcceptDeal)
	}
	// Excess or declined amounts become withdrawable once the holder funded.
	if terms.HolderDeposited() || !now.Before(terms.FundingExpiry()) {
		res.Actions.add(ActionWithdraw)
	}
}

func resolveClaims(res *Resolution, role Role, snap *model.PoolSnapshot) {
	upfront := snap.UpfrontDeal
	if upfront == nil || !upfront.HolderDeposited {
		return
	}
	if role == RoleSponsor && !upfront.SponsorClaim {
		res.Actions.add(ActionClaim)
	}
	if role == RoleHolder && !upfront.HolderClaim {
		res.Actions.add(ActionClaim)
	}
}
