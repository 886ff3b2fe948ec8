package lifecycle

import (
	"math/big"
	"testing"

	"poolscope/internal/model"
)

func TestResolveActionsFunding(t *testing.T) {
	pool := basePool()

	res := ResolveActions(RoleInvestor, StageFunding, pool, ms(500), nil)
	if !res.Actions.Has(ActionInvest) {
		t.Fatalf("funding stage must offer invest: %v", res.Actions.Sorted())
	}
	if len(res.Actions) != 1 {
		t.Fatalf("funding stage offers invest only: %v", res.Actions.Sorted())
	}
	if len(res.Undetermined) != 0 {
		t.Fatalf("uncapped pool has nothing undetermined: %v", res.Undetermined.Sorted())
	}
}

func TestResolveActionsFundingCapChecks(t *testing.T) {
	pool := basePool()
	pool.PoolCapRaw = big.NewInt(1000)
	pool.FundedRaw = big.NewInt(400)

	// Aggregator unavailable: invest stays, cap check flagged as undetermined.
	unavailable := ResolveActions(RoleInvestor, StageFunding, pool, ms(500), nil)
	if !unavailable.Actions.Has(ActionInvest) || !unavailable.Undetermined.Has(ActionInvest) {
		t.Fatalf("unavailable aggregator must keep invest and flag it: %+v", unavailable)
	}

	open := ResolveActions(RoleInvestor, StageFunding, pool, ms(500), &model.FundingFigures{
		MaxDepositAllowed: big.NewInt(600),
	})
	if !open.Actions.Has(ActionInvest) || len(open.Undetermined) != 0 {
		t.Fatalf("open cap must offer invest: %+v", open)
	}

	full := ResolveActions(RoleInvestor, StageFunding, pool, ms(500), &model.FundingFigures{
		MaxDepositAllowed: big.NewInt(0),
	})
	if full.Actions.Has(ActionInvest) {
		t.Fatalf("reached cap must not offer invest: %v", full.Actions.Sorted())
	}
}

func TestResolveActionsSeekingDeal(t *testing.T) {
	pool := basePool()

	investor := ResolveActions(RoleInvestor, StageSeekingDeal, pool, ms(1500), nil)
	if !investor.Actions.Has(ActionAwaitingDeal) {
		t.Fatalf("no deal yet means awaiting: %v", investor.Actions.Sorted())
	}
	if investor.Actions.Has(ActionCreateDeal) {
		t.Fatalf("only the sponsor may create a deal: %v", investor.Actions.Sorted())
	}
	if investor.Actions.Has(ActionWithdraw) {
		t.Fatalf("withdraw opens at the deal deadline: %v", investor.Actions.Sorted())
	}

	sponsor := ResolveActions(RoleSponsor, StageSeekingDeal, pool, ms(1500), nil)
	if !sponsor.Actions.Has(ActionCreateDeal) || !sponsor.Actions.Has(ActionAwaitingDeal) {
		t.Fatalf("sponsor actions mismatch: %v", sponsor.Actions.Sorted())
	}

	expired := ResolveActions(RoleSponsor, StageSeekingDeal, pool, ms(6000), nil)
	if !expired.Actions.Has(ActionWithdraw) {
		t.Fatalf("past deal deadline must offer withdraw: %v", expired.Actions.Sorted())
	}
}

func TestResolveActionsFundDeal(t *testing.T) {
	pool := basePool()
	pool.Deal = &model.Deal{
		HolderAddress:           "0x4444444444444444444444444444444444444444",
		HolderFundingExpiration: ms(7000),
		CreatedAt:               ms(6000),
	}

	holder := ResolveActions(RoleHolder, StageSeekingDeal, pool, ms(6500), nil)
	if !holder.Actions.Has(ActionFundDeal) {
		t.Fatalf("holder must see fund deal: %v", holder.Actions.Sorted())
	}
	if holder.Actions.Has(ActionAwaitingDeal) {
		t.Fatalf("a presented deal is not awaited: %v", holder.Actions.Sorted())
	}

	investor := ResolveActions(RoleInvestor, StageSeekingDeal, pool, ms(6500), nil)
	if investor.Actions.Has(ActionFundDeal) {
		t.Fatalf("only the holder funds the deal: %v", investor.Actions.Sorted())
	}
}

func TestResolveActionsDealPresented(t *testing.T) {
	pool := fundedDealPool()

	res := ResolveActions(RoleInvestor, StageDealPresented, pool, ms(7500), nil)
	if !res.Actions.Has(ActionAcceptDeal) {
		t.Fatalf("open redemption must offer accept: %v", res.Actions.Sorted())
	}
	if !res.Actions.Has(ActionWithdraw) {
		t.Fatalf("funded deal always offers withdraw: %v", res.Actions.Sorted())
	}

	closedWindow := ResolveActions(RoleInvestor, StageDealPresented, pool, ms(8000), nil)
	if closedWindow.Actions.Has(ActionAcceptDeal) {
		t.Fatalf("accept must close at redemption end: %v", closedWindow.Actions.Sorted())
	}
}

func TestResolveActionsVestingAndClosed(t *testing.T) {
	pool := fundedDealPool()

	for _, stage := range []Stage{StageVesting, StageClosed} {
		res := ResolveActions(RoleInvestor, stage, pool, ms(9000), nil)
		if !res.Actions.Has(ActionWithdraw) || len(res.Actions) != 1 {
			t.Fatalf("stage %s actions mismatch: %v", stage, res.Actions.Sorted())
		}
	}
}

func TestResolveActionsUpfrontClaims(t *testing.T) {
	pool := basePool()
	dealStart := ms(6000)
	pool.UpfrontDeal = &model.UpfrontDeal{
		HolderAddress:           "0x4444444444444444444444444444444444444444",
		HolderDeposited:         true,
		HolderFundingExpiration: ms(6000),
		CreatedAt:               ms(5500),
		DealStart:               &dealStart,
		AcceptanceExpiry:        ms(8000),
	}

	sponsor := ResolveActions(RoleSponsor, StageClosed, pool, ms(10000), nil)
	if !sponsor.Actions.Has(ActionClaim) {
		t.Fatalf("unclaimed sponsor must see claim: %v", sponsor.Actions.Sorted())
	}

	pool.UpfrontDeal.SponsorClaim = true
	claimed := ResolveActions(RoleSponsor, StageClosed, pool, ms(10000), nil)
	if claimed.Actions.Has(ActionClaim) {
		t.Fatalf("claim is one-shot: %v", claimed.Actions.Sorted())
	}

	holder := ResolveActions(RoleHolder, StageClosed, pool, ms(10000), nil)
	if !holder.Actions.Has(ActionClaim) {
		t.Fatalf("unclaimed holder must see claim: %v", holder.Actions.Sorted())
	}

	investor := ResolveActions(RoleInvestor, StageClosed, pool, ms(10000), nil)
	if investor.Actions.Has(ActionClaim) {
		t.Fatalf("investors have no one-shot claim: %v", investor.Actions.Sorted())
	}
}
