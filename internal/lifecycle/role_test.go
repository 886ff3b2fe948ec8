package lifecycle

import (
	"testing"

	"poolscope/internal/model"
)

func TestResolveRole(t *testing.T) {
	pool := basePool()
	pool.Sponsor = "0xfacefacefacefacefacefacefacefacefaceface"
	pool.Deal = &model.Deal{
		HolderAddress: "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
	}

	cases := []struct {
		name   string
		wallet string
		want   Role
	}{
		{"no wallet", "", RoleVisitor},
		{"blank wallet", "   ", RoleVisitor},
		{"sponsor", "0xfacefacefacefacefacefacefacefacefaceface", RoleSponsor},
		{"sponsor mixed case", "0xFaceFaceFaceFaceFaceFaceFaceFaceFaceFace", RoleSponsor},
		{"holder", "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef", RoleHolder},
		{"holder mixed case", "0xDEADBEEFdeadbeefDEADBEEFdeadbeefDEADBEEF", RoleHolder},
		{"anyone else", "0x9999999999999999999999999999999999999999", RoleInvestor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveRole(tc.wallet, pool); got != tc.want {
				t.Fatalf("role mismatch: got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestResolveRoleCaseInsensitive(t *testing.T) {
	pool := basePool()
	pool.Sponsor = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"

	if got := ResolveRole("0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD", pool); got != RoleSponsor {
		t.Fatalf("uppercase sponsor address should match, got %s", got)
	}
}

func TestResolveRoleSponsorBeatsHolder(t *testing.T) {
	pool := basePool()
	pool.Deal = &model.Deal{HolderAddress: pool.Sponsor}

	if got := ResolveRole(pool.Sponsor, pool); got != RoleSponsor {
		t.Fatalf("sponsor-as-holder must resolve to sponsor, got %s", got)
	}
}

func TestResolveRoleUpfrontHolder(t *testing.T) {
	pool := basePool()
	pool.UpfrontDeal = &model.UpfrontDeal{
		HolderAddress: "0x4444444444444444444444444444444444444444",
	}

	if got := ResolveRole("0x4444444444444444444444444444444444444444", pool); got != RoleHolder {
		t.Fatalf("upfront holder should resolve to holder, got %s", got)
	}
}
