package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/forgo/raidsign/internal/model"
)

func signup(name, role string) *model.Signup {
	return &model.Signup{NameRealm: name, Role: role, Class: "Warrior"}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := NewRosterAggregator(model.UnknownRoleDrop).Summarize(nil)

	if s.TankCount != 0 || s.HealerCount != 0 || s.DPSCount != 0 {
		t.Errorf("expected zero counts, got %d/%d/%d", s.TankCount, s.HealerCount, s.DPSCount)
	}
	if s.Tanks == nil || s.Healers == nil || s.DPS == nil {
		t.Error("buckets should be empty, not nil")
	}
}

func TestSummarize_BucketsPreserveOrder(t *testing.T) {
	t.Parallel()

	in := []*model.Signup{
		signup("a", "dps"),
		signup("b", "Tank"),
		signup("c", "healer"),
		signup("d", "DPS"),
		signup("e", "tank"),
	}

	s := NewRosterAggregator(model.UnknownRoleDrop).Summarize(in)

	if s.TankCount != 2 || s.HealerCount != 1 || s.DPSCount != 2 {
		t.Fatalf("unexpected counts %d/%d/%d", s.TankCount, s.HealerCount, s.DPSCount)
	}
	if s.Tanks[0].NameRealm != "b" || s.Tanks[1].NameRealm != "e" {
		t.Errorf("tank order not preserved: %s, %s", s.Tanks[0].NameRealm, s.Tanks[1].NameRealm)
	}
	if s.DPS[0].NameRealm != "a" || s.DPS[1].NameRealm != "d" {
		t.Errorf("dps order not preserved: %s, %s", s.DPS[0].NameRealm, s.DPS[1].NameRealm)
	}
}

func TestSummarize_DropPolicyExcludesUnknown(t *testing.T) {
	t.Parallel()

	in := []*model.Signup{signup("a", "tank"), signup("b", "heals"), signup("c", "bard")}
	s := NewRosterAggregator(model.UnknownRoleDrop).Summarize(in)

	if s.Counted() != 1 {
		t.Errorf("expected 1 counted signup, got %d", s.Counted())
	}
	if len(s.Unknown) != 0 {
		t.Errorf("drop policy should not collect unknown roles, got %d", len(s.Unknown))
	}
}

func TestSummarize_BucketPolicyCollectsUnknown(t *testing.T) {
	t.Parallel()

	in := []*model.Signup{signup("a", "tank"), signup("b", "heals"), signup("c", "bard")}
	s := NewRosterAggregator(model.UnknownRoleBucket).Summarize(in)

	if s.Counted() != 1 {
		t.Errorf("unknown roles must not be counted, got %d", s.Counted())
	}
	if len(s.Unknown) != 2 || s.Unknown[0].NameRealm != "b" {
		t.Errorf("expected b and c in unknown bucket, got %v", s.Unknown)
	}
}

func TestNewRosterAggregator_InvalidPolicyDrops(t *testing.T) {
	t.Parallel()

	a := NewRosterAggregator("keep-everything")
	if a.Policy() != model.UnknownRoleDrop {
		t.Errorf("expected drop policy, got %q", a.Policy())
	}
}

func TestSummarize_CountsNeverExceedInput(t *testing.T) {
	t.Parallel()

	roles := []string{"tank", "healer", "dps", "TANK", "Dps", "heals", "", "rogue"}
	rng := rand.New(rand.NewSource(42))
	agg := NewRosterAggregator(model.UnknownRoleBucket)

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		in := make([]*model.Signup, 0, n)
		allKnown := true
		for i := 0; i < n; i++ {
			role := roles[rng.Intn(len(roles))]
			if model.ParseRole(role) == model.RoleUnknown {
				allKnown = false
			}
			in = append(in, signup(fmt.Sprintf("c%d", i), role))
		}

		s := agg.Summarize(in)
		total := s.Counted()
		if total > len(in) {
			t.Fatalf("round %d: counted %d of %d signups", round, total, len(in))
		}
		if allKnown != (total == len(in)) {
			t.Fatalf("round %d: allKnown=%v but counted %d of %d", round, allKnown, total, len(in))
		}
		if total+len(s.Unknown) != len(in) {
			t.Fatalf("round %d: bucket policy lost signups", round)
		}
	}
}
