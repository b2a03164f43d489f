package model

import "testing"

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Role
	}{
		{"tank", RoleTank},
		{"TANK", RoleTank},
		{"Healer", RoleHealer},
		{"dps", RoleDPS},
		{"DpS", RoleDPS},
		{"heals", RoleUnknown},
		{" tank", RoleUnknown},
		{"", RoleUnknown},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.raw); got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRosterSummary_OrderedFollowsBuckets(t *testing.T) {
	t.Parallel()

	tank := &Signup{NameRealm: "a", Role: "tank"}
	healer := &Signup{NameRealm: "b", Role: "healer"}
	dps := &Signup{NameRealm: "c", Role: "dps"}
	odd := &Signup{NameRealm: "d", Role: "bard"}

	s := &RosterSummary{
		TankCount: 1, HealerCount: 1, DPSCount: 1,
		Tanks: []*Signup{tank}, Healers: []*Signup{healer}, DPS: []*Signup{dps},
		Unknown: []*Signup{odd},
	}

	got := s.Ordered()
	want := []*Signup{tank, healer, dps, odd}
	if len(got) != len(want) {
		t.Fatalf("expected %d signups, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i].NameRealm, want[i].NameRealm)
		}
	}
	if s.Counted() != 3 {
		t.Errorf("expected 3 counted signups, got %d", s.Counted())
	}
}

func TestCreateRaidRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := &CreateRaidRequest{Name: "Naxx", Difficulty: "Heroic", DateTime: "Fri"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	empty := &CreateRaidRequest{}
	errs := empty.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if errs[0].Field != "difficulty" || errs[2].Field != "name" {
		t.Errorf("unexpected field order %v", errs)
	}
}

func TestCreateSignupRequest_Validate_MissingClass(t *testing.T) {
	t.Parallel()

	req := &CreateSignupRequest{NameRealm: "Thrall-Durotan", Role: "tank"}
	errs := req.Validate()
	if len(errs) != 1 || errs[0].Field != "class" {
		t.Errorf("expected class error, got %v", errs)
	}
}

func TestPolicies_IsValid(t *testing.T) {
	t.Parallel()

	if !UnknownRoleDrop.IsValid() || !UnknownRoleBucket.IsValid() {
		t.Error("known unknown-role policies should be valid")
	}
	if UnknownRolePolicy("keep").IsValid() {
		t.Error("unexpected unknown-role policy accepted")
	}
	if !RaidNameFirst.IsValid() || !RaidNameUnique.IsValid() {
		t.Error("known name policies should be valid")
	}
	if RaidNamePolicy("").IsValid() {
		t.Error("empty name policy accepted")
	}
}

func TestResponse_IsEmpty(t *testing.T) {
	t.Parallel()

	var nilResp *Response
	if !nilResp.IsEmpty() {
		t.Error("nil response should be empty")
	}
	if TextResponse("hi").IsEmpty() {
		t.Error("text response should not be empty")
	}
	if EmbedResponse(Embed{Title: "x"}).IsEmpty() {
		t.Error("embed response should not be empty")
	}
}
