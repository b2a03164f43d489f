package service

import "github.com/forgo/raidsign/internal/model"

// RosterAggregator partitions signups into role buckets
type RosterAggregator struct {
	unknown model.UnknownRolePolicy
}

// NewRosterAggregator creates an aggregator. An invalid policy falls back to
// dropping unknown roles.
func NewRosterAggregator(policy model.UnknownRolePolicy) *RosterAggregator {
	if !policy.IsValid() {
		policy = model.UnknownRoleDrop
	}
	return &RosterAggregator{unknown: policy}
}

// Policy returns the unknown-role policy in effect
func (a *RosterAggregator) Policy() model.UnknownRolePolicy {
	return a.unknown
}

// Summarize buckets signups by role, keeping input order within each bucket.
// Unknown roles never count towards the three role counts.
func (a *RosterAggregator) Summarize(signups []*model.Signup) *model.RosterSummary {
	summary := &model.RosterSummary{
		Tanks:   []*model.Signup{},
		Healers: []*model.Signup{},
		DPS:     []*model.Signup{},
	}

	for _, s := range signups {
		if s == nil {
			continue
		}
		switch s.ParsedRole() {
		case model.RoleTank:
			summary.Tanks = append(summary.Tanks, s)
		case model.RoleHealer:
			summary.Healers = append(summary.Healers, s)
		case model.RoleDPS:
			summary.DPS = append(summary.DPS, s)
		default:
			if a.unknown == model.UnknownRoleBucket {
				summary.Unknown = append(summary.Unknown, s)
			}
		}
	}

	summary.TankCount = len(summary.Tanks)
	summary.HealerCount = len(summary.Healers)
	summary.DPSCount = len(summary.DPS)
	return summary
}
