package model

import (
	"strings"
	"time"
)

// Raid represents a scheduled group activity that users sign up for
type Raid struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Difficulty string    `json:"difficulty"`
	DateTime   string    `json:"date_time"` // Free text, never parsed
	CreatedAt  time.Time `json:"created_at"`
}

// Signup represents one user's registration for a raid
type Signup struct {
	ID        string    `json:"id"`
	RaidID    string    `json:"raid_id"`
	NameRealm string    `json:"name_realm"` // e.g. "Thrall-Durotan"
	Role      string    `json:"role"`       // Raw text as typed
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"created_at"`
}

// ParsedRole classifies the raw role text
func (s *Signup) ParsedRole() Role {
	return ParseRole(s.Role)
}

// Role is the roster bucket a signup falls into
type Role int

const (
	RoleUnknown Role = iota
	RoleTank
	RoleHealer
	RoleDPS
)

// ParseRole maps raw role text to a Role, ignoring case only
func ParseRole(raw string) Role {
	switch strings.ToLower(raw) {
	case "tank":
		return RoleTank
	case "healer":
		return RoleHealer
	case "dps":
		return RoleDPS
	}
	return RoleUnknown
}

func (r Role) String() string {
	switch r {
	case RoleTank:
		return "tank"
	case RoleHealer:
		return "healer"
	case RoleDPS:
		return "dps"
	}
	return "unknown"
}

// UnknownRolePolicy decides what the roster does with unrecognised roles
type UnknownRolePolicy string

const (
	UnknownRoleDrop   UnknownRolePolicy = "drop"
	UnknownRoleBucket UnknownRolePolicy = "bucket"
)

// IsValid reports whether p is a known policy
func (p UnknownRolePolicy) IsValid() bool {
	return p == UnknownRoleDrop || p == UnknownRoleBucket
}

// RaidNamePolicy decides how raid names resolve when several raids share one
type RaidNamePolicy string

const (
	RaidNameFirst  RaidNamePolicy = "first"  // First match in store order wins
	RaidNameUnique RaidNamePolicy = "unique" // Duplicates are rejected
)

// IsValid reports whether p is a known policy
func (p RaidNamePolicy) IsValid() bool {
	return p == RaidNameFirst || p == RaidNameUnique
}

// RosterSummary partitions a raid's signups by role
type RosterSummary struct {
	TankCount   int       `json:"tank_count"`
	HealerCount int       `json:"healer_count"`
	DPSCount    int       `json:"dps_count"`
	Tanks       []*Signup `json:"tanks"`
	Healers     []*Signup `json:"healers"`
	DPS         []*Signup `json:"dps"`
	Unknown     []*Signup `json:"unknown,omitempty"` // Only filled by UnknownRoleBucket
}

// Counted returns the number of signups in the three role buckets
func (s *RosterSummary) Counted() int {
	return s.TankCount + s.HealerCount + s.DPSCount
}

// Ordered returns tanks, then healers, then dps, then unknown
func (s *RosterSummary) Ordered() []*Signup {
	out := make([]*Signup, 0, s.Counted()+len(s.Unknown))
	out = append(out, s.Tanks...)
	out = append(out, s.Healers...)
	out = append(out, s.DPS...)
	out = append(out, s.Unknown...)
	return out
}

// CreateRaidRequest carries the arguments of newraid
type CreateRaidRequest struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	DateTime   string `json:"date_time"`
}

// Validate returns one FieldError per empty field
func (r *CreateRaidRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Difficulty == "" {
		errs = append(errs, FieldError{Field: "difficulty", Message: "difficulty is required"})
	}
	if r.DateTime == "" {
		errs = append(errs, FieldError{Field: "date_time", Message: "date and time are required"})
	}
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	return errs
}

// CreateSignupRequest carries the arguments of signup
type CreateSignupRequest struct {
	NameRealm string `json:"name_realm"`
	Role      string `json:"role"`
	Class     string `json:"class"`
}

// Validate returns one FieldError per empty field
func (r *CreateSignupRequest) Validate() []FieldError {
	var errs []FieldError
	if r.NameRealm == "" {
		errs = append(errs, FieldError{Field: "name_realm", Message: "name-realm is required"})
	}
	if r.Role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	}
	if r.Class == "" {
		errs = append(errs, FieldError{Field: "class", Message: "class is required"})
	}
	return errs
}
