package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/raidsign/internal/model"
)

// Repository is the raid storage the factory writes through
type Repository interface {
	CreateRaid(ctx context.Context, name, difficulty, dateTime string) (string, error)
	GetRaid(ctx context.Context, id string) (*model.Raid, error)
	AddSignup(ctx context.Context, raidID, nameRealm, role, class string) (string, error)
}

// Factory creates test raids and signups
type Factory struct {
	repo Repository
}

// New creates a new fixture factory
func New(repo Repository) *Factory {
	return &Factory{repo: repo}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ============================================================================
// Raid Fixtures
// ============================================================================

// RaidOpts customizes raid creation
type RaidOpts struct {
	Name       string
	Difficulty string
	DateTime   string
}

// WithRaidName sets the raid name
func WithRaidName(name string) func(*RaidOpts) {
	return func(o *RaidOpts) { o.Name = name }
}

// WithDifficulty sets the raid difficulty
func WithDifficulty(d string) func(*RaidOpts) {
	return func(o *RaidOpts) { o.Difficulty = d }
}

// CreateRaid creates a raid with optional customizations
func (f *Factory) CreateRaid(t *testing.T, opts ...func(*RaidOpts)) *model.Raid {
	t.Helper()

	o := &RaidOpts{
		Name:       fmt.Sprintf("Raid %s", randomID()),
		Difficulty: "Heroic",
		DateTime:   "Fri",
	}
	for _, fn := range opts {
		fn(o)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := f.repo.CreateRaid(ctx, o.Name, o.Difficulty, o.DateTime)
	if err != nil {
		t.Fatalf("fixtures: failed to create raid: %v", err)
	}
	raid, err := f.repo.GetRaid(ctx, id)
	if err != nil || raid == nil {
		t.Fatalf("fixtures: failed to read back raid %s: %v", id, err)
	}
	return raid
}

// ============================================================================
// Signup Fixtures
// ============================================================================

// SignupOpts customizes signup creation
type SignupOpts struct {
	NameRealm string
	Role      string
	Class     string
}

// AsRole sets the signup role
func AsRole(role string) func(*SignupOpts) {
	return func(o *SignupOpts) { o.Role = role }
}

// WithNameRealm sets the character name-realm
func WithNameRealm(nameRealm string) func(*SignupOpts) {
	return func(o *SignupOpts) { o.NameRealm = nameRealm }
}

// defaultClass picks a plausible class per role
var defaultClass = map[string]string{
	"tank":   "Warrior",
	"healer": "Priest",
	"dps":    "Mage",
}

// CreateSignup signs a random character up for raid
func (f *Factory) CreateSignup(t *testing.T, raid *model.Raid, opts ...func(*SignupOpts)) *model.Signup {
	t.Helper()

	o := &SignupOpts{
		NameRealm: fmt.Sprintf("Char%s-Realm", randomID()),
		Role:      "dps",
	}
	for _, fn := range opts {
		fn(o)
	}
	if o.Class == "" {
		o.Class = defaultClass[model.ParseRole(o.Role).String()]
		if o.Class == "" {
			o.Class = "Bard"
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := f.repo.AddSignup(ctx, raid.ID, o.NameRealm, o.Role, o.Class)
	if err != nil {
		t.Fatalf("fixtures: failed to sign up for %s: %v", raid.ID, err)
	}
	return &model.Signup{
		ID:        id,
		RaidID:    raid.ID,
		NameRealm: o.NameRealm,
		Role:      o.Role,
		Class:     o.Class,
	}
}

// CreateRoster signs up one character per role, in order
func (f *Factory) CreateRoster(t *testing.T, raid *model.Raid, roles ...string) []*model.Signup {
	t.Helper()

	signups := make([]*model.Signup, 0, len(roles))
	for _, role := range roles {
		signups = append(signups, f.CreateSignup(t, raid, AsRole(role)))
	}
	return signups
}
