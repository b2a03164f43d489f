package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/raidsign/internal/model"
)

// RaidRepository defines the interface for raid storage
type RaidRepository interface {
	CreateRaid(ctx context.Context, name, difficulty, dateTime string) (string, error)
	FindRaidByName(ctx context.Context, name string) (*model.Raid, error)
	FindRaidsByName(ctx context.Context, name string) ([]*model.Raid, error)
	GetRaid(ctx context.Context, id string) (*model.Raid, error)
	ListRaids(ctx context.Context) ([]*model.Raid, error)
	AddSignup(ctx context.Context, raidID, nameRealm, role, class string) (string, error)
	ListSignups(ctx context.Context, raidID string) ([]*model.Signup, error)
	DeleteRaid(ctx context.Context, raidID string) error
}

// RaidIDPrefix marks a raid reference as an id rather than a name
const RaidIDPrefix = "#"

// RaidService handles raid business logic
type RaidService struct {
	repo        RaidRepository
	roster      *RosterAggregator
	namePolicy  model.RaidNamePolicy
	locks       Locker
	concurrency int
}

// RaidServiceConfig holds configuration for the raid service
type RaidServiceConfig struct {
	Repo       RaidRepository
	Roster     *RosterAggregator
	NamePolicy model.RaidNamePolicy
	// Locking serializes commands that touch the same raid
	Locking bool
	// Concurrency bounds parallel signup counting in Overview
	Concurrency int
}

// NewRaidService creates a new raid service
func NewRaidService(cfg RaidServiceConfig) *RaidService {
	s := &RaidService{
		repo:        cfg.Repo,
		roster:      cfg.Roster,
		namePolicy:  cfg.NamePolicy,
		locks:       NoopLocker{},
		concurrency: cfg.Concurrency,
	}
	if s.roster == nil {
		s.roster = NewRosterAggregator(model.UnknownRoleDrop)
	}
	if !s.namePolicy.IsValid() {
		s.namePolicy = model.RaidNameFirst
	}
	if cfg.Locking {
		s.locks = NewKeyedMutex()
	}
	if s.concurrency <= 0 {
		s.concurrency = 4
	}
	return s
}

// RaidOverview is a raid with its signup count
type RaidOverview struct {
	Raid    *model.Raid `json:"raid"`
	Signups int         `json:"signups"`
}

// CreateRaid creates a raid. Under the unique name policy a second raid with
// the same exact name is rejected.
func (s *RaidService) CreateRaid(ctx context.Context, req *model.CreateRaidRequest) (*model.Raid, error) {
	if err := model.NewValidationFailure(req.Validate()); err != nil {
		return nil, err
	}

	if s.namePolicy == model.RaidNameUnique {
		unlock, err := s.lock(ctx, "name:"+strings.ToLower(req.Name))
		if err != nil {
			return nil, err
		}
		defer unlock()

		existing, err := s.repo.FindRaidsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ErrRaidNameExists
		}
	}

	id, err := s.repo.CreateRaid(ctx, req.Name, req.Difficulty, req.DateTime)
	if err != nil {
		return nil, err
	}

	return &model.Raid{
		ID:         id,
		Name:       req.Name,
		Difficulty: req.Difficulty,
		DateTime:   req.DateTime,
	}, nil
}

// ResolveRaid turns a user reference into a raid. "#<id>" looks the raid up
// by id; anything else, or a "#" reference matching no id, is an exact name.
func (s *RaidService) ResolveRaid(ctx context.Context, ref string) (*model.Raid, error) {
	if id, ok := strings.CutPrefix(ref, RaidIDPrefix); ok && id != "" {
		raid, err := s.repo.GetRaid(ctx, id)
		if err != nil {
			return nil, err
		}
		if raid != nil {
			return raid, nil
		}
	}

	if s.namePolicy == model.RaidNameFirst {
		raid, err := s.repo.FindRaidByName(ctx, ref)
		if err != nil {
			return nil, err
		}
		if raid == nil {
			return nil, ErrRaidNotFound
		}
		return raid, nil
	}

	raids, err := s.repo.FindRaidsByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	switch len(raids) {
	case 0:
		return nil, ErrRaidNotFound
	case 1:
		return raids[0], nil
	}
	ids := make([]string, 0, len(raids))
	for _, r := range raids {
		ids = append(ids, r.ID)
	}
	return nil, &AmbiguousRaidError{Name: ref, IDs: ids}
}

// SignUp records a signup for the referenced raid
func (s *RaidService) SignUp(ctx context.Context, ref string, req *model.CreateSignupRequest) (*model.Raid, error) {
	raid, unlock, err := s.resolveLocked(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.repo.AddSignup(ctx, raid.ID, req.NameRealm, req.Role, req.Class); err != nil {
		return nil, mapNotFound(err)
	}
	return raid, nil
}

// ShowRaid returns the raid and its roster
func (s *RaidService) ShowRaid(ctx context.Context, ref string) (*model.Raid, *model.RosterSummary, error) {
	raid, unlock, err := s.resolveLocked(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	signups, err := s.repo.ListSignups(ctx, raid.ID)
	if err != nil {
		return nil, nil, err
	}
	return raid, s.roster.Summarize(signups), nil
}

// DeleteRaid deletes the referenced raid and its signups
func (s *RaidService) DeleteRaid(ctx context.Context, ref string) (*model.Raid, error) {
	raid, unlock, err := s.resolveLocked(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.repo.DeleteRaid(ctx, raid.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return raid, nil
}

// ListRaids returns every raid in store order
func (s *RaidService) ListRaids(ctx context.Context) ([]*model.Raid, error) {
	return s.repo.ListRaids(ctx)
}

// Overview lists every raid with its signup count
func (s *RaidService) Overview(ctx context.Context) ([]RaidOverview, error) {
	raids, err := s.repo.ListRaids(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RaidOverview, len(raids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, raid := range raids {
		g.Go(func() error {
			signups, err := s.repo.ListSignups(gctx, raid.ID)
			if err != nil {
				return err
			}
			out[i] = RaidOverview{Raid: raid, Signups: len(signups)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveLocked resolves ref and locks the raid's id. The returned unlock
// must be called when err is nil.
func (s *RaidService) resolveLocked(ctx context.Context, ref string) (*model.Raid, func(), error) {
	raid, err := s.ResolveRaid(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	unlock, err := s.lock(ctx, "id:"+raid.ID)
	if err != nil {
		return nil, nil, err
	}
	return raid, unlock, nil
}

func (s *RaidService) lock(ctx context.Context, key string) (func(), error) {
	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockTimeout, err)
	}
	return unlock, nil
}

// mapNotFound reports a raid that vanished between lookup and write
func mapNotFound(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return ErrRaidNotFound
	}
	return err
}
