package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/forgo/raidsign/internal/database"
	"github.com/forgo/raidsign/internal/model"
	"github.com/forgo/raidsign/internal/repository"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockRaidRepo struct {
	createRaidFunc      func(ctx context.Context, name, difficulty, dateTime string) (string, error)
	findRaidByNameFunc  func(ctx context.Context, name string) (*model.Raid, error)
	findRaidsByNameFunc func(ctx context.Context, name string) ([]*model.Raid, error)
	getRaidFunc         func(ctx context.Context, id string) (*model.Raid, error)
	listRaidsFunc       func(ctx context.Context) ([]*model.Raid, error)
	addSignupFunc       func(ctx context.Context, raidID, nameRealm, role, class string) (string, error)
	listSignupsFunc     func(ctx context.Context, raidID string) ([]*model.Signup, error)
	deleteRaidFunc      func(ctx context.Context, raidID string) error
}

func (m *mockRaidRepo) CreateRaid(ctx context.Context, name, difficulty, dateTime string) (string, error) {
	if m.createRaidFunc != nil {
		return m.createRaidFunc(ctx, name, difficulty, dateTime)
	}
	return "raids:new", nil
}

func (m *mockRaidRepo) FindRaidByName(ctx context.Context, name string) (*model.Raid, error) {
	if m.findRaidByNameFunc != nil {
		return m.findRaidByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockRaidRepo) FindRaidsByName(ctx context.Context, name string) ([]*model.Raid, error) {
	if m.findRaidsByNameFunc != nil {
		return m.findRaidsByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockRaidRepo) GetRaid(ctx context.Context, id string) (*model.Raid, error) {
	if m.getRaidFunc != nil {
		return m.getRaidFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRaidRepo) ListRaids(ctx context.Context) ([]*model.Raid, error) {
	if m.listRaidsFunc != nil {
		return m.listRaidsFunc(ctx)
	}
	return nil, nil
}

func (m *mockRaidRepo) AddSignup(ctx context.Context, raidID, nameRealm, role, class string) (string, error) {
	if m.addSignupFunc != nil {
		return m.addSignupFunc(ctx, raidID, nameRealm, role, class)
	}
	return "signups:new", nil
}

func (m *mockRaidRepo) ListSignups(ctx context.Context, raidID string) ([]*model.Signup, error) {
	if m.listSignupsFunc != nil {
		return m.listSignupsFunc(ctx, raidID)
	}
	return nil, nil
}

func (m *mockRaidRepo) DeleteRaid(ctx context.Context, raidID string) error {
	if m.deleteRaidFunc != nil {
		return m.deleteRaidFunc(ctx, raidID)
	}
	return nil
}

func newMemoryRaidService(t *testing.T, policy model.RaidNamePolicy) *RaidService {
	t.Helper()
	repo := repository.NewRaidRepository(database.NewMemoryStore(), repository.DefaultDeletePolicy())
	return NewRaidService(RaidServiceConfig{
		Repo:       repo,
		Roster:     NewRosterAggregator(model.UnknownRoleDrop),
		NamePolicy: policy,
		Locking:    true,
	})
}

// ============================================================================
// CreateRaid
// ============================================================================

func TestCreateRaid_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotName string
	repo := &mockRaidRepo{
		createRaidFunc: func(ctx context.Context, name, difficulty, dateTime string) (string, error) {
			gotName = name
			return "raids:abc", nil
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo})

	raid, err := svc.CreateRaid(ctx, &model.CreateRaidRequest{Name: "8pm Onyxia's Lair", Difficulty: "Heroic", DateTime: "Fri"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raid.ID != "raids:abc" {
		t.Errorf("expected id raids:abc, got %q", raid.ID)
	}
	if gotName != "8pm Onyxia's Lair" {
		t.Errorf("expected name passed through, got %q", gotName)
	}
}

func TestCreateRaid_ValidationBeforeStore(t *testing.T) {
	t.Parallel()

	repo := &mockRaidRepo{
		createRaidFunc: func(ctx context.Context, name, difficulty, dateTime string) (string, error) {
			t.Error("store should not be called")
			return "", nil
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo})

	_, err := svc.CreateRaid(context.Background(), &model.CreateRaidRequest{Difficulty: "Heroic"})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateRaid_FirstPolicyAllowsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newMemoryRaidService(t, model.RaidNameFirst)

	req := &model.CreateRaidRequest{Name: "Naxx", Difficulty: "Normal", DateTime: "Mon"}
	first, err := svc.CreateRaid(ctx, req)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateRaid(ctx, req); err != nil {
		t.Fatalf("second create: %v", err)
	}

	for i := 0; i < 3; i++ {
		raid, err := svc.ResolveRaid(ctx, "Naxx")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if raid.ID != first.ID {
			t.Errorf("expected the first raid %s, got %s", first.ID, raid.ID)
		}
	}
}

func TestCreateRaid_UniquePolicyRejectsDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newMemoryRaidService(t, model.RaidNameUnique)

	req := &model.CreateRaidRequest{Name: "Naxx", Difficulty: "Normal", DateTime: "Mon"}
	if _, err := svc.CreateRaid(ctx, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateRaid(ctx, req)
	if !errors.Is(err, ErrRaidNameExists) || !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrRaidNameExists, got %v", err)
	}
}

func TestCreateRaid_UniquePolicyConcurrentCreatesKeepOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newMemoryRaidService(t, model.RaidNameUnique)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateRaid(ctx, &model.CreateRaidRequest{Name: "Naxx", Difficulty: "Normal", DateTime: "Mon"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else if !errors.Is(err, ErrRaidNameExists) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("expected exactly one raid created, got %d", created)
	}
}

// ============================================================================
// ResolveRaid
// ============================================================================

func TestResolveRaid_NotFound(t *testing.T) {
	t.Parallel()
	svc := NewRaidService(RaidServiceConfig{Repo: &mockRaidRepo{}})

	_, err := svc.ResolveRaid(context.Background(), "Naxx")
	if !errors.Is(err, ErrRaidNotFound) || !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrRaidNotFound, got %v", err)
	}
}

func TestResolveRaid_ByID(t *testing.T) {
	t.Parallel()

	repo := &mockRaidRepo{
		getRaidFunc: func(ctx context.Context, id string) (*model.Raid, error) {
			if id == "raids:abc" {
				return &model.Raid{ID: id, Name: "Naxx"}, nil
			}
			return nil, nil
		},
		findRaidByNameFunc: func(ctx context.Context, name string) (*model.Raid, error) {
			if name == "#raids:abc" {
				t.Errorf("name lookup used for resolved id reference %q", name)
			}
			return nil, nil
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo})

	raid, err := svc.ResolveRaid(context.Background(), "#raids:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raid.Name != "Naxx" {
		t.Errorf("expected Naxx, got %q", raid.Name)
	}

	if _, err := svc.ResolveRaid(context.Background(), "#raids:nope"); !errors.Is(err, ErrRaidNotFound) {
		t.Errorf("expected ErrRaidNotFound, got %v", err)
	}
}

func TestResolveRaid_HashNameFallsBackToName(t *testing.T) {
	t.Parallel()

	for _, policy := range []model.RaidNamePolicy{model.RaidNameFirst, model.RaidNameUnique} {
		svc := newMemoryRaidService(t, policy)
		ctx := context.Background()

		created, err := svc.CreateRaid(ctx, &model.CreateRaidRequest{Difficulty: "Heroic", DateTime: "Fri", Name: "#1 Naxx"})
		if err != nil {
			t.Fatalf("%s: create: %v", policy, err)
		}

		raid, err := svc.ResolveRaid(ctx, "#1 Naxx")
		if err != nil {
			t.Fatalf("%s: resolve by name: %v", policy, err)
		}
		if raid.ID != created.ID {
			t.Errorf("%s: expected %s, got %s", policy, created.ID, raid.ID)
		}

		byID, err := svc.ResolveRaid(ctx, RaidIDPrefix+created.ID)
		if err != nil || byID.ID != created.ID {
			t.Errorf("%s: id reference = %v, %v", policy, byID, err)
		}
	}
}

func TestResolveRaid_UniquePolicyReportsAmbiguity(t *testing.T) {
	t.Parallel()

	repo := &mockRaidRepo{
		findRaidsByNameFunc: func(ctx context.Context, name string) ([]*model.Raid, error) {
			return []*model.Raid{{ID: "raids:1", Name: name}, {ID: "raids:2", Name: name}}, nil
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo, NamePolicy: model.RaidNameUnique})

	_, err := svc.ResolveRaid(context.Background(), "Naxx")
	if !errors.Is(err, ErrRaidAmbiguous) {
		t.Fatalf("expected ErrRaidAmbiguous, got %v", err)
	}
	var amb *AmbiguousRaidError
	if !errors.As(err, &amb) || len(amb.IDs) != 2 || amb.IDs[1] != "raids:2" {
		t.Errorf("expected both ids, got %v", amb)
	}
}

func TestResolveRaid_StoreErrorPassesThrough(t *testing.T) {
	t.Parallel()

	storeErr := model.NewStoreError("find raid", database.ErrConnection)
	repo := &mockRaidRepo{
		findRaidByNameFunc: func(ctx context.Context, name string) (*model.Raid, error) {
			return nil, storeErr
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo})

	_, err := svc.ResolveRaid(context.Background(), "Naxx")
	if !errors.Is(err, model.ErrStore) {
		t.Errorf("expected store error, got %v", err)
	}
}

// ============================================================================
// SignUp / ShowRaid / DeleteRaid
// ============================================================================

func TestSignUp_RaidVanishedIsNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRaidRepo{
		findRaidByNameFunc: func(ctx context.Context, name string) (*model.Raid, error) {
			return &model.Raid{ID: "raids:1", Name: name}, nil
		},
		addSignupFunc: func(ctx context.Context, raidID, nameRealm, role, class string) (string, error) {
			return "", model.ErrNotFound
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo})

	_, err := svc.SignUp(context.Background(), "Naxx", &model.CreateSignupRequest{NameRealm: "a", Role: "tank", Class: "b"})
	if !errors.Is(err, ErrRaidNotFound) {
		t.Errorf("expected ErrRaidNotFound, got %v", err)
	}
}

func TestShowRaid_SummarizesSignups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newMemoryRaidService(t, model.RaidNameFirst)

	if _, err := svc.CreateRaid(ctx, &model.CreateRaidRequest{Name: "Naxx", Difficulty: "Heroic", DateTime: "Fri"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, s := range []model.CreateSignupRequest{
		{NameRealm: "A-Realm", Role: "tank", Class: "Warrior"},
		{NameRealm: "B-Realm", Role: "Healer", Class: "Priest"},
		{NameRealm: "C-Realm", Role: "dps", Class: "Mage"},
		{NameRealm: "D-Realm", Role: "bard", Class: "Bard"},
	} {
		if _, err := svc.SignUp(ctx, "Naxx", &s); err != nil {
			t.Fatalf("signup %s: %v", s.NameRealm, err)
		}
	}

	raid, summary, err := svc.ShowRaid(ctx, "Naxx")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if raid.Difficulty != "Heroic" {
		t.Errorf("expected Heroic, got %q", raid.Difficulty)
	}
	if summary.TankCount != 1 || summary.HealerCount != 1 || summary.DPSCount != 1 {
		t.Errorf("unexpected counts %d/%d/%d", summary.TankCount, summary.HealerCount, summary.DPSCount)
	}
}

func TestDeleteRaid_ThenSignUpIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newMemoryRaidService(t, model.RaidNameFirst)

	if _, err := svc.CreateRaid(ctx, &model.CreateRaidRequest{Name: "Naxx", Difficulty: "Heroic", DateTime: "Fri"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SignUp(ctx, "Naxx", &model.CreateSignupRequest{NameRealm: "A-Realm", Role: "tank", Class: "Warrior"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.DeleteRaid(ctx, "Naxx"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := svc.SignUp(ctx, "Naxx", &model.CreateSignupRequest{NameRealm: "B-Realm", Role: "dps", Class: "Rogue"})
	if !errors.Is(err, ErrRaidNotFound) {
		t.Errorf("expected ErrRaidNotFound, got %v", err)
	}

	raids, err := svc.ListRaids(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(raids) != 0 {
		t.Errorf("expected no raids, got %d", len(raids))
	}
}

func TestDeleteRaid_ConcurrentSignupsLeaveNoOrphans(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := database.NewMemoryStore()
	repo := repository.NewRaidRepository(store, repository.DefaultDeletePolicy())
	svc := NewRaidService(RaidServiceConfig{Repo: repo, Locking: true})

	raid, err := svc.CreateRaid(ctx, &model.CreateRaidRequest{Name: "Naxx", Difficulty: "Heroic", DateTime: "Fri"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SignUp(ctx, "Naxx", &model.CreateSignupRequest{NameRealm: "X-Realm", Role: "dps", Class: "Mage"})
			if err != nil && !errors.Is(err, ErrRaidNotFound) {
				t.Errorf("signup: %v", err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.DeleteRaid(ctx, "Naxx"); err != nil && !errors.Is(err, ErrRaidNotFound) {
			t.Errorf("delete: %v", err)
		}
	}()
	wg.Wait()

	if _, err := svc.ResolveRaid(ctx, "Naxx"); errors.Is(err, ErrRaidNotFound) {
		if n := store.Len(repository.SignupsPath(raid.ID)); n != 0 {
			t.Errorf("raid deleted but %d signups orphaned", n)
		}
	}
}

func TestOverview_CountsSignups(t *testing.T) {
	t.Parallel()

	repo := &mockRaidRepo{
		listRaidsFunc: func(ctx context.Context) ([]*model.Raid, error) {
			return []*model.Raid{{ID: "raids:1"}, {ID: "raids:2"}}, nil
		},
		listSignupsFunc: func(ctx context.Context, raidID string) ([]*model.Signup, error) {
			if raidID == "raids:2" {
				return []*model.Signup{{}, {}}, nil
			}
			return nil, nil
		},
	}
	svc := NewRaidService(RaidServiceConfig{Repo: repo, Concurrency: 2})

	rows, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].Signups != 0 || rows[1].Signups != 2 {
		t.Errorf("unexpected overview %+v", rows)
	}
}
