package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/raidsign/internal/database"
	"github.com/forgo/raidsign/internal/model"
)

// Collection and field names of the stored documents
const (
	RaidsCollection   = "raids"
	SignupsCollection = "signups"

	fieldName       = "name"
	fieldDifficulty = "difficulty"
	fieldDateTime   = "dateTime"
	fieldNameRealm  = "nameRealm"
	fieldRole       = "role"
	fieldClass      = "class"
	fieldCreatedAt  = "createdAt"
)

// DeletePolicy controls how DeleteRaid clears a raid's signups
type DeletePolicy struct {
	ChunkSize   int // Signup ids per DeleteMany call
	MaxAttempts int // List-and-delete rounds before giving up
	Concurrency int // DeleteMany calls in flight at once
}

// DefaultDeletePolicy returns the policy used when none is configured
func DefaultDeletePolicy() DeletePolicy {
	return DeletePolicy{ChunkSize: 100, MaxAttempts: 3, Concurrency: 4}
}

func (p DeletePolicy) normalized() DeletePolicy {
	def := DefaultDeletePolicy()
	if p.ChunkSize <= 0 {
		p.ChunkSize = def.ChunkSize
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.Concurrency <= 0 {
		p.Concurrency = def.Concurrency
	}
	return p
}

// RaidRepository handles raid and signup data access
type RaidRepository struct {
	store   database.DocumentStore
	deletes DeletePolicy
}

// NewRaidRepository creates a new raid repository
func NewRaidRepository(store database.DocumentStore, deletes DeletePolicy) *RaidRepository {
	return &RaidRepository{store: store, deletes: deletes.normalized()}
}

// SignupsPath returns the collection holding a raid's signups
func SignupsPath(raidID string) string {
	return database.ChildPath(RaidsCollection, raidID, SignupsCollection)
}

// CreateRaid stores a new raid and returns its id. Names are not checked for
// uniqueness here.
func (r *RaidRepository) CreateRaid(ctx context.Context, name, difficulty, dateTime string) (string, error) {
	req := &model.CreateRaidRequest{Name: name, Difficulty: difficulty, DateTime: dateTime}
	if err := model.NewValidationFailure(req.Validate()); err != nil {
		return "", err
	}

	id, err := r.store.Insert(ctx, RaidsCollection, map[string]interface{}{
		fieldName:       name,
		fieldDifficulty: difficulty,
		fieldDateTime:   dateTime,
		fieldCreatedAt:  database.ServerTimestamp,
	})
	if err != nil {
		return "", model.NewStoreError("create raid", err)
	}
	return id, nil
}

// FindRaidByName returns the first raid named exactly name, or nil
func (r *RaidRepository) FindRaidByName(ctx context.Context, name string) (*model.Raid, error) {
	raids, err := r.FindRaidsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(raids) == 0 {
		return nil, nil
	}
	return raids[0], nil
}

// FindRaidsByName returns every raid named exactly name, in store order
func (r *RaidRepository) FindRaidsByName(ctx context.Context, name string) ([]*model.Raid, error) {
	docs, err := r.store.Query(ctx, RaidsCollection, fieldName, name)
	if err != nil {
		return nil, model.NewStoreError("find raid", err)
	}
	raids := make([]*model.Raid, 0, len(docs))
	for _, doc := range docs {
		raids = append(raids, parseRaid(doc))
	}
	return raids, nil
}

// GetRaid retrieves a raid by id, or nil
func (r *RaidRepository) GetRaid(ctx context.Context, id string) (*model.Raid, error) {
	doc, err := r.store.Get(ctx, RaidsCollection, id)
	if err != nil {
		if errors.Is(err, database.ErrInvalidPath) {
			return nil, nil
		}
		return nil, model.NewStoreError("get raid", err)
	}
	if doc == nil {
		return nil, nil
	}
	return parseRaid(*doc), nil
}

// ListRaids returns every raid in store order
func (r *RaidRepository) ListRaids(ctx context.Context) ([]*model.Raid, error) {
	docs, err := r.store.List(ctx, RaidsCollection)
	if err != nil {
		return nil, model.NewStoreError("list raids", err)
	}
	raids := make([]*model.Raid, 0, len(docs))
	for _, doc := range docs {
		raids = append(raids, parseRaid(doc))
	}
	return raids, nil
}

// AddSignup stores a signup under the raid. A missing raid is reported
// before the arguments are looked at.
func (r *RaidRepository) AddSignup(ctx context.Context, raidID, nameRealm, role, class string) (string, error) {
	raid, err := r.GetRaid(ctx, raidID)
	if err != nil {
		return "", err
	}
	if raid == nil {
		return "", fmt.Errorf("raid %s: %w", raidID, model.ErrNotFound)
	}

	req := &model.CreateSignupRequest{NameRealm: nameRealm, Role: role, Class: class}
	if err := model.NewValidationFailure(req.Validate()); err != nil {
		return "", err
	}

	id, err := r.store.Insert(ctx, SignupsPath(raidID), map[string]interface{}{
		fieldNameRealm: nameRealm,
		fieldRole:      role,
		fieldClass:     class,
		fieldCreatedAt: database.ServerTimestamp,
	})
	if err != nil {
		return "", model.NewStoreError("add signup", err)
	}
	return id, nil
}

// ListSignups returns the raid's signups in store order
func (r *RaidRepository) ListSignups(ctx context.Context, raidID string) ([]*model.Signup, error) {
	docs, err := r.store.List(ctx, SignupsPath(raidID))
	if err != nil {
		if errors.Is(err, database.ErrInvalidPath) {
			return []*model.Signup{}, nil
		}
		return nil, model.NewStoreError("list signups", err)
	}
	signups := make([]*model.Signup, 0, len(docs))
	for _, doc := range docs {
		signups = append(signups, parseSignup(raidID, doc))
	}
	return signups, nil
}

// DeleteRaid removes a raid and all of its signups.
//
// Signups are removed first, in DeleteMany chunks. Whatever survives a round
// (a failed chunk, or a signup added meanwhile) is listed and retried, up to
// MaxAttempts rounds. The raid document itself is removed only once no signup
// is left, so a failed call can simply be repeated.
func (r *RaidRepository) DeleteRaid(ctx context.Context, raidID string) error {
	raid, err := r.GetRaid(ctx, raidID)
	if err != nil {
		return err
	}
	if raid == nil {
		return fmt.Errorf("raid %s: %w", raidID, model.ErrNotFound)
	}

	path := SignupsPath(raidID)
	var lastErr error
	for attempt := 0; ; attempt++ {
		docs, err := r.store.List(ctx, path)
		if err != nil {
			return model.NewStoreError("list signups", err)
		}
		if len(docs) == 0 {
			break
		}
		if attempt == r.deletes.MaxAttempts {
			if lastErr == nil {
				lastErr = errors.New("signups added during delete")
			}
			return model.NewStoreError("delete raid",
				fmt.Errorf("%d signups remain after %d attempts: %w", len(docs), attempt, lastErr))
		}

		ids := make([]string, 0, len(docs))
		for _, doc := range docs {
			ids = append(ids, doc.ID)
		}
		lastErr = r.deleteSignups(ctx, path, ids)
		if lastErr != nil {
			slog.WarnContext(ctx, "signup delete round failed",
				slog.String("raid_id", raidID),
				slog.Int("attempt", attempt+1),
				slog.Int("pending", len(ids)),
				slog.String("error", lastErr.Error()))
		}
	}

	if err := r.store.Delete(ctx, RaidsCollection, raidID); err != nil {
		return model.NewStoreError("delete raid", err)
	}
	return nil
}

// deleteSignups issues one DeleteMany per chunk with bounded concurrency
func (r *RaidRepository) deleteSignups(ctx context.Context, path string, ids []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.deletes.Concurrency)
	for _, batch := range chunk(ids, r.deletes.ChunkSize) {
		g.Go(func() error {
			return r.store.DeleteMany(gctx, path, batch)
		})
	}
	return g.Wait()
}

func parseRaid(doc database.Document) *model.Raid {
	return &model.Raid{
		ID:         doc.ID,
		Name:       getString(doc.Fields, fieldName),
		Difficulty: getString(doc.Fields, fieldDifficulty),
		DateTime:   getString(doc.Fields, fieldDateTime),
		CreatedAt:  getTime(doc.Fields, fieldCreatedAt),
	}
}

func parseSignup(raidID string, doc database.Document) *model.Signup {
	return &model.Signup{
		ID:        doc.ID,
		RaidID:    raidID,
		NameRealm: getString(doc.Fields, fieldNameRealm),
		Role:      getString(doc.Fields, fieldRole),
		Class:     getString(doc.Fields, fieldClass),
		CreatedAt: getTime(doc.Fields, fieldCreatedAt),
	}
}
