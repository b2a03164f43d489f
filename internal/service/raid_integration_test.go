package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/raidsign/internal/database"
	"github.com/forgo/raidsign/internal/handler"
	"github.com/forgo/raidsign/internal/model"
	"github.com/forgo/raidsign/internal/repository"
	"github.com/forgo/raidsign/internal/service"
	"github.com/forgo/raidsign/internal/testing/fixtures"
	"github.com/forgo/raidsign/internal/testing/helpers"
	"github.com/forgo/raidsign/internal/testing/testdb"
)

// stores runs fn against the memory store and, when TEST_DB_HOST is set,
// against a fresh SurrealDB namespace
func stores(t *testing.T, fn func(t *testing.T, store database.DocumentStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, database.NewMemoryStore())
	})
	t.Run("surrealdb", func(t *testing.T) {
		tdb := testdb.New(t)
		fn(t, tdb.Store)
	})
}

func TestIntegration_RosterAndCascade(t *testing.T) {
	stores(t, func(t *testing.T, store database.DocumentStore) {
		ctx := context.Background()
		repo := repository.NewRaidRepository(store, repository.DeletePolicy{ChunkSize: 2, MaxAttempts: 3, Concurrency: 2})
		svc := service.NewRaidService(service.RaidServiceConfig{
			Repo:   repo,
			Roster: service.NewRosterAggregator(model.UnknownRoleBucket),
		})
		f := fixtures.New(repo)

		raid := f.CreateRaid(t, fixtures.WithRaidName("Sunwell Plateau"), fixtures.WithDifficulty("Mythic"))
		f.CreateRoster(t, raid, "tank", "Healer", "dps", "dps", "bard")
		offTank := f.CreateSignup(t, raid, fixtures.WithNameRealm("Kael-Sunstrider"), fixtures.AsRole("TANK"))
		assert.Equal(t, "Warrior", offTank.Class)

		shown, summary, err := svc.ShowRaid(ctx, "Sunwell Plateau")
		require.NoError(t, err)
		assert.Equal(t, "Mythic", shown.Difficulty)
		assert.Equal(t, 2, summary.TankCount)
		assert.Equal(t, 1, summary.HealerCount)
		assert.Equal(t, 2, summary.DPSCount)
		assert.Len(t, summary.Unknown, 1)
		assert.LessOrEqual(t, summary.Counted(), 6)
		require.Len(t, summary.Tanks, 2)
		assert.Contains(t, []string{summary.Tanks[0].NameRealm, summary.Tanks[1].NameRealm}, "Kael-Sunstrider")

		deleted, err := svc.DeleteRaid(ctx, "Sunwell Plateau")
		require.NoError(t, err)
		assert.Equal(t, raid.ID, deleted.ID)

		left, err := repo.ListSignups(ctx, raid.ID)
		require.NoError(t, err)
		assert.Empty(t, left)

		_, err = repo.AddSignup(ctx, raid.ID, "", "", "")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestIntegration_ChatFlow(t *testing.T) {
	stores(t, func(t *testing.T, store database.DocumentStore) {
		repo := repository.NewRaidRepository(store, repository.DefaultDeletePolicy())
		svc := service.NewRaidService(service.RaidServiceConfig{Repo: repo, Locking: true})
		d := handler.NewDispatcher(handler.DispatcherConfig{
			Raids: svc,
			Clock: helpers.FixedClock(time.Date(2024, 11, 8, 20, 0, 0, 0, time.UTC)),
		})
		chat := helpers.NewChat(t, d)

		chat.ExpectText("!raidlist", "No raids available at the moment.")
		chat.ExpectText("!newraid Heroic Fri 8pm Onyxia's Lair", `Raid "8pm Onyxia's Lair" created successfully!`)
		chat.ExpectText("!signup Jaina-Proudmoore healer Mage 8pm Onyxia's Lair",
			`You have signed up for "8pm Onyxia's Lair" as healer Mage!`)
		chat.ExpectText("!signup Thrall-Durotan tank Shaman 8pm Onyxia's Lair",
			`You have signed up for "8pm Onyxia's Lair" as tank Shaman!`)

		embed := chat.Embed("!showraid 8pm Onyxia's Lair")
		assert.Equal(t, `Heroic Fri - "8pm Onyxia's Lair"`, embed.Title)
		assert.Equal(t, []string{"Thrall-Durotan", "Jaina-Proudmoore"}, helpers.FieldNames(embed))

		list := chat.Embed("!raidlist")
		assert.Equal(t, []string{"8pm Onyxia's Lair"}, helpers.FieldNames(list))

		chat.ExpectText("!delraid 8pm Onyxia's Lair", `Raid "8pm Onyxia's Lair" has been deleted successfully.`)
		chat.ExpectText("!showraid 8pm Onyxia's Lair", "No raid found with that name.")
		chat.ExpectSilence("good game everyone")
	})
}

func TestIntegration_UniqueNames(t *testing.T) {
	stores(t, func(t *testing.T, store database.DocumentStore) {
		repo := repository.NewRaidRepository(store, repository.DefaultDeletePolicy())
		svc := service.NewRaidService(service.RaidServiceConfig{Repo: repo, NamePolicy: model.RaidNameUnique, Locking: true})
		chat := helpers.NewChat(t, handler.NewDispatcher(handler.DispatcherConfig{Raids: svc}))

		chat.ExpectText("!newraid Normal Sat Karazhan", `Raid "Karazhan" created successfully!`)
		chat.ExpectText("!newraid Heroic Sun Karazhan", "A raid with that name already exists.")
	})
}
