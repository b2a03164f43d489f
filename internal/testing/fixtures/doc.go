// Package fixtures provides raid and signup factories for tests.
//
// A Factory writes through any raid repository, so the same fixtures serve
// memory-backed unit tests and SurrealDB integration tests:
//
//	f := fixtures.New(repo)
//	raid := f.CreateRaid(t, fixtures.WithRaidName("Naxx"))
//	f.CreateRoster(t, raid, "tank", "healer", "dps", "dps")
//
// Names are randomized unless set, so fixtures never collide under the
// unique name policy.
package fixtures
