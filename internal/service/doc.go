// Package service implements the raid sign-up business logic.
//
// The service package validates command arguments, resolves raid
// references, and orchestrates repository operations. Services sit between
// the command dispatcher and data access.
//
// # Service Pattern
//
//   - Constructor function (NewRaidService) accepts a config struct with its dependencies
//   - Methods implement one chat command each
//   - Errors are sentinels wrapping the model error kinds
//   - Context is passed through for cancellation and per-command deadlines
//
// # Repository Interfaces
//
// RaidRepository is declared here, not in the repository package, so tests
// can substitute an in-memory store or a mock.
//
// # Raid References
//
// A reference is either "#<id>" or a raid name. Names match exactly; when
// several raids share one, ResolveRaid returns an *AmbiguousRaidError
// listing their ids.
//
// # Concurrency
//
// With locking enabled, commands that touch one raid are serialised per raid
// id through a KeyedMutex. Unique-name creation also locks the lowercased
// name so two creators cannot both pass the uniqueness check.
//
// # Example Usage
//
//	svc := NewRaidService(RaidServiceConfig{
//	    Repo:       repository.NewRaidRepository(store, repository.DefaultDeletePolicy()),
//	    Roster:     NewRosterAggregator(model.UnknownRoleDrop),
//	    NamePolicy: model.RaidNameFirst,
//	})
//	raid, summary, err := svc.ShowRaid(ctx, "Onyxia's Lair")
package service
