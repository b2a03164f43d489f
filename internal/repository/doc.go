// Package repository implements raid data access on a hierarchical
// document store.
//
// Raids live in the "raids" collection. Each raid owns a "signups"
// subcollection at raids/<id>/signups (see SignupsPath), so a signup is
// always reached through its raid.
//
// # Repository Pattern
//
//   - Constructor function (NewRaidRepository) accepts a database.DocumentStore
//   - Methods map one-to-one onto store operations
//   - Documents are parsed into model structs; missing fields read as empty
//   - Store failures come back wrapped as *model.StoreError
//
// # Deletion
//
// DeleteRaid removes signups in chunks of DeletePolicy.ChunkSize, retrying
// whatever survives for up to MaxAttempts rounds, before removing the raid
// itself. A failure leaves the raid in place so the delete can be repeated.
//
// # Example Usage
//
//	repo := NewRaidRepository(database.NewMemoryStore(), DefaultDeletePolicy())
//	id, err := repo.CreateRaid(ctx, "Naxx", "Heroic", "Fri 8pm")
//	_, err = repo.AddSignup(ctx, id, "Thrall-Draenor", "tank", "Warrior")
package repository
