// Package database provides the raid document store.
//
// Database is the raw SurrealDB connection (SurrealDB implements it).
// DocumentStore is the hierarchical collection API the repository uses:
// paths alternate collection and document id, so "raids/<id>/signups"
// names the signups owned by one raid.
//
// # Implementations
//
//   - SurrealStore: each leaf collection is a table; nested documents carry
//     a _parent field. DeleteMany runs as one transaction (AtomicBatch).
//   - MemoryStore: insertion-ordered maps behind a RWMutex, used by the
//     memory driver and tests.
//
// ServerTimestamp in an Insert's fields is replaced by the store's clock.
package database
