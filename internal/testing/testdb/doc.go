// Package testdb provides SurrealDB test environments for integration tests.
//
// Each TestDB connects to the instance named by TEST_DB_HOST (port, user and
// password from TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD), creates a
// unique namespace, and applies the embedded migrations. Tests are skipped
// when TEST_DB_HOST is unset, so the default test run needs no database.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t) // namespace: test_<nanos>_<n>, dropped on cleanup
//	    repo := repository.NewRaidRepository(tdb.Store, repository.DefaultDeletePolicy())
//	}
//
// # Shared Database
//
// For subtests that share schema:
//
//	tdb := testdb.NewShared(t)
//	t.Run("create", func(t *testing.T) { db := tdb.SetupSubtest(t); ... })
package testdb
