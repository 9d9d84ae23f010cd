// Package testdb provides utilities for database integration tests.
//
// Tests obtain a connection with GetTestDBWithT, which skips the test when no
// database URL is configured, and apply the embedded goose migrations with
// SetupTestDatabaseSchema. Most tests then run inside WithTx so their writes
// are rolled back; tests that need several connections, such as concurrent
// claim tests, use ResetTasks to start from an empty table instead.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.SetupTestDatabaseSchema(t, db)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        taskStore := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
