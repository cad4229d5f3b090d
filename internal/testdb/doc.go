// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests using it carry the "integration" build tag and
// are skipped when DATABASE_URL is unset.
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.SetupTestDatabaseSchema(t, db)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    cards := postgres.NewPostgresCardStore(tx, nil)
//	    ...
//	})
package testdb
