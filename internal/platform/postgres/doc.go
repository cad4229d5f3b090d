// Package postgres provides PostgreSQL implementations of the store
// interfaces in internal/store. It owns the SQL, the row mapping between
// database records and domain entities, the mapping of driver errors onto
// store errors, and the embedded goose migrations that define the schema.
package postgres
