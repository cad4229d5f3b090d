// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the review and progression services, so business rules stay independent
// of the database. Every mutating method is meant to run inside
// RunInTransaction using the WithTx variant of its store.
package store
