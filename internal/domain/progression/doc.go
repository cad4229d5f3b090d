// Package progression turns graded reviews into experience points, daily
// streaks with shields, and a level and title from a fixed level table.
//
// Everything here is pure: the Ledger takes the learner's current record and
// today's stat and returns new values plus an Award describing what changed.
// Persisting them is the caller's job, inside the same transaction as the
// card update that produced the grade.
package progression
