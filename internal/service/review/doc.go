// Package review runs review sessions: it selects a bounded batch of due
// cards, grades each session item exactly once, and for every grade updates
// the card's schedule, the session aggregate and the learner's progression
// in a single transaction.
package review
