// Package events provides in-process publication of progression events
// (session completed, level up, streak shield earned). Services emit after
// their transaction commits; handlers must not assume they can change the
// outcome of the operation that produced the event.
package events
