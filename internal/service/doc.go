// Package service contains the application use cases that sit beside the
// review session flow: card status ingestion, the due and known counters,
// progress read-outs and the dashboard.
//
// The service layer depends on domain entities and repository interfaces
// (satisfied by the stores in internal/store), never on a concrete database.
// Review sessions themselves live in the review subpackage.
package service
