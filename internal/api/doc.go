// Package api handles incoming HTTP requests, request validation and
// response formatting for the review API. It adapts HTTP to the card,
// progress and review services and maps their errors to status codes.
package api
