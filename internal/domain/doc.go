// Package domain contains the core business entities, value objects, and
// domain logic of the vocabulary review system: cards and their scheduling
// fields, review sessions and items, learner progress and daily statistics,
// recall quality classification and calendar days. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
