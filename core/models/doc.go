// Package models defines the persisted entities of the offer reconciler.
//
// # Entities
//
//   - State: a regulatory jurisdiction, keyed by its abbreviation (case-insensitive).
//   - Casino: an operator scoped to exactly one State. Duplicate detection never crosses states.
//   - Offer: a promotional offer owned by a Casino and tagged with the ingestion Source that
//     produced it. Offers are never hard-deleted; removal is modeled as IsDeprecated.
//
// Money values use shopspring/decimal so that bonus and deposit deltas are exact.
package models
