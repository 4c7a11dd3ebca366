// Package integrity provides system health checks.
//
// # Checks Provided
//
//   - Schema: Compares the live database tables with the models.
//   - Storage: Checks that the report bucket and its folders exist.
//   - Orphans: Finds casinos without a state and active offers without a casino.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true to migrate).
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/orphans : Runs the orphan check (supports ?fix=true to deprecate orphaned offers).
package integrity
