// Package audit records the outcome of research and discovery runs.
//
// Sink implements the reconciliation engine's audit collaborator. Every record is
// logged with zap; when a storage client is configured it is also archived as JSON
// under <prefix>/<kind>/<YYYY-MM-DD>/<run-id>.json. Archiving is best effort and
// never fails the run that produced the record.
//
// The same package reads archived reports back (List, Get) and removes expired
// ones (Prune).
package audit
