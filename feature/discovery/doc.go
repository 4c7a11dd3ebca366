// Package discovery ingests casinos found by discovery research.
//
// Submitted casinos are checked against the casinos already stored for the
// same state and only new ones are saved.
package discovery
