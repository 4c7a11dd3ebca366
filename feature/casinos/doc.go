// Package casinos exposes casinos and their offers over HTTP, including the
// merge endpoint used by external offer feeds.
package casinos
