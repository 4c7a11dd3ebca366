// Package reports serves the research and discovery run reports archived in
// object storage.
package reports
