// Package research exposes research batches over HTTP.
//
// A batch selects the casinos most in need of research, sends them to the
// configured provider in one call, merges the returned offers and checkpoints
// the researched casinos. The gemini subpackage provides the provider.
package research
