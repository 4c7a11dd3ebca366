// Package utils provides conversion helpers for loosely typed input.
//
// Research providers and external feeds return amounts as numbers or as text
// ("$1,000", "up to 500"); these helpers turn them into the typed values stored
// on offers.
package utils
