// Package utils provides small conversion helpers shared by the record store
// adapters.
package utils
