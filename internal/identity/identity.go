// Package identity derives the per-run building identifiers from row position.
//
// Both identifiers are positional labels. They are stable within one run
// only and change whenever the inputs or their order change.
package identity

import "strconv"

// CityScopePrefix prefixes every city-scope id.
const CityScopePrefix = "B-"

// RowID materializes a row position as the row id.
func RowID(position int) int {
	return position
}

// CityScopeID returns the external id for the row at position, e.g. "B-41".
func CityScopeID(position int) string {
	return CityScopePrefix + strconv.Itoa(position)
}
