// Package ids mints unique identifiers for worms, food, players, and
// connections. Everything funnels through uuid so the wire protocol never
// has to distinguish ID schemes by entity type.
package ids

import "github.com/google/uuid"

// New returns a fresh random identifier.
func New() string {
	return uuid.New().String()
}
