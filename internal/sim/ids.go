package sim

import "sync/atomic"

// EntityID is a monotonically issued identifier shared across every entity
// family (units, buildings, projectiles, beams, wall segments, field
// effects, resource deposits, obstacles). Cross-entity references are
// always by ID, never by pointer (§9 design notes), so stale references
// fail safe when re-validated against the World's maps.
type EntityID uint32

// PlayerID identifies a connected faction/session.
type PlayerID string

// idGenerator issues monotonically increasing EntityIDs. Each World owns
// its own instance (there is no package-level generator); Next uses an
// atomic increment so concurrent callers never receive the same ID.
type idGenerator struct {
	next uint32
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

func (g *idGenerator) Next() EntityID {
	return EntityID(atomic.AddUint32(&g.next, 1))
}
