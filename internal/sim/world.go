package sim

import (
	"math/rand"
	"sort"

	"fight-club-core/internal/catalog"
	"fight-club-core/internal/physics"
)

// World owns every entity and is the sole place invariants are enforced
// (§9 design notes: callers receive IDs and perform updates via the
// world's API). It holds the physics facade and the event bus; the
// per-player input queue lives on the Engine.
type World struct {
	Catalog catalog.Catalog
	Physics *physics.World
	Events  *EventBus

	ids *idGenerator
	rng *rand.Rand

	Units       map[EntityID]*Unit
	Buildings   map[EntityID]*Building
	Walls       map[EntityID]*WallSegment
	Projectiles map[EntityID]*Projectile
	Beams       map[EntityID]*Beam
	Fields      map[EntityID]*FieldEffect
	Deposits    map[EntityID]*ResourceDeposit
	Obstacles   map[EntityID]*Obstacle
	Factions    map[PlayerID]*PlayerFaction

	// insertion-order id lists, kept alongside the maps so iteration is
	// deterministic even though Go map iteration order is not (§4.1).
	unitOrder     []EntityID
	buildingOrder []EntityID
	wallOrder     []EntityID
	projOrder     []EntityID
	beamOrder     []EntityID
	fieldOrder    []EntityID
	depositOrder  []EntityID
	obstacleOrder []EntityID
	factionOrder  []PlayerID

	width, height float64
	tickNum       uint64
	clock         float64 // sim-time seconds, advanced by the engine each tick

	// Per-player/world-wide entity caps (§4.13 resource limits). Zero means
	// unlimited, which is also the World's zero value, so a World built
	// without ConfigureLimits (e.g. in tests) behaves as it always has.
	maxUnitsPerPlayer     int
	maxBuildingsPerPlayer int
	maxWallSegments       int
	maxFieldEffects       int

	// bodyTags resolves a physics body back to its owning entity for the
	// CollisionProcessor (§4.6); populated by registerBody whenever an
	// entity gains a physics body and cleared on removal.
	bodyTags map[physics.BodyID]bodyTag

	// pendingContacts buffers contacts discovered during Step so the
	// listener never mutates the world re-entrantly (§9); the engine
	// drains this via ApplyPendingCollisions once Step returns.
	pendingContacts []physics.Contact
}

// NewWorld constructs an empty world over the given bounds. Entities are
// populated by a WorldGenerator collaborator (out of core scope, §1); the
// core only owns the maps thereafter.
func NewWorld(cat catalog.Catalog, width, height, gridCellSize float64, seed int64) *World {
	w := &World{
		Catalog:     cat,
		Physics:     physics.NewWorld(width, height, gridCellSize, 4096),
		Events:      NewEventBus(),
		ids:         newIDGenerator(),
		rng:         rand.New(rand.NewSource(seed)),
		Units:       map[EntityID]*Unit{},
		Buildings:   map[EntityID]*Building{},
		Walls:       map[EntityID]*WallSegment{},
		Projectiles: map[EntityID]*Projectile{},
		Beams:       map[EntityID]*Beam{},
		Fields:      map[EntityID]*FieldEffect{},
		Deposits:    map[EntityID]*ResourceDeposit{},
		Obstacles:   map[EntityID]*Obstacle{},
		Factions:    map[PlayerID]*PlayerFaction{},
		width:       width,
		height:      height,
		bodyTags:    map[physics.BodyID]bodyTag{},
	}
	w.Physics.OnContact(w)
	return w
}

// ConfigureLimits sets the per-player and world-wide entity caps enforced
// by spawnUnit, applyBuildOrder, connectWallSegments, and spawnBulletEffects
// (§4.13). Called once at startup after NewWorld; a World left unconfigured
// treats every cap as unlimited.
func (w *World) ConfigureLimits(maxUnitsPerPlayer, maxBuildingsPerPlayer, maxWallSegments, maxFieldEffects int) {
	w.maxUnitsPerPlayer = maxUnitsPerPlayer
	w.maxBuildingsPerPlayer = maxBuildingsPerPlayer
	w.maxWallSegments = maxWallSegments
	w.maxFieldEffects = maxFieldEffects
}

func (w *World) countActiveUnitsForPlayer(owner PlayerID) int {
	n := 0
	for _, id := range w.unitOrder {
		if u := w.Units[id]; u.Active && u.OwnerID == owner {
			n++
		}
	}
	return n
}

func (w *World) countActiveBuildingsForPlayer(owner PlayerID) int {
	n := 0
	for _, id := range w.buildingOrder {
		if b := w.Buildings[id]; b.Active && b.OwnerID == owner {
			n++
		}
	}
	return n
}

// NextID issues a new globally-unique entity ID.
func (w *World) NextID() EntityID { return w.ids.Next() }

// RNG returns the world's deterministic RNG. It is reseeded once per tick
// by the engine so that distance-tie-breaks and random rolls are
// reproducible given the same input trace (§1 non-goals: logical, not
// bitwise, reproducibility).
func (w *World) RNG() *rand.Rand { return w.rng }

func (w *World) reseed(seed int64) { w.rng = rand.New(rand.NewSource(seed)) }

// Clock returns the current sim-time in seconds.
func (w *World) Clock() float64 { return w.clock }

// advanceClock moves sim-time forward by dt; called once per tick by the
// engine before commands are updated.
func (w *World) advanceClock(dt float64) { w.clock += dt }

// AddUnit inserts a unit. Its physics body, if any, is created and
// registered by the caller.
func (w *World) AddUnit(u *Unit) {
	w.Units[u.ID] = u
	w.unitOrder = append(w.unitOrder, u.ID)
}

// AddBuilding inserts a building.
func (w *World) AddBuilding(b *Building) {
	w.Buildings[b.ID] = b
	w.buildingOrder = append(w.buildingOrder, b.ID)
}

// AddWallSegment inserts a wall segment.
func (w *World) AddWallSegment(s *WallSegment) {
	w.Walls[s.ID] = s
	w.wallOrder = append(w.wallOrder, s.ID)
}

// AddProjectile inserts a projectile, enforcing the live-projectile cap.
func (w *World) AddProjectile(p *Projectile, maxLive int) bool {
	if len(w.Projectiles) >= maxLive {
		return false
	}
	w.Projectiles[p.ID] = p
	w.projOrder = append(w.projOrder, p.ID)
	return true
}

// AddBeam inserts a beam, enforcing the live-beam cap.
func (w *World) AddBeam(b *Beam, maxLive int) bool {
	if len(w.Beams) >= maxLive {
		return false
	}
	w.Beams[b.ID] = b
	w.beamOrder = append(w.beamOrder, b.ID)
	return true
}

// AddFieldEffect inserts a field effect, enforcing the live cap (zero
// means unlimited).
func (w *World) AddFieldEffect(f *FieldEffect, maxLive int) bool {
	if maxLive > 0 && len(w.Fields) >= maxLive {
		return false
	}
	w.Fields[f.ID] = f
	w.fieldOrder = append(w.fieldOrder, f.ID)
	return true
}

// AddDeposit inserts a resource deposit (placed by WorldGenerator at construction).
func (w *World) AddDeposit(d *ResourceDeposit) {
	w.Deposits[d.ID] = d
	w.depositOrder = append(w.depositOrder, d.ID)
}

// AddObstacle inserts an obstacle (placed by WorldGenerator at construction).
func (w *World) AddObstacle(o *Obstacle) {
	w.Obstacles[o.ID] = o
	w.obstacleOrder = append(w.obstacleOrder, o.ID)
}

// AddFaction registers a new player/faction.
func (w *World) AddFaction(f *PlayerFaction) {
	w.Factions[f.PlayerID] = f
	w.factionOrder = append(w.factionOrder, f.PlayerID)
}

// AddPlayer creates a fresh PlayerFaction at the catalog's starting credits
// and upkeep cap (§3, §8 scenario 1) if one doesn't already exist for pid,
// and returns it either way. Called on a player's first connection; a
// reconnecting player's existing faction (credits, research, kills) is left
// untouched.
func (w *World) AddPlayer(pid PlayerID, team int32, name, factionTag string) *PlayerFaction {
	if f, ok := w.Factions[pid]; ok {
		return f
	}
	f := &PlayerFaction{
		PlayerID:   pid,
		Team:       team,
		Name:       name,
		FactionTag: factionTag,
		Credits:    float64(w.Catalog.StartingCredits()),
		MaxUpkeep:  w.Catalog.BaseUpkeepCap(),
		Connected:  true,
	}
	w.AddFaction(f)
	return f
}

// removeUnit reaps a unit: detaches its physics body and drops it from the
// world. Dependent structures (garrison membership) must be torn down by
// the caller before invoking this (§2 step 10).
func (w *World) removeUnit(id EntityID) {
	if u, ok := w.Units[id]; ok && u.BodyID != 0 {
		w.unregisterBody(u.BodyID)
		w.Physics.RemoveBody(u.BodyID)
	}
	delete(w.Units, id)
	w.unitOrder = removeID(w.unitOrder, id)
}

func (w *World) removeBuilding(id EntityID) {
	if b, ok := w.Buildings[id]; ok && b.BodyID != 0 {
		w.unregisterBody(b.BodyID)
		w.Physics.RemoveBody(b.BodyID)
	}
	delete(w.Buildings, id)
	w.buildingOrder = removeID(w.buildingOrder, id)
}

func (w *World) removeWall(id EntityID) {
	if s, ok := w.Walls[id]; ok && s.BodyID != 0 {
		w.unregisterBody(s.BodyID)
		w.Physics.RemoveBody(s.BodyID)
	}
	delete(w.Walls, id)
	w.wallOrder = removeID(w.wallOrder, id)
}

func (w *World) removeProjectile(id EntityID) {
	if p, ok := w.Projectiles[id]; ok && p.BodyID != 0 {
		w.unregisterBody(p.BodyID)
		w.Physics.RemoveBody(p.BodyID)
	}
	delete(w.Projectiles, id)
	w.projOrder = removeID(w.projOrder, id)
}

func (w *World) removeBeam(id EntityID) {
	delete(w.Beams, id)
	w.beamOrder = removeID(w.beamOrder, id)
}

func (w *World) removeField(id EntityID) {
	delete(w.Fields, id)
	w.fieldOrder = removeID(w.fieldOrder, id)
}

func removeID(ids []EntityID, target EntityID) []EntityID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// SortedUnitIDs returns unit IDs in deterministic order (insertion order is
// already deterministic here, but callers that need id-sort for tie-break
// purposes, e.g. sensor scans, use this).
func (w *World) SortedUnitIDs() []EntityID {
	ids := append([]EntityID(nil), w.unitOrder...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Bounds returns the world's dimensions.
func (w *World) Bounds() (width, height float64) { return w.width, w.height }

// ActiveUnitCount returns the number of live units owned by a player.
func (w *World) ActiveUnitCount(owner PlayerID) int {
	n := 0
	for _, id := range w.unitOrder {
		if u := w.Units[id]; u.Active && u.OwnerID == owner {
			n++
		}
	}
	return n
}
