package sim

import (
	"fight-club-core/internal/catalog"
	"fight-club-core/internal/physics"
)

// Collision Mapping (§4.6). The physics facade only knows about bodies,
// fixtures, and contacts; this file maps those contacts onto logical game
// events (damage, DoT scheduling, shield absorption). The World registers
// itself as the facade's sole ContactListener and buffers every contact it
// receives into pendingContacts, applying them only after Step returns so
// a contact callback never mutates the world re-entrantly (§9).

// entityKind tags which map a bodyTag's EntityID indexes into.
type entityKind int

const (
	kindUnit entityKind = iota
	kindBuilding
	kindWall
	kindProjectile
)

// bodyTag is the UserData attached to every physics body the core creates,
// letting the collision processor (and raycasts, §4.5) resolve a BodyID
// back to its owning entity and team without the physics facade knowing
// either concept exists.
type bodyTag struct {
	kind entityKind
	id   EntityID
	team int32
}

// registerBody records the owning entity for a newly created physics body.
func (w *World) registerBody(id physics.BodyID, tag bodyTag) {
	w.bodyTags[id] = tag
}

func (w *World) unregisterBody(id physics.BodyID) {
	delete(w.bodyTags, id)
}

// OnContact implements physics.ContactListener. Called synchronously from
// inside Physics.Step; must not touch World state beyond the buffer.
func (w *World) OnContact(c physics.Contact) {
	w.pendingContacts = append(w.pendingContacts, c)
}

// ApplyPendingCollisions drains the contacts buffered during the physics
// step just completed and applies their logical effects. Called by the
// tick orchestrator immediately after Physics.Step (§2 step 8).
func (w *World) ApplyPendingCollisions() {
	contacts := w.pendingContacts
	w.pendingContacts = nil
	for _, c := range contacts {
		w.applyContact(c)
	}
}

func (w *World) applyContact(c physics.Contact) {
	tagA, okA := w.bodyTags[c.A]
	tagB, okB := w.bodyTags[c.B]
	if !okA || !okB {
		return
	}

	// Shield projection: an active shield sensor absorbs enemy projectiles
	// only (DESIGN.md Open Question #3) — beams never touch a physics
	// body since they resolve via raycast, so this path only ever sees
	// projectile-vs-building-sensor contacts.
	if absorbed := w.tryShieldAbsorb(tagA, c.AIsSensor, tagB, c.BIsSensor); absorbed {
		return
	}

	if tagA.kind == kindProjectile && tagB.kind != kindProjectile {
		w.resolveProjectileContact(tagA, tagB)
		return
	}
	if tagB.kind == kindProjectile && tagA.kind != kindProjectile {
		w.resolveProjectileContact(tagB, tagA)
		return
	}
}

// tryShieldAbsorb checks whether one side is an active shield-generator
// sensor and the other an enemy projectile; if so, the projectile is
// consumed and true is returned.
func (w *World) tryShieldAbsorb(a bodyTag, aSensor bool, b bodyTag, bSensor bool) bool {
	shield, sOK := a, aSensor
	proj, pOK := b, b.kind == kindProjectile
	if !(sOK && w.isActiveShield(a) && pOK && proj.team != shield.team) {
		shield, sOK = b, bSensor
		proj, pOK = a, a.kind == kindProjectile
		if !(sOK && w.isActiveShield(b) && pOK && proj.team != shield.team) {
			return false
		}
	}
	if p, ok := w.Projectiles[proj.id]; ok {
		p.Active = false
	}
	return true
}

func (w *World) isActiveShield(t bodyTag) bool {
	if t.kind != kindBuilding {
		return false
	}
	b, ok := w.Buildings[t.id]
	return ok && b.Components.HasShield && b.Components.ShieldActive
}

// resolveProjectileContact applies one projectile's hit against a
// non-projectile target: friendly fire and elevation-targeting are checked
// first, then damage is applied and piercing bookkeeping updated.
func (w *World) resolveProjectileContact(projTag, targetTag bodyTag) {
	p, ok := w.Projectiles[projTag.id]
	if !ok || !p.Active {
		return
	}
	if _, already := p.AffectedEntities[targetTag.id]; already {
		return
	}
	if targetTag.team == p.Team {
		return // friendly fire suppressed
	}
	if !elevationAllowed(p.AllowedElevations, w.targetElevation(targetTag)) {
		return
	}

	w.applyDamage(targetTag, p.Damage, p.OrdinanceKind, p.OwnerID)
	p.AffectedEntities[targetTag.id] = struct{}{}
	if !p.Piercing {
		p.Active = false
	}
}

func elevationAllowed(allowed []catalog.Elevation, e catalog.Elevation) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == e {
			return true
		}
	}
	return false
}

func (w *World) targetElevation(t bodyTag) catalog.Elevation {
	switch t.kind {
	case kindUnit:
		if u, ok := w.Units[t.id]; ok {
			if def, ok := w.Catalog.Unit(u.Type); ok {
				return def.Elevation
			}
		}
	}
	return catalog.ElevationGround
}

// applyDamageToBody resolves a raw physics body hit (the beam weapon path,
// §4.5) back to its owning entity and applies damage the same way a
// projectile contact would. It performs no team check of its own: the
// beam's raycast accept predicate is what excludes own-team bodies.
func (w *World) applyDamageToBody(id physics.BodyID, damage int, ordinanceKind catalog.OrdinanceKind, attacker PlayerID) {
	tag, ok := w.bodyTags[id]
	if !ok {
		return
	}
	w.applyDamage(tag, damage, ordinanceKind, attacker)
}

// applyDamage subtracts damage from the entity a bodyTag identifies, fires
// any field effects the ordinance carries at the point of impact (§4.5/§4.6
// bullet-effect catalog), and credits the attacker's faction on a kill
// (§4.13 scoreboard). Death is signaled by zeroing Health and clearing
// Active; reaping (physics body removal, garrison/wall cleanup) happens in
// the tick orchestrator's reap stage, never here, so a single tick never
// reenters removeUnit mid-scan.
func (w *World) applyDamage(t bodyTag, damage int, ordinanceKind catalog.OrdinanceKind, attacker PlayerID) {
	switch t.kind {
	case kindUnit:
		u, ok := w.Units[t.id]
		if !ok || !u.Active {
			return
		}
		u.Health -= damage
		if u.Health <= 0 {
			u.Health = 0
			u.Active = false
			w.creditKill(attacker)
		}
		w.spawnBulletEffects(ordinanceKind, u.X, u.Y)
	case kindBuilding:
		b, ok := w.Buildings[t.id]
		if !ok || !b.Active || b.UnderConstruction {
			return
		}
		b.Health -= damage
		if b.Health <= 0 {
			b.Health = 0
			b.Active = false
			w.creditKill(attacker)
		}
		w.spawnBulletEffects(ordinanceKind, b.X, b.Y)
	case kindWall:
		s, ok := w.Walls[t.id]
		if !ok || !s.Active {
			return
		}
		s.Health -= damage
		if s.Health <= 0 {
			s.Health = 0
			s.Active = false
		}
		w.spawnBulletEffects(ordinanceKind, s.X, s.Y)
	}
}
