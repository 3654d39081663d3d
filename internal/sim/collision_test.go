package sim

import "testing"

func addTestProjectile(w *World, team int32, piercing bool) *Projectile {
	p := &Projectile{
		CoreFields:       CoreFields{ID: w.NextID(), Team: team, Active: true},
		Damage:           10,
		Piercing:         piercing,
		AffectedEntities: map[EntityID]struct{}{},
	}
	w.Projectiles[p.ID] = p
	w.projOrder = append(w.projOrder, p.ID)
	return p
}

// TestPiercingSingleHitInvariant checks spec §4.6: a projectile never
// damages the same target twice, whether piercing or not; a non-piercing
// projectile additionally deactivates after its first hit, while a piercing
// one stays active to hit further distinct targets.
func TestPiercingSingleHitInvariant(t *testing.T) {
	w := newTestWorld()

	target := addTestUnit(w, "p2", 2, "WORKER")
	target.Health = 100

	p := addTestProjectile(w, 1, false)
	projTag := bodyTag{kind: kindProjectile, id: p.ID, team: p.Team}
	targetTag := bodyTag{kind: kindUnit, id: target.ID, team: target.Team}

	w.resolveProjectileContact(projTag, targetTag)
	if target.Health != 90 {
		t.Fatalf("expected one hit to apply damage once, health = %d", target.Health)
	}
	if p.Active {
		t.Fatalf("non-piercing projectile must deactivate after its first hit")
	}

	// A second contact against the same target and projectile must not
	// apply damage again, piercing bookkeeping or not.
	w.resolveProjectileContact(projTag, targetTag)
	if target.Health != 90 {
		t.Fatalf("projectile must never hit the same target twice, health = %d", target.Health)
	}
}

func TestPiercingProjectileHitsMultipleDistinctTargets(t *testing.T) {
	w := newTestWorld()
	a := addTestUnit(w, "p2", 2, "WORKER")
	b := addTestUnit(w, "p2", 2, "WORKER")
	a.Health, b.Health = 100, 100

	p := addTestProjectile(w, 1, true)
	projTag := bodyTag{kind: kindProjectile, id: p.ID, team: p.Team}

	w.resolveProjectileContact(projTag, bodyTag{kind: kindUnit, id: a.ID, team: a.Team})
	w.resolveProjectileContact(projTag, bodyTag{kind: kindUnit, id: b.ID, team: b.Team})

	if a.Health != 90 || b.Health != 90 {
		t.Fatalf("piercing projectile should damage every distinct target it contacts, got a=%d b=%d", a.Health, b.Health)
	}
	if !p.Active {
		t.Fatalf("piercing projectile should remain active across multiple distinct hits")
	}

	// Still never hits the same target (a) a second time.
	w.resolveProjectileContact(projTag, bodyTag{kind: kindUnit, id: a.ID, team: a.Team})
	if a.Health != 90 {
		t.Fatalf("piercing projectile must not re-hit an already-affected target, got health=%d", a.Health)
	}
}

func TestFriendlyFireSuppressed(t *testing.T) {
	w := newTestWorld()
	ally := addTestUnit(w, "p1", 1, "WORKER")
	ally.Health = 100

	p := addTestProjectile(w, 1, false)
	projTag := bodyTag{kind: kindProjectile, id: p.ID, team: p.Team}
	allyTag := bodyTag{kind: kindUnit, id: ally.ID, team: ally.Team}

	w.resolveProjectileContact(projTag, allyTag)

	if ally.Health != 100 {
		t.Fatalf("same-team contact must not apply damage, health = %d", ally.Health)
	}
	if !p.Active {
		t.Fatalf("a suppressed friendly-fire contact must not consume the projectile")
	}
}
