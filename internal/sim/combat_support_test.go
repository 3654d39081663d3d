package sim

import (
	"testing"

	"fight-club-core/internal/catalog"
)

// TestApplyDamageCreditsKillToAttacker checks SPEC_FULL §4.13: a kill
// increments the attacking faction's Kills counter, not the victim's.
func TestApplyDamageCreditsKillToAttacker(t *testing.T) {
	w := newTestWorld()
	attacker := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	w.AddPlayer("p2", 2, "Beta", "BETA")

	target := addTestUnit(w, "p2", 2, catalog.UnitWorker)
	target.Health = 5

	w.applyDamage(bodyTag{kind: kindUnit, id: target.ID, team: target.Team}, 100, "", "p1")

	if target.Active {
		t.Fatalf("target should have died to lethal damage")
	}
	if attacker.Kills != 1 {
		t.Fatalf("expected attacker's Kills to increment, got %d", attacker.Kills)
	}
}

func TestGetTopFactionsByKillsOrdering(t *testing.T) {
	w := newTestWorld()
	a := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	b := w.AddPlayer("p2", 2, "Beta", "BETA")
	c := w.AddPlayer("p3", 3, "Gamma", "GAMMA")
	a.Kills, b.Kills, c.Kills = 2, 5, 5

	ranked := w.GetTopFactionsByKills(0)
	if len(ranked) != 3 || ranked[0].PlayerID != "p2" || ranked[1].PlayerID != "p3" || ranked[2].PlayerID != "p1" {
		t.Fatalf("expected [p2 p3 p1] (kills desc, ties by PlayerID), got %+v", ranked)
	}

	top := w.GetTopFactionsByKills(1)
	if len(top) != 1 || top[0].PlayerID != "p2" {
		t.Fatalf("expected top-1 to be p2, got %+v", top)
	}
}

// TestAutoSupportHealsAndRespectsCooldown checks spec §4.3: a Medic restores
// a wounded friendly's health once, then withholds the next application
// until the cooldown elapses.
func TestAutoSupportHealsAndRespectsCooldown(t *testing.T) {
	w := newTestWorld()
	w.AddPlayer("p1", 1, "Alpha", "ALPHA")

	medic := addTestUnit(w, "p1", 1, catalog.UnitMedic)
	wounded := addTestUnit(w, "p1", 1, catalog.UnitRifleman)
	wounded.Health = 1

	w.autoSupport(medic, 0)
	healedTo := wounded.Health
	if healedTo <= 1 {
		t.Fatalf("expected medic to restore some health, got %d", healedTo)
	}
	if medic.HealCooldownUntil <= 0 {
		t.Fatalf("expected HealCooldownUntil to advance past 0")
	}

	wounded.Health = 1
	w.autoSupport(medic, 1) // still within cooldown
	if wounded.Health != 1 {
		t.Fatalf("expected cooldown to block a second heal, got health=%d", wounded.Health)
	}
}

// TestConnectWallSegmentsRegistersPhysicsBody checks review comment 4: a
// completed wall segment must get a physics body tagged kindWall so combat
// can resolve against it (§8 scenario 3).
func TestConnectWallSegmentsRegistersPhysicsBody(t *testing.T) {
	w := newTestWorld()
	w.AddPlayer("p1", 1, "Alpha", "ALPHA")

	def, _ := w.Catalog.Building(catalog.BuildingWall)
	postA := &Building{
		CoreFields: CoreFields{ID: w.NextID(), OwnerID: "p1", Team: 1, X: 0, Y: 0, Health: def.MaxHealth, MaxHealth: def.MaxHealth, Active: true},
		Type:       catalog.BuildingWall,
	}
	postB := &Building{
		CoreFields: CoreFields{ID: w.NextID(), OwnerID: "p1", Team: 1, X: 100, Y: 0, Health: def.MaxHealth, MaxHealth: def.MaxHealth, Active: true},
		Type:       catalog.BuildingWall,
	}
	w.AddBuilding(postA)
	w.AddBuilding(postB)

	w.connectWallSegments(postB)

	if len(w.Walls) != 1 {
		t.Fatalf("expected exactly one wall segment, got %d", len(w.Walls))
	}
	var seg *WallSegment
	for _, s := range w.Walls {
		seg = s
	}
	if seg.BodyID == 0 {
		t.Fatalf("expected the wall segment to have a physics body")
	}
	tag, ok := w.bodyTags[seg.BodyID]
	if !ok || tag.kind != kindWall || tag.id != seg.ID {
		t.Fatalf("expected bodyTags to map the segment's body back to kindWall %d, got %+v (ok=%v)", seg.ID, tag, ok)
	}
}

// TestSpawnBulletEffectsOnProjectileRangeExpiry checks review comment 2: a
// ROCKET projectile spawns an EXPLOSION field once its range is spent.
func TestSpawnBulletEffectsOnProjectileRangeExpiry(t *testing.T) {
	w := newTestWorld()
	w.ConfigureLimits(0, 0, 0, 10)

	p := &Projectile{
		CoreFields:     CoreFields{ID: w.NextID(), X: 50, Y: 50, Active: true},
		OrdinanceKind:  catalog.OrdinanceRocket,
		RangeRemaining: 1,
		VX:             10, VY: 0,
	}
	w.AddProjectile(p, 10)

	w.UpdateProjectiles(1.0) // consumes the remaining range this tick

	if p.Active {
		t.Fatalf("expected the projectile to deactivate once its range is spent")
	}
	if len(w.Fields) != 1 {
		t.Fatalf("expected exactly one field effect spawned, got %d", len(w.Fields))
	}
	for _, f := range w.Fields {
		if f.Kind != catalog.FieldExplosion {
			t.Fatalf("expected an EXPLOSION field, got %v", f.Kind)
		}
	}
}
