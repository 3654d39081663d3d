package sim

import (
	"testing"

	"fight-club-core/internal/catalog"
)

func newTestWorld() *World {
	return NewWorld(catalog.Default(), 2000, 2000, 100, 1)
}

func addTestUnit(w *World, owner PlayerID, team int32, t catalog.UnitType) *Unit {
	def, ok := w.Catalog.Unit(t)
	if !ok {
		panic("unknown unit type in test: " + string(t))
	}
	u := &Unit{
		CoreFields: CoreFields{
			ID: w.NextID(), OwnerID: owner, Team: team,
			Health: def.MaxHealth, MaxHealth: def.MaxHealth, Active: true,
		},
		Type:        t,
		Radius:      def.Radius,
		VisionRange: def.VisionRange,
	}
	w.AddUnit(u)
	return u
}

// TestUpkeepInvariant checks spec §8's upkeep invariant: CurrentUpkeep always
// equals the sum of each active owned unit's catalog upkeep cost.
func TestUpkeepInvariant(t *testing.T) {
	w := newTestWorld()
	f := w.AddPlayer("p1", 1, "Alpha", "ALPHA")

	addTestUnit(w, "p1", 1, catalog.UnitWorker)     // upkeep 1
	addTestUnit(w, "p1", 1, catalog.UnitRifleman)   // upkeep 2
	dead := addTestUnit(w, "p1", 1, catalog.UnitRocketeer) // upkeep 3, will be deactivated
	dead.Active = false

	w.UpdateEconomy(0)

	if got, want := f.CurrentUpkeep, 3; got != want {
		t.Fatalf("CurrentUpkeep = %d, want %d (dead units must not count)", got, want)
	}
}

func TestCanAffordUpkeepRespectsCap(t *testing.T) {
	w := newTestWorld()
	f := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	f.MaxUpkeep = 5
	f.CurrentUpkeep = 4

	if !w.CanAffordUpkeep(f, 1) {
		t.Fatalf("expected affording exactly up to the cap to succeed")
	}
	if w.CanAffordUpkeep(f, 2) {
		t.Fatalf("expected exceeding the cap to be rejected")
	}
}

// TestAddPlayerIdempotentOnReconnect verifies §3/§8 scenario 1: a second
// AddPlayer call for the same PlayerID returns the existing faction,
// untouched, rather than resetting credits/research/kills.
func TestAddPlayerIdempotentOnReconnect(t *testing.T) {
	w := newTestWorld()
	f := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	f.Credits = 123
	f.Kills = 5

	again := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	if again != f {
		t.Fatalf("expected the same *PlayerFaction on reconnect")
	}
	if again.Credits != 123 || again.Kills != 5 {
		t.Fatalf("reconnect must not reset existing faction state, got credits=%v kills=%v", again.Credits, again.Kills)
	}
}

func TestCompleteResearchIsIdempotent(t *testing.T) {
	w := newTestWorld()
	f := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	def, _ := w.Catalog.Research(catalog.ResearchImprovedArmor)

	w.completeResearch(f, def)
	mod1 := f.Modifier
	w.completeResearch(f, def)
	mod2 := f.Modifier

	if mod1 != mod2 {
		t.Fatalf("completing the same research twice must not double-apply its modifier: %+v vs %+v", mod1, mod2)
	}
	if len(f.CompletedResearch) != 1 {
		t.Fatalf("CompletedResearch should list %s exactly once, got %v", def.Type, f.CompletedResearch)
	}
}
