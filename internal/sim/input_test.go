package sim

import (
	"testing"

	"fight-club-core/internal/catalog"
)

// TestBuildLocationOverlapInvariant checks spec §4.2: a build order is
// rejected when the requested footprint overlaps an existing active
// building's footprint, and accepted once the two radii no longer overlap.
func TestBuildLocationOverlapInvariant(t *testing.T) {
	w := newTestWorld()
	f := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	f.Credits = 10000

	existing, _ := w.Catalog.Building(catalog.BuildingRefinery) // radius 40
	w.AddBuilding(&Building{
		CoreFields: CoreFields{ID: w.NextID(), OwnerID: "p1", Team: 1, X: 0, Y: 0, Health: existing.MaxHealth, MaxHealth: existing.MaxHealth, Active: true},
		Type:       catalog.BuildingRefinery,
	})

	barracks, _ := w.Catalog.Building(catalog.BuildingBarracks) // radius 40
	sumRadii := existing.Radius + barracks.Radius               // 80

	before := len(w.Buildings)
	w.applyBuildOrder("p1", BuildOrder{Type: catalog.BuildingBarracks, X: sumRadii - 10, Y: 0})
	if len(w.Buildings) != before {
		t.Fatalf("overlapping build location must be rejected, footprints touch within %0.f units", sumRadii-10)
	}

	w.applyBuildOrder("p1", BuildOrder{Type: catalog.BuildingBarracks, X: sumRadii + 10, Y: 0})
	if len(w.Buildings) != before+1 {
		t.Fatalf("non-overlapping build location should be accepted")
	}
}

func TestBuildOrderRejectedWhenUnaffordable(t *testing.T) {
	w := newTestWorld()
	f := w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	f.Credits = 0

	before := len(w.Buildings)
	w.applyBuildOrder("p1", BuildOrder{Type: catalog.BuildingRefinery, X: 1000, Y: 1000})

	if len(w.Buildings) != before {
		t.Fatalf("build order with insufficient credits must be rejected, not mutate state")
	}
	if f.Credits != 0 {
		t.Fatalf("rejected build order must not deduct credits, got %v", f.Credits)
	}
}
