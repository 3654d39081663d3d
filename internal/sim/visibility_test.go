package sim

import "testing"

// TestOwnTeamVisibilityInvariant checks §4.7: own-team units/buildings are
// always visible regardless of any vision source, including when the team
// has no vision sources at all.
func TestOwnTeamVisibilityInvariant(t *testing.T) {
	w := newTestWorld()
	u := addTestUnit(w, "p1", 1, "WORKER")
	u.VisionRange = 0 // no vision source of its own

	visible := w.VisibleUnits(1)
	if len(visible) != 1 || visible[0].ID != u.ID {
		t.Fatalf("own-team unit must always be visible to its own team, got %v", visible)
	}
}

func TestEnemyOutsideVisionRangeIsHidden(t *testing.T) {
	w := newTestWorld()
	spotter := addTestUnit(w, "p1", 1, "WORKER")
	spotter.X, spotter.Y = 0, 0
	spotter.VisionRange = 100

	enemy := addTestUnit(w, "p2", 2, "WORKER")
	enemy.X, enemy.Y = 500, 0

	visible := w.VisibleUnits(1)
	for _, v := range visible {
		if v.ID == enemy.ID {
			t.Fatalf("enemy outside every vision source's range must not be visible")
		}
	}
}

func TestEnemyInsideVisionRangeIsVisible(t *testing.T) {
	w := newTestWorld()
	spotter := addTestUnit(w, "p1", 1, "WORKER")
	spotter.X, spotter.Y = 0, 0
	spotter.VisionRange = 300

	enemy := addTestUnit(w, "p2", 2, "WORKER")
	enemy.X, enemy.Y = 200, 0

	visible := w.VisibleUnits(1)
	found := false
	for _, v := range visible {
		if v.ID == enemy.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("enemy inside a vision source's range should be visible")
	}
}

// TestCloakVisibilityInvariant checks §4.7: a cloaked enemy unit is only
// visible to an observer whose vision source is within cloakDetectionRange,
// even if its ordinary (uncloaked) vision range is much larger.
func TestCloakVisibilityInvariant(t *testing.T) {
	w := newTestWorld()
	spotter := addTestUnit(w, "p1", 1, "WORKER")
	spotter.X, spotter.Y = 0, 0
	spotter.VisionRange = 300 // far beyond cloakDetectionRange

	cloaked := addTestUnit(w, "p2", 2, "CLOAK_TANK")
	cloaked.Cloaked = true
	cloaked.X, cloaked.Y = 200, 0 // inside 300 normal vision, outside cloakDetectionRange

	visible := w.VisibleUnits(1)
	for _, v := range visible {
		if v.ID == cloaked.ID {
			t.Fatalf("a cloaked unit beyond cloakDetectionRange must not be visible even within normal vision range")
		}
	}

	cloaked.X, cloaked.Y = 30, 0 // now within cloakDetectionRange
	visible = w.VisibleUnits(1)
	found := false
	for _, v := range visible {
		if v.ID == cloaked.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("a cloaked unit within cloakDetectionRange of a vision source should be visible")
	}
}
