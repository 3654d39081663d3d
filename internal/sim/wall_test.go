package sim

import "testing"

func addTestWallPost(w *World, owner PlayerID, team int32, x, y float64) *Building {
	b := &Building{
		CoreFields: CoreFields{
			ID: w.NextID(), OwnerID: owner, Team: team, X: x, Y: y,
			Health: 400, MaxHealth: 400, Active: true,
		},
		Type: wallBuildingTypeForTest,
	}
	w.AddBuilding(b)
	return b
}

// wallBuildingTypeForTest mirrors catalog.BuildingWall without importing the
// catalog package twice in this file; connectWallSegments only cares that
// two posts share the same Type.
const wallBuildingTypeForTest = "WALL"

// TestWallConnectDistanceInvariant checks spec §4.4: two completed same-team
// wall posts connect into a segment only when their distance falls within
// [40, 200]; outside that range, no segment is created.
func TestWallConnectDistanceInvariant(t *testing.T) {
	cases := []struct {
		name string
		dist float64
		want bool
	}{
		{"too close", 39, false},
		{"lower bound", 40, true},
		{"mid range", 150, true},
		{"upper bound", 200, true},
		{"too far", 201, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld()
			a := addTestWallPost(w, "p1", 1, 0, 0)
			b := addTestWallPost(w, "p1", 1, tc.dist, 0)

			w.connectWallSegments(b)

			got := w.wallSegmentExists(a.ID, b.ID)
			if got != tc.want {
				t.Fatalf("distance %.0f: wallSegmentExists = %v, want %v", tc.dist, got, tc.want)
			}
		})
	}
}

func TestWallConnectSuppressesDuplicates(t *testing.T) {
	w := newTestWorld()
	a := addTestWallPost(w, "p1", 1, 0, 0)
	b := addTestWallPost(w, "p1", 1, 100, 0)

	w.connectWallSegments(b)
	w.connectWallSegments(b) // simulate being called again, e.g. a third post finishing nearby

	count := 0
	for _, s := range w.Walls {
		if (s.Post1 == a.ID && s.Post2 == b.ID) || (s.Post1 == b.ID && s.Post2 == a.ID) {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one segment between the same post pair, got %d", count)
	}
}

func TestWallConnectIgnoresOtherTeam(t *testing.T) {
	w := newTestWorld()
	a := addTestWallPost(w, "p1", 1, 0, 0)
	b := addTestWallPost(w, "p2", 2, 100, 0)

	w.connectWallSegments(b)

	if w.wallSegmentExists(a.ID, b.ID) {
		t.Fatalf("wall posts on different teams must never connect")
	}
}

// TestReapWallSegmentsForPostDeath checks §4.4: a post's death reaps every
// segment referencing it.
func TestReapWallSegmentsForPostDeath(t *testing.T) {
	w := newTestWorld()
	a := addTestWallPost(w, "p1", 1, 0, 0)
	b := addTestWallPost(w, "p1", 1, 150, 0)
	c := addTestWallPost(w, "p1", 1, 150, 150)
	w.connectWallSegments(b)
	w.connectWallSegments(c)

	if len(w.Walls) != 2 {
		t.Fatalf("expected 2 segments set up before the reap, got %d", len(w.Walls))
	}

	w.reapWallSegmentsFor(a.ID)

	// a-b referenced a and is gone; b-c (150 apart) never referenced a.
	if len(w.Walls) != 1 {
		t.Fatalf("expected every segment referencing the dead post to be reaped and b-c to remain, got %d remaining", len(w.Walls))
	}
	for _, s := range w.Walls {
		if s.Post1 == a.ID || s.Post2 == a.ID {
			t.Fatalf("segment %d still references the dead post", s.ID)
		}
	}
}
