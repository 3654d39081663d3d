package sim

import (
	"math"

	"fight-club-core/internal/physics"
)

// Wall Segment Maintainer (§4.4). A completed wall post auto-connects to
// every completed same-team post within [40, 200] distance; duplicate
// segments (same unordered post pair) are suppressed, and a post's death
// reaps every segment referencing it.

const (
	wallConnectMin = 40.0
	wallConnectMax = 200.0
)

// connectWallSegments is called once a WALL building finishes construction
// (from World.completeConstruction). b is the newly completed
// post.
func (w *World) connectWallSegments(b *Building) {
	for _, id := range w.buildingOrder {
		other := w.Buildings[id]
		if other == b || !other.Active || other.UnderConstruction {
			continue
		}
		if other.Team != b.Team || other.Type != b.Type {
			continue
		}
		d := math.Hypot(other.X-b.X, other.Y-b.Y)
		if d < wallConnectMin || d > wallConnectMax {
			continue
		}
		if w.wallSegmentExists(b.ID, other.ID) {
			continue
		}
		if w.maxWallSegments > 0 && len(w.Walls) >= w.maxWallSegments {
			return
		}

		midX, midY := (b.X+other.X)/2, (b.Y+other.Y)/2
		s := &WallSegment{
			CoreFields: CoreFields{
				ID: w.NextID(), Team: b.Team, OwnerID: b.OwnerID,
				X: midX, Y: midY,
				Health: int(10 * d), MaxHealth: int(10 * d), Active: true,
			},
			Post1: b.ID, Post2: other.ID, Length: d,
		}
		// Segment body aligned at angle 0: the facade has no body rotation,
		// so the two endpoints are encoded directly as offsets from the
		// midpoint rather than a length+angle pair (§8 scenario 3).
		s.BodyID = w.Physics.CreateBody(midX, midY, physicsFilterForTeam(b.Team), bodyTag{kind: kindWall, id: s.ID, team: b.Team})
		w.registerBody(s.BodyID, bodyTag{kind: kindWall, id: s.ID, team: b.Team})
		w.Physics.AddFixture(s.BodyID, physicsFixture(physics.Shape{
			Kind:   physics.ShapeSegment,
			Points: []physics.Vec2{{X: b.X - midX, Y: b.Y - midY}, {X: other.X - midX, Y: other.Y - midY}},
		}, false))
		w.AddWallSegment(s)
	}
}

func (w *World) wallSegmentExists(a, b EntityID) bool {
	for _, id := range w.wallOrder {
		s := w.Walls[id]
		if (s.Post1 == a && s.Post2 == b) || (s.Post1 == b && s.Post2 == a) {
			return true
		}
	}
	return false
}

// reapWallSegmentsFor drops every segment referencing a post that just
// died; called from the tick orchestrator's reap stage alongside building
// removal (§2 step 10), never from inside a collision callback.
func (w *World) reapWallSegmentsFor(postID EntityID) {
	var dead []EntityID
	for _, id := range w.wallOrder {
		s := w.Walls[id]
		if s.Post1 == postID || s.Post2 == postID {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		w.removeWall(id)
	}
}
