package sim

import "math"

// Cloak & Vision (§4.7). A vision source is any live same-team unit or
// completed same-team building; each carries its own vision radius. A
// target is visible to a team iff some source of that team satisfies
// dist(source, target) <= source.range + target.radius, with the source's
// effective range clamped to cloakDetectionRange against cloaked targets.
const cloakDetectionRange = 50.0

type visionSource struct {
	x, y, radius float64
}

// visionSourcesForTeam collects every live source belonging to team.
func (w *World) visionSourcesForTeam(team int32) []visionSource {
	sources := make([]visionSource, 0, 32)
	for _, id := range w.unitOrder {
		u := w.Units[id]
		if u.Active && u.Team == team && !u.Garrisoned {
			sources = append(sources, visionSource{u.X, u.Y, u.VisionRange})
		}
	}
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if b.Active && b.Team == team && !b.UnderConstruction {
			sources = append(sources, visionSource{b.X, b.Y, b.VisionRange})
		}
	}
	return sources
}

// isVisibleTo reports whether a point with the given radius is visible to
// any of the given sources, honoring cloak clamp if isCloaked is set.
func isVisibleTo(sources []visionSource, x, y, radius float64, isCloaked bool) bool {
	for _, s := range sources {
		r := s.radius
		if isCloaked && cloakDetectionRange < r {
			r = cloakDetectionRange
		}
		if math.Hypot(s.x-x, s.y-y) <= r+radius {
			return true
		}
	}
	return false
}

// isCloakRevealed reports whether a cloaked unit is revealed to the given
// observing team (used by the sensor scan so passive cloaked units don't
// get re-targeted by teams that cannot actually see them).
func (w *World) isCloakRevealed(u *Unit, observerTeam int32) bool {
	if observerTeam == u.Team {
		return true
	}
	sources := w.visionSourcesForTeam(observerTeam)
	return isVisibleTo(sources, u.X, u.Y, unitRadiusOf(u), true)
}

// VisibleUnits returns every unit visible to team, own-team units always
// included regardless of vision sources (§4.7: "if no vision sources
// exist, only own entities are returned").
func (w *World) VisibleUnits(team int32) []*Unit {
	sources := w.visionSourcesForTeam(team)
	out := make([]*Unit, 0, len(w.unitOrder))
	for _, id := range w.unitOrder {
		u := w.Units[id]
		if !u.Active || u.Garrisoned {
			continue
		}
		if u.Team == team {
			out = append(out, u)
			continue
		}
		if isVisibleTo(sources, u.X, u.Y, unitRadiusOf(u), u.Cloaked) {
			out = append(out, u)
		}
	}
	return out
}

// VisibleBuildings returns every building visible to team.
func (w *World) VisibleBuildings(team int32) []*Building {
	sources := w.visionSourcesForTeam(team)
	out := make([]*Building, 0, len(w.buildingOrder))
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active {
			continue
		}
		if b.Team == team {
			out = append(out, b)
			continue
		}
		def, _ := w.Catalog.Building(b.Type)
		if isVisibleTo(sources, b.X, b.Y, def.Radius, false) {
			out = append(out, b)
		}
	}
	return out
}

// VisibleWallSegments returns every wall segment visible to team; segments
// obey fog-of-war unlike projectiles/beams/field-effects/terrain (§6.4).
func (w *World) VisibleWallSegments(team int32) []*WallSegment {
	sources := w.visionSourcesForTeam(team)
	out := make([]*WallSegment, 0, len(w.wallOrder))
	for _, id := range w.wallOrder {
		s := w.Walls[id]
		if !s.Active {
			continue
		}
		if s.Team == team {
			out = append(out, s)
			continue
		}
		if isVisibleTo(sources, s.X, s.Y, s.Length/2, false) {
			out = append(out, s)
		}
	}
	return out
}

func unitRadiusOf(u *Unit) float64 {
	if u.Radius > 0 {
		return u.Radius
	}
	return 12
}
