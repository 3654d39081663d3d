package physics

import "math"

// BodyID identifies a physics body. IDs are never reused within a World's
// lifetime so stale references fail safe (GetBody returns ok=false).
type BodyID uint32

// ShapeKind enumerates the fixture shapes the facade supports.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeSegment
	ShapePolygon
	ShapeCompound
)

// Shape is a single collision primitive attached to a body via a Fixture.
// Circle uses Radius; Segment/Polygon use Points (segment: exactly 2,
// polygon: convex, CCW winding); Compound is a set of child Shapes.
type Shape struct {
	Kind     ShapeKind
	Radius   float64
	Points   []Vec2
	Children []Shape
}

// Vec2 is a 2D point or vector.
type Vec2 struct{ X, Y float64 }

// Fixture attaches a shape to a body, optionally as a non-physical sensor
// (used for shield-projection and pickup-range sensors, §4.6).
type Fixture struct {
	Shape  Shape
	Sensor bool
}

// Filter controls which fixture categories can generate a contact with
// each other (e.g. a shield sensor accepting projectiles but not beams).
// Team equality is evaluated by the caller (the collision-mapping layer,
// §4.6) — the facade itself is team-agnostic.
type Filter struct {
	Category uint32
	Mask     uint32
}

func (f Filter) collides(other Filter) bool {
	return f.Mask&other.Category != 0 && other.Mask&f.Category != 0
}

// Body is a tracked physics body: position, velocity, and fixtures.
type Body struct {
	ID       BodyID
	X, Y     float64
	VX, VY   float64
	fx, fy   float64 // accumulated force for the current step
	Fixtures []Fixture
	Filter   Filter
	UserData interface{}
	Active   bool
}

// Contact describes two bodies whose fixtures overlap after a step.
type Contact struct {
	A, B       BodyID
	AIsSensor  bool
	BIsSensor  bool
	PointX, PointY float64
}

// ContactListener receives contacts discovered during Step. The core
// buffers these into a per-tick queue and applies them after the physics
// step completes (§9 design notes: no re-entrant mutation mid-step).
type ContactListener interface {
	OnContact(c Contact)
}

// RayHit is the result of a successful raycast.
type RayHit struct {
	Body   BodyID
	X, Y   float64
	Dist   float64
}

// World is the facade's concrete implementation: create_body, add_fixture,
// set_position, set_velocity, apply_force, step, raycast, on_contact,
// remove_body — the narrow interface spec §4.9 requires. It is backed by a
// uniform grid plus sweep-and-prune broad phase (see grid.go, sap.go); no
// 2D rigid-body library is available in the reference corpus this was
// modeled on, so narrow-phase resolution (circle/segment/polygon tests) is
// implemented directly, the same way the corpus implements its own hitbox
// math.
type World struct {
	bodies   map[BodyID]*Body
	order    []BodyID // insertion order, kept for deterministic iteration
	nextID   BodyID
	grid     *Grid
	sap      *SweepAndPrune
	listener ContactListener
	width    float64
	height   float64
	cellSize float64
}

// NewWorld creates a physics world covering the given bounds.
func NewWorld(width, height, cellSize float64, hintBodies int) *World {
	return &World{
		bodies:   make(map[BodyID]*Body, hintBodies),
		order:    make([]BodyID, 0, hintBodies),
		grid:     NewGrid(width, height, cellSize, hintBodies),
		sap:      NewSweepAndPrune(hintBodies),
		width:    width,
		height:   height,
		cellSize: cellSize,
	}
}

// CreateBody allocates a new body at the given position.
func (w *World) CreateBody(x, y float64, filter Filter, userData interface{}) BodyID {
	w.nextID++
	id := w.nextID
	w.bodies[id] = &Body{ID: id, X: x, Y: y, Filter: filter, UserData: userData, Active: true}
	w.order = append(w.order, id)
	return id
}

// AddFixture attaches a fixture to an existing body.
func (w *World) AddFixture(id BodyID, f Fixture) {
	if b, ok := w.bodies[id]; ok {
		b.Fixtures = append(b.Fixtures, f)
	}
}

// SetPosition teleports a body (construction placement, garrison/ungarrison).
func (w *World) SetPosition(id BodyID, x, y float64) {
	if b, ok := w.bodies[id]; ok {
		b.X, b.Y = x, y
	}
}

// SetVelocity sets a body's linear velocity directly (steering output).
func (w *World) SetVelocity(id BodyID, vx, vy float64) {
	if b, ok := w.bodies[id]; ok {
		b.VX, b.VY = vx, vy
	}
}

// ApplyForce accumulates a force to be integrated on the next Step.
func (w *World) ApplyForce(id BodyID, fx, fy float64) {
	if b, ok := w.bodies[id]; ok {
		b.fx += fx
		b.fy += fy
	}
}

// RemoveBody detaches a body from the world (reaping, garrison absorption).
func (w *World) RemoveBody(id BodyID) {
	delete(w.bodies, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// GetBody returns a body by ID; ok is false if it has been removed.
func (w *World) GetBody(id BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// OnContact registers the contact listener. Only one listener is supported;
// the core's CollisionProcessor (§4.6) is the sole subscriber.
func (w *World) OnContact(l ContactListener) {
	w.listener = l
}

// Step integrates positions/velocities by Δt, then runs broad+narrow phase
// collision detection and reports contacts to the listener. Per §9 the
// listener must not mutate the world re-entrantly; contacts are reported
// after integration completes, and it is the caller's responsibility to
// buffer and apply any world mutation after Step returns.
func (w *World) Step(dt float64) {
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.Active {
			continue
		}
		// mass is implicitly 1; force is velocity delta directly.
		b.VX += b.fx * dt
		b.VY += b.fy * dt
		b.fx, b.fy = 0, 0
		b.X += b.VX * dt
		b.Y += b.VY * dt
	}

	w.detectContacts()
}

func (w *World) detectContacts() {
	if w.listener == nil || len(w.order) == 0 {
		return
	}

	bounds := make([]AABB, 0, len(w.order))
	radii := make(map[BodyID]float64, len(w.order))
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.Active {
			continue
		}
		r := boundingRadius(b)
		radii[id] = r
		bounds = append(bounds, AABB{ID: id, MinX: b.X - r, MaxX: b.X + r})
	}

	for _, pair := range w.sap.Update(bounds) {
		a, okA := w.bodies[pair.A]
		b, okB := w.bodies[pair.B]
		if !okA || !okB {
			continue
		}
		if !a.Filter.collides(b.Filter) && !b.Filter.collides(a.Filter) {
			continue
		}
		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Hypot(dx, dy)
		sumR := radii[pair.A] + radii[pair.B]
		if dist > sumR {
			continue
		}
		px, py := a.X, a.Y
		if dist > 0 {
			t := radii[pair.A] / dist
			px = a.X + dx*t
			py = a.Y + dy*t
		}
		w.listener.OnContact(Contact{
			A: pair.A, B: pair.B,
			AIsSensor: anySensor(a), BIsSensor: anySensor(b),
			PointX: px, PointY: py,
		})
	}
}

func anySensor(b *Body) bool {
	for _, f := range b.Fixtures {
		if f.Sensor {
			return true
		}
	}
	return false
}

// boundingRadius returns the largest radius among a body's fixtures,
// treating segment/polygon fixtures via their furthest vertex.
func boundingRadius(b *Body) float64 {
	var r float64
	for _, f := range b.Fixtures {
		r = math.Max(r, shapeRadius(f.Shape))
	}
	if r == 0 {
		r = 1
	}
	return r
}

func shapeRadius(s Shape) float64 {
	switch s.Kind {
	case ShapeCircle:
		return s.Radius
	case ShapeSegment, ShapePolygon:
		var r float64
		for _, p := range s.Points {
			r = math.Max(r, math.Hypot(p.X, p.Y))
		}
		return r
	case ShapeCompound:
		var r float64
		for _, c := range s.Children {
			r = math.Max(r, shapeRadius(c))
		}
		return r
	}
	return 0
}

// Raycast finds the nearest body hit by a ray from origin in direction dir
// (need not be normalized) up to maxDist among bodies accept reports true
// for. accept receives the body's ID and UserData so the caller (the
// collision-mapping layer, §4.6) can apply team/elevation rules without
// the facade knowing about either concept. Returns ok=false if nothing is
// hit. Used for beam weapons (§4.5). Sensor fixtures are not solid and are
// left out of the radius the ray is tested against.
func (w *World) Raycast(originX, originY, dirX, dirY, maxDist float64, accept func(id BodyID, userData interface{}) bool) (RayHit, bool) {
	length := math.Hypot(dirX, dirY)
	if length == 0 {
		return RayHit{}, false
	}
	ux, uy := dirX/length, dirY/length

	best := RayHit{Dist: math.MaxFloat64}
	found := false

	for _, id := range w.order {
		b := w.bodies[id]
		if !b.Active || (accept != nil && !accept(id, b.UserData)) {
			continue
		}
		r := boundingRadius(b)
		if anySensor(b) {
			r = 0
			for _, f := range b.Fixtures {
				if !f.Sensor {
					r = math.Max(r, shapeRadius(f.Shape))
				}
			}
		}
		// Ray-circle intersection against the body's bounding radius.
		toX := b.X - originX
		toY := b.Y - originY
		proj := toX*ux + toY*uy
		if proj < 0 || proj > maxDist {
			continue
		}
		closestX := originX + ux*proj
		closestY := originY + uy*proj
		dx := b.X - closestX
		dy := b.Y - closestY
		distToLine := math.Hypot(dx, dy)
		if distToLine > r {
			continue
		}
		penetration := math.Sqrt(math.Max(0, r*r-distToLine*distToLine))
		hitDist := proj - penetration
		if hitDist < 0 {
			hitDist = 0
		}
		if hitDist < best.Dist {
			best = RayHit{Body: id, X: originX + ux*hitDist, Y: originY + uy*hitDist, Dist: hitDist}
			found = true
		}
	}

	return best, found
}

// QueryRadius returns body IDs whose bounding circle may overlap a query
// circle at (cx, cy) with the given radius. Callers perform the exact
// distance check (used by vision sources, sensor scans, §4.3/§4.7).
func (w *World) QueryRadius(cx, cy, radius float64) []BodyID {
	w.grid.Clear()
	for _, id := range w.order {
		b := w.bodies[id]
		if b.Active {
			w.grid.Insert(id, b.X, b.Y)
		}
	}
	return w.grid.QueryRadius(cx, cy, radius)
}

// Bodies returns body IDs in deterministic insertion order, for callers
// that must iterate all bodies (e.g. the tick orchestrator's entity sweep).
func (w *World) Bodies() []BodyID {
	return w.order
}
