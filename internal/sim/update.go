package sim

import (
	"math"

	"fight-club-core/internal/catalog"
)

// Per-tick update stages for entity families that aren't command-driven
// (§2 steps 6-9): projectiles travel until their range is spent, beams are
// a short-lived visual that expires after its duration, field effects apply damage-over-time
// or fire once, and building production queues advance independently of
// any unit's command.

// UpdateProjectiles advances every live projectile's range budget and
// syncs its logical position from the physics body the facade has been
// integrating since ResolveFireOrder created it.
func (w *World) UpdateProjectiles(dt float64) {
	for _, id := range w.projOrder {
		p := w.Projectiles[id]
		if !p.Active {
			continue
		}
		if body, ok := w.Physics.GetBody(p.BodyID); ok {
			p.X, p.Y = body.X, body.Y
		}
		p.RangeRemaining -= math.Hypot(p.VX, p.VY) * dt
		if p.RangeRemaining <= 0 {
			p.Active = false
			w.spawnBulletEffects(p.OrdinanceKind, p.X, p.Y)
		}
	}
}

// spawnBulletEffects instantiates every field effect an ordinance's
// bullet-effect set names (catalog.OrdinanceDef.BulletEffects), anchored at
// the point of impact or range expiry: ROCKET leaves an EXPLOSION, LASER an
// ELECTRIC field (§4.5/§4.6, SPEC_FULL §4.13).
func (w *World) spawnBulletEffects(kind catalog.OrdinanceKind, x, y float64) {
	ord, ok := w.Catalog.Ordinance(kind)
	if !ok {
		return
	}
	for _, effectKind := range ord.BulletEffects {
		def, ok := w.Catalog.FieldEffect(effectKind)
		if !ok {
			continue
		}
		radius := ord.Size * 5
		if radius < 30 {
			radius = 30
		}
		f := &FieldEffect{
			CoreFields:        CoreFields{ID: w.NextID(), X: x, Y: y, Active: true},
			Kind:              effectKind,
			Radius:            radius,
			RemainingDuration: def.DefaultDuration,
			DamagePerSecond:   def.DamagePerSecond,
		}
		w.AddFieldEffect(f, w.maxFieldEffects)
	}
}

// UpdateBeams expires the instantaneous beam visuals once their
// RemainingDuration (0.15s, set in ResolveFireOrder) has run out (§4.5).
func (w *World) UpdateBeams(dt float64) {
	for _, id := range w.beamOrder {
		b := w.Beams[id]
		if !b.Active {
			continue
		}
		b.RemainingDuration -= dt
		if b.RemainingDuration <= 0 {
			b.Active = false
		}
	}
}

// UpdateFieldEffects applies damage-over-time fields to everything inside
// their radius each tick, fires instantaneous fields exactly once, and
// expires fields whose duration has elapsed (§4.5's ordinance-effect
// catalog, SPEC_FULL §4.5).
func (w *World) UpdateFieldEffects(dt float64) {
	for _, id := range w.fieldOrder {
		f := w.Fields[id]
		if !f.Active {
			continue
		}
		if f.Triggered {
			f.Active = false
			continue
		}
		def, ok := w.Catalog.FieldEffect(f.Kind)
		if f.DamagePerSecond > 0 {
			damage := int(f.DamagePerSecond * dt)
			if ok {
				// Whole damage points due by the end of this tick minus those
				// already due, so sub-1 per-tick amounts add up over time.
				elapsed := def.DefaultDuration - f.RemainingDuration
				damage = int(f.DamagePerSecond*(elapsed+dt)) - int(f.DamagePerSecond*elapsed)
			}
			w.applyFieldDamage(f, damage)
		}
		if ok && def.Instantaneous {
			f.Triggered = true
			continue
		}
		f.RemainingDuration -= dt
		if f.RemainingDuration <= 0 {
			f.Active = false
		}
	}
}

func (w *World) applyFieldDamage(f *FieldEffect, damage int) {
	if damage <= 0 {
		return
	}
	r2 := f.Radius * f.Radius
	for _, id := range w.unitOrder {
		u := w.Units[id]
		if !u.Active || distSq(f.X, f.Y, u.X, u.Y) > r2 {
			continue
		}
		w.applyDamage(bodyTag{kind: kindUnit, id: u.ID, team: u.Team}, damage, "", "")
	}
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active || b.UnderConstruction || distSq(f.X, f.Y, b.X, b.Y) > r2 {
			continue
		}
		w.applyDamage(bodyTag{kind: kindBuilding, id: b.ID, team: b.Team}, damage, "", "")
	}
}

// UpdateProduction advances every building's production queue: the head
// order's progress accrues dt seconds per tick until it reaches
// productionTime for the unit type, and on
// completion a new unit spawns at the building's rally point (or its own
// position if no rally has been set).
func (w *World) UpdateProduction(dt float64) {
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active || b.UnderConstruction || len(b.ProductionQueue) == 0 {
			continue
		}
		def, ok := w.Catalog.Unit(b.ProductionQueue[0].UnitType)
		if !ok {
			b.ProductionQueue = b.ProductionQueue[1:]
			continue
		}
		order := &b.ProductionQueue[0]
		buildTime := productionTime(def)
		order.Progress += dt
		if order.Progress < buildTime {
			continue
		}
		w.spawnUnit(b, def)
		b.ProductionQueue = b.ProductionQueue[1:]
	}
}

// productionTime derives a unit's build duration from its upkeep as a
// stand-in for a dedicated catalog field, since UnitDef doesn't carry one;
// costlier units simply take longer, matching the roster's existing
// cost/power progression.
func productionTime(def catalog.UnitDef) float64 {
	t := float64(def.Upkeep) * 0.5
	if t < 3 {
		t = 3
	}
	return t
}

func (w *World) spawnUnit(b *Building, def catalog.UnitDef) {
	if w.maxUnitsPerPlayer > 0 && w.countActiveUnitsForPlayer(b.OwnerID) >= w.maxUnitsPerPlayer {
		return
	}
	x, y := b.X, b.Y
	if b.HasRally {
		x, y = b.RallyX, b.RallyY
	}
	id := w.NextID()
	u := &Unit{
		CoreFields: CoreFields{ID: id, OwnerID: b.OwnerID, Team: b.Team, X: x, Y: y, Health: def.MaxHealth, MaxHealth: def.MaxHealth, Active: true},
		Type:       def.Type,
		Radius:     def.Radius,
		Stance:     StanceDefensive,
		Command:    IdleCommand{},
		MaxCarried: def.MaxCarried,
		VisionRange: def.VisionRange,
		HomeX:      x,
		HomeY:      y,
		PickaxeDurability: pickaxeMax,
	}
	u.BodyID = w.Physics.CreateBody(x, y, physicsFilterForTeam(b.Team), bodyTag{kind: kindUnit, id: id, team: b.Team})
	w.registerBody(u.BodyID, bodyTag{kind: kindUnit, id: id, team: b.Team})
	for _, shape := range def.Fixtures {
		w.Physics.AddFixture(u.BodyID, physicsFixture(shape, false))
	}
	if f, ok := w.Factions[b.OwnerID]; ok {
		applyResearchModifier(u, f.Modifier)
	}
	w.AddUnit(u)
}
