package sim

import (
	"math"

	"fight-club-core/internal/catalog"
	"fight-club-core/internal/physics"
)

// Combat & Weapons (§4.5). Two weapon categories: projectile (a physical
// body with decrementing range) and beam (instantaneous raycast). Firing
// cadence is governed by attacks/sec; the firing unit must zero its
// velocity in the tick it fires (enforced by the command FSM, not here).

// FireOrder is what a Command's UpdateCombat returns when it wants to
// shoot this tick — the §4.2 "Option<Ordinance>" the FSM collects, applied
// by the engine's unit-update stage via ResolveFireOrder.
type FireOrder struct {
	OwnerID          EntityID
	OwnerPlayerID    PlayerID
	OwnerTeam        int32
	OriginX, OriginY float64
	Weapon           *catalog.WeaponDef
	AimX, AimY       float64
	TargetEntity     EntityID // 0 for ground-fire
	DamageMultiplier float64  // cumulative research bonus (§4.8), 0 treated as 1
}

// comboMultiplier supplements §4.5's cadence model with the teacher's
// chained-hit damage scaling (SPEC_FULL §4.13); returns 1.0 when the
// weapon has no combo table. No firing path calls it, so combo tables do
// not change damage, and nothing counts WindowTick down.
func comboMultiplier(u *Unit, combo *catalog.ComboDef, targetID EntityID) float64 {
	if combo == nil {
		return 1.0
	}
	if u.Combo.LastTarget != targetID || u.Combo.WindowTick <= 0 {
		u.Combo.Count = 0
	}
	if u.Combo.WindowTick > 0 && u.Combo.Count < combo.MaxHits {
		u.Combo.Count++
	} else {
		u.Combo.Count = 1
	}
	u.Combo.WindowTick = combo.WindowTicks
	u.Combo.LastTarget = targetID

	idx := u.Combo.Count - 1
	if idx >= 0 && idx < len(combo.DamageScale) {
		return combo.DamageScale[idx]
	}
	return 1.0
}

// canFire reports whether enough time has elapsed since the unit's last
// shot given its weapon's attack rate.
func canFire(lastAttackAt, now, attackRate float64) bool {
	if attackRate <= 0 {
		return false
	}
	return now-lastAttackAt >= 1.0/attackRate
}

// predictiveAim solves |T + vt - S|^2 = (speed*t)^2 for the smallest
// positive root and returns the aim point T + v*t, clamped to a 3s lead.
// Hitscan-speed weapons (>1000 u/s) and targets with no positive root aim
// at the target's current position.
func predictiveAim(shooterX, shooterY, targetX, targetY, targetVX, targetVY, projSpeed float64) (float64, float64) {
	if projSpeed > 1000 {
		return targetX, targetY
	}
	dx := targetX - shooterX
	dy := targetY - shooterY

	a := targetVX*targetVX + targetVY*targetVY - projSpeed*projSpeed
	b := 2 * (dx*targetVX + dy*targetVY)
	c := dx*dx + dy*dy

	t, ok := smallestPositiveRoot(a, b, c)
	if !ok {
		return targetX, targetY
	}
	if t > 3.0 {
		t = 3.0
	}
	return targetX + targetVX*t, targetY + targetVY*t
}

func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	const eps = 1e-9
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return 0, false
		}
		t := -c / b
		if t > 0 {
			return t, true
		}
		return 0, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > 0 {
		return t1, true
	}
	if t2 > 0 {
		return t2, true
	}
	return 0, false
}

// ResolveFireOrder spawns the actual ordinance for a collected FireOrder,
// enforcing per-category live caps. Called from the engine's unit/building
// update stage (§2 steps 5-6), never from inside a physics contact
// callback (§9: buffer collision-derived mutation, apply after Step).
func (w *World) ResolveFireOrder(order FireOrder, maxProjectiles, maxBeams int) {
	weapon := order.Weapon
	damage := weapon.MinDamage
	if weapon.MaxDamage > weapon.MinDamage {
		damage += w.rng.Intn(weapon.MaxDamage - weapon.MinDamage + 1)
	}
	mult := order.DamageMultiplier
	if mult == 0 {
		mult = 1
	}
	damage = int(float64(damage) * mult)

	if weapon.Projectile {
		dx := order.AimX - order.OriginX
		dy := order.AimY - order.OriginY
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dist = 1
		}
		vx := dx / dist * weapon.Speed
		vy := dy / dist * weapon.Speed

		ord, _ := w.Catalog.Ordinance(weapon.OrdinanceKind)
		id := w.NextID()
		p := &Projectile{
			CoreFields: CoreFields{ID: id, OwnerID: order.OwnerPlayerID, Team: order.OwnerTeam,
				X: order.OriginX, Y: order.OriginY, Active: true},
			OwnerUnitOrBuilding: order.OwnerID,
			Damage:              damage,
			RangeRemaining:      weapon.Range,
			Size:                ord.Size,
			OrdinanceKind:       weapon.OrdinanceKind,
			Piercing:            ord.Piercing,
			AffectedEntities:    map[EntityID]struct{}{},
			VX:                  vx,
			VY:                  vy,
			AllowedElevations:   weapon.Targets,
		}
		if !w.AddProjectile(p, maxProjectiles) {
			return
		}
		p.BodyID = w.Physics.CreateBody(p.X, p.Y, physicsFilterForProjectile(), bodyTag{kind: kindProjectile, id: id, team: order.OwnerTeam})
		w.registerBody(p.BodyID, bodyTag{kind: kindProjectile, id: id, team: order.OwnerTeam})
		w.Physics.SetVelocity(p.BodyID, vx, vy)
		radius := ord.Size
		if radius <= 0 {
			radius = 1
		}
		w.Physics.AddFixture(p.BodyID, physicsFixture(physics.Shape{Kind: physics.ShapeCircle, Radius: radius}, false))
		return
	}

	// Beam: instantaneous raycast, excluding own-team bodies and sensors
	// (shield sensors absorb projectiles only, §4.6, DESIGN.md Open
	// Question #3).
	dx, dy := order.AimX-order.OriginX, order.AimY-order.OriginY
	accept := func(id physics.BodyID, userData interface{}) bool {
		tag, ok := userData.(bodyTag)
		if !ok {
			return false
		}
		return tag.team != order.OwnerTeam
	}
	hit, ok := w.Physics.Raycast(order.OriginX, order.OriginY, dx, dy, weapon.Range, accept)

	id := w.NextID()
	beam := &Beam{
		CoreFields:          CoreFields{ID: id, Team: order.OwnerTeam, Active: true},
		OwnerUnitOrBuilding: order.OwnerID,
		Damage:              damage,
		RemainingDuration:   0.15,
		StartX:              order.OriginX, StartY: order.OriginY,
		OrdinanceKind: weapon.OrdinanceKind,
	}
	if ok {
		beam.EndX, beam.EndY = hit.X, hit.Y
		w.applyDamageToBody(hit.Body, damage, weapon.OrdinanceKind, order.OwnerPlayerID)
	} else {
		beam.EndX, beam.EndY = order.AimX, order.AimY
	}
	w.AddBeam(beam, maxBeams)
}
