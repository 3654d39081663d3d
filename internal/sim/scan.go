package sim

import "math"

// Sensor/Scan Subsystem (§4.3). Invoked per unit per tick; short-circuits
// on the first engagement. All distance comparisons use squared distance
// to avoid unnecessary sqrt calls on the hot path.

const (
	defensiveLeashRange  = 300.0
	medicScanRange       = 150.0
	engineerScanRange    = 150.0
	healRepairCooldown   = 10.0 // seconds
	targetLostMultiplier = 2.0  // drop target beyond 2x attack range
)

// scanForEnemies finds the best enemy target for a unit given its stance.
// Selection prefers units over buildings; ties are broken by smaller ID so
// results are reproducible when distances tie (§4.1 determinism).
func (w *World) scanForEnemies(u *Unit, attackRange float64) (EntityID, bool) {
	if u.Stance == StancePassive {
		return 0, false
	}

	originX, originY := u.HomeX, u.HomeY
	leashOK := func(x, y float64) bool {
		if u.Stance != StanceDefensive {
			return true
		}
		return distSq(originX, originY, x, y) <= defensiveLeashRange*defensiveLeashRange
	}

	scanRadius := attackRange * 3
	if scanRadius <= 0 {
		scanRadius = 400
	}

	var bestID EntityID
	bestKind := 2 // 0=unit,1=building ; start worse than either
	bestDistSq := math.MaxFloat64
	found := false

	for _, id := range w.SortedUnitIDs() {
		other, ok := w.Units[id]
		if !ok || !other.Active || other.Team == u.Team || other.Garrisoned {
			continue
		}
		if other.Cloaked && !w.isCloakRevealed(other, u.Team) {
			continue
		}
		if !leashOK(other.X, other.Y) {
			continue
		}
		d := distSq(u.X, u.Y, other.X, other.Y)
		if d > scanRadius*scanRadius {
			continue
		}
		if betterCandidate(0, d, id, bestKind, bestDistSq, bestID) {
			bestID, bestKind, bestDistSq, found = id, 0, d, true
		}
	}

	if bestKind != 0 {
		for _, id := range sortedBuildingIDs(w) {
			b, ok := w.Buildings[id]
			if !ok || !b.Active || b.Team == u.Team || b.UnderConstruction {
				continue
			}
			if !leashOK(b.X, b.Y) {
				continue
			}
			d := distSq(u.X, u.Y, b.X, b.Y)
			if d > scanRadius*scanRadius {
				continue
			}
			if betterCandidate(1, d, id, bestKind, bestDistSq, bestID) {
				bestID, bestKind, bestDistSq, found = id, 1, d, true
			}
		}
	}

	return bestID, found
}

// betterCandidate implements the "units over buildings, ties by smaller id"
// preference rule.
func betterCandidate(kind int, d float64, id EntityID, bestKind int, bestD float64, bestID EntityID) bool {
	if kind != bestKind {
		return kind < bestKind
	}
	if d != bestD {
		return d < bestD
	}
	return id < bestID
}

// scanForHealTargets implements the Medic ability: within medicScanRange,
// select the friendly with the lowest health fraction < 1.0, respecting a
// 10s cooldown.
func (w *World) scanForHealTargets(u *Unit, now float64) (EntityID, bool) {
	if now < u.HealCooldownUntil {
		return 0, false
	}
	var bestID EntityID
	bestFraction := 1.0
	found := false
	for _, id := range w.SortedUnitIDs() {
		other, ok := w.Units[id]
		if !ok || !other.Active || other.Team != u.Team || other.ID == u.ID || other.Garrisoned {
			continue
		}
		if distSq(u.X, u.Y, other.X, other.Y) > medicScanRange*medicScanRange {
			continue
		}
		fraction := float64(other.Health) / float64(maxInt(other.MaxHealth, 1))
		if fraction < 1.0 && fraction < bestFraction {
			bestID, bestFraction, found = id, fraction, true
		}
	}
	return bestID, found
}

// scanForRepairTargets implements the Engineer ability: same radius as
// heal, prefers units over buildings, shares the cooldown shape.
func (w *World) scanForRepairTargets(u *Unit, now float64) (EntityID, bool, bool) {
	if now < u.RepairCooldownUntil {
		return 0, false, false
	}
	for _, id := range w.SortedUnitIDs() {
		other, ok := w.Units[id]
		if !ok || !other.Active || other.Team != u.Team || other.ID == u.ID {
			continue
		}
		if other.Health >= other.MaxHealth {
			continue
		}
		if distSq(u.X, u.Y, other.X, other.Y) <= engineerScanRange*engineerScanRange {
			return id, true, false // false = unit, not building
		}
	}
	for _, id := range sortedBuildingIDs(w) {
		b, ok := w.Buildings[id]
		if !ok || !b.Active || b.Team != u.Team || b.Health >= b.MaxHealth {
			continue
		}
		if distSq(u.X, u.Y, b.X, b.Y) <= engineerScanRange*engineerScanRange {
			return id, true, true
		}
	}
	return 0, false, false
}

// scanForBuildingTarget finds the nearest enemy unit within a defensive
// building's (turret, armed headquarters) weapon range. Buildings only
// ever target units, never other buildings, matching a turret's role.
func (w *World) scanForBuildingTarget(b *Building) (EntityID, bool) {
	rangeSq := b.Weapon.Range * b.Weapon.Range
	var bestID EntityID
	bestD := math.MaxFloat64
	found := false
	for _, id := range w.SortedUnitIDs() {
		u, ok := w.Units[id]
		if !ok || !u.Active || u.Team == b.Team || u.Garrisoned {
			continue
		}
		if u.Cloaked && !w.isCloakRevealed(u, b.Team) {
			continue
		}
		d := distSq(b.X, b.Y, u.X, u.Y)
		if d > rangeSq || d >= bestD {
			continue
		}
		bestID, bestD, found = id, d, true
	}
	return bestID, found
}

// targetLost reports whether a combat command should drop its target:
// distance exceeds 2x attack range, or the target is no longer active.
func (w *World) targetLost(u *Unit, targetX, targetY, attackRange float64, targetActive bool) bool {
	if !targetActive {
		return true
	}
	limit := targetLostMultiplier * attackRange
	return distSq(u.X, u.Y, targetX, targetY) > limit*limit
}

func distSq(ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	return dx*dx + dy*dy
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func sortedBuildingIDs(w *World) []EntityID {
	ids := append([]EntityID(nil), w.buildingOrder...)
	// insertion order already deterministic; sort by id for tie-break safety
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
