package sim

import (
	"math"

	"fight-club-core/internal/catalog"
)

// Command FSM (§4.2). Each unit carries exactly one current Command;
// issuing a new one cancels the previous (last-writer-wins, no queueing).
// The source's tick(Δt)/update_movement/update_combat/on_cancel quartet is
// expressed here as a Go interface whose methods take the World and Unit
// explicitly rather than closing over them, since a Command is a plain
// value stored on Unit.Command and must stay serialization-friendly.
type Command interface {
	// Tick advances the command's internal state machine and reports
	// whether it is still active (false = completed, the unit reverts to
	// Idle).
	Tick(w *World, u *Unit, dt float64) bool
	// UpdateMovement sets the unit's physics velocity for this tick.
	UpdateMovement(w *World, u *Unit, dt float64)
	// UpdateCombat returns a FireOrder if the command wants to shoot this
	// tick.
	UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool)
	// OnCancel runs once when the command is replaced or the unit dies.
	OnCancel(w *World, u *Unit)
}

const arrivalRadius = 10.0

// unitWeapon resolves a unit's weapon definition from the catalog; units
// don't cache their own weapon pointer so research-driven catalog swaps
// (not modeled here, but kept possible) stay consistent.
func (w *World) unitWeapon(u *Unit) *catalog.WeaponDef {
	def, ok := w.Catalog.Unit(u.Type)
	if !ok {
		return nil
	}
	return def.Weapon
}

func (w *World) unitSpeed(u *Unit) float64 {
	def, ok := w.Catalog.Unit(u.Type)
	if !ok {
		return 0
	}
	speed := def.Speed * u.SpeedMultiplier
	if speed <= 0 {
		speed = def.Speed
	}
	return speed
}

// steerToward drives u's physics body straight at (tx, ty) at the unit's
// modified speed, damping velocity to zero on arrival. Returns true once
// arrived within arrivalRadius.
func steerToward(w *World, u *Unit, tx, ty float64) bool {
	dx, dy := tx-u.X, ty-u.Y
	dist := math.Hypot(dx, dy)
	if dist <= arrivalRadius {
		if u.BodyID != 0 {
			w.Physics.SetVelocity(u.BodyID, 0, 0)
		}
		return true
	}
	speed := w.unitSpeed(u)
	vx, vy := dx/dist*speed, dy/dist*speed
	if u.BodyID != 0 {
		w.Physics.SetVelocity(u.BodyID, vx, vy)
	}
	return false
}

func stopUnit(w *World, u *Unit) {
	if u.BodyID != 0 {
		w.Physics.SetVelocity(u.BodyID, 0, 0)
	}
}

func fireOrderAt(w *World, u *Unit, weapon *catalog.WeaponDef, targetID EntityID, aimX, aimY float64) (FireOrder, bool) {
	now := tickClock(w)
	if !canFire(u.LastAttackAt, now, weapon.AttackRate*effectiveAttackRateScale(u)) {
		return FireOrder{}, false
	}
	u.LastAttackAt = now
	if u.Cloaked {
		decloak(u)
	}
	mult := u.DamageMultiplier
	if mult == 0 {
		mult = 1
	}
	return FireOrder{
		OwnerID: u.ID, OwnerPlayerID: u.OwnerID, OwnerTeam: u.Team,
		OriginX: u.X, OriginY: u.Y, Weapon: weapon,
		AimX: aimX, AimY: aimY, TargetEntity: targetID,
		DamageMultiplier: mult,
	}, true
}

// effectiveAttackRateScale folds research-driven damage multipliers into
// the cadence check is unnecessary (damage, not rate, scales); kept as a
// named hook so a future rate-affecting research item has a single place
// to plug in.
func effectiveAttackRateScale(u *Unit) float64 { return 1.0 }

func decloak(u *Unit) {
	u.Cloaked = false
	u.Stance = u.PreCloakStance
}

// tickClock reports sim-time seconds. The World doesn't track wall time
// directly; the engine stamps it via SetClock before each tick so cadence
// math (canFire, cooldowns) stays in sim-time, not wall-time.
func tickClock(w *World) float64 { return w.clock }

// ---- Idle ----

type IdleCommand struct{}

func (IdleCommand) Tick(w *World, u *Unit, dt float64) bool { return true }
func (IdleCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	if u.Stance == StanceDefensive && distSq(u.X, u.Y, u.HomeX, u.HomeY) > 50*50 {
		steerToward(w, u, u.HomeX, u.HomeY)
	} else {
		stopUnit(w, u)
	}
}
func (IdleCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	return autoEngage(w, u, now)
}
func (IdleCommand) OnCancel(w *World, u *Unit) {}

// autoEngage is the stance-driven auto-attack used by Idle's combat step:
// scan for an enemy and, if one is found, a weapon is mounted and the
// target is already within range, fire at it. It never chases a target.
func autoEngage(w *World, u *Unit, now float64) (FireOrder, bool) {
	// Medic/Engineer carry no weapon, so this must run before the weapon
	// gate below or their special ability never fires at all.
	w.autoSupport(u, now)

	weapon := w.unitWeapon(u)
	if weapon == nil {
		return FireOrder{}, false
	}
	targetID, ok := w.scanForEnemies(u, weapon.Range)
	if !ok {
		return FireOrder{}, false
	}
	tx, ty, tvx, tvy, inRange := w.targetKinematics(u, targetID, weapon.Range)
	if !inRange {
		return FireOrder{}, false
	}
	aimX, aimY := predictiveAim(u.X, u.Y, tx, ty, tvx, tvy, weapon.Speed)
	return fireOrderAt(w, u, weapon, targetID, aimX, aimY)
}

// autoSupport applies the Medic "heal" and Engineer "repair" special
// abilities (§4.3 catalog, SPEC_FULL §4.13): restore healRepairRestoreFraction
// of the chosen candidate's max health (capped at max) and reset the
// matching cooldown. A no-op for
// every other unit type.
func (w *World) autoSupport(u *Unit, now float64) {
	switch u.Type {
	case catalog.UnitMedic:
		hid, ok := w.scanForHealTargets(u, now)
		if !ok {
			return
		}
		if target, ok := w.Units[hid]; ok {
			restoreHealth(&target.Health, target.MaxHealth)
		}
		u.HealCooldownUntil = now + healRepairCooldown
	case catalog.UnitEngineer:
		rid, ok, isBuilding := w.scanForRepairTargets(u, now)
		if !ok {
			return
		}
		if isBuilding {
			if b, ok := w.Buildings[rid]; ok {
				restoreHealth(&b.Health, b.MaxHealth)
			}
		} else if t, ok := w.Units[rid]; ok {
			restoreHealth(&t.Health, t.MaxHealth)
		}
		u.RepairCooldownUntil = now + healRepairCooldown
	}
}

// healRepairRestoreFraction is the share of max health a single Medic/
// Engineer application restores; the healRepairCooldown (scan.go) then
// gates the next application on the same target pool.
const healRepairRestoreFraction = 0.25

func restoreHealth(health *int, maxHealth int) {
	*health += int(float64(maxHealth) * healRepairRestoreFraction)
	if *health > maxHealth {
		*health = maxHealth
	}
}

// targetKinematics resolves a scanned enemy entity (unit or building) to
// position/velocity and reports whether it is within the given range.
func (w *World) targetKinematics(u *Unit, targetID EntityID, attackRange float64) (tx, ty, tvx, tvy float64, inRange bool) {
	if t, ok := w.Units[targetID]; ok && t.Active {
		tx, ty = t.X, t.Y
		if t.BodyID != 0 {
			if b, ok := w.Physics.GetBody(t.BodyID); ok {
				tvx, tvy = b.VX, b.VY
			}
		}
		return tx, ty, tvx, tvy, distSq(u.X, u.Y, tx, ty) <= attackRange*attackRange
	}
	if t, ok := w.Buildings[targetID]; ok && t.Active {
		return t.X, t.Y, 0, 0, distSq(u.X, u.Y, t.X, t.Y) <= attackRange*attackRange
	}
	return 0, 0, 0, 0, false
}

// ---- Move ----

type MoveCommand struct{ DestX, DestY float64 }

func (c *MoveCommand) Tick(w *World, u *Unit, dt float64) bool {
	return !steerToward(w, u, c.DestX, c.DestY)
}
func (c *MoveCommand) UpdateMovement(w *World, u *Unit, dt float64) { steerToward(w, u, c.DestX, c.DestY) }
func (c *MoveCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	return autoEngage(w, u, now)
}
func (c *MoveCommand) OnCancel(w *World, u *Unit) {}

// ---- AttackMove ----

type AttackMoveCommand struct {
	DestX, DestY float64
	engagedID    EntityID
}

func (c *AttackMoveCommand) Tick(w *World, u *Unit, dt float64) bool {
	if c.engagedID != 0 {
		if lost := w.engagementLost(u, c.engagedID); lost {
			c.engagedID = 0
		}
		return true
	}
	return distSq(u.X, u.Y, c.DestX, c.DestY) > arrivalRadius*arrivalRadius
}
func (c *AttackMoveCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	if c.engagedID != 0 {
		stopUnit(w, u)
		return
	}
	steerToward(w, u, c.DestX, c.DestY)
}
func (c *AttackMoveCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	weapon := w.unitWeapon(u)
	if weapon == nil {
		return FireOrder{}, false
	}
	if c.engagedID == 0 {
		if targetID, ok := w.scanForEnemies(u, weapon.Range); ok {
			c.engagedID = targetID
		}
	}
	if c.engagedID == 0 {
		return FireOrder{}, false
	}
	tx, ty, tvx, tvy, inRange := w.targetKinematics(u, c.engagedID, weapon.Range)
	if !inRange {
		return FireOrder{}, false
	}
	aimX, aimY := predictiveAim(u.X, u.Y, tx, ty, tvx, tvy, weapon.Speed)
	return fireOrderAt(w, u, weapon, c.engagedID, aimX, aimY)
}
func (c *AttackMoveCommand) OnCancel(w *World, u *Unit) {}

func (w *World) engagementLost(u *Unit, targetID EntityID) bool {
	weapon := w.unitWeapon(u)
	if weapon == nil {
		return true
	}
	if t, ok := w.Units[targetID]; ok {
		return w.targetLost(u, t.X, t.Y, weapon.Range, t.Active)
	}
	if t, ok := w.Buildings[targetID]; ok {
		return w.targetLost(u, t.X, t.Y, weapon.Range, t.Active)
	}
	return true
}

// ---- AttackUnit / AttackBuilding / AttackWallSegment ----

type AttackUnitCommand struct{ TargetID EntityID }

func (c *AttackUnitCommand) Tick(w *World, u *Unit, dt float64) bool {
	t, ok := w.Units[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || weapon == nil {
		return false
	}
	return !w.targetLost(u, t.X, t.Y, weapon.Range, t.Active)
}
func (c *AttackUnitCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	t, ok := w.Units[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || weapon == nil {
		stopUnit(w, u)
		return
	}
	steerToward(w, u, t.X, t.Y)
	if distSq(u.X, u.Y, t.X, t.Y) <= (0.9*weapon.Range)*(0.9*weapon.Range) {
		stopUnit(w, u)
	}
}
func (c *AttackUnitCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	t, ok := w.Units[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || !t.Active || weapon == nil {
		return FireOrder{}, false
	}
	if distSq(u.X, u.Y, t.X, t.Y) > weapon.Range*weapon.Range {
		return FireOrder{}, false
	}
	var tvx, tvy float64
	if t.BodyID != 0 {
		if b, ok := w.Physics.GetBody(t.BodyID); ok {
			tvx, tvy = b.VX, b.VY
		}
	}
	aimX, aimY := predictiveAim(u.X, u.Y, t.X, t.Y, tvx, tvy, weapon.Speed)
	return fireOrderAt(w, u, weapon, c.TargetID, aimX, aimY)
}
func (c *AttackUnitCommand) OnCancel(w *World, u *Unit) {}

type AttackBuildingCommand struct{ TargetID EntityID }

func (c *AttackBuildingCommand) Tick(w *World, u *Unit, dt float64) bool {
	t, ok := w.Buildings[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || weapon == nil {
		return false
	}
	return !w.targetLost(u, t.X, t.Y, weapon.Range, t.Active)
}
func (c *AttackBuildingCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	t, ok := w.Buildings[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || weapon == nil {
		stopUnit(w, u)
		return
	}
	targetDef, _ := w.Catalog.Building(t.Type)
	effectiveRange := 0.9 * (weapon.Range + targetDef.Radius)
	steerToward(w, u, t.X, t.Y)
	if distSq(u.X, u.Y, t.X, t.Y) <= effectiveRange*effectiveRange {
		stopUnit(w, u)
	}
}
func (c *AttackBuildingCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	t, ok := w.Buildings[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || !t.Active || weapon == nil {
		return FireOrder{}, false
	}
	if distSq(u.X, u.Y, t.X, t.Y) > weapon.Range*weapon.Range {
		return FireOrder{}, false
	}
	return fireOrderAt(w, u, weapon, c.TargetID, t.X, t.Y)
}
func (c *AttackBuildingCommand) OnCancel(w *World, u *Unit) {}

type AttackWallCommand struct{ TargetID EntityID }

func (c *AttackWallCommand) Tick(w *World, u *Unit, dt float64) bool {
	t, ok := w.Walls[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || weapon == nil {
		return false
	}
	return !w.targetLost(u, t.X, t.Y, weapon.Range, t.Active)
}
func (c *AttackWallCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	t, ok := w.Walls[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || weapon == nil {
		stopUnit(w, u)
		return
	}
	effectiveRange := 0.9 * (weapon.Range + 20)
	steerToward(w, u, t.X, t.Y)
	if distSq(u.X, u.Y, t.X, t.Y) <= effectiveRange*effectiveRange {
		stopUnit(w, u)
	}
}
func (c *AttackWallCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	t, ok := w.Walls[c.TargetID]
	weapon := w.unitWeapon(u)
	if !ok || !t.Active || weapon == nil {
		return FireOrder{}, false
	}
	if distSq(u.X, u.Y, t.X, t.Y) > weapon.Range*weapon.Range {
		return FireOrder{}, false
	}
	return fireOrderAt(w, u, weapon, c.TargetID, t.X, t.Y)
}
func (c *AttackWallCommand) OnCancel(w *World, u *Unit) {}

// ---- AttackGround ----

// AttackGroundCommand persists until the player cancels it (DESIGN.md
// Open Question #2): the unit keeps firing on the ground position at its
// normal cadence rather than completing after a single shot.
type AttackGroundCommand struct{ X, Y float64 }

func (c *AttackGroundCommand) Tick(w *World, u *Unit, dt float64) bool { return true }
func (c *AttackGroundCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	weapon := w.unitWeapon(u)
	if weapon == nil {
		stopUnit(w, u)
		return
	}
	steerToward(w, u, c.X, c.Y)
	if distSq(u.X, u.Y, c.X, c.Y) <= (0.9*weapon.Range)*(0.9*weapon.Range) {
		stopUnit(w, u)
	}
}
func (c *AttackGroundCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	weapon := w.unitWeapon(u)
	if weapon == nil || distSq(u.X, u.Y, c.X, c.Y) > weapon.Range*weapon.Range {
		return FireOrder{}, false
	}
	return fireOrderAt(w, u, weapon, 0, c.X, c.Y)
}
func (c *AttackGroundCommand) OnCancel(w *World, u *Unit) {}

// ---- Harvest ----

type harvestState int

const (
	harvestSeekDeposit harvestState = iota
	harvestHarvesting
	harvestReturning
	harvestDepositing
)

type HarvestCommand struct {
	DepositID  EntityID
	state      harvestState
	refineryID EntityID
}

const harvestRate = 20.0 // units/sec carried

func (c *HarvestCommand) Tick(w *World, u *Unit, dt float64) bool {
	d, ok := w.Deposits[c.DepositID]
	return ok && d.Active && d.Remaining > 0
}
func (c *HarvestCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	d, ok := w.Deposits[c.DepositID]
	if !ok {
		return
	}
	switch c.state {
	case harvestSeekDeposit:
		if steerToward(w, u, d.X, d.Y) {
			c.state = harvestHarvesting
		}
	case harvestHarvesting:
		stopUnit(w, u)
		c.harvest(w, u, d, dt)
	case harvestReturning:
		c.refreshRefinery(w, u)
		if ref := c.refinery(w); ref != nil {
			if steerToward(w, u, ref.X, ref.Y) {
				c.state = harvestDepositing
			}
		}
	case harvestDepositing:
		c.deposit(w, u)
	}
}
func (c *HarvestCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	return FireOrder{}, false
}
func (c *HarvestCommand) OnCancel(w *World, u *Unit) {}

func (c *HarvestCommand) harvest(w *World, u *Unit, d *ResourceDeposit, dt float64) {
	take := math.Min(harvestRate*dt, d.Remaining)
	take = math.Min(take, u.MaxCarried-u.CarriedResources)
	d.Remaining -= take
	u.CarriedResources += take
	if d.Remaining <= 0 {
		d.Active = false
	}
	if u.CarriedResources >= u.MaxCarried || d.Remaining <= 0 {
		c.state = harvestReturning
	}
}

func (c *HarvestCommand) refinery(w *World) *refineryRef {
	if c.refineryID == 0 {
		return nil
	}
	if b, ok := w.Buildings[c.refineryID]; ok && b.Active {
		return &refineryRef{X: b.X, Y: b.Y, Radius: refineryRadius(w, b)}
	}
	return nil
}

type refineryRef struct {
	X, Y, Radius float64
}

func refineryRadius(w *World, b *Building) float64 {
	if def, ok := w.Catalog.Building(b.Type); ok {
		return def.Radius
	}
	return 40
}

// refreshRefinery selects the nearest same-owner completed REFINERY or
// HEADQUARTERS when none is selected or the selected one is gone or
// inactive. A still-active selection is kept even if a nearer candidate
// exists; there is no periodic re-selection.
func (c *HarvestCommand) refreshRefinery(w *World, u *Unit) {
	if c.refineryID != 0 {
		if b, ok := w.Buildings[c.refineryID]; ok && b.Active {
			return
		}
	}
	var bestID EntityID
	bestD := math.MaxFloat64
	found := false
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active || b.OwnerID != u.OwnerID || b.UnderConstruction {
			continue
		}
		if b.Type != catalog.BuildingRefinery && b.Type != catalog.BuildingHeadquarters {
			continue
		}
		d := distSq(u.X, u.Y, b.X, b.Y)
		if d < bestD {
			bestID, bestD, found = id, d, true
		}
	}
	if found {
		c.refineryID = bestID
	}
}

func (c *HarvestCommand) deposit(w *World, u *Unit) {
	ref := c.refinery(w)
	if ref == nil {
		c.state = harvestReturning
		return
	}
	if distSq(u.X, u.Y, ref.X, ref.Y) > (ref.Radius+10+10)*(ref.Radius+10+10) {
		return
	}
	if f, ok := w.Factions[u.OwnerID]; ok {
		f.Credits += math.Round(u.CarriedResources)
	}
	u.CarriedResources = 0
	c.state = harvestSeekDeposit
}

// ---- Mine ----

type mineState int

const (
	mineSeekObstacle mineState = iota
	mineMining
	mineReturning
	mineRepairing
)

type MineCommand struct {
	ObstacleID EntityID
	state      mineState
	hqID       EntityID
}

const (
	pickaxeDrainPerSec  = 5.0
	mineDamagePerSec    = 15.0
	pickaxeReturnFloor  = 30.0
	pickaxeRepairPerSec = 50.0
	pickaxeMax          = 100.0
)

func (c *MineCommand) Tick(w *World, u *Unit, dt float64) bool {
	o, ok := w.Obstacles[c.ObstacleID]
	return ok && o.Active
}
func (c *MineCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	o, ok := w.Obstacles[c.ObstacleID]
	if !ok {
		return
	}
	switch c.state {
	case mineSeekObstacle:
		if u.PickaxeDurability < pickaxeReturnFloor {
			c.state = mineReturning
			return
		}
		if steerToward(w, u, o.X, o.Y) {
			c.state = mineMining
		}
	case mineMining:
		stopUnit(w, u)
		c.mine(w, u, o, dt)
	case mineReturning:
		hq := c.nearestHQ(w, u)
		if hq == nil {
			return
		}
		if steerToward(w, u, hq.X, hq.Y) {
			c.state = mineRepairing
		}
	case mineRepairing:
		u.PickaxeDurability = math.Min(pickaxeMax, u.PickaxeDurability+pickaxeRepairPerSec*dt)
		if u.PickaxeDurability >= pickaxeMax {
			c.state = mineSeekObstacle
		}
	}
}
func (c *MineCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	return FireOrder{}, false
}
func (c *MineCommand) OnCancel(w *World, u *Unit) {}

func (c *MineCommand) mine(w *World, u *Unit, o *Obstacle, dt float64) {
	before := u.PickaxeDurability
	u.PickaxeDurability -= pickaxeDrainPerSec * dt
	if o.Destructible {
		// Damage is counted against the durability drained so far, so the
		// sub-1 per-tick amounts add up to mineDamagePerSec instead of
		// truncating to zero.
		perDurability := mineDamagePerSec / pickaxeDrainPerSec
		o.Health -= int(before*perDurability) - int(u.PickaxeDurability*perDurability)
		if o.Health <= 0 {
			o.Active = false
		}
	}
	if u.PickaxeDurability < pickaxeReturnFloor {
		c.state = mineReturning
	}
}

func (c *MineCommand) nearestHQ(w *World, u *Unit) *Building {
	var best *Building
	bestD := math.MaxFloat64
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active || b.OwnerID != u.OwnerID || b.Type != catalog.BuildingHeadquarters {
			continue
		}
		d := distSq(u.X, u.Y, b.X, b.Y)
		if d < bestD {
			best, bestD = b, d
		}
	}
	return best
}

// ---- Construct ----

type ConstructCommand struct{ BuildingID EntityID }

const constructionProgressPerSec = 10.0

func (c *ConstructCommand) Tick(w *World, u *Unit, dt float64) bool {
	b, ok := w.Buildings[c.BuildingID]
	return ok && b.Active && b.UnderConstruction
}
func (c *ConstructCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	b, ok := w.Buildings[c.BuildingID]
	if !ok {
		return
	}
	def, _ := w.Catalog.Building(b.Type)
	adjacent := def.Radius + unitRadiusOf(u) + 5
	if distSq(u.X, u.Y, b.X, b.Y) > adjacent*adjacent {
		steerToward(w, u, b.X, b.Y)
		return
	}
	stopUnit(w, u)
	if !b.UnderConstruction {
		return
	}
	b.ConstructionProgress += constructionProgressPerSec * dt
	if b.ConstructionProgress > float64(def.MaxHealth) {
		b.ConstructionProgress = float64(def.MaxHealth)
	}
	b.Health = int(b.ConstructionProgress) // §3 invariant: under-construction health == progress
	if b.ConstructionProgress >= float64(def.MaxHealth) {
		w.completeConstruction(b, def)
	}
}
func (c *ConstructCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	return FireOrder{}, false
}
func (c *ConstructCommand) OnCancel(w *World, u *Unit) {}

func (w *World) completeConstruction(b *Building, def catalog.BuildingDef) {
	b.UnderConstruction = false
	b.Health = def.MaxHealth
	if def.Type == catalog.BuildingWall {
		w.connectWallSegments(b)
	}
}

// ---- GarrisonBunker ----

type GarrisonCommand struct{ BunkerID EntityID }

func (c *GarrisonCommand) Tick(w *World, u *Unit, dt float64) bool {
	return !u.Garrisoned
}
func (c *GarrisonCommand) UpdateMovement(w *World, u *Unit, dt float64) {
	b, ok := w.Buildings[c.BunkerID]
	if !ok || !b.Active {
		return
	}
	def, _ := w.Catalog.Building(b.Type)
	adjacent := def.Radius + unitRadiusOf(u) + 5
	if distSq(u.X, u.Y, b.X, b.Y) > adjacent*adjacent {
		steerToward(w, u, b.X, b.Y)
		return
	}
	u.Garrisoned = true
	u.GarrisonHost = c.BunkerID
	if u.BodyID != 0 {
		w.Physics.RemoveBody(u.BodyID)
		w.unregisterBody(u.BodyID)
		u.BodyID = 0
	}
	b.Garrison = append(b.Garrison, u.ID)
}
func (c *GarrisonCommand) UpdateCombat(w *World, u *Unit, now float64) (FireOrder, bool) {
	return FireOrder{}, false
}
func (c *GarrisonCommand) OnCancel(w *World, u *Unit) {}
