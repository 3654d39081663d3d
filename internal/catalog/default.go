package catalog

import "fight-club-core/internal/physics"

// Unit type identifiers for the bundled default roster.
const (
	UnitWorker    UnitType = "WORKER"
	UnitRifleman  UnitType = "RIFLEMAN"
	UnitRocketeer UnitType = "ROCKETEER"
	UnitMedic     UnitType = "MEDIC"
	UnitEngineer  UnitType = "ENGINEER"
	UnitCloakTank UnitType = "CLOAK_TANK"
	UnitScout     UnitType = "SCOUT"
)

// Building type identifiers for the bundled default roster.
const (
	BuildingHeadquarters    BuildingType = "HEADQUARTERS"
	BuildingRefinery        BuildingType = "REFINERY"
	BuildingBarracks        BuildingType = "BARRACKS"
	BuildingFactory         BuildingType = "FACTORY"
	BuildingPowerPlant      BuildingType = "POWER_PLANT"
	BuildingTurret          BuildingType = "TURRET"
	BuildingWall            BuildingType = "WALL"
	BuildingBank            BuildingType = "BANK"
	BuildingShieldGenerator BuildingType = "SHIELD_GENERATOR"
	BuildingCommandCitadel  BuildingType = "COMMAND_CITADEL"
	BuildingBunker          BuildingType = "BUNKER"
)

// Research type identifiers for the bundled default roster.
const (
	ResearchImprovedArmor      ResearchType = "IMPROVED_ARMOR"
	ResearchImprovedWeapons    ResearchType = "IMPROVED_WEAPONS"
	ResearchParallelResearch   ResearchType = "PARALLEL_RESEARCH"
	ResearchCargoCapacity      ResearchType = "CARGO_CAPACITY"
)

// Field effect kind identifiers, mirroring spec §3's enumerated set.
const (
	FieldExplosion     FieldEffectKind = "EXPLOSION"
	FieldFire          FieldEffectKind = "FIRE"
	FieldElectric      FieldEffectKind = "ELECTRIC"
	FieldFreeze        FieldEffectKind = "FREEZE"
	FieldFragmentation FieldEffectKind = "FRAGMENTATION"
	FieldPoison        FieldEffectKind = "POISON"
	FieldHealZone      FieldEffectKind = "HEAL_ZONE"
	FieldSlowField     FieldEffectKind = "SLOW_FIELD"
	FieldShieldBarrier FieldEffectKind = "SHIELD_BARRIER"
	FieldGravityWell   FieldEffectKind = "GRAVITY_WELL"
	FieldSpeedBoost    FieldEffectKind = "SPEED_BOOST"
	FieldProximityMine FieldEffectKind = "PROXIMITY_MINE"
	FieldEarthquake    FieldEffectKind = "EARTHQUAKE"
	FieldWarningZone   FieldEffectKind = "WARNING_ZONE"
)

// Ordinance kind identifiers.
const (
	OrdinanceBullet OrdinanceKind = "BULLET"
	OrdinanceRocket OrdinanceKind = "ROCKET"
	OrdinanceLaser  OrdinanceKind = "LASER"
)

type defaultCatalog struct {
	units        map[UnitType]UnitDef
	buildings    map[BuildingType]BuildingDef
	research     map[ResearchType]ResearchDef
	fieldEffects map[FieldEffectKind]FieldEffectDef
	ordinance    map[OrdinanceKind]OrdinanceDef
}

// Default returns the bundled in-memory catalog used by cmd/coreserver and
// by tests. Its weapon ranges, cooldowns, and combo windows are adapted
// from the teacher's internal/game/weapons.go, hitbox.go, and combat.go
// (scaled from a melee brawler's pixel ranges to RTS unit ranges and tick
// cadence) rather than invented from scratch.
func Default() Catalog {
	c := &defaultCatalog{
		units:        map[UnitType]UnitDef{},
		buildings:    map[BuildingType]BuildingDef{},
		research:     map[ResearchType]ResearchDef{},
		fieldEffects: map[FieldEffectKind]FieldEffectDef{},
		ordinance:    map[OrdinanceKind]OrdinanceDef{},
	}

	circle := func(r float64) []physics.Shape {
		return []physics.Shape{{Kind: physics.ShapeCircle, Radius: r}}
	}

	c.units[UnitWorker] = UnitDef{
		Type: UnitWorker, DisplayName: "Worker", MaxHealth: 50, Speed: 60,
		Radius: 10, Upkeep: 1, VisionRange: 150, Elevation: ElevationGround,
		ProducerBuilding: BuildingHeadquarters, MaxCarried: 100, Fixtures: circle(10),
	}
	c.units[UnitRifleman] = UnitDef{
		Type: UnitRifleman, DisplayName: "Rifleman", MaxHealth: 80, Speed: 55,
		Radius: 12, Upkeep: 2, VisionRange: 200, Elevation: ElevationGround,
		ProducerBuilding: BuildingBarracks, Fixtures: circle(12),
		Weapon: &WeaponDef{
			MinDamage: 8, MaxDamage: 15, Range: 220, AttackRate: 2.2,
			Projectile: true, Speed: 900, OrdinanceKind: OrdinanceBullet,
			Targets: []Elevation{ElevationGround, ElevationAir},
			Combo:   &ComboDef{MaxHits: 4, WindowTicks: 10, DamageScale: []float64{1.0, 1.1, 1.2, 1.5}},
		},
	}
	c.units[UnitRocketeer] = UnitDef{
		Type: UnitRocketeer, DisplayName: "Rocketeer", MaxHealth: 70, Speed: 48,
		Radius: 12, Upkeep: 3, VisionRange: 220, Elevation: ElevationGround,
		ProducerBuilding: BuildingBarracks, Fixtures: circle(12),
		Weapon: &WeaponDef{
			MinDamage: 30, MaxDamage: 40, Range: 300, AttackRate: 0.8,
			Projectile: true, Speed: 260, OrdinanceKind: OrdinanceRocket,
			Targets: []Elevation{ElevationGround},
		},
	}
	c.units[UnitMedic] = UnitDef{
		Type: UnitMedic, DisplayName: "Medic", MaxHealth: 60, Speed: 55,
		Radius: 11, Upkeep: 2, VisionRange: 180, Elevation: ElevationGround,
		ProducerBuilding: BuildingBarracks, SpecialAbility: "heal", Fixtures: circle(11),
	}
	c.units[UnitEngineer] = UnitDef{
		Type: UnitEngineer, DisplayName: "Engineer", MaxHealth: 55, Speed: 55,
		Radius: 11, Upkeep: 2, VisionRange: 180, Elevation: ElevationGround,
		ProducerBuilding: BuildingBarracks, SpecialAbility: "repair", Fixtures: circle(11),
	}
	c.units[UnitCloakTank] = UnitDef{
		Type: UnitCloakTank, DisplayName: "Cloak Tank", MaxHealth: 220, Speed: 40,
		Radius: 18, Upkeep: 6, VisionRange: 220, Elevation: ElevationGround,
		ProducerBuilding: BuildingFactory, SpecialAbility: "cloak", Fixtures: circle(18),
		Weapon: &WeaponDef{
			MinDamage: 25, MaxDamage: 45, Range: 260, AttackRate: 1.0,
			Projectile: false, OrdinanceKind: OrdinanceLaser,
			Targets: []Elevation{ElevationGround, ElevationAir},
		},
	}
	c.units[UnitScout] = UnitDef{
		Type: UnitScout, DisplayName: "Scout", MaxHealth: 40, Speed: 90,
		Radius: 9, Upkeep: 1, VisionRange: 300, Elevation: ElevationGround,
		ProducerBuilding: BuildingFactory, Fixtures: circle(9),
	}

	c.buildings[BuildingHeadquarters] = BuildingDef{
		Type: BuildingHeadquarters, DisplayName: "Headquarters", MaxHealth: 2000,
		Cost: 0, BuildTimeSec: 0, Radius: 60, PowerValue: 10, VisionRange: 300,
		Producible: []UnitType{UnitWorker}, Fixtures: circle(60),
	}
	c.buildings[BuildingRefinery] = BuildingDef{
		Type: BuildingRefinery, DisplayName: "Refinery", MaxHealth: 600,
		Cost: 150, BuildTimeSec: 20, Radius: 40, PowerValue: -2, VisionRange: 150,
		Fixtures: circle(40),
	}
	c.buildings[BuildingBarracks] = BuildingDef{
		Type: BuildingBarracks, DisplayName: "Barracks", MaxHealth: 500,
		Cost: 200, BuildTimeSec: 25, Radius: 40, PowerValue: -3, VisionRange: 150,
		Producible: []UnitType{UnitRifleman, UnitRocketeer, UnitMedic, UnitEngineer},
		Fixtures:   circle(40),
	}
	c.buildings[BuildingFactory] = BuildingDef{
		Type: BuildingFactory, DisplayName: "Factory", MaxHealth: 800,
		Cost: 350, BuildTimeSec: 35, Radius: 45, PowerValue: -5, VisionRange: 150,
		Producible: []UnitType{UnitCloakTank, UnitScout}, RequiredTier: 1,
		Fixtures: circle(45),
	}
	c.buildings[BuildingPowerPlant] = BuildingDef{
		Type: BuildingPowerPlant, DisplayName: "Power Plant", MaxHealth: 400,
		Cost: 150, BuildTimeSec: 20, Radius: 35, PowerValue: 20, VisionRange: 100,
		Fixtures: circle(35),
	}
	c.buildings[BuildingTurret] = BuildingDef{
		Type: BuildingTurret, DisplayName: "Turret", MaxHealth: 300,
		Cost: 150, BuildTimeSec: 15, Radius: 20, PowerValue: -1, VisionRange: 260,
		Fixtures: circle(20),
		Weapon: &WeaponDef{
			MinDamage: 12, MaxDamage: 20, Range: 260, AttackRate: 1.8,
			Projectile: true, Speed: 900, OrdinanceKind: OrdinanceBullet,
			Targets: []Elevation{ElevationGround, ElevationAir},
		},
	}
	c.buildings[BuildingWall] = BuildingDef{
		Type: BuildingWall, DisplayName: "Wall Post", MaxHealth: 400,
		Cost: 40, BuildTimeSec: 8, Radius: 15, VisionRange: 50, Fixtures: circle(15),
	}
	c.buildings[BuildingBank] = BuildingDef{
		Type: BuildingBank, DisplayName: "Bank", MaxHealth: 450,
		Cost: 250, BuildTimeSec: 25, Radius: 35, PowerValue: -2, VisionRange: 100,
		HasBank: true, Fixtures: circle(35),
	}
	c.buildings[BuildingShieldGenerator] = BuildingDef{
		Type: BuildingShieldGenerator, DisplayName: "Shield Generator", MaxHealth: 500,
		Cost: 300, BuildTimeSec: 30, Radius: 35, PowerValue: -6, VisionRange: 150,
		HasShield: true, RequiredTier: 1, Fixtures: circle(35),
	}
	c.buildings[BuildingCommandCitadel] = BuildingDef{
		Type: BuildingCommandCitadel, DisplayName: "Command Citadel", MaxHealth: 1200,
		Cost: 500, BuildTimeSec: 45, Radius: 55, PowerValue: -4, VisionRange: 250,
		UpkeepBonus: 150, RequiredTier: 2, Fixtures: circle(55),
	}
	c.buildings[BuildingBunker] = BuildingDef{
		Type: BuildingBunker, DisplayName: "Bunker", MaxHealth: 700,
		Cost: 200, BuildTimeSec: 20, Radius: 30, PowerValue: -1, VisionRange: 180,
		Fixtures: circle(30),
	}

	c.research[ResearchImprovedArmor] = ResearchDef{
		Type: ResearchImprovedArmor, DisplayName: "Improved Armor", Cost: 300, TimeSec: 60,
		Modifier: ResearchModifier{HealthMultiplier: 1.2, DamageMultiplier: 1.0, SpeedMultiplier: 1.0},
	}
	c.research[ResearchImprovedWeapons] = ResearchDef{
		Type: ResearchImprovedWeapons, DisplayName: "Improved Weapons", Cost: 350, TimeSec: 70,
		Modifier: ResearchModifier{HealthMultiplier: 1.0, DamageMultiplier: 1.25, SpeedMultiplier: 1.0},
	}
	c.research[ResearchParallelResearch] = ResearchDef{
		Type: ResearchParallelResearch, DisplayName: "Parallel Research", Cost: 400, TimeSec: 90,
		Modifier: ResearchModifier{HealthMultiplier: 1.0, DamageMultiplier: 1.0, SpeedMultiplier: 1.0, ParallelResearchSlots: 1},
	}
	c.research[ResearchCargoCapacity] = ResearchDef{
		Type: ResearchCargoCapacity, DisplayName: "Cargo Capacity", Cost: 200, TimeSec: 45,
		Prereqs: []ResearchType{},
		Modifier: ResearchModifier{HealthMultiplier: 1.0, DamageMultiplier: 1.0, SpeedMultiplier: 1.0, CarryCapacityBonus: 50},
	}

	c.fieldEffects[FieldExplosion] = FieldEffectDef{Kind: FieldExplosion, DefaultDuration: 0.5, Instantaneous: false, DamagePerSecond: 40}
	c.fieldEffects[FieldFire] = FieldEffectDef{Kind: FieldFire, DefaultDuration: 4, DamagePerSecond: 8}
	c.fieldEffects[FieldElectric] = FieldEffectDef{Kind: FieldElectric, DefaultDuration: 2, DamagePerSecond: 12}
	c.fieldEffects[FieldFreeze] = FieldEffectDef{Kind: FieldFreeze, DefaultDuration: 3, DamagePerSecond: 0}
	c.fieldEffects[FieldFragmentation] = FieldEffectDef{Kind: FieldFragmentation, Instantaneous: true}
	c.fieldEffects[FieldPoison] = FieldEffectDef{Kind: FieldPoison, DefaultDuration: 6, DamagePerSecond: 5}
	c.fieldEffects[FieldHealZone] = FieldEffectDef{Kind: FieldHealZone, DefaultDuration: 8, DamagePerSecond: -10}
	c.fieldEffects[FieldSlowField] = FieldEffectDef{Kind: FieldSlowField, DefaultDuration: 5}
	c.fieldEffects[FieldShieldBarrier] = FieldEffectDef{Kind: FieldShieldBarrier, DefaultDuration: 0}
	c.fieldEffects[FieldGravityWell] = FieldEffectDef{Kind: FieldGravityWell, DefaultDuration: 4}
	c.fieldEffects[FieldSpeedBoost] = FieldEffectDef{Kind: FieldSpeedBoost, DefaultDuration: 6}
	c.fieldEffects[FieldProximityMine] = FieldEffectDef{Kind: FieldProximityMine, Instantaneous: true}
	c.fieldEffects[FieldEarthquake] = FieldEffectDef{Kind: FieldEarthquake, DefaultDuration: 2, DamagePerSecond: 15}
	c.fieldEffects[FieldWarningZone] = FieldEffectDef{Kind: FieldWarningZone, DefaultDuration: 1.5}

	c.ordinance[OrdinanceBullet] = OrdinanceDef{Kind: OrdinanceBullet, Size: 2}
	c.ordinance[OrdinanceRocket] = OrdinanceDef{Kind: OrdinanceRocket, Size: 6, BulletEffects: []FieldEffectKind{FieldExplosion}}
	c.ordinance[OrdinanceLaser] = OrdinanceDef{Kind: OrdinanceLaser, Size: 1, BulletEffects: []FieldEffectKind{FieldElectric}}

	return c
}

func (c *defaultCatalog) Unit(t UnitType) (UnitDef, bool)         { v, ok := c.units[t]; return v, ok }
func (c *defaultCatalog) Building(t BuildingType) (BuildingDef, bool) { v, ok := c.buildings[t]; return v, ok }
func (c *defaultCatalog) Research(t ResearchType) (ResearchDef, bool) { v, ok := c.research[t]; return v, ok }
func (c *defaultCatalog) FieldEffect(k FieldEffectKind) (FieldEffectDef, bool) {
	v, ok := c.fieldEffects[k]
	return v, ok
}
func (c *defaultCatalog) Ordinance(k OrdinanceKind) (OrdinanceDef, bool) { v, ok := c.ordinance[k]; return v, ok }

func (c *defaultCatalog) StartingCredits() int                  { return 500 }
func (c *defaultCatalog) BaseUpkeepCap() int                    { return 250 }
func (c *defaultCatalog) DefaultSimultaneousResearchCap() int   { return 1 }
