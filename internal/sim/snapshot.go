package sim

import (
	"fight-club-core/internal/catalog"
	"fight-club-core/internal/physics"
)

// Snapshot assembly (§6.4). One GameState is built per connected player per
// tick; the parts that are identical for every player (projectiles, beams,
// field effects, terrain) are computed once and shared by reference, while
// faction summaries are built per player — mirroring the teacher's SnapshotPool
// intent of avoiding redundant per-consumer allocation (game_snapshot.go),
// adapted here to per-player visibility filtering rather than a single
// triple-buffered renderer feed.

type Vec2Snapshot struct{ X, Y float64 }

type FixtureSnapshot struct {
	Kind   string         `json:"kind"`
	Radius float64        `json:"radius,omitempty"`
	Points []Vec2Snapshot `json:"points,omitempty"`
}

type UnitSnapshot struct {
	ID         EntityID         `json:"id"`
	OwnerID    PlayerID         `json:"ownerId"`
	Team       int32            `json:"team"`
	Type       catalog.UnitType `json:"type"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Rotation   float64          `json:"rotation"`
	Health     int              `json:"health"`
	MaxHealth  int              `json:"maxHealth"`
	Stance     Stance           `json:"stance"`
	Cloaked    bool             `json:"cloaked"`
	Garrisoned bool             `json:"garrisoned"`
	Fixtures   []FixtureSnapshot `json:"fixtures,omitempty"`
}

type BuildingSnapshot struct {
	ID                   EntityID             `json:"id"`
	OwnerID              PlayerID             `json:"ownerId"`
	Team                 int32                `json:"team"`
	Type                 catalog.BuildingType `json:"type"`
	X                    float64              `json:"x"`
	Y                    float64              `json:"y"`
	Health               int                  `json:"health"`
	MaxHealth            int                  `json:"maxHealth"`
	UnderConstruction    bool                 `json:"underConstruction"`
	ConstructionProgress float64              `json:"constructionProgress"`
	Fixtures             []FixtureSnapshot    `json:"fixtures,omitempty"`
}

type WallSnapshot struct {
	ID        EntityID `json:"id"`
	Team      int32    `json:"team"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Post1     EntityID `json:"post1"`
	Post2     EntityID `json:"post2"`
}

type ProjectileSnapshot struct {
	ID   EntityID              `json:"id"`
	Team int32                 `json:"team"`
	X    float64               `json:"x"`
	Y    float64               `json:"y"`
	Kind catalog.OrdinanceKind `json:"kind"`
	Size float64               `json:"size"`
}

type BeamSnapshot struct {
	ID     EntityID              `json:"id"`
	Team   int32                 `json:"team"`
	StartX float64               `json:"startX"`
	StartY float64               `json:"startY"`
	EndX   float64               `json:"endX"`
	EndY   float64               `json:"endY"`
	Kind   catalog.OrdinanceKind `json:"kind"`
}

type FieldEffectSnapshot struct {
	ID     EntityID                `json:"id"`
	X      float64                 `json:"x"`
	Y      float64                 `json:"y"`
	Kind   catalog.FieldEffectKind `json:"kind"`
	Radius float64                 `json:"radius"`
}

type DepositSnapshot struct {
	ID        EntityID `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Remaining float64  `json:"remaining"`
}

type ObstacleSnapshot struct {
	ID EntityID `json:"id"`
	X  float64  `json:"x"`
	Y  float64  `json:"y"`
}

// FactionSnapshot carries full detail for own team, {playerId,name,team}
// only for other teams (§6.4).
type FactionSnapshot struct {
	PlayerID  PlayerID `json:"playerId"`
	Name      string   `json:"name"`
	Team      int32    `json:"team"`
	Credits   *float64 `json:"credits,omitempty"`
	Upkeep    *int     `json:"upkeep,omitempty"`
	MaxUpkeep *int     `json:"maxUpkeep,omitempty"`
	LowPower  *bool    `json:"lowPower,omitempty"`
}

type GameState struct {
	Timestamp        int64                      `json:"timestamp"`
	Units            []UnitSnapshot             `json:"units"`
	Buildings        []BuildingSnapshot         `json:"buildings"`
	Projectiles      []ProjectileSnapshot       `json:"projectiles"`
	Beams            []BeamSnapshot             `json:"beams"`
	FieldEffects     []FieldEffectSnapshot      `json:"fieldEffects"`
	ResourceDeposits []DepositSnapshot          `json:"resourceDeposits"`
	Obstacles        []ObstacleSnapshot         `json:"obstacles"`
	WallSegments     []WallSnapshot             `json:"wallSegments"`
	Factions         map[PlayerID]FactionSnapshot `json:"factions"`
	Biome            string                     `json:"biome"`
	WorldWidth       float64                    `json:"worldWidth"`
	WorldHeight      float64                    `json:"worldHeight"`
}

// sharedSnapshotParts holds the pieces of a tick's snapshot that are
// identical for every player, computed once per tick.
type sharedSnapshotParts struct {
	projectiles []ProjectileSnapshot
	beams       []BeamSnapshot
	fields      []FieldEffectSnapshot
	deposits    []DepositSnapshot
	obstacles   []ObstacleSnapshot
}

func (w *World) buildSharedSnapshotParts() sharedSnapshotParts {
	var s sharedSnapshotParts
	for _, id := range w.projOrder {
		p := w.Projectiles[id]
		if !p.Active {
			continue
		}
		s.projectiles = append(s.projectiles, ProjectileSnapshot{ID: p.ID, Team: p.Team, X: p.X, Y: p.Y, Kind: p.OrdinanceKind, Size: p.Size})
	}
	for _, id := range w.beamOrder {
		b := w.Beams[id]
		if !b.Active {
			continue
		}
		s.beams = append(s.beams, BeamSnapshot{ID: b.ID, Team: b.Team, StartX: b.StartX, StartY: b.StartY, EndX: b.EndX, EndY: b.EndY, Kind: b.OrdinanceKind})
	}
	for _, id := range w.fieldOrder {
		f := w.Fields[id]
		if !f.Active {
			continue
		}
		s.fields = append(s.fields, FieldEffectSnapshot{ID: f.ID, X: f.X, Y: f.Y, Kind: f.Kind, Radius: f.Radius})
	}
	for _, id := range w.depositOrder {
		d := w.Deposits[id]
		s.deposits = append(s.deposits, DepositSnapshot{ID: d.ID, X: d.X, Y: d.Y, Remaining: d.Remaining})
	}
	for _, id := range w.obstacleOrder {
		o := w.Obstacles[id]
		if !o.Active {
			continue
		}
		s.obstacles = append(s.obstacles, ObstacleSnapshot{ID: o.ID, X: o.X, Y: o.Y})
	}
	return s
}

// BuildSnapshot assembles the per-player GameState for the given team,
// filtering units/buildings/wallSegments through visibility (§4.7) and
// including fixture vertices only for the requesting player's own entities.
func (w *World) BuildSnapshot(team int32, shared sharedSnapshotParts, timestampNs int64, biome string) GameState {
	gs := GameState{
		Timestamp:        timestampNs,
		Projectiles:      shared.projectiles,
		Beams:            shared.beams,
		FieldEffects:     shared.fields,
		ResourceDeposits: shared.deposits,
		Obstacles:        shared.obstacles,
		Factions:         map[PlayerID]FactionSnapshot{},
		Biome:            biome,
	}
	gs.WorldWidth, gs.WorldHeight = w.Bounds()

	for _, u := range w.VisibleUnits(team) {
		gs.Units = append(gs.Units, w.unitSnapshot(u, team))
	}
	for _, b := range w.VisibleBuildings(team) {
		gs.Buildings = append(gs.Buildings, w.buildingSnapshot(b, team))
	}
	for _, s := range w.VisibleWallSegments(team) {
		gs.WallSegments = append(gs.WallSegments, WallSnapshot{ID: s.ID, Team: s.Team, X: s.X, Y: s.Y, Health: s.Health, MaxHealth: s.MaxHealth, Post1: s.Post1, Post2: s.Post2})
	}
	for _, pid := range w.factionOrder {
		f := w.Factions[pid]
		if f.Team == team {
			credits, upkeep, maxUpkeep, lowPower := f.Credits, f.CurrentUpkeep, f.MaxUpkeep, f.LowPower
			gs.Factions[pid] = FactionSnapshot{PlayerID: pid, Name: f.Name, Team: f.Team, Credits: &credits, Upkeep: &upkeep, MaxUpkeep: &maxUpkeep, LowPower: &lowPower}
		} else {
			gs.Factions[pid] = FactionSnapshot{PlayerID: pid, Name: f.Name, Team: f.Team}
		}
	}
	return gs
}

// BuildAdminSnapshot assembles an unfiltered GameState with every active
// entity regardless of team vision, for the debug/admin HTTP surface only
// (never sent to a player's own PlayerChannel, which always goes through
// the fogged BuildSnapshot).
func (w *World) BuildAdminSnapshot(shared sharedSnapshotParts, timestampNs int64, biome string) GameState {
	gs := GameState{
		Timestamp:        timestampNs,
		Projectiles:      shared.projectiles,
		Beams:            shared.beams,
		FieldEffects:     shared.fields,
		ResourceDeposits: shared.deposits,
		Obstacles:        shared.obstacles,
		Factions:         map[PlayerID]FactionSnapshot{},
		Biome:            biome,
	}
	gs.WorldWidth, gs.WorldHeight = w.Bounds()

	for _, id := range w.unitOrder {
		u := w.Units[id]
		if !u.Active || u.Garrisoned {
			continue
		}
		gs.Units = append(gs.Units, w.unitSnapshot(u, u.Team))
	}
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active {
			continue
		}
		gs.Buildings = append(gs.Buildings, w.buildingSnapshot(b, b.Team))
	}
	for _, id := range w.wallOrder {
		s := w.Walls[id]
		if !s.Active {
			continue
		}
		gs.WallSegments = append(gs.WallSegments, WallSnapshot{ID: s.ID, Team: s.Team, X: s.X, Y: s.Y, Health: s.Health, MaxHealth: s.MaxHealth, Post1: s.Post1, Post2: s.Post2})
	}
	for _, pid := range w.factionOrder {
		f := w.Factions[pid]
		credits, upkeep, maxUpkeep, lowPower := f.Credits, f.CurrentUpkeep, f.MaxUpkeep, f.LowPower
		gs.Factions[pid] = FactionSnapshot{PlayerID: pid, Name: f.Name, Team: f.Team, Credits: &credits, Upkeep: &upkeep, MaxUpkeep: &maxUpkeep, LowPower: &lowPower}
	}
	return gs
}

func (w *World) unitSnapshot(u *Unit, forTeam int32) UnitSnapshot {
	s := UnitSnapshot{
		ID: u.ID, OwnerID: u.OwnerID, Team: u.Team, Type: u.Type,
		X: u.X, Y: u.Y, Rotation: u.Rotation, Health: u.Health, MaxHealth: u.MaxHealth,
		Stance: u.Stance, Cloaked: u.Cloaked, Garrisoned: u.Garrisoned,
	}
	if u.Team == forTeam {
		if def, ok := w.Catalog.Unit(u.Type); ok {
			s.Fixtures = flattenFixtures(def.Fixtures)
		}
	}
	return s
}

func (w *World) buildingSnapshot(b *Building, forTeam int32) BuildingSnapshot {
	s := BuildingSnapshot{
		ID: b.ID, OwnerID: b.OwnerID, Team: b.Team, Type: b.Type,
		X: b.X, Y: b.Y, Health: b.Health, MaxHealth: b.MaxHealth,
		UnderConstruction: b.UnderConstruction, ConstructionProgress: b.ConstructionProgress,
	}
	if b.Team == forTeam {
		if def, ok := w.Catalog.Building(b.Type); ok {
			s.Fixtures = flattenFixtures(def.Fixtures)
		}
	}
	return s
}

func flattenFixtures(shapes []physics.Shape) []FixtureSnapshot {
	out := make([]FixtureSnapshot, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, shapeToFixtureSnapshot(s))
	}
	return out
}

func shapeToFixtureSnapshot(s physics.Shape) FixtureSnapshot {
	f := FixtureSnapshot{Radius: s.Radius}
	switch s.Kind {
	case physics.ShapeCircle:
		f.Kind = "circle"
	case physics.ShapeSegment:
		f.Kind = "segment"
	case physics.ShapePolygon:
		f.Kind = "polygon"
	case physics.ShapeCompound:
		f.Kind = "compound"
	}
	for _, p := range s.Points {
		f.Points = append(f.Points, Vec2Snapshot{X: p.X, Y: p.Y})
	}
	return f
}
