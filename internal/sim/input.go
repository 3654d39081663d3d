package sim

import "fight-club-core/internal/catalog"

// InputFrame (§6.3): one frame MAY carry any subset of order variants. A
// frame with a zero OrderKind and no other pointer set is a no-op; the
// input-intake stage drains the latest frame per player per tick
// (last-writer-wins, §5).
type InputFrame struct {
	Selection []EntityID
	Order     *OrderInput

	BuildOrder      *BuildOrder
	ProduceOrder    *ProduceOrder
	SetStance       *StanceOrder
	SetRally        *RallyOrder
	StartResearch   *ResearchOrder
	CancelResearch  *CancelResearchOrder
	ActivateAbility *AbilityOrder
}

type OrderKind int

const (
	OrderMove OrderKind = iota
	OrderAttackMove
	OrderAttackUnit
	OrderAttackBuilding
	OrderAttackWall
	OrderAttackGround
	OrderHarvest
	OrderMine
	OrderConstruct
	OrderGarrison
	OrderUngarrison
)

// OrderInput carries a single order variant addressed to the frame's
// selection set.
type OrderInput struct {
	Kind     OrderKind
	X, Y     float64
	TargetID EntityID
	All      bool // ungarrison: release every garrisoned unit from TargetID
}

type BuildOrder struct {
	Type catalog.BuildingType
	X, Y float64
}

type ProduceOrder struct {
	UnitType   catalog.UnitType
	BuildingID EntityID
}

type StanceOrder struct {
	Stance Stance
}

type RallyOrder struct {
	BuildingID EntityID
	X, Y       float64
}

type ResearchOrder struct {
	Type       catalog.ResearchType
	BuildingID EntityID
}

type CancelResearchOrder struct {
	BuildingID EntityID
}

type AbilityOrder struct {
	TargetID EntityID // 0 if untargeted (e.g. cloak toggle)
}

// rejectOrder surfaces an InvalidOrderError as a player-targeted WARNING
// event (§7): the offending order is discarded with no state mutation,
// and the error itself never leaves this package — the event is the only
// thing a caller observes.
func (w *World) rejectOrder(owner PlayerID, err *InvalidOrderError) {
	w.Events.Publish(Event{
		Message:  err.Error(),
		Category: EventWarning,
		Target:   SpecificTarget(owner),
	})
}

// ApplyInput validates and applies one player's InputFrame (§2 step 4).
// Invalid orders are discarded silently for the offending unit/building;
// no partial mutation of unrelated selections occurs.
func (w *World) ApplyInput(owner PlayerID, frame InputFrame) {
	if frame.Order != nil {
		w.applyOrder(owner, frame.Selection, *frame.Order)
	}
	if frame.BuildOrder != nil {
		w.applyBuildOrder(owner, *frame.BuildOrder)
	}
	if frame.ProduceOrder != nil {
		w.applyProduceOrder(owner, *frame.ProduceOrder)
	}
	if frame.SetStance != nil {
		w.applyStanceOrder(owner, frame.Selection, *frame.SetStance)
	}
	if frame.SetRally != nil {
		w.applyRallyOrder(owner, *frame.SetRally)
	}
	if frame.StartResearch != nil {
		w.applyStartResearch(owner, *frame.StartResearch)
	}
	if frame.CancelResearch != nil {
		w.applyCancelResearch(owner, *frame.CancelResearch)
	}
	if frame.ActivateAbility != nil {
		w.applyAbility(owner, frame.Selection, *frame.ActivateAbility)
	}
}

func (w *World) applyOrder(owner PlayerID, selection []EntityID, order OrderInput) {
	for _, id := range selection {
		u, ok := w.Units[id]
		if !ok || !u.Active || u.OwnerID != owner || u.Garrisoned {
			continue
		}
		var cmd Command
		switch order.Kind {
		case OrderMove:
			cmd = &MoveCommand{DestX: order.X, DestY: order.Y}
		case OrderAttackMove:
			cmd = &AttackMoveCommand{DestX: order.X, DestY: order.Y}
		case OrderAttackUnit:
			if _, ok := w.Units[order.TargetID]; !ok {
				continue
			}
			cmd = &AttackUnitCommand{TargetID: order.TargetID}
		case OrderAttackBuilding:
			if _, ok := w.Buildings[order.TargetID]; !ok {
				continue
			}
			cmd = &AttackBuildingCommand{TargetID: order.TargetID}
		case OrderAttackWall:
			if _, ok := w.Walls[order.TargetID]; !ok {
				continue
			}
			cmd = &AttackWallCommand{TargetID: order.TargetID}
		case OrderAttackGround:
			cmd = &AttackGroundCommand{X: order.X, Y: order.Y}
		case OrderHarvest:
			if _, ok := w.Deposits[order.TargetID]; !ok {
				continue
			}
			cmd = &HarvestCommand{DepositID: order.TargetID}
		case OrderMine:
			if _, ok := w.Obstacles[order.TargetID]; !ok {
				continue
			}
			cmd = &MineCommand{ObstacleID: order.TargetID}
		case OrderConstruct:
			if _, ok := w.Buildings[order.TargetID]; !ok {
				continue
			}
			cmd = &ConstructCommand{BuildingID: order.TargetID}
		case OrderGarrison:
			if b, ok := w.Buildings[order.TargetID]; !ok || b.Type != catalog.BuildingBunker {
				continue
			}
			cmd = &GarrisonCommand{BunkerID: order.TargetID}
		case OrderUngarrison:
			w.ungarrison(order.TargetID, order.All)
			continue
		default:
			continue
		}
		w.setUnitCommand(u, cmd)
	}
}

func (w *World) setUnitCommand(u *Unit, cmd Command) {
	if u.Command != nil {
		u.Command.OnCancel(w, u)
	}
	u.Command = cmd
}

// ungarrison releases one or all units from a bunker, reattaching physics
// bodies adjacent to the bunker.
func (w *World) ungarrison(bunkerID EntityID, all bool) {
	b, ok := w.Buildings[bunkerID]
	if !ok {
		return
	}
	n := 1
	if all {
		n = len(b.Garrison)
	}
	for i := 0; i < n && len(b.Garrison) > 0; i++ {
		uid := b.Garrison[0]
		b.Garrison = b.Garrison[1:]
		u, ok := w.Units[uid]
		if !ok {
			continue
		}
		u.Garrisoned = false
		u.GarrisonHost = 0
		u.X, u.Y = b.X, b.Y
		u.BodyID = w.Physics.CreateBody(u.X, u.Y, physicsFilterForTeam(u.Team), bodyTag{kind: kindUnit, id: u.ID, team: u.Team})
		w.registerBody(u.BodyID, bodyTag{kind: kindUnit, id: u.ID, team: u.Team})
		w.setUnitCommand(u, IdleCommand{})
	}
}

func (w *World) applyBuildOrder(owner PlayerID, order BuildOrder) {
	f, ok := w.Factions[owner]
	if !ok {
		return
	}
	def, ok := w.Catalog.Building(order.Type)
	if !ok {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonInvalidTarget, Detail: "unknown building type"})
		return
	}
	if f.Credits < float64(def.Cost) {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonCannotAfford, Detail: def.DisplayName})
		return
	}
	if w.maxBuildingsPerPlayer > 0 && w.countActiveBuildingsForPlayer(owner) >= w.maxBuildingsPerPlayer {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonEntityLimitReached, Detail: def.DisplayName})
		return
	}
	if w.buildLocationBlocked(order.X, order.Y, def.Radius) {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonBuildLocationBlocked, Detail: def.DisplayName})
		return
	}
	f.Credits -= float64(def.Cost)
	id := w.NextID()
	b := &Building{
		CoreFields: CoreFields{ID: id, OwnerID: owner, Team: f.Team, X: order.X, Y: order.Y, Health: 0, MaxHealth: def.MaxHealth, Active: true},
		Type:       order.Type,
		UnderConstruction: def.BuildTimeSec > 0,
		Components: BuildingComponents{HasBank: def.HasBank, HasShield: def.HasShield, ShieldActive: def.HasShield, UpkeepBonus: def.UpkeepBonus},
	}
	if !b.UnderConstruction {
		b.Health = def.MaxHealth
	}
	b.BodyID = w.Physics.CreateBody(order.X, order.Y, physicsFilterForTeam(f.Team), bodyTag{kind: kindBuilding, id: id, team: f.Team})
	w.registerBody(b.BodyID, bodyTag{kind: kindBuilding, id: id, team: f.Team})
	for _, shape := range def.Fixtures {
		w.Physics.AddFixture(b.BodyID, physicsFixture(shape, false))
	}
	if def.HasShield {
		w.Physics.AddFixture(b.BodyID, sensorCircle(200))
	}
	b.Weapon = def.Weapon
	b.VisionRange = def.VisionRange
	w.AddBuilding(b)
}

func (w *World) buildLocationBlocked(x, y, radius float64) bool {
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active {
			continue
		}
		def, ok := w.Catalog.Building(b.Type)
		if !ok {
			continue
		}
		d := distSq(x, y, b.X, b.Y)
		sum := def.Radius + radius
		if d < sum*sum {
			return true
		}
	}
	return false
}

func (w *World) applyProduceOrder(owner PlayerID, order ProduceOrder) {
	f, ok := w.Factions[owner]
	b, bok := w.Buildings[order.BuildingID]
	if !ok || !bok || !b.Active || b.UnderConstruction || b.OwnerID != owner {
		return
	}
	def, ok := w.Catalog.Unit(order.UnitType)
	if !ok {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonInvalidTarget, Detail: "unknown unit type"})
		return
	}
	producer, _ := w.Catalog.Building(b.Type)
	allowed := false
	for _, t := range producer.Producible {
		if t == order.UnitType {
			allowed = true
			break
		}
	}
	if !allowed {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonTechRequirementsUnmet, Detail: def.DisplayName})
		return
	}
	if f.LowPower {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonLowPowerBlocksProduction, Detail: def.DisplayName})
		return
	}
	if !w.CanAffordUpkeep(f, def.Upkeep) {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonUpkeepCapReached, Detail: def.DisplayName})
		return
	}
	b.ProductionQueue = append(b.ProductionQueue, ProductionOrder{UnitType: order.UnitType})
}

func (w *World) applyStanceOrder(owner PlayerID, selection []EntityID, order StanceOrder) {
	for _, id := range selection {
		if u, ok := w.Units[id]; ok && u.OwnerID == owner {
			u.Stance = order.Stance
			if order.Stance == StanceDefensive {
				u.HomeX, u.HomeY = u.X, u.Y
			}
		}
	}
}

func (w *World) applyRallyOrder(owner PlayerID, order RallyOrder) {
	if b, ok := w.Buildings[order.BuildingID]; ok && b.OwnerID == owner {
		b.RallyX, b.RallyY, b.HasRally = order.X, order.Y, true
	}
}

func (w *World) applyStartResearch(owner PlayerID, order ResearchOrder) {
	f, ok := w.Factions[owner]
	b, bok := w.Buildings[order.BuildingID]
	if !ok || !bok || b.OwnerID != owner {
		return
	}
	def, ok := w.Catalog.Research(order.Type)
	if !ok {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonInvalidTarget, Detail: "unknown research type"})
		return
	}
	if f.Credits < float64(def.Cost) {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonCannotAfford, Detail: def.DisplayName})
		return
	}
	cap := w.Catalog.DefaultSimultaneousResearchCap() + f.Modifier.ParallelResearchSlots
	if len(f.ActiveResearch) >= cap {
		w.rejectOrder(owner, &InvalidOrderError{Reason: ReasonTechRequirementsUnmet, Detail: "research slots full"})
		return
	}
	for _, done := range f.CompletedResearch {
		if done == order.Type {
			return
		}
	}
	f.Credits -= float64(def.Cost)
	f.ActiveResearch = append(f.ActiveResearch, ResearchSlot{Type: order.Type, Building: order.BuildingID})
}

func (w *World) applyCancelResearch(owner PlayerID, order CancelResearchOrder) {
	f, ok := w.Factions[owner]
	if !ok {
		return
	}
	kept := f.ActiveResearch[:0]
	for _, slot := range f.ActiveResearch {
		if slot.Building == order.BuildingID {
			continue // credits are not refunded (§4.8)
		}
		kept = append(kept, slot)
	}
	f.ActiveResearch = kept
}

func (w *World) applyAbility(owner PlayerID, selection []EntityID, order AbilityOrder) {
	for _, id := range selection {
		u, ok := w.Units[id]
		if !ok || u.OwnerID != owner {
			continue
		}
		def, ok := w.Catalog.Unit(u.Type)
		if !ok {
			continue
		}
		switch def.SpecialAbility {
		case "cloak":
			if !u.Cloaked {
				u.Cloaked = true
				u.PreCloakStance = u.Stance
				u.Stance = StancePassive
			} else {
				u.Cloaked = false
				u.Stance = u.PreCloakStance
			}
		}
	}
}
