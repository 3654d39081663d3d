package sim

import (
	"sync"
	"time"

	"fight-club-core/internal/catalog"
	"fight-club-core/internal/corelog"
)

// Tick Orchestrator (§4.1/§2). Engine owns the scheduled executor and the
// two pieces of cross-thread state the spec allows (§5): a concurrent
// input queue (writer = any transport goroutine, reader = the tick
// worker) and a concurrent channel registry. Everything else — every
// entity mutation — happens on the single tick goroutine.
type Engine struct {
	world        *World
	tickRate     int
	tickInterval time.Duration
	biome        string

	maxProjectiles, maxBeams, maxFields int

	mu       sync.Mutex
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	lastTick time.Time

	inputMu sync.Mutex
	pending map[PlayerID]InputFrame

	joinMu      sync.Mutex
	pendingJoin []joinRequest

	channelMu   sync.RWMutex
	channels    map[PlayerID]PlayerChannel
	playerTeams map[PlayerID]int32
	connected   map[PlayerID]bool

	termination *terminationTracker
	decided     bool // set once the game-over event has fired (§8 scenario 6)

	snapshotMu  sync.RWMutex
	lastSnapshot GameState
}

const (
	defaultTickInterval = 20 * time.Millisecond // spec's fixed 20ms cadence (§2)
	maxFrameDt          = 100 * time.Millisecond
)

// NewEngine wires a World into a tick orchestrator. tickRate is in Hz
// (ticks per second); a non-positive value falls back to the spec's
// default 20ms/50Hz cadence. The world is expected to already be populated
// by a WorldGenerator (out of core scope, §1).
func NewEngine(world *World, tickRate int, biome string, maxProjectiles, maxBeams, maxFields int) *Engine {
	interval := defaultTickInterval
	if tickRate > 0 {
		interval = time.Second / time.Duration(tickRate)
	}
	return &Engine{
		world:          world,
		tickRate:       tickRate,
		tickInterval:   interval,
		biome:          biome,
		maxProjectiles: maxProjectiles,
		maxBeams:       maxBeams,
		maxFields:      maxFields,
		stopChan:       make(chan struct{}),
		pending:        map[PlayerID]InputFrame{},
		channels:       map[PlayerID]PlayerChannel{},
		playerTeams:    map[PlayerID]int32{},
		connected:      map[PlayerID]bool{},
		termination:    newTerminationTracker(),
	}
}

// joinRequest is a queued faction-creation/reconnect request (§5): the
// World's Factions map is entity state, mutated only on the tick goroutine,
// so a transport goroutine calling RegisterPlayer can't touch it directly.
type joinRequest struct {
	pid              PlayerID
	team             int32
	name, factionTag string
}

// RegisterPlayer attaches a player's channel for both event fan-out and
// snapshot delivery (§6.2) and queues faction creation/reconnect for the
// next tick (§3 starting credits/upkeep cap on first join). Safe to call
// from any goroutine.
func (e *Engine) RegisterPlayer(pid PlayerID, team int32, name, factionTag string, ch PlayerChannel) {
	e.channelMu.Lock()
	e.channels[pid] = ch
	e.playerTeams[pid] = team
	e.connected[pid] = true
	e.channelMu.Unlock()

	e.joinMu.Lock()
	e.pendingJoin = append(e.pendingJoin, joinRequest{pid: pid, team: team, name: name, factionTag: factionTag})
	e.joinMu.Unlock()

	e.world.Events.RegisterChannel(pid, team, ch)
}

func (e *Engine) drainJoins() []joinRequest {
	e.joinMu.Lock()
	drained := e.pendingJoin
	e.pendingJoin = nil
	e.joinMu.Unlock()
	return drained
}

// RegisterSpectator attaches a spectator-only channel (events, no input).
func (e *Engine) RegisterSpectator(pid PlayerID, ch PlayerChannel) {
	e.world.Events.RegisterSpectator(pid, ch)
}

// UnregisterPlayer removes a player's channel (explicit disconnect).
func (e *Engine) UnregisterPlayer(pid PlayerID) {
	e.channelMu.Lock()
	delete(e.channels, pid)
	delete(e.connected, pid)
	e.channelMu.Unlock()
	e.world.Events.UnregisterChannel(pid)
}

// AcceptPlayerInput is the transport-facing write side of the input queue
// (§5): any goroutine may call this; the last frame per player before the
// next tick wins.
func (e *Engine) AcceptPlayerInput(pid PlayerID, frame InputFrame) {
	e.inputMu.Lock()
	e.pending[pid] = frame
	e.inputMu.Unlock()
}

func (e *Engine) drainInput() map[PlayerID]InputFrame {
	e.inputMu.Lock()
	drained := e.pending
	e.pending = map[PlayerID]InputFrame{}
	e.inputMu.Unlock()
	return drained
}

// Start begins the tick loop. Idempotent: a second call while already
// running is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.lastTick = time.Now()
	e.ticker = time.NewTicker(e.tickInterval)
	ticker := e.ticker
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.tick(time.Now())
			case <-e.stopChan:
				return
			}
		}
	}()

	corelog.Info("tick orchestrator started at %d ms cadence", e.tickInterval.Milliseconds())
}

// Stop halts the tick loop. It does not close the registered channels
// (PlayerChannel has no close operation); they stay registered until the
// transport unregisters them. Idempotent and safe to call even if Start
// was never called. After Stop returns, no further snapshots or events are
// emitted (§4.1).
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	e.mu.Unlock()

	close(e.stopChan)
	corelog.Info("tick orchestrator stopped")
}

// tick runs the full §2 pipeline once. Per-entity and whole-tick faults
// are logged and skipped (§7 propagation policy); a recover() backstops
// the whole-tick case since Go has no cooperative "log-and-skip" for a
// panicking goroutine otherwise.
func (e *Engine) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			corelog.Error("tick panic recovered: %v", r)
		}
	}()

	e.mu.Lock()
	dt := now.Sub(e.lastTick)
	if dt > maxFrameDt {
		dt = maxFrameDt
	}
	e.lastTick = now
	e.mu.Unlock()

	dtSec := dt.Seconds()
	w := e.world

	// 1. Clock & bookkeeping.
	w.advanceClock(dtSec)
	w.tickNum++
	w.reseed(int64(w.tickNum) ^ w.rng.Int63())

	// 2-3. Economy & research samplers. Power (every 1s) and bank interest
	// (every 30s) are throttled internally; upkeep and research progress
	// are updated on every tick with the real dt.
	w.UpdateEconomy(dtSec)

	// Faction join/reconnect intake, queued the same way as input (§5).
	for _, j := range e.drainJoins() {
		f := w.AddPlayer(j.pid, j.team, j.name, j.factionTag)
		f.Connected = true
	}

	// 4. Input intake.
	for pid, frame := range e.drainInput() {
		if f, ok := w.Factions[pid]; ok && f.Connected {
			w.ApplyInput(pid, frame)
		}
	}

	// 5. Unit update: tick commands, steering, combat, collect fire orders.
	e.updateUnits(dtSec)

	// 6. Building update: construction/production/turrets/bank (bank and
	// production are covered by UpdateEconomy/UpdateProduction; turret
	// firing is collected here alongside units).
	w.UpdateProduction(dtSec)
	e.updateBuildingTurrets(dtSec)

	// 7. Projectile/beam update: advance range, expire.
	w.UpdateProjectiles(dtSec)
	w.UpdateBeams(dtSec)

	// 8. Physics step + collision resolution.
	w.Physics.Step(dtSec)
	w.ApplyPendingCollisions()

	// 9. Field-effect update.
	w.UpdateFieldEffects(dtSec)

	// 10. Reaping.
	e.reap()

	// 11. Disconnect check.
	e.checkDisconnects()

	// 12. Termination check. win.go's terminationTracker caches the decided
	// result and returns Decided:true on every call thereafter, so the
	// engine itself must gate on having already fired once: the game-over
	// event publishes exactly once, one final snapshot goes out showing the
	// end state, and the engine then stops scheduling further ticks (§8
	// scenario 6).
	over := e.termination.check(w, w.Clock())
	if over.Decided {
		if !e.decided {
			e.decided = true
			e.publishGameOver(over)
			e.broadcastSnapshots(now)
		}
		e.Stop()
		return
	}

	// 13. Snapshot broadcast.
	e.broadcastSnapshots(now)
}

func (e *Engine) updateUnits(dt float64) {
	w := e.world
	for _, id := range w.unitOrder {
		u := w.Units[id]
		if !u.Active || u.Garrisoned {
			continue
		}
		e.tickOneUnit(u, dt)
	}
}

// tickOneUnit runs one unit's command FSM; a panic from a single unit's
// command never aborts the tick for the rest of the roster (§4.1 failure
// policy, §7 per-entity faults log-and-skip).
func (e *Engine) tickOneUnit(u *Unit, dt float64) {
	w := e.world
	defer func() {
		if r := recover(); r != nil {
			corelog.Error("unit %d command fault recovered: %v", u.ID, r)
			u.Command = IdleCommand{}
		}
	}()

	if u.Command == nil {
		u.Command = IdleCommand{}
	}
	if !u.Command.Tick(w, u, dt) {
		u.Command = IdleCommand{}
	}
	u.Command.UpdateMovement(w, u, dt)
	if order, ok := u.Command.UpdateCombat(w, u, w.Clock()); ok {
		w.ResolveFireOrder(order, e.maxProjectiles, e.maxBeams)
	}
}

// updateBuildingTurrets drives defensive building weapons (any completed
// building whose catalog entry carries a weapon, e.g. TURRET) the same way a unit's AttackUnitCommand
// would, since buildings have no command FSM of their own.
func (e *Engine) updateBuildingTurrets(dt float64) {
	w := e.world
	now := w.Clock()
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active || b.UnderConstruction || b.Weapon == nil {
			continue
		}
		targetID, ok := w.scanForBuildingTarget(b)
		if !ok {
			continue
		}
		if !canFire(b.LastAttackAt, now, b.Weapon.AttackRate) {
			continue
		}
		target, ok := w.Units[targetID]
		if !ok || !target.Active {
			continue
		}
		b.LastAttackAt = now
		var tvx, tvy float64
		if body, ok := w.Physics.GetBody(target.BodyID); ok {
			tvx, tvy = body.VX, body.VY
		}
		aimX, aimY := predictiveAim(b.X, b.Y, target.X, target.Y, tvx, tvy, b.Weapon.Speed)
		w.ResolveFireOrder(FireOrder{
			OwnerID: b.ID, OwnerPlayerID: b.OwnerID, OwnerTeam: b.Team,
			OriginX: b.X, OriginY: b.Y, Weapon: b.Weapon,
			AimX: aimX, AimY: aimY, TargetEntity: targetID,
		}, e.maxProjectiles, e.maxBeams)
	}
}

// reap removes every inactive entity, tearing down dependents first
// (§2 step 10): wall segments lose either post, garrisoned units are
// freed when their bunker dies, and a unit/building death publishes a
// throttled event.
func (e *Engine) reap() {
	w := e.world

	for _, id := range append([]EntityID(nil), w.unitOrder...) {
		u := w.Units[id]
		if u.Active {
			continue
		}
		if u.Command != nil {
			u.Command.OnCancel(w, u)
		}
		w.Events.PublishUnitDeath(u.OwnerID, u.Team, string(u.Type))
		w.removeUnit(id)
	}

	for _, id := range append([]EntityID(nil), w.buildingOrder...) {
		b := w.Buildings[id]
		if b.Active {
			continue
		}
		if b.Type == catalog.BuildingBunker {
			w.ungarrison(id, true)
		}
		w.reapWallSegmentsFor(id)
		w.Events.PublishUnitDeath(b.OwnerID, b.Team, string(b.Type))
		w.removeBuilding(id)
	}

	for _, id := range append([]EntityID(nil), w.wallOrder...) {
		s := w.Walls[id]
		if !s.Active {
			w.removeWall(id)
		}
	}
	for _, id := range append([]EntityID(nil), w.projOrder...) {
		if !w.Projectiles[id].Active {
			w.removeProjectile(id)
		}
	}
	for _, id := range append([]EntityID(nil), w.beamOrder...) {
		if !w.Beams[id].Active {
			w.removeBeam(id)
		}
	}
	for _, id := range append([]EntityID(nil), w.fieldOrder...) {
		if !w.Fields[id].Active {
			w.removeField(id)
		}
	}
}

// checkDisconnects marks any faction whose channel has closed as
// disconnected; it does not remove the faction (an active army persists
// and can still lose/win) per §2 step 11.
func (e *Engine) checkDisconnects() {
	e.channelMu.Lock()
	defer e.channelMu.Unlock()
	for pid, f := range e.world.Factions {
		ch, ok := e.channels[pid]
		if !ok || !ch.IsOpen() {
			if f.Connected {
				f.Connected = false
				e.connected[pid] = false
			}
			continue
		}
	}
}

func (e *Engine) publishGameOver(over GameOver) {
	if over.Draw {
		e.world.Events.Publish(Event{Message: "draw", Category: EventSystem, Target: AllTarget()})
		return
	}
	e.world.Events.Publish(Event{Message: "game over", Category: EventSystem, Target: AllTarget()})
}

func (e *Engine) broadcastSnapshots(now time.Time) {
	w := e.world
	shared := w.buildSharedSnapshotParts()

	e.channelMu.RLock()
	for pid, ch := range e.channels {
		if !ch.IsOpen() {
			continue
		}
		team := e.playerTeams[pid]
		gs := w.BuildSnapshot(team, shared, now.UnixNano(), e.biome)
		ch.Send(gs)
	}
	e.channelMu.RUnlock()

	// An unfiltered debug/admin view (§6.4), cached for polling HTTP
	// clients that have no open channel of their own.
	e.snapshotMu.Lock()
	e.lastSnapshot = w.BuildAdminSnapshot(shared, now.UnixNano(), e.biome)
	e.snapshotMu.Unlock()
}

// LastSnapshot returns the most recently broadcast team-agnostic snapshot,
// safe to call from any goroutine (used by the admin HTTP surface's
// polling endpoints, which never touch World directly).
func (e *Engine) LastSnapshot() GameState {
	e.snapshotMu.RLock()
	defer e.snapshotMu.RUnlock()
	return e.lastSnapshot
}

// ConnectedPlayerCount is safe to call from any goroutine.
func (e *Engine) ConnectedPlayerCount() int {
	e.channelMu.RLock()
	defer e.channelMu.RUnlock()
	n := 0
	for _, connected := range e.connected {
		if connected {
			n++
		}
	}
	return n
}
