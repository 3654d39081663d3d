package sim

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Event Bus (§4.10). Events are fire-and-forget, non-blocking fan-out to
// whatever player channels are currently open; the simulation never awaits
// delivery. Rate limiting mirrors the teacher's event_log.go DoS posture
// (one global golang.org/x/time/rate limiter, plus a per-owner 5s
// debounce on unit-death events) adapted from a
// disk-backed circular buffer to a direct channel fan-out, since the core
// has no replay/persistence requirement (§1 non-goals).

// PlayerChannel is the duplex I/O abstraction the core depends on (§6.2).
// Transport implementations (e.g. internal/transport/wschannel.go) satisfy
// this; the core never imports a transport package directly.
type PlayerChannel interface {
	IsOpen() bool
	Send(v interface{})
}

type EventCategory string

const (
	EventInfo    EventCategory = "INFO"
	EventWarning EventCategory = "WARNING"
	EventSystem  EventCategory = "SYSTEM"
	EventError   EventCategory = "ERROR"
)

type targetKind int

const (
	targetAll targetKind = iota
	targetTeam
	targetSpecific
	targetSpectators
)

// Target selects which open channels receive an event.
type Target struct {
	kind    targetKind
	teams   map[int32]struct{}
	players map[PlayerID]struct{}
	exclude map[PlayerID]struct{}
}

func AllTarget() Target              { return Target{kind: targetAll} }
func SpectatorTarget() Target        { return Target{kind: targetSpectators} }
func TeamTarget(team int32) Target   { return Target{kind: targetTeam, teams: map[int32]struct{}{team: {}}} }
func SpecificTarget(ids ...PlayerID) Target {
	set := make(map[PlayerID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Target{kind: targetSpecific, players: set}
}

// Excluding returns a copy of t with the given players excluded from delivery.
func (t Target) Excluding(ids ...PlayerID) Target {
	t.exclude = make(map[PlayerID]struct{}, len(ids))
	for _, id := range ids {
		t.exclude[id] = struct{}{}
	}
	return t
}

func (t Target) matches(pid PlayerID, team int32) bool {
	if _, excluded := t.exclude[pid]; excluded {
		return false
	}
	switch t.kind {
	case targetAll:
		return true
	case targetTeam:
		_, ok := t.teams[team]
		return ok
	case targetSpecific:
		_, ok := t.players[pid]
		return ok
	case targetSpectators:
		return false // spectator channels are registered separately
	}
	return false
}

// Event is the outbound transient record (§6.5/§4.10).
type Event struct {
	Message           string
	Category          EventCategory
	Color             string
	Target            Target
	DisplayDurationMS int
}

type channelEntry struct {
	channel PlayerChannel
	team    int32
}

// EventBus dispatches events to registered player channels, non-blocking
// and best-effort: a full or closed channel simply drops the event.
type EventBus struct {
	mu          sync.RWMutex
	channels    map[PlayerID]channelEntry
	spectators  map[PlayerID]PlayerChannel
	global      *rate.Limiter
	deathMu     sync.Mutex
	lastDeathAt map[PlayerID]time.Time
}

const (
	globalEventRate  = 500 // events/sec, generous headroom over normal play
	globalEventBurst = 50
	deathNotifyEvery = 5 * time.Second
)

func NewEventBus() *EventBus {
	return &EventBus{
		channels:    map[PlayerID]channelEntry{},
		spectators:  map[PlayerID]PlayerChannel{},
		global:      rate.NewLimiter(rate.Limit(globalEventRate), globalEventBurst),
		lastDeathAt: map[PlayerID]time.Time{},
	}
}

// RegisterChannel attaches a player's channel so events addressed to their
// team/id/ALL reach them.
func (b *EventBus) RegisterChannel(pid PlayerID, team int32, ch PlayerChannel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.channels[pid] = channelEntry{channel: ch, team: team}
}

func (b *EventBus) RegisterSpectator(pid PlayerID, ch PlayerChannel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.spectators[pid] = ch
}

func (b *EventBus) UnregisterChannel(pid PlayerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.channels, pid)
	delete(b.spectators, pid)
}

// Publish fans an event out to every currently-open channel the target
// selects. Never blocks the simulation thread.
func (b *EventBus) Publish(e Event) {
	if !b.global.Allow() {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if e.Target.kind == targetSpectators {
		for pid, ch := range b.spectators {
			if _, excluded := e.Target.exclude[pid]; excluded {
				continue
			}
			if ch.IsOpen() {
				ch.Send(e)
			}
		}
		return
	}
	for pid, entry := range b.channels {
		if !e.Target.matches(pid, entry.team) {
			continue
		}
		if entry.channel.IsOpen() {
			entry.channel.Send(e)
		}
	}
}

// PublishUnitDeath is the throttled path for death notifications: one per
// owner per 5s (§4.10), using monotonic wall time per §5's cancellation
// semantics.
func (b *EventBus) PublishUnitDeath(owner PlayerID, team int32, unitName string) {
	b.deathMu.Lock()
	last, ok := b.lastDeathAt[owner]
	now := time.Now()
	if ok && now.Sub(last) < deathNotifyEvery {
		b.deathMu.Unlock()
		return
	}
	b.lastDeathAt[owner] = now
	b.deathMu.Unlock()

	b.Publish(Event{
		Message:           unitName + " destroyed",
		Category:          EventInfo,
		Target:            TeamTarget(team),
		DisplayDurationMS: 3000,
	})
}
