package sim

// Win/draw/elimination detection (§2 step 12, §8 scenario 6). A team is
// eliminated once it holds no active units and no active buildings; the
// condition must hold continuously for a grace period before it is acted
// on, so a momentary gap (last unit died, replacement not yet produced)
// doesn't end the game early.

const winGracePeriodSec = 5.0

// GameOver describes the outcome once terminationTracker.check decides the game
// has ended: WinningTeam is the sole surviving team, or Draw is true if
// every team was eliminated in the same evaluation.
type GameOver struct {
	Decided     bool
	Draw        bool
	WinningTeam int32
}

type terminationTracker struct {
	eliminatedSince map[int32]float64 // team -> sim-time first observed eliminated
	decided         bool
	result          GameOver
}

func newTerminationTracker() *terminationTracker {
	return &terminationTracker{eliminatedSince: map[int32]float64{}}
}

// TeamActive reports whether a team currently holds any active unit or
// building.
func (w *World) TeamActive(team int32) bool {
	for _, id := range w.unitOrder {
		if u := w.Units[id]; u.Active && u.Team == team {
			return true
		}
	}
	for _, id := range w.buildingOrder {
		if b := w.Buildings[id]; b.Active && b.Team == team {
			return true
		}
	}
	return false
}

// knownTeams returns every distinct team with a registered faction.
func (w *World) knownTeams() []int32 {
	seen := map[int32]bool{}
	var teams []int32
	for _, pid := range w.factionOrder {
		t := w.Factions[pid].Team
		if !seen[t] {
			seen[t] = true
			teams = append(teams, t)
		}
	}
	return teams
}

// check evaluates win/draw conditions once per tick (§2 step 12). It
// returns Decided=false every tick before the grace period elapses for a
// stable elimination set, and the decided GameOver from that tick on: the
// result is cached and returned unchanged on every later call, so the
// engine gates on its own flag to act on the transition only once.
func (t *terminationTracker) check(w *World, now float64) GameOver {
	if t.decided {
		return t.result
	}

	var active []int32
	for _, team := range w.knownTeams() {
		if w.TeamActive(team) {
			active = append(active, team)
			delete(t.eliminatedSince, team)
			continue
		}
		if _, tracked := t.eliminatedSince[team]; !tracked {
			t.eliminatedSince[team] = now
		}
	}

	if len(active) > 1 {
		return GameOver{}
	}

	// Every currently-eliminated team must have been eliminated for at
	// least the grace period before we act.
	for team, since := range t.eliminatedSince {
		isActive := false
		for _, a := range active {
			if a == team {
				isActive = true
				break
			}
		}
		if isActive {
			continue
		}
		if now-since < winGracePeriodSec {
			return GameOver{}
		}
	}

	switch len(active) {
	case 1:
		t.decided = true
		t.result = GameOver{Decided: true, WinningTeam: active[0]}
	case 0:
		t.decided = true
		t.result = GameOver{Decided: true, Draw: true}
	default:
		return GameOver{}
	}
	return t.result
}
