package sim

import "testing"

// TestTerminationRequiresGracePeriod checks spec §8 scenario 6: a team with
// no active units/buildings must stay eliminated for the full grace period
// before the game is decided, so a momentary gap doesn't end it early.
func TestTerminationRequiresGracePeriod(t *testing.T) {
	w := newTestWorld()
	w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	w.AddPlayer("p2", 2, "Beta", "BETA")

	survivor := addTestUnit(w, "p1", 1, "WORKER")
	survivor.Active = true
	// team 2 has no active units/buildings at all from the start

	tracker := newTerminationTracker()

	if got := tracker.check(w, 0); got.Decided {
		t.Fatalf("must not decide before the grace period elapses, got %+v", got)
	}
	if got := tracker.check(w, winGracePeriodSec-0.01); got.Decided {
		t.Fatalf("must not decide one tick before the grace period elapses, got %+v", got)
	}

	got := tracker.check(w, winGracePeriodSec+0.01)
	if !got.Decided || got.Draw || got.WinningTeam != 1 {
		t.Fatalf("expected team 1 to win once the grace period elapses, got %+v", got)
	}
}

func TestTerminationDrawWhenAllTeamsEliminatedTogether(t *testing.T) {
	w := newTestWorld()
	w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	w.AddPlayer("p2", 2, "Beta", "BETA")
	// neither team has any active unit/building

	tracker := newTerminationTracker()
	tracker.check(w, 0)
	got := tracker.check(w, winGracePeriodSec+0.01)

	if !got.Decided || !got.Draw {
		t.Fatalf("expected a draw when every team is eliminated together, got %+v", got)
	}
}

func TestTerminationResetsOnMomentaryGap(t *testing.T) {
	w := newTestWorld()
	w.AddPlayer("p1", 1, "Alpha", "ALPHA")
	w.AddPlayer("p2", 2, "Beta", "BETA")
	survivor := addTestUnit(w, "p1", 1, "WORKER")

	tracker := newTerminationTracker()
	tracker.check(w, 0) // team 2 starts its elimination clock

	// Team 2 produces a replacement unit before the grace period elapses.
	replacement := addTestUnit(w, "p2", 2, "WORKER")
	tracker.check(w, winGracePeriodSec/2)

	// Team 2's unit dies again; its elimination clock must restart, not
	// resume from the earlier timestamp.
	replacement.Active = false
	got := tracker.check(w, winGracePeriodSec/2+winGracePeriodSec-0.01)
	if got.Decided {
		t.Fatalf("elimination clock must restart after a recovery, got early decision %+v", got)
	}

	_ = survivor
}
