package sim

import "sort"

// Kill scoreboard (SPEC_FULL §4.13). Kills is credited on the faction that
// owned the killing projectile or beam, not on area-effect damage, which
// has no single attributable shooter once it starts ticking independently.

func (w *World) creditKill(attacker PlayerID) {
	if attacker == "" {
		return
	}
	if f, ok := w.Factions[attacker]; ok {
		f.Kills++
	}
}

// GetTopFactionsByKills returns every registered faction ordered by Kills
// descending, ties broken by PlayerID for deterministic output (§4.1). n<=0
// returns the full ranking.
func (w *World) GetTopFactionsByKills(n int) []*PlayerFaction {
	ranked := make([]*PlayerFaction, 0, len(w.factionOrder))
	for _, pid := range w.factionOrder {
		ranked = append(ranked, w.Factions[pid])
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Kills != ranked[j].Kills {
			return ranked[i].Kills > ranked[j].Kills
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
