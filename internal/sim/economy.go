package sim

import "fight-club-core/internal/catalog"

// Economy, Power, Research (§4.8). Harvest crediting happens inline inside
// HarvestCommand.deposit; this file covers the per-tick/per-second
// faction-wide accounting: bank interest, upkeep, power sampling, and
// research progression.

const (
	bankInterestPeriod = 30.0
	bankInterestRate   = 0.02
	powerSamplePeriod  = 1.0
)

// UpdateEconomy advances bank interest, upkeep, power, and research for
// every faction by dt. Called once per tick from the engine (§2 steps 2-3).
func (w *World) UpdateEconomy(dt float64) {
	for _, pid := range w.factionOrder {
		f := w.Factions[pid]
		w.updateUpkeep(f)
		w.updatePower(f, dt)
		w.updateBankInterest(f, dt)
		w.updateResearch(f, dt)
	}
}

func (w *World) updateUpkeep(f *PlayerFaction) {
	upkeep := 0
	for _, id := range w.unitOrder {
		u := w.Units[id]
		if !u.Active || u.OwnerID != f.PlayerID {
			continue
		}
		if def, ok := w.Catalog.Unit(u.Type); ok {
			upkeep += def.Upkeep
		}
	}
	f.CurrentUpkeep = upkeep

	max := w.Catalog.BaseUpkeepCap()
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if b.Active && !b.UnderConstruction && b.OwnerID == f.PlayerID {
			max += b.Components.UpkeepBonus
		}
	}
	f.MaxUpkeep = max
}

// CanAffordUpkeep reports whether adding a unit with the given upkeep cost
// would keep the faction within its cap (§4.8, §7 ReasonUpkeepCapReached).
func (w *World) CanAffordUpkeep(f *PlayerFaction, unitUpkeep int) bool {
	return f.CurrentUpkeep+unitUpkeep <= f.MaxUpkeep
}

func (w *World) updatePower(f *PlayerFaction, dt float64) {
	f.powerTimer += dt
	if f.powerTimer < powerSamplePeriod {
		return
	}
	f.powerTimer -= powerSamplePeriod

	generated, consumed := 0, 0
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if !b.Active || b.UnderConstruction || b.OwnerID != f.PlayerID {
			continue
		}
		def, ok := w.Catalog.Building(b.Type)
		if !ok {
			continue
		}
		if def.PowerValue > 0 {
			generated += def.PowerValue
		} else {
			consumed += -def.PowerValue
		}
	}
	f.PowerGenerated = generated
	f.PowerConsumed = consumed

	wasLow := f.lastLowPowerNotifyState
	f.LowPower = consumed > generated
	if f.LowPower != wasLow {
		f.lastLowPowerNotifyState = f.LowPower
		if f.LowPower {
			w.Events.Publish(Event{Message: "LOW POWER", Category: EventWarning, Target: TeamTarget(f.Team)})
		} else {
			w.Events.Publish(Event{Message: "power restored", Category: EventInfo, Target: TeamTarget(f.Team)})
		}
	}
}

func (w *World) updateBankInterest(f *PlayerFaction, dt float64) {
	if f.LowPower {
		return
	}
	for _, id := range w.buildingOrder {
		b := w.Buildings[id]
		if b.Active && !b.UnderConstruction && b.OwnerID == f.PlayerID && b.Components.HasBank {
			b.Components.BankTimer += dt
			if b.Components.BankTimer >= bankInterestPeriod {
				b.Components.BankTimer -= bankInterestPeriod
				f.Credits += f.Credits * bankInterestRate
			}
		}
	}
}

func (w *World) updateResearch(f *PlayerFaction, dt float64) {
	for i := range f.ActiveResearch {
		slot := &f.ActiveResearch[i]
		def, ok := w.Catalog.Research(slot.Type)
		if !ok {
			continue
		}
		slot.Progress += dt
		if slot.Progress >= def.TimeSec {
			w.completeResearch(f, def)
		}
	}
	w.pruneCompletedResearch(f)
}

func (w *World) completeResearch(f *PlayerFaction, def catalog.ResearchDef) {
	for _, done := range f.CompletedResearch {
		if done == def.Type {
			return // idempotent: already applied
		}
	}
	f.CompletedResearch = append(f.CompletedResearch, def.Type)
	f.Modifier = combineModifiers(f.Modifier, def.Modifier)
	f.ParallelCap = w.Catalog.DefaultSimultaneousResearchCap() + f.Modifier.ParallelResearchSlots

	for _, id := range w.unitOrder {
		u := w.Units[id]
		if u.Active && u.OwnerID == f.PlayerID {
			applyResearchModifier(u, def.Modifier)
		}
	}
	w.Events.Publish(Event{Message: def.DisplayName + " research complete", Category: EventInfo, Target: TeamTarget(f.Team)})
}

// combineModifiers folds a newly completed research's modifier into the
// faction's cumulative multiplier set (multipliers compound, additive
// bonuses sum).
func combineModifiers(base, add catalog.ResearchModifier) catalog.ResearchModifier {
	if base.HealthMultiplier == 0 {
		base.HealthMultiplier = 1
	}
	if base.DamageMultiplier == 0 {
		base.DamageMultiplier = 1
	}
	if base.SpeedMultiplier == 0 {
		base.SpeedMultiplier = 1
	}
	return catalog.ResearchModifier{
		HealthMultiplier:      base.HealthMultiplier * nonZero(add.HealthMultiplier),
		DamageMultiplier:      base.DamageMultiplier * nonZero(add.DamageMultiplier),
		SpeedMultiplier:       base.SpeedMultiplier * nonZero(add.SpeedMultiplier),
		VisionBonus:           base.VisionBonus + add.VisionBonus,
		CarryCapacityBonus:    base.CarryCapacityBonus + add.CarryCapacityBonus,
		ParallelResearchSlots: base.ParallelResearchSlots + add.ParallelResearchSlots,
	}
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// applyResearchModifier applies one completed research's effect to an
// already-existing unit: health is scaled proportionally (current/max
// ratio preserved), everything else multiplies going forward.
func applyResearchModifier(u *Unit, mod catalog.ResearchModifier) {
	if mod.HealthMultiplier != 0 && mod.HealthMultiplier != 1 {
		ratio := 1.0
		if u.MaxHealth > 0 {
			ratio = float64(u.Health) / float64(u.MaxHealth)
		}
		u.MaxHealth = int(float64(u.MaxHealth) * mod.HealthMultiplier)
		u.Health = int(float64(u.MaxHealth) * ratio)
	}
	if mod.DamageMultiplier != 0 {
		if u.DamageMultiplier == 0 {
			u.DamageMultiplier = 1
		}
		u.DamageMultiplier *= mod.DamageMultiplier
	}
	if mod.SpeedMultiplier != 0 {
		if u.SpeedMultiplier == 0 {
			u.SpeedMultiplier = 1
		}
		u.SpeedMultiplier *= mod.SpeedMultiplier
	}
	u.VisionRange += mod.VisionBonus
	u.MaxCarried += mod.CarryCapacityBonus
}

// pruneCompletedResearch drops finished slots from ActiveResearch.
func (w *World) pruneCompletedResearch(f *PlayerFaction) {
	kept := f.ActiveResearch[:0]
	for _, slot := range f.ActiveResearch {
		def, ok := w.Catalog.Research(slot.Type)
		if ok && slot.Progress >= def.TimeSec {
			continue
		}
		kept = append(kept, slot)
	}
	f.ActiveResearch = kept
}
