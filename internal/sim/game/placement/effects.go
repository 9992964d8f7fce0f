package placement

import (
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

type EffectResult struct {
	Kind   string           `json:"kind"`
	Amount int              `json:"amount"`
	Paid   int              `json:"paid,omitempty"`
	Cubes  []model.Resource `json:"cubes,omitempty"`
}

// ApplyEffect resolves a basic slot or bonus card effect for seat. Cube effects
// take cube (or the first color in supply) into the cargo bay; a short supply
// grants fewer cubes.
func ApplyEffect(s *model.State, r model.Rules, seat int, e model.Effect, cube model.Resource) (EffectResult, error) {
	p := s.Player(seat)
	if p == nil {
		return EffectResult{}, rules.Invalid("unknown seat %d", seat)
	}
	if p.Money < e.Cost {
		return EffectResult{}, rules.Reject(rules.CannotAffordAction, "effect costs $%d, have $%d", e.Cost, p.Money)
	}
	out := EffectResult{Kind: e.Kind, Amount: e.Amount}
	switch e.Kind {
	case model.EffectMoney:
		p.Money += e.Amount
	case model.EffectElectricity:
		p.Electricity += e.Amount
		if p.Electricity > r.MaxElectricity {
			p.Electricity = r.MaxElectricity
		}
	case model.EffectVP:
		p.VP += e.Amount
	case model.EffectCube, model.EffectBuyCube:
		if cube != "" {
			if _, ok := model.ParseResource(string(cube)); !ok {
				return EffectResult{}, rules.Reject(rules.IllegalAction, "unknown cube color %q", cube)
			}
		}
		for i := 0; i < e.Amount; i++ {
			c := cube
			if c == "" {
				c = firstInSupply(s.Supply)
			}
			if c == "" || !s.Supply.Take(c, 1) {
				break
			}
			p.Bay.Add(c, 1)
			out.Cubes = append(out.Cubes, c)
		}
	default:
		return EffectResult{}, rules.Invalid("unknown effect kind %q", e.Kind)
	}
	p.Money -= e.Cost
	out.Paid = e.Cost
	return out, nil
}

func firstInSupply(supply model.Cubes) model.Resource {
	for _, res := range model.Resources {
		if supply[res] > 0 {
			return res
		}
	}
	return ""
}
