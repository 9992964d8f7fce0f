package game

import (
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/movement"
	"lineae.dev/internal/sim/game/placement"
	"lineae.dev/internal/sim/game/rules"
	"lineae.dev/internal/sim/game/scoring"
)

type actionHandler func(*txn, Action) error

var actionDispatch = map[string]actionHandler{
	ActionPlace:           handlePlace,
	ActionPass:            handlePass,
	ActionMoveVessel:      handleMoveVessel,
	ActionPlayBonusCard:   handlePlayBonusCard,
	ActionDiesel:          handleDiesel,
	ActionMoveSubmersible: handleMoveSubmersible,
	ActionExcavate:        handleExcavate,
	ActionDock:            handleDock,
	ActionEndTurn:         func(tx *txn, _ Action) error { endTurn(tx); return nil },
}

func handlePlace(tx *txn, a Action) error {
	out, err := placement.Place(tx.g, tx.r, tx.seat, placement.Request{
		Space:   a.Space,
		Workers: a.Workers,
		Lock:    a.Lock,
		Cubes:   a.Cubes,
		Cube:    a.Cube,
		Pick:    scoring.Pick{Card: a.Card, Return: a.ReturnCard},
	})
	if err != nil {
		return err
	}
	if out.Bumped != nil {
		tx.emit(EventBumped, out.Bumped.Seat, out.Bumped)
	}
	tx.emit(EventPlaced, tx.seat, out)
	if out.Water != nil {
		tx.emit(EventWaterFlow, -1, out.Water)
	}
	if out.Effect != nil {
		tx.emit(EventEffect, tx.seat, out.Effect)
	}
	if out.Load != nil {
		tx.emit(EventRocketLoaded, tx.seat, out.Load)
		if out.Load.Launched {
			tx.emit(EventRocketLaunched, tx.seat, out.Load)
			if launchesEndGame(tx.s, tx.r) {
				endGame(tx, "launches")
				return nil
			}
		}
	}
	switch {
	case out.Piloting != "":
		tx.emit(EventPiloting, tx.seat, out.Piloting)
	case out.Repeat:
		nextTurn(tx, tx.s.Round.Current)
	default:
		endTurn(tx)
	}
	return nil
}

func handlePass(tx *txn, _ Action) error {
	tx.s.Player(tx.seat).Passed = true
	tx.emit(EventPassed, tx.seat, nil)
	endTurn(tx)
	return nil
}

func handleMoveVessel(tx *txn, a Action) error {
	from := tx.s.Player(tx.seat).Vessel
	if err := movement.MoveVessel(tx.g, tx.seat, a.Column); err != nil {
		return err
	}
	tx.emit(EventVesselMoved, tx.seat, map[string]int{"from": from, "to": a.Column})
	return nil
}

func handlePlayBonusCard(tx *txn, a Action) error {
	p := tx.s.Player(tx.seat)
	idx := -1
	for i, c := range p.Cards {
		if c.ID == a.Card {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rules.Reject(rules.IllegalAction, "bonus card %q is not held", a.Card)
	}
	card := p.Cards[idx]
	res, err := placement.ApplyEffect(tx.s, tx.r, tx.seat, card.Effect, a.Cube)
	if err != nil {
		return err
	}
	p.Cards = append(p.Cards[:idx:idx], p.Cards[idx+1:]...)
	tx.s.BonusDeck = append(tx.s.BonusDeck, card)
	tx.emit(EventCardPlayed, tx.seat, map[string]any{"card": card.ID, "effect": res})
	return nil
}

// handleDiesel burns one hydrocarbon from the cargo bay for electricity. The
// cube goes to an atmosphere slot with room in a column the vessel can reach.
func handleDiesel(tx *txn, a Action) error {
	s, r := tx.s, tx.r
	p := s.Player(tx.seat)
	if p.Bay[model.Hydrocarbon] <= 0 {
		return rules.Reject(rules.CannotAffordAction, "no hydrocarbon in cargo bay")
	}
	reach := tx.g.Reachable(p.Vessel)
	room := false
	for _, col := range reach {
		if s.Atmosphere[col] < r.AtmosphereCap {
			room = true
		}
	}
	if !room {
		return rules.Reject(rules.IllegalAction, "no reachable atmosphere slot has room")
	}
	ok := false
	for _, col := range reach {
		if col == a.Column && s.Atmosphere[col] < r.AtmosphereCap {
			ok = true
		}
	}
	if !ok {
		return rules.Reject(rules.IllegalDestination, "atmosphere slot %d is full or out of reach", a.Column)
	}
	p.Bay.Take(model.Hydrocarbon, 1)
	s.Atmosphere[a.Column]++
	before := p.Electricity
	p.Electricity += r.DieselGrant
	if p.Electricity > r.MaxElectricity {
		p.Electricity = r.MaxElectricity
	}
	tx.emit(EventDiesel, tx.seat, map[string]int{"column": a.Column, "gained": p.Electricity - before})
	return nil
}

func handleMoveSubmersible(tx *txn, a Action) error {
	res, err := movement.Pilot(tx.g, tx.r, tx.seat, a.Path)
	if err != nil {
		return err
	}
	tx.emit(EventSubMoved, tx.seat, res)
	if res.Partial {
		tx.events = append(tx.events, Event{
			Type: EventNotice,
			Seat: tx.seat,
			Code: rules.InsufficientElectricity,
			Data: map[string]int{"requested": res.Requested, "moved": res.Steps},
		})
	}
	return nil
}

func handleExcavate(tx *txn, a Action) error {
	res, err := movement.Excavate(tx.g, tx.r, tx.seat, movement.ExcavateChoice{
		Cube: a.Cube,
		Card: scoring.Pick{Card: a.Card, Return: a.ReturnCard},
	})
	if err != nil {
		return err
	}
	tx.emit(EventExcavated, tx.seat, res)
	return nil
}

func handleDock(tx *txn, a Action) error {
	res, err := movement.Dock(tx.g, tx.r, tx.seat, a.Cubes)
	if err != nil {
		return err
	}
	tx.emit(EventDocked, tx.seat, res)
	endTurn(tx)
	return nil
}

func launchesEndGame(s *model.State, r model.Rules) bool {
	if s.Launches >= r.LaunchTarget {
		return true
	}
	for _, rk := range s.Rockets {
		if !rk.Launched {
			return false
		}
	}
	return true
}
