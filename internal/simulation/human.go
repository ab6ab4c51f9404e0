package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/ai"
	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/shared/types"
	"github.com/luketas/soccer-ai/internal/tuning"
)

const (
	inputDeadzone = 0.1
	// passCone is the minimum alignment between facing and a teammate for
	// a directed pass.
	passCone = 0.5
	// blindPassDistance is how far an undirected pass travels.
	blindPassDistance = 15
)

// ApplyInput stores the latest human intent. Movement axes are clamped and
// action buttons latch until the next tick consumes them.
func (w *World) ApplyInput(in types.HumanInput) {
	w.mu.Lock()
	defer w.mu.Unlock()
	in.MoveX = geom.Clamp(in.MoveX, -1, 1)
	in.MoveZ = geom.Clamp(in.MoveZ, -1, 1)
	w.input = in
	w.pending.pass = w.pending.pass || in.Pass
	w.pending.shoot = w.pending.shoot || in.Shoot
	w.pending.swap = w.pending.swap || in.Switch
}

// stepHuman drives the active actor from the latest input.
func (w *World) stepHuman() {
	if !w.humanControl {
		return
	}
	trig := w.pending
	w.pending = triggers{}
	if trig.swap {
		w.switchActive()
	}
	a := w.roster.Get(w.active)
	if a == nil {
		return
	}

	in := w.input
	dir := mgl64.Vec3{in.MoveX, 0, in.MoveZ}
	speed, mult := a.Caps.BaseSpeed, 1.0
	if a.IsControllingBall() {
		speed = a.Caps.DribbleSpeed
		if in.Sprint && speed > 0 {
			mult = a.Caps.DribbleSprintSpeed / speed
		}
	} else if in.Sprint {
		mult = a.Caps.SprintMultiplier
	}
	if dir.Len() < inputDeadzone {
		w.kin.Halt(a)
	} else {
		w.kin.Move(a, dir, speed*math.Min(dir.Len(), 1), mult, w.now)
	}

	switch {
	case trig.pass && a.IsControllingBall():
		w.handleActions([]ai.Action{{Kind: ai.ActKick, Actor: a.ID, Kick: w.humanPass(a)}})
	case trig.shoot && a.IsControllingBall():
		w.handleActions([]ai.Action{{Kind: ai.ActKick, Actor: a.ID, Kick: w.humanShoot(a, in.Sprint)}})
	case trig.shoot:
		res := w.tackler.Attempt(a, w.ball, w.rng)
		w.handleActions([]ai.Action{{Kind: ai.ActTackle, Actor: a.ID, Tackle: res}})
	}
}

// humanPass finds the best-aligned teammate in the facing cone, or plays
// the ball into space ahead.
func (w *World) humanPass(a *physics.Actor) physics.Kick {
	cfg := w.params.AI
	facing := a.FacingDir()
	var best *physics.Actor
	bestAlign := passCone
	for _, mate := range w.roster.Team(a.Team) {
		if mate.ID == a.ID {
			continue
		}
		dist := geom.PlanarDist(a.Position, mate.Position)
		if dist < cfg.PassMinDist || dist > cfg.PassMaxDist {
			continue
		}
		align := geom.PlanarDir(a.Position, mate.Position, mgl64.Vec3{}).Dot(facing)
		if align >= bestAlign {
			best, bestAlign = mate, align
		}
	}
	if best == nil {
		target, _ := w.params.Pitch.ClampActor(a.Position.Add(facing.Mul(blindPassDistance)), 0.5)
		return w.ball.PassTo(a, target)
	}
	return w.ball.PassTo(a, best.Position)
}

// humanShoot aims across the mouth by the facing's lateral component.
func (w *World) humanShoot(a *physics.Actor, power bool) physics.Kick {
	p := w.params.Pitch
	ghw := p.GoalHalfWidth
	target := p.GoalCenter(a.Team.AttackSide())
	target[2] = geom.Clamp(a.FacingDir()[2]*ghw*1.5, -(ghw - 0.6), ghw-0.6)
	target[1] = 1
	kind := physics.KickShot
	if power {
		kind = physics.KickPowerShot
	}
	return w.ball.ShootAt(a, target, kind)
}

// setActive hands control to id. Ids outside the Self outfield clear it.
func (w *World) setActive(id physics.ID) {
	for _, a := range w.roster {
		a.Human = false
	}
	w.active = physics.NoActor
	a := w.roster.Get(id)
	if a == nil || a.Team != physics.Self || a.Role == tuning.Goalkeeper {
		return
	}
	a.Human = true
	w.active = id
}

// switchActive moves control to the Self outfield actor nearest the ball.
func (w *World) switchActive() {
	best, bestDist := physics.NoActor, math.Inf(1)
	for _, a := range w.roster.Team(physics.Self) {
		if a.ID == w.active || a.Role == tuning.Goalkeeper {
			continue
		}
		if d := geom.PlanarDist(a.Position, w.ball.Position); d < bestDist {
			best, bestDist = a.ID, d
		}
	}
	if best != physics.NoActor {
		w.setActive(best)
	}
}

// SwitchActive is the exported form of the switch trigger for callers
// outside the tick loop.
func (w *World) SwitchActive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.humanControl {
		w.switchActive()
	}
}
