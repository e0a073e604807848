package player

import (
	"time"

	"github.com/milk9111/ledgerunner/fsm"
	"github.com/milk9111/ledgerunner/physics"
)

type transition = fsm.Transition[StateID]

var (
	stay = transition{}
	pop  = transition{Op: fsm.Pop}
)

func push(s StateID) transition     { return transition{Op: fsm.Push, To: s} }
func switchTo(s StateID) transition { return transition{Op: fsm.Switch, To: s} }

// states is the dispatch table. Every ID below stateCount has a row.
var states = fsm.Table[StateID, *Player, physics.Terrain, Renderer]{
	Idle: {
		Name:         "idle",
		OnStart:      startGrounded,
		OnResume:     resumeGrounded,
		HandleEvents: func(p *Player) transition { return groundEvents(p, false) },
		Update: func(p *Player, dt time.Duration, t physics.Terrain) transition {
			return stepGrounded(p, 0, dt, t)
		},
		FixedUpdate: tickOnly,
		Draw:        drawSnapshot,
	},
	Running: {
		Name:         "running",
		OnStart:      startGrounded,
		OnResume:     resumeGrounded,
		HandleEvents: func(p *Player) transition { return groundEvents(p, true) },
		Update: func(p *Player, dt time.Duration, t physics.Terrain) transition {
			return stepGrounded(p, p.Input.Horizontal(), dt, t)
		},
		FixedUpdate: tickOnly,
		Draw:        drawSnapshot,
	},
	Jumping: {
		Name:         "jumping",
		OnStart:      resetAnimation,
		HandleEvents: jumpingEvents,
		Update:       jumpingUpdate,
		FixedUpdate:  tickOnly,
		Draw:         drawSnapshot,
	},
	Sliding: {
		Name:         "sliding",
		OnStart:      resetAnimation,
		HandleEvents: slidingEvents,
		Update:       slidingUpdate,
		FixedUpdate:  popWhenOver,
		Draw:         drawSnapshot,
	},
	Attacking: {
		Name:         "attacking",
		OnStart:      resetAnimation,
		HandleEvents: attackingEvents,
		Update:       attackingUpdate,
		FixedUpdate:  popWhenOver,
		Draw:         drawSnapshot,
	},
	LedgeGrab: {
		Name:         "ledge_grab",
		OnStart:      startLedgeGrab,
		HandleEvents: ledgeGrabEvents,
		Update:       ledgeGrabUpdate,
		FixedUpdate:  tickOnly,
		Draw:         drawSnapshot,
	},
}

func resetAnimation(p *Player) {
	p.Animation().Reset()
}

func startGrounded(p *Player) {
	p.Animation().Reset()
	p.DoubleJump.Arm()
}

func resumeGrounded(p *Player) {
	p.DoubleJump.Arm()
}

func tickOnly(p *Player) transition {
	p.tick()
	return stay
}

func popWhenOver(p *Player) transition {
	p.tick()
	if p.Animation().IsOver() {
		return pop
	}
	return stay
}

func drawSnapshot(p *Player, r Renderer) {
	if r != nil {
		r.DrawPlayer(p.Snapshot())
	}
}

// groundEvents resolves intents for Idle and Running in priority order:
// attack, jump, drop-through, lateral, slide.
func groundEvents(p *Player, running bool) transition {
	p.face()
	in := p.Input
	m := p.Mover
	switch {
	case in.Attack:
		return push(Attacking)
	case in.Jump && m.OnGround:
		p.jump()
		return push(Jumping)
	case in.Down && m.DropThrough():
		p.emit(EventDroppedThrough)
		return push(Jumping)
	case !running && in.Horizontal() != 0:
		return switchTo(Running)
	case running && in.Horizontal() == 0:
		return switchTo(Idle)
	case in.Slide && m.OnGround:
		return push(Sliding)
	}
	return stay
}

func stepGrounded(p *Player, dir float64, dt time.Duration, t physics.Terrain) transition {
	p.walk(dir, dt)
	p.fall()
	p.Mover.Step(dt, t)
	if !p.Mover.OnGround {
		return push(Jumping)
	}
	return stay
}

func jumpingEvents(p *Player) transition {
	p.face()
	in := p.Input
	m := p.Mover
	switch {
	case in.Attack:
		return switchTo(Attacking)
	case in.Jump:
		if m.FramesFromJumpStart <= p.tuning.LateJumpFrames && m.Velocity.Y > 0 && !m.AtCeiling {
			m.Velocity.Y = p.tuning.JumpSpeed
		} else if p.DoubleJump.Consume(m) {
			p.emit(EventDoubleJumped)
		}
	}
	return stay
}

func jumpingUpdate(p *Player, dt time.Duration, t physics.Terrain) transition {
	m := p.Mover
	in := p.airIntent()
	p.walk(in.Horizontal(), dt)
	p.fall()
	m.Step(dt, t)
	p.capFall()

	if m.OnGround {
		p.emit(EventLanded)
		return pop
	}
	if p.Ledge.TryGrab(m, in, t) {
		p.emit(EventLedgeGrabbed)
		return switchTo(LedgeGrab)
	}
	return stay
}

func startLedgeGrab(p *Player) {
	p.Animation().Reset()
	p.Mover.Velocity.X, p.Mover.Velocity.Y = 0, 0
	p.Mover.Accel.X, p.Mover.Accel.Y = 0, 0
	p.Facing = Facing(p.Ledge.Side)
}

func ledgeGrabEvents(p *Player) transition {
	in := p.Input
	away := in.Horizontal() == -float64(p.Ledge.Side)
	switch {
	case in.Jump:
		p.releaseLedge()
		p.jump()
		return switchTo(Jumping)
	case in.Down, away:
		p.releaseLedge()
		return switchTo(Jumping)
	}
	return stay
}

func ledgeGrabUpdate(p *Player, dt time.Duration, t physics.Terrain) transition {
	m := p.Mover
	m.Velocity.X, m.Velocity.Y = 0, 0
	m.Accel.X, m.Accel.Y = 0, 0
	m.Step(dt, t)
	return stay
}

// releaseLedge locks out input toward the wall for a few ticks so the
// player does not grab the same ledge again straight away.
func (p *Player) releaseLedge() {
	m := p.Mover
	if p.Ledge.Side == physics.SideRight {
		m.CannotGoRightFrames = p.tuning.LedgeReleaseFrames
	} else {
		m.CannotGoLeftFrames = p.tuning.LedgeReleaseFrames
	}
	p.DoubleJump.Arm()
	p.emit(EventLedgeReleased)
}

func slidingEvents(p *Player) transition {
	in := p.Input
	switch {
	case in.Attack:
		return switchTo(Attacking)
	case in.Jump && p.Mover.OnGround:
		p.jump()
		return switchTo(Jumping)
	}
	return stay
}

func slidingUpdate(p *Player, dt time.Duration, t physics.Terrain) transition {
	m := p.Mover
	dir := float64(p.Facing)
	m.Accel.X = 0
	if (dir > 0 && m.PushesRightWall) || (dir < 0 && m.PushesLeftWall) {
		m.Velocity.X = 0
	} else {
		m.Velocity.X = dir * p.tuning.SlideSpeed
	}
	p.fall()
	m.Step(dt, t)
	p.capFall()
	if !m.OnGround {
		return switchTo(Jumping)
	}
	return stay
}

// attackingEvents only reacts once the swing is past its committed frames.
func attackingEvents(p *Player) transition {
	if p.Animation().Frame() <= p.tuning.AttackCancelFrame {
		return stay
	}
	in := p.Input
	m := p.Mover
	switch {
	case in.Attack:
		return switchTo(Attacking)
	case in.Jump && m.OnGround:
		p.jump()
		return switchTo(Jumping)
	case in.Slide && m.OnGround:
		return switchTo(Sliding)
	}
	return stay
}

func attackingUpdate(p *Player, dt time.Duration, t physics.Terrain) transition {
	m := p.Mover
	if m.OnGround {
		p.walk(0, dt)
	} else {
		p.walk(p.airIntent().Horizontal(), dt)
	}
	p.fall()
	m.Step(dt, t)
	p.capFall()
	return stay
}
