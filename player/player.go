package player

import (
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/component"
	"github.com/milk9111/ledgerunner/fsm"
	"github.com/milk9111/ledgerunner/physics"
)

// StateID is the closed set of player behaviour states.
type StateID int

const (
	Idle StateID = iota
	Running
	Jumping
	Sliding
	Attacking
	LedgeGrab

	stateCount
)

var stateNames = [stateCount]string{"idle", "running", "jumping", "sliding", "attacking", "ledge_grab"}

func (s StateID) String() string {
	if s >= 0 && s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseStateID maps a state name such as "ledge_grab" back to its ID.
func ParseStateID(name string) (StateID, bool) {
	for i, n := range stateNames {
		if n == name {
			return StateID(i), true
		}
	}
	return 0, false
}

// Facing is -1 for left and 1 for right.
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	Position cp.Vector
	Bounds   cp.BB
	Velocity cp.Vector
	Facing   Facing
	State    StateID
	Frame    int
	OnGround bool
	Hanging  bool
}

// Renderer draws the player. Only the active state's draw hook calls it.
type Renderer interface {
	DrawPlayer(Snapshot)
}

type machine = fsm.Machine[StateID, *Player, physics.Terrain, Renderer]

// Player owns its moving object and the helpers the states drive.
type Player struct {
	Mover      *physics.MovingObject
	Ledge      physics.LedgeGrabber
	DoubleJump physics.DoubleJumpGate
	Input      component.Intent
	Facing     Facing

	tuning Tuning
	anims  [stateCount]*component.Animation
	events EventQueue
	fsm    *machine
}

// New spawns a player at spawn in the Idle state. spawn is the centre of the
// unscaled sprite; the collision box hangs from it by its offset.
func New(spawn cp.Vector, tuning Tuning) *Player {
	p := &Player{
		Facing: FacingRight,
	}
	p.applyTuning(tuning)
	box := physics.NewAABB(spawn, tuning.Size, tuning.Scale)
	p.Mover = physics.NewMovingObject(spawn, box)
	p.fsm = fsm.New(states, p)
	p.fsm.Start(Idle)
	return p
}

// StandingAt returns the spawn position that puts the collision box's feet
// on feet.
func StandingAt(feet cp.Vector, t Tuning) cp.Vector {
	box := physics.NewAABB(cp.Vector{}, t.Size, t.Scale)
	return cp.Vector{X: feet.X, Y: feet.Y + box.HalfSize().Y - box.Offset.Y}
}

// SetTuning swaps movement constants in place. The collision box is rebuilt
// around the current position.
func (p *Player) SetTuning(t Tuning) {
	p.applyTuning(t)
	box := physics.NewAABB(p.Mover.Position, t.Size, t.Scale)
	box.Center = p.Mover.Position.Add(box.Offset)
	p.Mover.Box = box
}

func (p *Player) applyTuning(t Tuning) {
	p.tuning = t
	p.Ledge.Config = t.Ledge
	p.DoubleJump.JumpSpeed = t.JumpSpeed
	for id := StateID(0); id < stateCount; id++ {
		spec := t.animation(id)
		loop := id != Sliding && id != Attacking
		p.anims[id] = component.NewAnimation(spec.Frames, spec.FPS, t.TickRate, loop)
	}
}

func (p *Player) Tuning() Tuning {
	return p.tuning
}

// Respawn resets motion and the state stack at pos.
func (p *Player) Respawn(pos cp.Vector) {
	p.fsm.Apply(fsm.Transition[StateID]{Op: fsm.Quit})
	box := p.Mover.Box
	p.Mover = physics.NewMovingObject(pos, box)
	p.Input = component.Intent{}
	p.events.Drain()
	for _, a := range p.anims {
		a.Reset()
	}
	p.fsm.Start(Idle)
}

// HandleEvents lets the active state react to Input, then clears the
// one-shot intents whether or not they were used.
func (p *Player) HandleEvents() {
	p.fsm.HandleEvents()
	p.Input.ClearOneShots()
}

// Update runs the active state's simulation for dt.
func (p *Player) Update(dt time.Duration, t physics.Terrain) {
	p.fsm.Update(dt, t)
}

// FixedUpdate advances tick-based counters and animation.
func (p *Player) FixedUpdate() {
	p.fsm.FixedUpdate()
}

func (p *Player) Draw(r Renderer) {
	p.fsm.Draw(r)
}

// State returns the active state. A halted machine reports Idle.
func (p *Player) State() StateID {
	s, _ := p.fsm.Current()
	return s
}

// StateStack returns the stacked states, bottom first.
func (p *Player) StateStack() []StateID {
	return p.fsm.Stack()
}

func (p *Player) Running() bool {
	return p.fsm.Running()
}

// Trace reports every state transition to fn as "op from -> to".
// A nil fn stops tracing.
func (p *Player) Trace(fn func(string)) {
	if fn == nil {
		p.fsm.OnTransition = nil
		return
	}
	p.fsm.OnTransition = func(from StateID, tr transition) {
		to := "halted"
		if cur, ok := p.fsm.Current(); ok {
			to = p.fsm.Name(cur)
		}
		fn(fmt.Sprintf("%s %s -> %s", tr.Op, p.fsm.Name(from), to))
	}
}

// Events drains the queued events.
func (p *Player) Events() []Event {
	return p.events.Drain()
}

// Animation returns the cursor of the active state.
func (p *Player) Animation() *component.Animation {
	return p.anims[p.State()]
}

func (p *Player) Snapshot() Snapshot {
	m := p.Mover
	return Snapshot{
		Position: m.Position,
		Bounds:   m.Box.Bounds(),
		Velocity: m.Velocity,
		Facing:   p.Facing,
		State:    p.State(),
		Frame:    p.Animation().Frame(),
		OnGround: m.OnGround,
		Hanging:  p.State() == LedgeGrab,
	}
}

func (p *Player) emit(kind EventKind) {
	p.events.Push(Event{Kind: kind, Position: p.Mover.Position})
}

func (p *Player) face() {
	switch {
	case p.Input.Left:
		p.Facing = FacingLeft
	case p.Input.Right:
		p.Facing = FacingRight
	}
}

// walk accelerates toward dir*WalkSpeed without overshooting it within dt.
func (p *Player) walk(dir float64, dt time.Duration) {
	m := p.Mover
	if (dir > 0 && m.PushesRightWall) || (dir < 0 && m.PushesLeftWall) {
		m.Accel.X = 0
		return
	}
	secs := dt.Seconds()
	if secs <= 0 {
		m.Accel.X = 0
		return
	}
	want := (dir*p.tuning.WalkSpeed - m.Velocity.X) / secs
	m.Accel.X = max(-p.tuning.WalkAccel, min(p.tuning.WalkAccel, want))
}

// airIntent is Input with any side still locked out after a ledge release
// dropped.
func (p *Player) airIntent() component.Intent {
	in := p.Input
	if p.Mover.CannotGoLeftFrames > 0 {
		in.Left = false
	}
	if p.Mover.CannotGoRightFrames > 0 {
		in.Right = false
	}
	return in
}

func (p *Player) fall() {
	p.Mover.Accel.Y = p.tuning.Gravity
}

func (p *Player) capFall() {
	m := p.Mover
	if m.Velocity.Y < p.tuning.MaxFallingSpeed {
		m.Velocity.Y = p.tuning.MaxFallingSpeed
	}
}

func (p *Player) jump() {
	p.Mover.Velocity.Y = p.tuning.JumpSpeed
	p.Mover.FramesFromJumpStart = 0
	p.emit(EventJumped)
}

// tick advances the active animation and the frame counters.
func (p *Player) tick() {
	p.Animation().Update()
	m := p.Mover
	m.FramesFromJumpStart++
	if m.CannotGoLeftFrames > 0 {
		m.CannotGoLeftFrames--
	}
	if m.CannotGoRightFrames > 0 {
		m.CannotGoRightFrames--
	}
}
