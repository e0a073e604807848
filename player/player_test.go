package player

import (
	"strings"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/component"
	"github.com/milk9111/ledgerunner/physics"
	"github.com/milk9111/ledgerunner/terrain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = time.Second / 60

// Tile (c, r) covers [32c, 32c+32). The floor surface is y=32 and the
// platform surface y=128. With the default tuning the collision box is
// 24x48 and hangs 24 below the position, so standing means y = surface+48.
const arena = `
..............
..............
..............
..............
..............
..............
.....====.....
..............
..............
##############`

var (
	onFloor    = cp.Vector{X: 100, Y: 80}
	onPlatform = cp.Vector{X: 208, Y: 176}
)

type harness struct {
	t     *testing.T
	p     *Player
	g     *terrain.Grid
	frame int
}

func newHarness(t *testing.T, layout string, spawn cp.Vector) *harness {
	t.Helper()
	g, err := terrain.Parse(layout, 32, cp.Vector{X: 16, Y: 16})
	require.NoError(t, err)
	h := &harness{t: t, p: New(spawn, DefaultTuning()), g: g}
	h.run(2)
	h.p.Events()
	return h
}

// run plays frames at 60Hz with a fixed update every second frame.
func (h *harness) run(frames int) {
	for i := 0; i < frames; i++ {
		h.p.HandleEvents()
		h.p.Update(dt, h.g)
		h.frame++
		if h.frame%2 == 0 {
			h.p.FixedUpdate()
		}
	}
}

func (h *harness) runUntil(limit int, cond func(p *Player) bool) bool {
	for i := 0; i < limit; i++ {
		if cond(h.p) {
			return true
		}
		h.run(1)
	}
	return cond(h.p)
}

func kinds(events []Event) []EventKind {
	var out []EventKind
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestSpawnSettlesIdle(t *testing.T) {
	h := newHarness(t, arena, onFloor)

	assert.Equal(t, Idle, h.p.State())
	assert.True(t, h.p.Mover.OnGround)
	assert.Equal(t, 80.0, h.p.Mover.Position.Y)
	assert.Equal(t, 32.0, h.p.Snapshot().Bounds.B)
	assert.True(t, h.p.DoubleJump.Available())
}

func TestJumpFromRest(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p

	p.Input.Jump = true
	p.HandleEvents()

	assert.Equal(t, Jumping, p.State())
	assert.Equal(t, []StateID{Idle, Jumping}, p.StateStack())
	assert.Equal(t, DefaultTuning().JumpSpeed, p.Mover.Velocity.Y)
	assert.False(t, p.Input.Jump, "one-shot intent must be cleared")

	p.Update(dt, h.g)
	assert.False(t, p.Mover.OnGround)
	assert.Greater(t, p.Mover.Position.Y, 80.0)
	assert.Equal(t, []EventKind{EventJumped}, kinds(p.Events()))

	require.True(t, h.runUntil(120, func(p *Player) bool { return p.State() == Idle }))
	assert.Equal(t, 80.0, p.Mover.Position.Y)
	assert.Equal(t, []EventKind{EventLanded}, kinds(p.Events()))
}

func TestIntentPriority(t *testing.T) {
	tests := []struct {
		name   string
		spawn  cp.Vector
		in     component.Intent
		state  StateID
		events []EventKind
	}{
		{"attack beats jump", onFloor, component.Intent{Attack: true, Jump: true, Slide: true}, Attacking, nil},
		{"jump beats drop", onPlatform, component.Intent{Jump: true, Down: true}, Jumping, []EventKind{EventJumped}},
		{"drop beats lateral", onPlatform, component.Intent{Down: true, Right: true}, Jumping, []EventKind{EventDroppedThrough}},
		{"lateral beats slide", onFloor, component.Intent{Left: true, Slide: true}, Running, nil},
		{"slide", onFloor, component.Intent{Slide: true}, Sliding, nil},
		{"down on solid ground", onFloor, component.Intent{Down: true}, Idle, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, arena, tc.spawn)
			p := h.p
			p.Input = tc.in

			p.HandleEvents()

			assert.Equal(t, tc.state, p.State())
			assert.Equal(t, tc.events, kinds(p.Events()))
			assert.False(t, p.Input.Jump)
			assert.False(t, p.Input.Attack)
			assert.False(t, p.Input.Slide)
			assert.Equal(t, tc.in.Down, p.Input.Down, "held intents persist")
			assert.Equal(t, tc.in.Left, p.Input.Left, "held intents persist")
		})
	}
}

func TestLateralSwitchesIdleAndRunning(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p

	p.Input.Right = true
	h.run(20)
	assert.Equal(t, Running, p.State())
	assert.Equal(t, FacingRight, p.Facing)
	assert.Greater(t, p.Mover.Position.X, onFloor.X)
	assert.LessOrEqual(t, p.Mover.Velocity.X, DefaultTuning().WalkSpeed+1e-9)

	p.Input.Right = false
	p.Input.Left = true
	h.run(1)
	assert.Equal(t, FacingLeft, p.Facing)

	p.Input.Left = false
	h.run(30)
	assert.Equal(t, Idle, p.State())
	assert.Equal(t, []StateID{Idle}, p.StateStack())
	assert.InDelta(t, 0, p.Mover.Velocity.X, 1e-9)
}

func TestDropThroughPlatform(t *testing.T) {
	h := newHarness(t, arena, onPlatform)
	p := h.p
	require.True(t, p.Mover.OnPlatform)

	p.Input.Down = true
	h.run(1)
	assert.Equal(t, Jumping, p.State())
	assert.False(t, p.Mover.OnGround)
	assert.Less(t, p.Mover.Position.Y, onPlatform.Y)

	require.True(t, h.runUntil(120, func(p *Player) bool { return p.State() == Idle }))
	assert.Equal(t, 80.0, p.Mover.Position.Y)
	assert.Equal(t, []EventKind{EventDroppedThrough, EventLanded}, kinds(p.Events()))
}

func TestDoubleJumpOncePerGroundContact(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p

	for round := 0; round < 2; round++ {
		p.Input.Jump = true
		h.run(1)
		require.Equal(t, Jumping, p.State())

		// past the late-jump window but still rising
		h.run(11)
		require.Greater(t, p.Mover.FramesFromJumpStart, DefaultTuning().LateJumpFrames)

		p.Input.Jump = true
		p.HandleEvents()
		assert.Equal(t, DefaultTuning().JumpSpeed, p.Mover.Velocity.Y, "round %d", round)
		h.run(5)

		before := p.Mover.Velocity.Y
		p.Input.Jump = true
		p.HandleEvents()
		assert.Equal(t, before, p.Mover.Velocity.Y, "second air jump in round %d", round)
		assert.False(t, p.DoubleJump.Available())

		require.True(t, h.runUntil(300, func(p *Player) bool { return p.State() == Idle }))
		assert.Equal(t, []EventKind{EventJumped, EventDoubleJumped, EventLanded}, kinds(p.Events()))
		assert.True(t, p.DoubleJump.Available())
	}
}

func TestLateJumpRefreshesRise(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p

	p.Input.Jump = true
	h.run(3)
	require.LessOrEqual(t, p.Mover.FramesFromJumpStart, DefaultTuning().LateJumpFrames)
	require.Less(t, p.Mover.Velocity.Y, DefaultTuning().JumpSpeed)

	p.Input.Jump = true
	p.HandleEvents()
	assert.Equal(t, DefaultTuning().JumpSpeed, p.Mover.Velocity.Y)
	assert.True(t, p.DoubleJump.Available(), "late jump does not spend the double jump")
}

func TestAttackCancelWindow(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p

	p.Input.Attack = true
	h.run(1)
	require.Equal(t, Attacking, p.State())

	for p.Animation().Frame() <= DefaultTuning().AttackCancelFrame {
		p.Input.Jump = true
		h.run(1)
		require.Equal(t, Attacking, p.State(), "frame %d", p.Animation().Frame())
	}

	p.Input.Jump = true
	h.run(1)
	assert.Equal(t, Jumping, p.State())
	assert.Equal(t, []StateID{Idle, Jumping}, p.StateStack())
}

func TestAttackPopsWhenAnimationEnds(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p

	p.Input.Attack = true
	p.HandleEvents()
	require.Equal(t, Attacking, p.State())

	// 8 frames at 15fps on a 30Hz tick
	for i := 0; i < 15; i++ {
		p.FixedUpdate()
		require.Equal(t, Attacking, p.State(), "tick %d", i)
	}
	p.FixedUpdate()
	assert.Equal(t, Idle, p.State())
}

func TestSlideMovesFacingDirectionThenPops(t *testing.T) {
	h := newHarness(t, arena, cp.Vector{X: 200, Y: 80})
	p := h.p
	p.Facing = FacingLeft

	p.Input.Slide = true
	h.run(1)
	require.Equal(t, Sliding, p.State())
	assert.Equal(t, -DefaultTuning().SlideSpeed, p.Mover.Velocity.X)
	assert.Less(t, p.Mover.Position.X, 200.0)

	require.True(t, h.runUntil(60, func(p *Player) bool { return p.State() != Sliding }))
	assert.Equal(t, Idle, p.State())
}

// ledgeArena has a column at x=8 whose lip is at y=160.
var ledgeArena = strings.Repeat("............\n", 5) +
	strings.Repeat("........#...\n", 4) +
	"############"

func TestLedgeGrabAndRelease(t *testing.T) {
	g, err := terrain.Parse(ledgeArena, 32, cp.Vector{X: 16, Y: 16})
	require.NoError(t, err)
	// flush against the column with the top of the box 20 above the lip
	h := &harness{t: t, p: New(cp.Vector{X: 244, Y: 180}, DefaultTuning()), g: g}
	p := h.p

	p.Input.Right = true
	require.True(t, h.runUntil(60, func(p *Player) bool { return p.State() == LedgeGrab }))

	lip := 160.0
	assert.Equal(t, lip+DefaultTuning().Ledge.TileOffset, p.Snapshot().Bounds.T)
	assert.Equal(t, cp.Vector{}, p.Mover.Velocity)
	assert.Equal(t, physics.SideRight, p.Ledge.Side)
	assert.Equal(t, 8, p.Ledge.TileX)
	assert.Equal(t, 4, p.Ledge.TileY)
	assert.True(t, p.Snapshot().Hanging)

	hang := p.Mover.Position
	h.run(10)
	assert.Equal(t, LedgeGrab, p.State())
	assert.Equal(t, hang, p.Mover.Position)

	p.Input.Down = true
	p.HandleEvents()
	assert.Equal(t, Jumping, p.State())
	assert.Equal(t, DefaultTuning().LedgeReleaseFrames, p.Mover.CannotGoRightFrames)
	assert.True(t, p.DoubleJump.Available())
	p.Input.Down = false

	require.True(t, h.runUntil(120, func(p *Player) bool { return p.State() != Jumping }))
	assert.Equal(t, Running, p.State())
	assert.Equal(t, []EventKind{EventLedgeGrabbed, EventLedgeReleased, EventLanded}, kinds(p.Events()))
}

func TestLedgeJumpRelease(t *testing.T) {
	g, err := terrain.Parse(ledgeArena, 32, cp.Vector{X: 16, Y: 16})
	require.NoError(t, err)
	h := &harness{t: t, p: New(cp.Vector{X: 244, Y: 180}, DefaultTuning()), g: g}
	p := h.p

	p.Input.Right = true
	require.True(t, h.runUntil(60, func(p *Player) bool { return p.State() == LedgeGrab }))
	p.Events()

	p.Input.Jump = true
	p.HandleEvents()
	assert.Equal(t, Jumping, p.State())
	assert.Equal(t, DefaultTuning().JumpSpeed, p.Mover.Velocity.Y)
	assert.Equal(t, []EventKind{EventLedgeReleased, EventJumped}, kinds(p.Events()))
}

func TestRespawnResetsStack(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p
	p.Input.Jump = true
	h.run(3)
	require.Equal(t, Jumping, p.State())

	p.Respawn(onPlatform)
	assert.Equal(t, []StateID{Idle}, p.StateStack())
	assert.Equal(t, onPlatform, p.Mover.Position)
	assert.Zero(t, p.Mover.Velocity)
	assert.Empty(t, p.Events())
	assert.True(t, p.Running())
}

type recordingRenderer struct {
	shots []Snapshot
}

func (r *recordingRenderer) DrawPlayer(s Snapshot) {
	r.shots = append(r.shots, s)
}

func TestDrawHandsOutSnapshot(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	r := &recordingRenderer{}

	h.p.Draw(r)
	require.Len(t, r.shots, 1)
	assert.Equal(t, Idle, r.shots[0].State)
	assert.Equal(t, onFloor, r.shots[0].Position)
	assert.Equal(t, FacingRight, r.shots[0].Facing)
}

func TestCrateRestsOnFloor(t *testing.T) {
	g, err := terrain.Parse(arena, 32, cp.Vector{X: 16, Y: 16})
	require.NoError(t, err)
	c := NewCrate(cp.Vector{X: 400, Y: 250}, cp.Vector{X: 32, Y: 32}, DefaultTuning())

	for i := 0; i < 120; i++ {
		c.Update(dt, g)
		require.GreaterOrEqual(t, c.Mover.Velocity.Y, DefaultTuning().MaxFallingSpeed)
	}
	assert.True(t, c.Mover.OnGround)
	assert.Equal(t, 32.0, c.Bounds().B)
}

func TestTuningValidate(t *testing.T) {
	require.NoError(t, DefaultTuning().Validate())

	bad := DefaultTuning()
	bad.Gravity = 10
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTuning)

	bad = DefaultTuning()
	bad.Scale.Y = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTuning)

	bad = DefaultTuning()
	bad.Animations = map[StateID]AnimationSpec{Attacking: {Frames: 0}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTuning)
}

func TestStandingAtPutsFeetOnPoint(t *testing.T) {
	pos := StandingAt(cp.Vector{X: 100, Y: 32}, DefaultTuning())
	assert.Equal(t, onFloor, pos)

	p := New(pos, DefaultTuning())
	assert.InDelta(t, 32.0, p.Mover.Box.Bounds().B, 1e-9)
}

func TestParseStateID(t *testing.T) {
	for id := Idle; id < stateCount; id++ {
		got, ok := ParseStateID(id.String())
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
	_, ok := ParseStateID("flying")
	assert.False(t, ok)
}

func TestTraceReportsTransitions(t *testing.T) {
	h := newHarness(t, arena, onFloor)
	p := h.p
	var trace []string
	p.Trace(func(s string) { trace = append(trace, s) })

	p.Input.Right = true
	h.run(1)
	p.Input.Right = false
	h.run(1)
	assert.Equal(t, []string{"switch idle -> running", "switch running -> idle"}, trace)

	p.Trace(nil)
	p.Input.Right = true
	h.run(1)
	assert.Len(t, trace, 2)
}
