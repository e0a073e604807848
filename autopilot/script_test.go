package autopilot

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/component"
	"github.com/milk9111/ledgerunner/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedScriptsCompile(t *testing.T) {
	for _, name := range []string{"idle", "patrol", "ledge_demo"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(name)
			require.NoError(t, err)
			_, err = s.Next(Sensors{})
			require.NoError(t, err)
		})
	}
}

func TestPatrolTurnsAtWalls(t *testing.T) {
	s, err := Load("patrol")
	require.NoError(t, err)

	in, err := s.Next(Sensors{Frame: 1, OnGround: true})
	require.NoError(t, err)
	assert.True(t, in.Right)
	assert.False(t, in.Left)

	in, err = s.Next(Sensors{Frame: 2, OnGround: true, PushesRightWall: true})
	require.NoError(t, err)
	assert.True(t, in.Left)

	// Direction is remembered once the wall is gone.
	in, err = s.Next(Sensors{Frame: 3, OnGround: true})
	require.NoError(t, err)
	assert.True(t, in.Left)

	s.Reset()
	in, err = s.Next(Sensors{Frame: 4, OnGround: true})
	require.NoError(t, err)
	assert.True(t, in.Right)
}

func TestSensorsReachScript(t *testing.T) {
	src := `
think := func(sensors, memory) {
	return {
		jump: sensors.state == "ledge_grab",
		down: sensors.on_platform,
		up: sensors.at_ceiling,
		attack: sensors.x > 10 && sensors.y < 0,
		slide: sensors.frame == 7
	}
}`
	s, err := New("inline", []byte(src))
	require.NoError(t, err)

	in, err := s.Next(Sensors{
		Frame:      7,
		State:      player.LedgeGrab,
		Position:   cp.Vector{X: 20, Y: -5},
		OnPlatform: true,
		AtCeiling:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, component.Intent{Up: true, Down: true, Jump: true, Attack: true, Slide: true}, in)
}

func TestThinkMustReturnMap(t *testing.T) {
	s, err := New("number", []byte(`think := func(sensors, memory) { return 3 }`))
	require.NoError(t, err)
	_, err = s.Next(Sensors{})
	require.ErrorIs(t, err, ErrNoIntent)
}

func TestMissingThinkFailsToCompile(t *testing.T) {
	_, err := New("empty", []byte(`x := 1`))
	require.Error(t, err)
}

func TestRunawayScriptHitsBudget(t *testing.T) {
	s, err := New("loop", []byte(`think := func(sensors, memory) { for { } }`))
	require.NoError(t, err)
	s.Budget = 10 * time.Millisecond
	_, err = s.Next(Sensors{})
	require.Error(t, err)
}

func TestDriveMergesIntoPlayerInput(t *testing.T) {
	s, err := New("right", []byte(`think := func(sensors, memory) { return { right: true } }`))
	require.NoError(t, err)

	p := player.New(cp.Vector{X: 100, Y: 100}, player.DefaultTuning())
	p.Input.Jump = true
	require.NoError(t, s.Drive(p, 0))
	assert.True(t, p.Input.Right)
	assert.True(t, p.Input.Jump)
}
