// Package autopilot drives a player from a tengo script instead of the
// keyboard. A script defines think(sensors, memory) and returns a map of
// intent flags for the next frame.
package autopilot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/component"
	"github.com/milk9111/ledgerunner/player"
	"github.com/milk9111/ledgerunner/prefabs"
)

// ErrNoIntent is returned when think does not return a map.
var ErrNoIntent = errors.New("autopilot: think did not return an intent map")

// DefaultBudget bounds a single think call.
const DefaultBudget = 50 * time.Millisecond

const dispatch = `
if __phase == "think" {
	__intent = think(__sensors, __memory)
}
`

// Sensors is what a script can see of its player.
type Sensors struct {
	Frame           int
	State           player.StateID
	Position        cp.Vector
	Velocity        cp.Vector
	OnGround        bool
	OnPlatform      bool
	PushesLeftWall  bool
	PushesRightWall bool
	AtCeiling       bool
}

// Sense reads the sensors of p for the given frame number.
func Sense(p *player.Player, frame int) Sensors {
	m := p.Mover
	return Sensors{
		Frame:           frame,
		State:           p.State(),
		Position:        m.Position,
		Velocity:        m.Velocity,
		OnGround:        m.OnGround,
		OnPlatform:      m.OnPlatform,
		PushesLeftWall:  m.PushesLeftWall,
		PushesRightWall: m.PushesRightWall,
		AtCeiling:       m.AtCeiling,
	}
}

// Script is a compiled autopilot. It keeps a memory map between calls and
// is not safe for concurrent use.
type Script struct {
	Name   string
	Budget time.Duration

	compiled *tengo.Compiled
	memory   *tengo.Map
}

// Load compiles a script from the prefabs scripts directory.
func Load(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("autopilot: load %s: %w", name, err)
	}
	return New(name, src)
}

// New compiles src. The script must define think.
func New(name string, src []byte) (*Script, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + dispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__sensors", map[string]any{})
	_ = script.Add("__memory", map[string]any{})
	_ = script.Add("__intent", nil)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("autopilot: compile %s: %w", name, err)
	}

	s := &Script{
		Name:     name,
		Budget:   DefaultBudget,
		compiled: compiled,
	}
	s.Reset()
	return s, nil
}

// Reset forgets everything the script stored in memory.
func (s *Script) Reset() {
	s.memory = &tengo.Map{Value: map[string]tengo.Object{}}
}

// Next runs think once and converts its result into an Intent.
func (s *Script) Next(sensors Sensors) (component.Intent, error) {
	if err := s.run("think", sensors); err != nil {
		return component.Intent{}, fmt.Errorf("autopilot: %s: %w", s.Name, err)
	}
	in, err := intentFrom(s.compiled.Get("__intent").Object())
	if err != nil {
		return component.Intent{}, fmt.Errorf("autopilot: %s: %w", s.Name, err)
	}
	return in, nil
}

// Drive feeds the next intent into p.Input, merged with what is already
// there so a human can still take over.
func (s *Script) Drive(p *player.Player, frame int) error {
	in, err := s.Next(Sense(p, frame))
	if err != nil {
		return err
	}
	p.Input.Merge(in)
	return nil
}

func (s *Script) run(phase string, sensors Sensors) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__sensors", sensorObject(sensors)); err != nil {
		return err
	}
	if err := s.compiled.Set("__memory", s.memory); err != nil {
		return err
	}
	if err := s.compiled.Set("__intent", nil); err != nil {
		return err
	}
	if s.Budget <= 0 {
		return s.compiled.Run()
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.Budget)
	defer cancel()
	return s.compiled.RunContext(ctx)
}

func sensorObject(s Sensors) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"frame":             &tengo.Int{Value: int64(s.Frame)},
		"state":             &tengo.String{Value: s.State.String()},
		"x":                 &tengo.Float{Value: s.Position.X},
		"y":                 &tengo.Float{Value: s.Position.Y},
		"vx":                &tengo.Float{Value: s.Velocity.X},
		"vy":                &tengo.Float{Value: s.Velocity.Y},
		"on_ground":         boolObject(s.OnGround),
		"on_platform":       boolObject(s.OnPlatform),
		"pushes_left_wall":  boolObject(s.PushesLeftWall),
		"pushes_right_wall": boolObject(s.PushesRightWall),
		"at_ceiling":        boolObject(s.AtCeiling),
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func intentFrom(obj tengo.Object) (component.Intent, error) {
	var values map[string]tengo.Object
	switch v := obj.(type) {
	case *tengo.Map:
		values = v.Value
	case *tengo.ImmutableMap:
		values = v.Value
	default:
		return component.Intent{}, ErrNoIntent
	}

	var in component.Intent
	flags := map[string]*bool{
		"left":   &in.Left,
		"right":  &in.Right,
		"up":     &in.Up,
		"down":   &in.Down,
		"jump":   &in.Jump,
		"attack": &in.Attack,
		"slide":  &in.Slide,
	}
	for key, val := range values {
		flag, ok := flags[strings.ToLower(strings.TrimSpace(key))]
		if !ok || val == nil {
			continue
		}
		*flag = !val.IsFalsy()
	}
	return in, nil
}
