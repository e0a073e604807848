package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/physics"
	"github.com/milk9111/ledgerunner/player"
	"gopkg.in/yaml.v3"
)

// LoadSpec decodes a yaml prefab over defaults, so keys missing from the
// file keep their default values.
func LoadSpec[T any](filename string, defaults T) (T, error) {
	data, err := Load(filename)
	if err != nil {
		return defaults, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return DecodeSpec(filename, data, defaults)
}

func DecodeSpec[T any](filename string, data []byte, defaults T) (T, error) {
	spec := defaults
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return defaults, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

type LedgeSpec struct {
	EndY       float64 `yaml:"end_y"`
	TileOffset float64 `yaml:"tile_offset"`
	CoyoteY    float64 `yaml:"coyote_y"`
}

type AnimationSpec struct {
	Frames int `yaml:"frames"`
	FPS    int `yaml:"fps"`
}

// PlayerSpec mirrors player.yaml. Speeds are pixels per second with y up;
// frame counts are fixed-update ticks.
type PlayerSpec struct {
	Name               string                   `yaml:"name"`
	Gravity            float64                  `yaml:"gravity"`
	MaxFallingSpeed    float64                  `yaml:"max_falling_speed"`
	JumpSpeed          float64                  `yaml:"jump_speed"`
	WalkSpeed          float64                  `yaml:"walk_speed"`
	WalkAccel          float64                  `yaml:"walk_accel"`
	SlideSpeed         float64                  `yaml:"slide_speed"`
	LateJumpFrames     int                      `yaml:"late_jump_frames"`
	LedgeReleaseFrames int                      `yaml:"ledge_release_frames"`
	AttackCancelFrame  int                      `yaml:"attack_cancel_frame"`
	TickRate           int                      `yaml:"tick_rate"`
	Size               VectorSpec               `yaml:"size"`
	Scale              VectorSpec               `yaml:"scale"`
	Ledge              LedgeSpec                `yaml:"ledge"`
	Animations         map[string]AnimationSpec `yaml:"animations"`
}

// DefaultPlayerSpec mirrors player.DefaultTuning.
func DefaultPlayerSpec() PlayerSpec {
	t := player.DefaultTuning()
	spec := PlayerSpec{
		Name:               "player",
		Gravity:            t.Gravity,
		MaxFallingSpeed:    t.MaxFallingSpeed,
		JumpSpeed:          t.JumpSpeed,
		WalkSpeed:          t.WalkSpeed,
		WalkAccel:          t.WalkAccel,
		SlideSpeed:         t.SlideSpeed,
		LateJumpFrames:     t.LateJumpFrames,
		LedgeReleaseFrames: t.LedgeReleaseFrames,
		AttackCancelFrame:  t.AttackCancelFrame,
		TickRate:           t.TickRate,
		Size:               VectorSpec{X: t.Size.X, Y: t.Size.Y},
		Scale:              VectorSpec{X: t.Scale.X, Y: t.Scale.Y},
		Ledge: LedgeSpec{
			EndY:       t.Ledge.EndY,
			TileOffset: t.Ledge.TileOffset,
			CoyoteY:    t.Ledge.CoyoteY,
		},
		Animations: make(map[string]AnimationSpec, len(t.Animations)),
	}
	for id, a := range t.Animations {
		spec.Animations[id.String()] = AnimationSpec{Frames: a.Frames, FPS: a.FPS}
	}
	return spec
}

// Tuning converts s to a validated player.Tuning.
func (s PlayerSpec) Tuning() (player.Tuning, error) {
	t := player.Tuning{
		Gravity:            s.Gravity,
		MaxFallingSpeed:    s.MaxFallingSpeed,
		JumpSpeed:          s.JumpSpeed,
		WalkSpeed:          s.WalkSpeed,
		WalkAccel:          s.WalkAccel,
		SlideSpeed:         s.SlideSpeed,
		LateJumpFrames:     s.LateJumpFrames,
		LedgeReleaseFrames: s.LedgeReleaseFrames,
		AttackCancelFrame:  s.AttackCancelFrame,
		TickRate:           s.TickRate,
		Size:               s.Size.Vector(),
		Scale:              s.Scale.Vector(),
		Ledge: physics.LedgeConfig{
			EndY:       s.Ledge.EndY,
			TileOffset: s.Ledge.TileOffset,
			CoyoteY:    s.Ledge.CoyoteY,
		},
		Animations: make(map[player.StateID]player.AnimationSpec, len(s.Animations)),
	}
	for name, a := range s.Animations {
		id, ok := player.ParseStateID(name)
		if !ok {
			return player.Tuning{}, fmt.Errorf("prefabs: %s: unknown animation state %q", s.Name, name)
		}
		t.Animations[id] = player.AnimationSpec{Frames: a.Frames, FPS: a.FPS}
	}
	if err := t.Validate(); err != nil {
		return player.Tuning{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	return t, nil
}

// LoadPlayerTuning reads player.yaml (disk copy first) into a validated
// tuning.
func LoadPlayerTuning() (player.Tuning, error) {
	spec, err := LoadSpec("player.yaml", DefaultPlayerSpec())
	if err != nil {
		return player.Tuning{}, err
	}
	return spec.Tuning()
}

// ThemeSpec colours the renderers.
type ThemeSpec struct {
	Background YAMLColor `yaml:"background"`
	Block      YAMLColor `yaml:"block"`
	OneWay     YAMLColor `yaml:"one_way"`
	Player     YAMLColor `yaml:"player"`
	Hanging    YAMLColor `yaml:"hanging"`
	Crate      YAMLColor `yaml:"crate"`
	Text       YAMLColor `yaml:"text"`
}

func DefaultThemeSpec() ThemeSpec {
	return ThemeSpec{
		Background: YAMLColor{color.NRGBA{R: 0x1d, G: 0x20, B: 0x21, A: 0xff}},
		Block:      YAMLColor{color.NRGBA{R: 0x66, G: 0x5c, B: 0x54, A: 0xff}},
		OneWay:     YAMLColor{color.NRGBA{R: 0xd7, G: 0x99, B: 0x21, A: 0xff}},
		Player:     YAMLColor{color.NRGBA{R: 0x83, G: 0xa5, B: 0x98, A: 0xff}},
		Hanging:    YAMLColor{color.NRGBA{R: 0xb8, G: 0xbb, B: 0x26, A: 0xff}},
		Crate:      YAMLColor{color.NRGBA{R: 0xd6, G: 0x5d, B: 0x0e, A: 0xff}},
		Text:       YAMLColor{color.NRGBA{R: 0xeb, G: 0xdb, B: 0xb2, A: 0xff}},
	}
}

func LoadThemeSpec() (ThemeSpec, error) {
	return LoadSpec("theme.yaml", DefaultThemeSpec())
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
