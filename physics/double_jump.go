package physics

// DoubleJumpGate allows a single mid-air jump between two Arm calls.
type DoubleJumpGate struct {
	JumpSpeed float64
	available bool
}

func NewDoubleJumpGate(jumpSpeed float64) DoubleJumpGate {
	return DoubleJumpGate{JumpSpeed: jumpSpeed}
}

// Arm makes the next Consume succeed. Grounded states and ledge releases arm
// the gate.
func (g *DoubleJumpGate) Arm() {
	g.available = true
}

func (g *DoubleJumpGate) Available() bool {
	return g.available
}

// Consume launches m upward if the gate is armed and disarms it.
func (g *DoubleJumpGate) Consume(m *MovingObject) bool {
	if !g.available {
		return false
	}
	g.available = false
	m.Velocity.Y = g.JumpSpeed
	return true
}
