package component

// Intent is the per-frame movement request fed to an actor. Directions are
// held; Jump, Attack and Slide are edge-triggered and cleared by
// ClearOneShots once the frame has consumed them.
type Intent struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool

	Jump   bool
	Attack bool
	Slide  bool
}

// ClearOneShots drops the edge-triggered requests.
func (i *Intent) ClearOneShots() {
	i.Jump = false
	i.Attack = false
	i.Slide = false
}

// Horizontal returns -1, 0 or 1. Holding both directions cancels out.
func (i Intent) Horizontal() float64 {
	switch {
	case i.Left && !i.Right:
		return -1
	case i.Right && !i.Left:
		return 1
	}
	return 0
}

// Merge ORs other into i. Used to combine keyboard and scripted input.
func (i *Intent) Merge(other Intent) {
	i.Left = i.Left || other.Left
	i.Right = i.Right || other.Right
	i.Up = i.Up || other.Up
	i.Down = i.Down || other.Down
	i.Jump = i.Jump || other.Jump
	i.Attack = i.Attack || other.Attack
	i.Slide = i.Slide || other.Slide
}
