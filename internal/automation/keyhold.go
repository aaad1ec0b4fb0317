package automation

import (
	"time"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// DefaultHoldWindow covers the gap between the first key event and the
// terminal's auto-repeat.
const DefaultHoldWindow = 600 * time.Millisecond

// KeyHold turns press events into held keys. Terminals report presses and
// auto-repeats but no releases, so a key counts as held until Window has
// passed since its last event.
type KeyHold struct {
	Window time.Duration

	left, right time.Time
}

func NewKeyHold(window time.Duration) *KeyHold {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &KeyHold{Window: window}
}

// Press records an event for the left or right key. Other directions are
// ignored.
func (k *KeyHold) Press(d dynamo.Direction, at time.Time) {
	switch d {
	case dynamo.DirectionNegative:
		k.left = at
	case dynamo.DirectionPositive:
		k.right = at
	}
}

// Release drops both keys.
func (k *KeyHold) Release() {
	k.left, k.right = time.Time{}, time.Time{}
}

func (k *KeyHold) held(last, at time.Time) bool {
	return !last.IsZero() && !at.Before(last) && at.Sub(last) < k.Window
}

// Direction resolves the held keys at the given time, left first.
func (k *KeyHold) Direction(at time.Time) dynamo.Direction {
	return dynamo.DirectionFromKeys(k.held(k.left, at), k.held(k.right, at))
}
