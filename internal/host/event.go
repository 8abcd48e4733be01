package host

import "github.com/google/uuid"

// MouseButton identifies which mouse button an input event concerns.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

// String returns "left" or "right".
func (m MouseButton) String() string {
	if m == MouseRight {
		return "right"
	}
	return "left"
}

// MouseButtonState is the press/release half of a button event.
type MouseButtonState int

const (
	MousePressed MouseButtonState = iota
	MouseReleased
)

// MouseButtonEvent is a player mouse-button input delivered by the host
// engine. Handlers cancel the event to suppress the engine's default
// behavior; cancellation never propagates elsewhere.
type MouseButtonEvent struct {
	PlayerID  uuid.UUID
	PlayerRef EntityRef
	Button    MouseButton
	State     MouseButtonState
	// TargetBlock is the block under the cursor, or nil when the cursor
	// was over nothing interactable.
	TargetBlock *BlockPos

	cancelled bool
}

// Cancel marks the event so the host engine skips its default handling.
func (e *MouseButtonEvent) Cancel() {
	e.cancelled = true
}

// Cancelled reports whether a handler cancelled the event.
func (e *MouseButtonEvent) Cancelled() bool {
	return e.cancelled
}
