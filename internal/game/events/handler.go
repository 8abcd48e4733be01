// Package events gates raw mouse input through the turn order. When an
// encounter is active, only the current actor's clicks reach the movement
// layer; everyone else is told whose turn it is.
package events

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/game/combat"
	"github.com/duskhollow/skirmish/internal/game/movement"
	"github.com/duskhollow/skirmish/internal/host"
)

// CombatEventHandler routes player mouse events during an encounter. Outside
// combat every event passes through untouched so normal play is unaffected.
type CombatEventHandler struct {
	turns     *combat.TurnManager
	movement  *movement.Manager
	messenger host.Messenger
	logger    *zap.Logger
}

// NewCombatEventHandler creates a handler.
//
// Precondition: All arguments must be non-nil.
func NewCombatEventHandler(turns *combat.TurnManager, mv *movement.Manager, messenger host.Messenger, logger *zap.Logger) *CombatEventHandler {
	return &CombatEventHandler{
		turns:     turns,
		movement:  mv,
		messenger: messenger,
		logger:    logger,
	}
}

// OnPlayerMouseButton processes one mouse event against the world's combat
// state.
//
// Postcondition: evt is cancelled iff combat is active and either it is not
// the player's turn, or the event was consumed as a movement action.
func (h *CombatEventHandler) OnPlayerMouseButton(evt *host.MouseButtonEvent, world host.World) {
	state := h.turns.State(world.ID())
	if !state.Active() {
		return
	}

	if !state.IsPlayerTurn(evt.PlayerID) {
		evt.Cancel()
		h.messenger.Send(evt.PlayerID, fmt.Sprintf("[Skirmish] Not your turn! Waiting for: %s", state.CurrentActorName()))
		return
	}

	if state.Phase() != combat.PhaseMovement {
		return
	}
	// Presses pass through; only the release commits an action.
	if evt.State != host.MouseReleased || evt.TargetBlock == nil {
		return
	}

	switch evt.Button {
	case host.MouseLeft:
		evt.Cancel()
		h.movement.OnBlockClicked(evt.PlayerID, *evt.TargetBlock, world)
	case host.MouseRight:
		evt.Cancel()
		h.movement.ConfirmMovement(evt.PlayerID, world)
	default:
		h.logger.Debug("unhandled mouse button",
			zap.String("player", evt.PlayerID.String()),
			zap.Int("button", int(evt.Button)))
	}
}
