// Package hud renders the combat overlay's per-player heads-up display:
// whose turn it is, the initiative order, and the round counter.
package hud

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/duskhollow/skirmish/internal/game/combat"
	"github.com/duskhollow/skirmish/internal/host"
)

// hudDocument is the widget tree the host attaches before the first update.
const hudDocument = "Skirmish/CombatHud.ui"

const (
	colorActivePrompt  = "#4caf50"
	colorWaitingPrompt = "#888888"

	slotColorCurrentSelf = "#4caf50"
	slotColorCurrent     = "#ffeb3b"
	slotColorSelf        = "#2196f3"
	slotColorOther       = "#cccccc"
)

// CombatHud pushes combat state into each player's HUD. Rendering is a pure
// function of the state and the viewing player, so the HUD can be redrawn
// from scratch on every turn change.
type CombatHud struct {
	sink     host.UISink
	maxSlots int
}

// NewCombatHud creates a HUD writer with the given number of initiative
// slots in the widget document.
//
// Precondition: sink must not be nil; maxSlots must be positive.
func NewCombatHud(sink host.UISink, maxSlots int) *CombatHud {
	return &CombatHud{sink: sink, maxSlots: maxSlots}
}

// Show renders the full HUD for viewerID from the given state and pushes it
// through the sink. No-op when combat is inactive.
func (h *CombatHud) Show(viewerID uuid.UUID, state *combat.CombatState) {
	if !state.Active() {
		return
	}
	b := host.NewUICommandBuilder()
	b.Append(hudDocument)
	h.Render(viewerID, state, b)
	h.sink.Update(viewerID, false, b)
}

// ShowAll renders the HUD for every player in the world.
func (h *CombatHud) ShowAll(world host.World, state *combat.CombatState) {
	for _, playerID := range world.Players() {
		h.Show(playerID, state)
	}
}

// Hide issues a clear update that removes the HUD for viewerID.
func (h *CombatHud) Hide(viewerID uuid.UUID) {
	h.sink.Update(viewerID, true, nil)
}

// HideAll removes the HUD for every player in the world.
func (h *CombatHud) HideAll(world host.World) {
	for _, playerID := range world.Players() {
		h.Hide(playerID)
	}
}

// Render emits the widget commands for viewerID into b without pushing them.
//
// Postcondition: Every slot key up to the configured maximum receives either
// content or Visible=false.
func (h *CombatHud) Render(viewerID uuid.UUID, state *combat.CombatState, b *host.UICommandBuilder) {
	currentID, _ := state.CurrentActor()
	currentName := state.CurrentActorName()

	b.Set("#currentTurnName.Text", currentName)
	if currentID == viewerID {
		b.Set("#turnPrompt.Text", "Your turn!")
		b.Set("#turnPrompt.Style.TextColor", colorActivePrompt)
	} else {
		b.Set("#turnPrompt.Text", fmt.Sprintf("Waiting for %s...", currentName))
		b.Set("#turnPrompt.Style.TextColor", colorWaitingPrompt)
	}

	order := state.InitiativeOrder()
	for slot := 0; slot < h.maxSlots; slot++ {
		key := fmt.Sprintf("#initSlot%d", slot)
		if slot >= len(order) {
			b.SetBool(key+".Visible", false)
			continue
		}
		id := order[slot]
		current := id == currentID

		b.SetBool(key+".Visible", true)
		b.Set(key+".Text", fmt.Sprintf("%d. %s (%d)", slot+1, state.Name(id), state.Roll(id)))
		b.Set(key+".Style.TextColor", slotColor(current, id == viewerID))
		b.SetBool(key+".Style.RenderBold", current)
	}

	b.Set("#roundLabel.Text", fmt.Sprintf("Round %d", state.Round()))
}

func slotColor(current, self bool) string {
	switch {
	case current && self:
		return slotColorCurrentSelf
	case current:
		return slotColorCurrent
	case self:
		return slotColorSelf
	default:
		return slotColorOther
	}
}
