package host

import (
	"sync"

	"github.com/google/uuid"
)

// ParticleSpawn records one ParticleEmitter.Spawn call made against a
// MemoryWorld.
type ParticleSpawn struct {
	Effect  string
	Pos     Vec3
	Scale   float32
	Color   Color
	Viewers []uuid.UUID
}

// UIUpdate records one UISink.Update call made against a MemoryWorld.
type UIUpdate struct {
	PlayerID uuid.UUID
	Clear    bool
	Commands []UICommand
}

type memoryEntity struct {
	snapshot EntitySnapshot
	gen      uint32
	player   bool
}

// MemoryWorld is an in-memory host implementation. The dev server uses it to
// simulate a world without an engine attached, and package tests use it to
// observe particle, chat, and UI traffic.
//
// All methods are safe for concurrent use.
type MemoryWorld struct {
	id string

	mu       sync.RWMutex
	entities map[uuid.UUID]*memoryEntity
	players  map[uuid.UUID]EntityRef

	spawns    []ParticleSpawn
	messages  map[uuid.UUID][]string
	uiUpdates []UIUpdate
}

// NewMemoryWorld creates an empty world with the given ID.
//
// Precondition: id must be non-empty.
func NewMemoryWorld(id string) *MemoryWorld {
	return &MemoryWorld{
		id:       id,
		entities: make(map[uuid.UUID]*memoryEntity),
		players:  make(map[uuid.UUID]EntityRef),
		messages: make(map[uuid.UUID][]string),
	}
}

// ID returns the world identifier.
func (w *MemoryWorld) ID() string { return w.id }

// AddPlayer registers a player entity and returns its ID and ref.
//
// Postcondition: The player appears in Players() and resolves as alive.
func (w *MemoryWorld) AddPlayer(name string, pos Vec3, maxHP float64) (uuid.UUID, EntityRef) {
	ref := w.add(name, pos, maxHP, false, true)
	w.mu.Lock()
	w.players[ref.ID] = ref
	w.mu.Unlock()
	return ref.ID, ref
}

// AddNPC registers a non-player actor and returns its ref.
//
// Postcondition: The entity resolves with NPC == true.
func (w *MemoryWorld) AddNPC(name string, pos Vec3, maxHP float64) EntityRef {
	return w.add(name, pos, maxHP, true, false)
}

func (w *MemoryWorld) add(name string, pos Vec3, maxHP float64, npc, player bool) EntityRef {
	ref := EntityRef{ID: uuid.New(), Gen: 1}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities[ref.ID] = &memoryEntity{
		gen:    ref.Gen,
		player: player,
		snapshot: EntitySnapshot{
			Ref:       ref,
			Name:      name,
			Position:  pos,
			CurrentHP: maxHP,
			MaxHP:     maxHP,
			Alive:     true,
			NPC:       npc,
		},
	}
	return ref
}

// SetHP updates an entity's current HP; zero or below marks it not alive.
func (w *MemoryWorld) SetHP(ref EntityRef, hp float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[ref.ID]
	if !ok || e.gen != ref.Gen {
		return
	}
	e.snapshot.CurrentHP = hp
	e.snapshot.Alive = hp > 0
}

// Invalidate bumps the entity's generation so existing refs go stale.
//
// Postcondition: Resolve on any previously-issued ref returns false.
func (w *MemoryWorld) Invalidate(ref EntityRef) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entities[ref.ID]; ok {
		e.gen++
	}
}

// Remove deletes the entity entirely.
func (w *MemoryWorld) Remove(ref EntityRef) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entities, ref.ID)
	delete(w.players, ref.ID)
}

// Resolve returns a fresh snapshot for ref, or false for stale refs.
func (w *MemoryWorld) Resolve(ref EntityRef) (EntitySnapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[ref.ID]
	if !ok || e.gen != ref.Gen {
		return EntitySnapshot{}, false
	}
	return e.snapshot, true
}

// Players returns the IDs of all registered players.
func (w *MemoryWorld) Players() []uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	return ids
}

// PlayerRef returns the entity ref for a player.
func (w *MemoryWorld) PlayerRef(playerID uuid.UUID) (EntityRef, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ref, ok := w.players[playerID]
	return ref, ok
}

// Teleport moves the entity to pos. Returns false for stale refs.
func (w *MemoryWorld) Teleport(ref EntityRef, pos Vec3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[ref.ID]
	if !ok || e.gen != ref.Gen {
		return false
	}
	e.snapshot.Position = pos
	return true
}

// Spawn records the particle call. MemoryWorld implements ParticleEmitter.
func (w *MemoryWorld) Spawn(effect string, pos Vec3, rotation Vec3, scale float32, color Color, viewers []uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	vs := make([]uuid.UUID, len(viewers))
	copy(vs, viewers)
	w.spawns = append(w.spawns, ParticleSpawn{
		Effect:  effect,
		Pos:     pos,
		Scale:   scale,
		Color:   color,
		Viewers: vs,
	})
}

// Spawns returns a copy of all recorded particle calls.
func (w *MemoryWorld) Spawns() []ParticleSpawn {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cp := make([]ParticleSpawn, len(w.spawns))
	copy(cp, w.spawns)
	return cp
}

// ResetSpawns discards recorded particle calls.
func (w *MemoryWorld) ResetSpawns() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.spawns = nil
}

// Send records the chat line. MemoryWorld implements Messenger.
func (w *MemoryWorld) Send(playerID uuid.UUID, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages[playerID] = append(w.messages[playerID], text)
}

// Messages returns all chat lines sent to playerID, in order.
func (w *MemoryWorld) Messages(playerID uuid.UUID) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cp := make([]string, len(w.messages[playerID]))
	copy(cp, w.messages[playerID])
	return cp
}

// Update records the HUD update. MemoryWorld implements UISink.
func (w *MemoryWorld) Update(playerID uuid.UUID, clear bool, b *UICommandBuilder) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var cmds []UICommand
	if b != nil {
		cmds = b.Commands()
	}
	w.uiUpdates = append(w.uiUpdates, UIUpdate{PlayerID: playerID, Clear: clear, Commands: cmds})
}

// UIUpdates returns a copy of all recorded HUD updates.
func (w *MemoryWorld) UIUpdates() []UIUpdate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cp := make([]UIUpdate, len(w.uiUpdates))
	copy(cp, w.uiUpdates)
	return cp
}
