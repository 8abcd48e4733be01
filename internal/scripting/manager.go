package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/game/dice"
)

// globalWorldID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no world VM is found.
const globalWorldID = "__global__"

// ParticipantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type ParticipantInfo struct {
	UID   string
	Name  string
	HP    float64
	MaxHP float64
}

// Manager owns one sandboxed LState per world and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all LoadWorld calls complete.
// Each world's LState is single-threaded; the read lock serializes concurrent
// calls to the same world while allowing different worlds to run concurrently.
type Manager struct {
	mu      sync.RWMutex
	states  map[string]*lua.LState
	cancels map[string]func()
	src     dice.Source
	logger  *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetParticipant func(uid string) *ParticipantInfo
	Broadcast      func(msg string)
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty world map.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]func()),
		src:     src,
		logger:  logger,
	}
}

// LoadWorld creates a sandboxed VM for worldID, registers all engine.*
// modules, then executes every *.lua file in scriptDir in lexicographic
// order.
//
// Precondition: worldID must be non-empty; scriptDir must be a readable directory.
// Postcondition: World VM is registered; returns error on Lua load failure.
func (m *Manager) LoadWorld(worldID, scriptDir string, instLimit int) error {
	return m.loadInto(worldID, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM for shared scripts accessible as a
// CallHook fallback from any world.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalWorldID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		if oldCancel := m.cancels[key]; oldCancel != nil {
			oldCancel()
		}
		old.Close()
	}
	m.states[key] = L
	m.cancels[key] = cancel
	m.mu.Unlock()
	return nil
}

// CallHook calls the named Lua global function in worldID's VM. If the world
// has no VM, the __global__ VM is tried as a fallback. Returns (LNil, nil) if
// the hook is not defined or no VM exists. Lua runtime errors are logged at
// Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(worldID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	L, ok := m.states[worldID]
	if !ok {
		L = m.states[globalWorldID]
	}
	m.mu.RUnlock()

	if L == nil {
		m.logger.Info("scripting: no VM for world",
			zap.String("world", worldID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("world", worldID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
