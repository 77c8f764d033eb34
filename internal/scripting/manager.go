package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// profileVM is one loaded profile: its LState and per-call opcode budget.
type profileVM struct {
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per hook profile and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same profile are
// serialized because an LState is single-threaded.
type Manager struct {
	mu     sync.Mutex
	vms    map[string]*profileVM
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no profiles loaded.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*profileVM),
		logger: logger,
	}
}

// LoadProfile creates a sandboxed VM for profile, registers the arcbot.*
// module, then executes every *.lua file in scriptDir in lexicographic order.
// Loading a profile again replaces its VM.
//
// Precondition: profile must be non-empty; scriptDir must be a readable directory.
// Postcondition: Profile VM is registered; returns error on Lua load failure.
func (m *Manager) LoadProfile(profile, scriptDir string, instLimit int) error {
	if profile == "" {
		return fmt.Errorf("scripting: profile name must not be empty")
	}
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L, profile)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, profile, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		cancel := resetBudget(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, profile, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[profile]; ok {
		old.L.Close()
	}
	m.vms[profile] = &profileVM{L: L, limit: instLimit}
	m.mu.Unlock()

	m.logger.Info("scripting profile loaded",
		zap.String("profile", profile),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Profiles returns the names of the loaded profiles in sorted order.
func (m *Manager) Profiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.vms))
	for name := range m.vms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallHook calls the named Lua global function in profile's VM with a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or the
// profile is not loaded. Lua runtime errors, including an exhausted budget,
// are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(profile, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vm, ok := m.vms[profile]
	if !ok {
		m.logger.Info("scripting: no VM for profile",
			zap.String("profile", profile),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := vm.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := resetBudget(vm.L, vm.limit)
	defer cancel()
	if err := vm.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("profile", profile),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := vm.L.Get(-1)
	vm.L.Pop(1)
	return ret, nil
}

// Close releases every profile VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, vm := range m.vms {
		vm.L.Close()
		delete(m.vms, name)
	}
}
