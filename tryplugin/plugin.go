// Package tryplugin provides a dependency-aware plugin manager, grounded on
// the named-registry-with-RWMutex discipline shown by
// gxo-labs/gxo's pkg/gxo/v1/plugin.Registry (Register/Get/List over a
// concurrency-safe map) and quay/claircore's internal/plugin pooling
// package, generalized here from "construct a typed object by name" to
// "install/enable/disable a capability-bearing plugin with dependencies".
package tryplugin

import (
	"sync"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
	"github.com/tryerr/tryerr/trymw"
)

// Capabilities a plugin may optionally contribute.
type Capabilities struct {
	Config      map[string]any
	Middleware  []trymw.Middleware
	ErrorTypes  []string
	Utilities   map[string]any
	Transformers []func(tryerr.TryError) tryerr.TryError
}

// Plugin describes an installable unit with metadata, optional lifecycle
// hooks, and optional capabilities.
type Plugin struct {
	Name         string
	Version      string
	Dependencies []string

	OnInstall      func() error
	OnUninstall    func() error
	OnEnable       func() error
	OnDisable      func() error
	OnConfigChange func(map[string]any)

	Capabilities Capabilities
}

type entry struct {
	plugin   Plugin
	enabled  bool
	installedBy map[string]struct{} // names of installed plugins depending on this one
}

// Manager tracks installed/enabled plugins and enforces the dependency
// rules from spec.md §4.6: install requires deps installed; enable cascades
// transitively; disable is blocked while dependents are enabled; uninstall
// is blocked while dependents are installed and auto-disables first.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewManager constructs an empty plugin manager.
func NewManager() *Manager {
	return &Manager{entries: make(map[string]*entry)}
}

// Install registers p. Every name in p.Dependencies must already be
// installed, or Install fails with a "dependency-missing" error.
func (m *Manager) Install(p Plugin) tryerr.TryError {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[p.Name]; exists {
		return alreadyInstalledErr(p.Name)
	}
	for _, dep := range p.Dependencies {
		if _, ok := m.entries[dep]; !ok {
			return dependencyMissingErr(p.Name, dep)
		}
	}
	if p.OnInstall != nil {
		if err := p.OnInstall(); err != nil {
			return installHookErr(p.Name, err)
		}
	}
	m.entries[p.Name] = &entry{plugin: p, installedBy: make(map[string]struct{})}
	for _, dep := range p.Dependencies {
		m.entries[dep].installedBy[p.Name] = struct{}{}
	}
	return nil
}

// Uninstall removes name. It is rejected while any other installed plugin
// depends on it; otherwise it is auto-disabled (if enabled) before removal.
func (m *Manager) Uninstall(name string) tryerr.TryError {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok {
		return notInstalledErr(name)
	}
	if len(e.installedBy) > 0 {
		return dependentsInstalledErr(name, e.installedBy)
	}
	if e.enabled {
		if err := m.disableLocked(name); err != nil {
			return err
		}
	}
	if e.plugin.OnUninstall != nil {
		if err := e.plugin.OnUninstall(); err != nil {
			return uninstallHookErr(name, err)
		}
	}
	for _, dep := range e.plugin.Dependencies {
		if depEntry, ok := m.entries[dep]; ok {
			delete(depEntry.installedBy, name)
		}
	}
	delete(m.entries, name)
	return nil
}

// Enable enables name and, transitively, every dependency not yet enabled.
func (m *Manager) Enable(name string) tryerr.TryError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enableLocked(name)
}

func (m *Manager) enableLocked(name string) tryerr.TryError {
	e, ok := m.entries[name]
	if !ok {
		return notInstalledErr(name)
	}
	if e.enabled {
		return nil
	}
	for _, dep := range e.plugin.Dependencies {
		if err := m.enableLocked(dep); err != nil {
			return err
		}
	}
	if e.plugin.OnEnable != nil {
		if err := e.plugin.OnEnable(); err != nil {
			return enableHookErr(name, err)
		}
	}
	e.enabled = true
	return nil
}

// Disable disables name. It is rejected while any installed, enabled
// plugin still depends on name.
func (m *Manager) Disable(name string) tryerr.TryError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disableLocked(name)
}

func (m *Manager) disableLocked(name string) tryerr.TryError {
	e, ok := m.entries[name]
	if !ok {
		return notInstalledErr(name)
	}
	if !e.enabled {
		return nil
	}
	for dependent := range e.installedBy {
		if depEntry, ok := m.entries[dependent]; ok && depEntry.enabled {
			return dependentsEnabledErr(name, dependent)
		}
	}
	if e.plugin.OnDisable != nil {
		if err := e.plugin.OnDisable(); err != nil {
			return disableHookErr(name, err)
		}
	}
	e.enabled = false
	return nil
}

// IsInstalled reports whether name is currently installed.
func (m *Manager) IsInstalled(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[name]
	return ok
}

// IsEnabled reports whether name is currently enabled.
func (m *Manager) IsEnabled(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	return ok && e.enabled
}

func alreadyInstalledErr(name string) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "PluginAlreadyInstalled",
		Message: "plugin '" + name + "' is already installed",
		Code:    tryerr.CodeConflict,
	})
}

func dependencyMissingErr(name, dep string) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "dependency-missing",
		Message: "plugin '" + name + "' requires '" + dep + "' to be installed first",
		Code:    tryerr.CodeInvalid,
		Context: []tryerr.KV{{Key: "plugin", Val: name}, {Key: "dependency", Val: dep}},
	})
}

func notInstalledErr(name string) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "PluginNotInstalled",
		Message: "plugin '" + name + "' is not installed",
		Code:    tryerr.CodeNotFound,
	})
}

func dependentsInstalledErr(name string, by map[string]struct{}) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "dependents-installed",
		Message: "cannot uninstall '" + name + "': other installed plugins depend on it",
		Code:    tryerr.CodeConflict,
		Context: []tryerr.KV{{Key: "plugin", Val: name}, {Key: "dependents", Val: keysOf(by)}},
	})
}

func dependentsEnabledErr(name, dependent string) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "dependents-enabled",
		Message: "cannot disable '" + name + "': '" + dependent + "' is enabled and depends on it",
		Code:    tryerr.CodeConflict,
		Context: []tryerr.KV{{Key: "plugin", Val: name}, {Key: "dependent", Val: dependent}},
	})
}

func installHookErr(name string, cause error) tryerr.TryError {
	return tryfactory.WrapError(tryerr.CodeInternal, cause, "plugin '"+name+"' OnInstall hook failed")
}

func uninstallHookErr(name string, cause error) tryerr.TryError {
	return tryfactory.WrapError(tryerr.CodeInternal, cause, "plugin '"+name+"' OnUninstall hook failed")
}

func enableHookErr(name string, cause error) tryerr.TryError {
	return tryfactory.WrapError(tryerr.CodeInternal, cause, "plugin '"+name+"' OnEnable hook failed")
}

func disableHookErr(name string, cause error) tryerr.TryError {
	return tryfactory.WrapError(tryerr.CodeInternal, cause, "plugin '"+name+"' OnDisable hook failed")
}

func keysOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
