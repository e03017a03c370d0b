package tryplugin

import "github.com/tryerr/tryerr/trymw"

// GetMergedConfig merges the Config capability of every enabled plugin.
// Plugins are visited in map order, so which plugin's value wins on a key
// collision is not defined.
func (m *Manager) GetMergedConfig() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	merged := make(map[string]any)
	for _, e := range m.entries {
		if !e.enabled {
			continue
		}
		for k, v := range e.plugin.Capabilities.Config {
			merged[k] = v
		}
	}
	return merged
}

// GetAllMiddleware collects the Middleware capability of every enabled
// plugin. Plugins are visited in map order, so the order of the result is
// not defined and can differ between calls.
func (m *Manager) GetAllMiddleware() []trymw.Middleware {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []trymw.Middleware
	for _, e := range m.entries {
		if !e.enabled {
			continue
		}
		all = append(all, e.plugin.Capabilities.Middleware...)
	}
	return all
}

// GetAllErrorTypes collects the ErrorTypes capability of every enabled
// plugin.
func (m *Manager) GetAllErrorTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []string
	for _, e := range m.entries {
		if !e.enabled {
			continue
		}
		all = append(all, e.plugin.Capabilities.ErrorTypes...)
	}
	return all
}

// GetAllUtilities merges the Utilities capability of every enabled plugin.
// Plugins are visited in map order, so which plugin's value wins on a key
// collision is not defined.
func (m *Manager) GetAllUtilities() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	merged := make(map[string]any)
	for _, e := range m.entries {
		if !e.enabled {
			continue
		}
		for k, v := range e.plugin.Capabilities.Utilities {
			merged[k] = v
		}
	}
	return merged
}

// NotifyConfigChange invokes every enabled plugin's OnConfigChange hook
// with the new configuration.
func (m *Manager) NotifyConfigChange(cfg map[string]any) {
	m.mu.RLock()
	hooks := make([]func(map[string]any), 0, len(m.entries))
	for _, e := range m.entries {
		if e.enabled && e.plugin.OnConfigChange != nil {
			hooks = append(hooks, e.plugin.OnConfigChange)
		}
	}
	m.mu.RUnlock()

	for _, hook := range hooks {
		hook(cfg)
	}
}
