package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/service"
)

var (
	ErrConfigNotFound = service.ErrPresetNotFound
	ErrInvalidConfig  = service.ErrInvalidPreset
)

// Supported preset file extensions, in lookup order
var presetExtensions = []string{".json", ".toml"}

// Manager handles scoring preset loading and caching
type Manager struct {
	configDir     string
	defaultPreset *engine.Preset
	presets       map[string]*engine.Preset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		presets:   make(map[string]*engine.Preset),
	}

	m.loadDefaultPreset()
	return m, nil
}

// Dir returns the directory presets are read from
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadPreset loads a preset by ID (file name without extension)
func (m *Manager) LoadPreset(name string) (*engine.Preset, error) {
	name = presetID(name)

	m.mu.RLock()
	// Check cache first
	if preset, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if preset, exists := m.presets[name]; exists {
		return preset, nil
	}

	path, err := m.findPresetFile(name)
	if err != nil {
		return nil, err
	}

	preset, err := ReadPresetFile(path)
	if err != nil {
		return nil, err
	}

	m.presets[name] = preset
	return preset, nil
}

// ListPresets returns information about all available presets
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var presets []*service.PresetInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !IsPresetFile(entry.Name()) {
			continue
		}

		id := presetID(entry.Name())
		if seen[id] {
			continue
		}

		preset, err := m.LoadPreset(id)
		if err != nil {
			// Skip invalid presets
			continue
		}
		seen[id] = true

		presets = append(presets, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    id,
			Name:        preset.Name,
			Description: preset.Description,
			Parameters:  preset.Parameters,
		})
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].PresetID < presets[j].PresetID
	})

	return presets, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by ID
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// RefreshCache drops all cached presets and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.presets = make(map[string]*engine.Preset)
	m.mu.Unlock()

	m.loadDefaultPreset()
}

// SavePreset writes a preset to disk as JSON, or as TOML when a TOML file
// already holds that ID
func (m *Manager) SavePreset(name string, preset *engine.Preset) error {
	if err := engine.ValidatePreset(preset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id := presetID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: invalid preset id %q", ErrInvalidConfig, name)
	}

	path := filepath.Join(m.configDir, id+".json")
	if existing, err := m.findPresetFile(id); err == nil {
		path = existing
	}

	var data []byte
	var err error
	if filepath.Ext(path) == ".toml" {
		data, err = toml.Marshal(preset)
	} else {
		data, err = json.MarshalIndent(preset, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[id] = preset
	m.mu.Unlock()

	return nil
}

// ReadPresetFile parses and validates a single preset file
func ReadPresetFile(path string) (*engine.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset engine.Preset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &preset)
	default:
		err = json.Unmarshal(data, &preset)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	if err := engine.ValidatePreset(&preset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &preset, nil
}

// IsPresetFile reports whether a file name has a preset extension
func IsPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range presetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// findPresetFile locates the file holding a preset ID
func (m *Manager) findPresetFile(id string) (string, error) {
	for _, ext := range presetExtensions {
		path := filepath.Join(m.configDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// loadDefaultPreset picks the default preset
func (m *Manager) loadDefaultPreset() {
	preset, err := m.LoadPreset(engine.DefaultPresetName)
	if err != nil {
		// Fall back to the first available preset
		presets, listErr := m.ListPresets()
		if listErr == nil && len(presets) > 0 {
			preset, err = m.LoadPreset(presets[0].PresetID)
		}
	}
	if err != nil || preset == nil {
		preset = engine.NewDefaultPreset()
	}

	m.mu.Lock()
	m.defaultPreset = preset
	m.mu.Unlock()
}

// presetID strips a preset file extension from name
func presetID(name string) string {
	for _, ext := range presetExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
