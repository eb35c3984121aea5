// Package config provides scoring preset management for the Lost Cities scorekeeper.
//
// The config package handles:
//   - Loading scoring presets from JSON or TOML files
//   - Preset validation
//   - Default preset management
//   - Preset discovery and listing
//   - Reloading presets when the directory changes on disk
//
// Preset Format:
//
// Presets are stored in the configs directory as <id>.json or <id>.toml:
//
//	name = "standard"
//	description = "Standard Lost Cities scoring"
//
//	[parameters]
//	base_value = 20
//	bonus_threshold = 8
//	bonus_value = 20
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadPreset("standard")
//	presets, err := manager.ListPresets()
//
//	// Reload on change until ctx is cancelled
//	go manager.Watch(ctx)
//
// The default preset is "standard" when present, else the first valid preset
// found, else the built-in standard rules.
package config
