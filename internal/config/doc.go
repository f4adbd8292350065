// Package config provides the configuration for quill.
//
// Settings come from three layers, later ones overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← QUILL_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.config/quill/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The file and environment layers are read by the loader sub-package into
// plain maps, merged, and decoded onto the defaults. The result is a typed
// Config that is validated before use.
//
// # Configuration Files
//
//	# ~/.config/quill/settings.toml
//	"@include" = "shared.toml"
//
//	[editor]
//	tabWidth = 4
//	softTabs = true
//	lineDelimiter = "lf"
//
//	[logging]
//	level = "debug"
//
//	[plugins]
//	dirs = ["~/.config/quill/plugins"]
//	timeout = "2s"
//
//	[grammars]
//	files = ["~/.config/quill/grammars.yaml"]
//
// # Environment
//
// QUILL_LOG_LEVEL, QUILL_TAB_WIDTH, QUILL_PLUGINS and QUILL_GRAMMARS are
// shorthands. Any other QUILL_SECTION_SETTING_NAME variable maps to
// section.settingName.
package config
