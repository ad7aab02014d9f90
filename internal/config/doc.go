// Package config provides layered configuration for tinkering.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Environment Variables   │  ← TINKERING_*
//	├─────────────────────────────┤
//	│  3. Project                 │  ← <root>/.tinkering.toml or .tinkering.yaml
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/tinkering/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Settings
//
//	tinkering.artisanPath   string    artisan location, relative to the project root
//	tinkering.cleanupDelay  duration  delay before the temporary run file is removed
//	terminal.shell          string    shell started for the tinker terminal
//	logging.level           string    debug, info, warn or error
//
// Durations accept Go duration strings ("10s") or integer milliseconds.
//
// # Live Reload
//
// When the watcher is enabled the user and project files are watched with
// fsnotify. A change reloads every file and environment layer (flags are
// kept) and notifies observers registered with Subscribe.
package config
