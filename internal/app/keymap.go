package app

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Keymap maps normalized key names ("ctrl+r", "q") to command names.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[string]string
}

// Pseudo-commands handled by the watcher itself rather than the registry.
const (
	// QuitCommand leaves the watcher.
	QuitCommand = "quit"

	// FocusCommand toggles forwarding of keystrokes to the terminal.
	FocusCommand = "terminal.focus"
)

// IsPseudoCommand reports whether name is handled by the host itself.
func IsPseudoCommand(name string) bool {
	return name == QuitCommand || name == FocusCommand
}

// DefaultKeymap returns the watcher's default bindings.
func DefaultKeymap() *Keymap {
	k := &Keymap{bindings: make(map[string]string)}
	k.bindings["ctrl+r"] = CommandRun
	k.bindings["ctrl+n"] = CommandInit
	k.bindings["ctrl+l"] = CommandRefresh
	k.bindings["ctrl+t"] = FocusCommand
	k.bindings["ctrl+q"] = QuitCommand
	k.bindings["q"] = QuitCommand
	return k
}

// NormalizeKey lower-cases a key and orders its modifiers as
// ctrl, alt, shift so that "Alt+Ctrl+R" and "ctrl+alt+r" are equal.
func NormalizeKey(key string) (string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	base := parts[len(parts)-1]
	var ctrl, alt, shift bool
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl", "control":
			ctrl = true
		case "alt", "meta":
			alt = true
		case "shift":
			shift = true
		default:
			return "", fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKey, mod, key)
		}
	}

	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl+")
	}
	if alt {
		b.WriteString("alt+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return b.String(), nil
}

// Bind maps key to command.
func (k *Keymap) Bind(key, command string) error {
	norm, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	if command == "" {
		return fmt.Errorf("%w: empty command for %q", ErrInvalidKey, key)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[norm] = command
	return nil
}

// Lookup returns the command bound to key.
func (k *Keymap) Lookup(key string) (string, bool) {
	norm, err := NormalizeKey(key)
	if err != nil {
		return "", false
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	cmd, ok := k.bindings[norm]
	return cmd, ok
}

// KeysFor returns the keys bound to command, sorted.
func (k *Keymap) KeysFor(command string) []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var keys []string
	for key, cmd := range k.bindings {
		if cmd == command {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
