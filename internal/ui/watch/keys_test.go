package watch

import (
	"bytes"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want string
	}{
		{tcell.KeyCtrlR, 0, tcell.ModCtrl, "ctrl+r"},
		{tcell.KeyCtrlQ, 0, tcell.ModNone, "ctrl+q"},
		{tcell.KeyRune, 'l', tcell.ModCtrl, "ctrl+l"},
		{tcell.KeyRune, '\x14', tcell.ModNone, "ctrl+t"},
		{tcell.KeyRune, 'q', tcell.ModNone, "q"},
		{tcell.KeyRune, 'Q', tcell.ModShift, "q"},
		{tcell.KeyRune, 'x', tcell.ModAlt, "alt+x"},
		{tcell.KeyRune, ' ', tcell.ModNone, "space"},
		{tcell.KeyF5, 0, tcell.ModShift, "shift+f5"},
		{tcell.KeyEnter, 0, tcell.ModNone, "enter"},
		{tcell.KeyEscape, 0, tcell.ModNone, "esc"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ev := tcell.NewEventKey(tt.key, tt.r, tt.mod)
			if got := KeyName(ev); got != tt.want {
				t.Errorf("KeyName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want []byte
	}{
		{"rune", tcell.KeyRune, 'a', tcell.ModNone, []byte("a")},
		{"multibyte rune", tcell.KeyRune, 'é', tcell.ModNone, []byte("é")},
		{"alt rune", tcell.KeyRune, 'b', tcell.ModAlt, []byte("\x1bb")},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, []byte("\r")},
		{"ctrl+a", tcell.KeyCtrlA, 0, tcell.ModCtrl, []byte{0x01}},
		{"ctrl+c", tcell.KeyCtrlC, 0, tcell.ModCtrl, []byte{0x03}},
		{"ctrl+d", tcell.KeyCtrlD, 0, tcell.ModCtrl, []byte{0x04}},
		{"ctrl+z", tcell.KeyCtrlZ, 0, tcell.ModCtrl, []byte{0x1a}},
		{"ctrl rune", tcell.KeyRune, 'c', tcell.ModCtrl, []byte{0x03}},
		{"raw control code", tcell.KeyRune, '\x03', tcell.ModNone, []byte{0x03}},
		{"up", tcell.KeyUp, 0, tcell.ModNone, []byte("\x1b[A")},
		{"unmapped", tcell.KeyF1, 0, tcell.ModNone, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeyBytes(tcell.NewEventKey(tt.key, tt.r, tt.mod))
			if !bytes.Equal(got, tt.want) {
				t.Errorf("KeyBytes = %q, want %q", got, tt.want)
			}
		})
	}
}
