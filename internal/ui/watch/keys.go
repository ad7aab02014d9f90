package watch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "backtab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyEscape:     "esc",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// KeyName renders ev in keymap notation ("ctrl+r", "alt+x", "q", "f5").
// It returns "" for keys that have no name.
func KeyName(ev *tcell.EventKey) string {
	mod := ev.Modifiers()
	var base string

	key := ev.Key()
	if name, ok := keyNames[key]; ok {
		base = name
	} else {
		switch {
		case key == tcell.KeyRune:
			base = strings.ToLower(string(ev.Rune()))
			if ev.Rune() == ' ' {
				base = "space"
			}
			// Shifted runes arrive already shifted.
			mod &^= tcell.ModShift
		case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
			base = string(rune('a' + int(key-tcell.KeyCtrlA)))
			mod |= tcell.ModCtrl
		case key >= tcell.KeySOH && key <= tcell.KeySUB:
			// Raw control codes; tab, enter and backspace are named above.
			base = string(rune('a' + int(key-tcell.KeySOH)))
			mod |= tcell.ModCtrl
		default:
			return ""
		}
	}

	var b strings.Builder
	if mod&tcell.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if mod&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if mod&tcell.ModShift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return b.String()
}

var keySequences = map[tcell.Key]string{
	tcell.KeyEnter:      "\r",
	tcell.KeyTab:        "\t",
	tcell.KeyBackspace:  "\x7f",
	tcell.KeyBackspace2: "\x7f",
	tcell.KeyEscape:     "\x1b",
	tcell.KeyDelete:     "\x1b[3~",
	tcell.KeyHome:       "\x1b[H",
	tcell.KeyEnd:        "\x1b[F",
	tcell.KeyPgUp:       "\x1b[5~",
	tcell.KeyPgDn:       "\x1b[6~",
	tcell.KeyUp:         "\x1b[A",
	tcell.KeyDown:       "\x1b[B",
	tcell.KeyRight:      "\x1b[C",
	tcell.KeyLeft:       "\x1b[D",
}

// KeyBytes returns the bytes a terminal would send for ev, or nil.
func KeyBytes(ev *tcell.EventKey) []byte {
	key := ev.Key()
	if seq, ok := keySequences[key]; ok {
		return []byte(seq)
	}
	switch {
	case key == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0:
		if r := unicode.ToLower(ev.Rune()); r >= 'a' && r <= 'z' {
			return []byte{byte(r - 'a' + 1)}
		}
		return nil
	case key == tcell.KeyRune:
		buf := make([]byte, 0, utf8.UTFMax+1)
		if ev.Modifiers()&tcell.ModAlt != 0 {
			buf = append(buf, 0x1b)
		}
		return utf8.AppendRune(buf, ev.Rune())
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		// KeyCtrlA..KeyCtrlZ share their values with 'A'..'Z'.
		return []byte{byte(key-tcell.KeyCtrlA) + 1}
	case key >= tcell.KeySOH && key <= tcell.KeySUB:
		return []byte{byte(key)}
	}
	return nil
}
