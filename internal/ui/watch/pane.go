package watch

import (
	"regexp"
	"strings"
	"sync"
)

// DefaultScrollback is the number of lines a Pane keeps.
const DefaultScrollback = 1000

// ansiPattern matches CSI, OSC and two-byte escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b(?:\[[0-?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[@-Z\\-_])`)

// Pane accumulates terminal output as plain text lines.
type Pane struct {
	mu      sync.Mutex
	lines   []string
	current []rune
	col     int
	max     int
	partial string
}

// NewPane creates a pane keeping at most scrollback lines.
func NewPane(scrollback int) *Pane {
	if scrollback <= 0 {
		scrollback = DefaultScrollback
	}
	return &Pane{max: scrollback}
}

// Write appends raw PTY output. Escape sequences are dropped; carriage
// return rewinds the current line and backspace moves left.
func (p *Pane) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := p.partial + string(data)
	p.partial = ""
	// Hold back an escape sequence cut off at the end of the chunk.
	if i := strings.LastIndexByte(text, 0x1b); i >= 0 && !ansiPattern.MatchString(text[i:]) && len(text)-i < 32 {
		p.partial = text[i:]
		text = text[:i]
	}
	text = ansiPattern.ReplaceAllString(text, "")

	for _, r := range text {
		switch r {
		case '\n':
			p.newline()
		case '\r':
			p.col = 0
		case '\b':
			if p.col > 0 {
				p.col--
			}
		case '\t':
			for n := 8 - p.col%8; n > 0; n-- {
				p.put(' ')
			}
		case 0x07, 0x1b:
		default:
			if r < 0x20 {
				continue
			}
			p.put(r)
		}
	}
	return len(data), nil
}

func (p *Pane) put(r rune) {
	if p.col < len(p.current) {
		p.current[p.col] = r
	} else {
		p.current = append(p.current, r)
	}
	p.col++
}

func (p *Pane) newline() {
	p.lines = append(p.lines, string(p.current))
	if len(p.lines) > p.max {
		p.lines = p.lines[len(p.lines)-p.max:]
	}
	p.current = p.current[:0]
	p.col = 0
}

// Tail returns the last n lines, including the unterminated current line.
func (p *Pane) Tail(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := append(append([]string(nil), p.lines...), string(p.current))
	if n <= 0 {
		return nil
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// Reset discards all output.
func (p *Pane) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = nil
	p.current = p.current[:0]
	p.col = 0
	p.partial = ""
}
