// Package watch is the full-screen host of the tinkering playground.
//
// The screen is split into three regions:
//
//	┌──────────────────────────────────────────┐
//	│ ▶ Run Playground (ctrl+r)                │  header: the run lens
//	├──────────────────────────────────────────┤
//	│ terminal output                          │  pane: the tinker session
//	│ ...                                      │
//	├──────────────────────────────────────────┤
//	│ .tinkering/playground.php   message      │  status line
//	└──────────────────────────────────────────┘
//
// The active document follows the scratch directory on disk: whichever PHP
// file was written most recently becomes active. Keys are resolved through
// the application keymap; in terminal focus every key except the focus
// toggle is forwarded to the PTY.
package watch
