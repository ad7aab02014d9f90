// Package terminal runs interactive shells behind a pseudo-terminal and
// keeps them addressable by name, so a host can reuse one session for
// every run instead of spawning a new shell each time.
//
// # Usage
//
//	manager := terminal.NewManager(terminal.ManagerConfig{
//	    EventBus: publisher,
//	    WorkDir:  projectRoot,
//	    OnOutput: func(t *terminal.Terminal, data []byte) { os.Stdout.Write(data) },
//	})
//	defer manager.Shutdown(2 * time.Second)
//
//	term, err := manager.Acquire("Laravel Tinker")
//	if err != nil {
//	    return err
//	}
//	term.Show()
//	term.SendText(`php artisan tinker < ".tinkering/__tmp_run.php"`)
//
// Linux and macOS use a real PTY. Other platforms (Windows) drive the
// shell through pipes, which is enough for line-oriented input.
//
// # Thread Safety
//
// Manager and Terminal are safe for concurrent use.
package terminal
