package tinkering

import (
	"fmt"
	"strings"
)

// ShellVariant selects how the temporary script is fed to tinker.
type ShellVariant int

const (
	// ShellPosix covers every non-Windows shell: stdin redirection.
	ShellPosix ShellVariant = iota

	// ShellPowerShell is a PowerShell-family shell on Windows. It is sent
	// the same redirect form as ShellPosix.
	ShellPowerShell

	// ShellCmd is cmd.exe (or anything else) on Windows: type | tinker.
	ShellCmd
)

// String returns the variant name.
func (v ShellVariant) String() string {
	switch v {
	case ShellPosix:
		return "posix"
	case ShellPowerShell:
		return "powershell"
	case ShellCmd:
		return "cmd"
	default:
		return "unknown"
	}
}

// DetectShell picks the variant for goos and the shell identifier.
// PowerShell is detected by a case-insensitive substring match.
func DetectShell(goos, shell string) ShellVariant {
	if goos != "windows" {
		return ShellPosix
	}
	s := strings.ToLower(shell)
	if strings.Contains(s, "powershell") || strings.Contains(s, "pwsh") {
		return ShellPowerShell
	}
	return ShellCmd
}

// CommandLine builds the line submitted to the terminal.
func CommandLine(v ShellVariant, artisan, script string) string {
	switch v {
	case ShellCmd:
		return fmt.Sprintf(`type "%s" | php "%s" tinker`, script, artisan)
	default:
		return fmt.Sprintf(`php "%s" tinker < "%s"`, artisan, script)
	}
}
