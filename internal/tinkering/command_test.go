package tinkering

import "testing"

func TestDetectShell(t *testing.T) {
	tests := []struct {
		goos  string
		shell string
		want  ShellVariant
	}{
		{"linux", "/bin/bash", ShellPosix},
		{"darwin", "/bin/zsh", ShellPosix},
		{"linux", "/usr/bin/pwsh", ShellPosix},
		{"windows", `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`, ShellPowerShell},
		{"windows", `C:\Program Files\PowerShell\7\PWSH.EXE`, ShellPowerShell},
		{"windows", `C:\Windows\System32\cmd.exe`, ShellCmd},
		{"windows", "", ShellCmd},
	}

	for _, tt := range tests {
		if got := DetectShell(tt.goos, tt.shell); got != tt.want {
			t.Errorf("DetectShell(%q, %q) = %v, want %v", tt.goos, tt.shell, got, tt.want)
		}
	}
}

func TestCommandLine(t *testing.T) {
	artisan := "/srv/app/artisan"
	script := "/srv/app/.tinkering/__tmp_run.php"

	tests := []struct {
		variant ShellVariant
		want    string
	}{
		{ShellPosix, `php "/srv/app/artisan" tinker < "/srv/app/.tinkering/__tmp_run.php"`},
		{ShellPowerShell, `php "/srv/app/artisan" tinker < "/srv/app/.tinkering/__tmp_run.php"`},
		{ShellCmd, `type "/srv/app/.tinkering/__tmp_run.php" | php "/srv/app/artisan" tinker`},
	}

	for _, tt := range tests {
		if got := CommandLine(tt.variant, artisan, script); got != tt.want {
			t.Errorf("CommandLine(%v) = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestShellVariantString(t *testing.T) {
	if ShellPosix.String() != "posix" || ShellPowerShell.String() != "powershell" || ShellCmd.String() != "cmd" {
		t.Error("unexpected variant names")
	}
	if ShellVariant(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range variant")
	}
}
