package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

var errNoEditor = errors.New("--open needs $VISUAL or $EDITOR")

// editorCommand returns the editor command line split into fields.
func editorCommand(getenv func(string) string) ([]string, error) {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(getenv(name)); len(fields) > 0 {
			return fields, nil
		}
	}
	return nil, errNoEditor
}

func openInEditor(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	fields, err := editorCommand(os.Getenv)
	if err != nil {
		return err
	}
	c := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr
	return c.Run()
}
