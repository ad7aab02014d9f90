package lua

import (
	"errors"
	"strings"
	"testing"
)

type fakeHost struct {
	bindings map[string]string
	notes    []string
	executed []string
	execErr  error
}

func newFakeHost() *fakeHost {
	return &fakeHost{bindings: map[string]string{}}
}

func (h *fakeHost) Bind(key, command string) error {
	if key == "" {
		return errors.New("empty key")
	}
	h.bindings[key] = command
	return nil
}

func (h *fakeHost) Notify(message string) { h.notes = append(h.notes, message) }

func (h *fakeHost) Execute(command string) error {
	h.executed = append(h.executed, command)
	return h.execErr
}

func TestModuleMapNotifyExecute(t *testing.T) {
	state := NewState()
	defer state.Close()
	host := newFakeHost()
	Register(state, host, "1.2.3")

	err := state.DoString(`
tinkering.map("ctrl+t", "tinkering.run")
tinkering.notify("hello " .. tinkering.version)
local t = require("tinkering")
t.execute("tinkering.refresh")
`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if host.bindings["ctrl+t"] != "tinkering.run" {
		t.Errorf("bindings = %v", host.bindings)
	}
	if len(host.notes) != 1 || host.notes[0] != "hello 1.2.3" {
		t.Errorf("notes = %v", host.notes)
	}
	if len(host.executed) != 1 || host.executed[0] != "tinkering.refresh" {
		t.Errorf("executed = %v", host.executed)
	}
}

func TestModuleHostErrorsRaise(t *testing.T) {
	state := NewState()
	defer state.Close()
	host := newFakeHost()
	host.execErr = errors.New("unknown command: nope")
	Register(state, host, "dev")

	err := state.DoString(`tinkering.execute("nope")`)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("error = %v, want host error raised", err)
	}

	err = state.DoString(`
ok = pcall(tinkering.map, "", "tinkering.run")
`)
	if err != nil {
		t.Fatal(err)
	}
	if state.GetGlobal("ok").String() != "false" {
		t.Error("pcall(map) with empty key should return false")
	}
}

func TestModuleArgumentChecks(t *testing.T) {
	state := NewState()
	defer state.Close()
	Register(state, newFakeHost(), "dev")

	if err := state.DoString(`tinkering.map("ctrl+t")`); err == nil {
		t.Error("map without command should fail")
	}
}
