package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the global and require name of the host module.
const ModuleName = "tinkering"

// Host is what init scripts can reach through the tinkering module.
type Host interface {
	// Bind maps a key such as "ctrl+r" to a command name.
	Bind(key, command string) error

	// Notify shows message to the user.
	Notify(message string)

	// Execute runs a named command.
	Execute(command string) error
}

// Register installs the tinkering module on s.
func Register(s *State, host Host, version string) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"map": func(L *lua.LState) int {
			key := L.CheckString(1)
			command := L.CheckString(2)
			if err := host.Bind(key, command); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"notify": func(L *lua.LState) int {
			host.Notify(L.CheckString(1))
			return 0
		},
		"execute": func(L *lua.LState) int {
			if err := host.Execute(L.CheckString(1)); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
	}, map[string]lua.LValue{
		"version": lua.LString(version),
	})
}
