// Package lua runs user init scripts in a sandboxed gopher-lua state.
//
// Only the base, table, string and math libraries are opened; dofile,
// loadfile and load are removed and require only resolves preloaded
// modules. Each DoFile/DoString call runs under an execution timeout
// enforced through the state's context.
//
// # The tinkering module
//
// Register installs a global "tinkering" table (also available through
// require("tinkering")) that forwards to a Host:
//
//	tinkering.map("ctrl+t", "tinkering.run")  -- bind a key to a command
//	tinkering.notify("loaded my init.lua")    -- show a message
//	tinkering.execute("tinkering.refresh")    -- run a command now
//
// Errors from the host are raised as Lua errors so scripts can pcall them.
package lua
