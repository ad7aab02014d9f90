// Package tinkering implements the Laravel tinkering playground: a scratch
// directory of PHP snippets that can be executed against the open project
// with "php artisan tinker" in a reusable terminal session.
//
// The package talks to its host editor only through the small port
// interfaces in host.go, so the same core drives the command line host,
// the full-screen watcher and the tests.
//
// # Components
//
//   - Visibility: decides whether the "Run Playground" affordance is shown
//     for the active document and publishes it as a UI context flag.
//   - Initializer: creates .tinkering/playground.php and opens it.
//   - Runner: validates preconditions, writes the instrumented temporary
//     script and submits the platform-specific command line to a terminal.
//   - Cleaner: owns the delayed, cancellable removal of temporary scripts.
package tinkering
