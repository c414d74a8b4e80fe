// Package commands defines the ratchetstore CLI and wires dependencies
// for subcommands.
//
// Commands
//
//   - init         Create the local identity and registration id
//   - fingerprint  Print (or render as QR) the identity fingerprint
//   - sessions     List or bulk-delete a peer's device sessions
//   - prekeys      Check whether a pre-key id is present
//   - trust        Save or check a peer's identity key
//
// # Implementation
//
// The root command builds the store context for the selected backend
// before any subcommand runs, so handlers share one assembled dependency
// graph.
package commands
