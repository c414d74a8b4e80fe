package app

import "ratchetstore/internal/domain"

// Backend names accepted by Config.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds runtime wiring options for building the store context.
type Config struct {
	Backend    string          // memory, file or sqlite
	Home       string          // data directory for the persistent backends
	Passphrase string          // protects the file backend's identity at rest
	Provider   domain.Provider // optional; defaults to crypto.DefaultProvider
}
