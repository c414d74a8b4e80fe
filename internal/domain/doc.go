// Package domain defines the data models and contracts shared across the
// module: peer addressing, the five store interfaces a double-ratchet
// protocol core persists through, and the pluggable crypto provider.
// It contains plain types and interfaces only; backends live in
// internal/store and the reference provider in internal/crypto.
package domain
