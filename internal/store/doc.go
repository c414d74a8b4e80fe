// Package store provides the store Context facade and three conforming
// backends for the domain store contracts.
//
// Backends:
//   - Memory*Store: the reference in-memory backend, one type per store
//     category, keyed directly on (name, device) tuples.
//   - FileStore: JSON files under a root directory, written atomically;
//     the local identity is encrypted at rest with a passphrase-derived
//     key (scrypt + ChaCha20-Poly1305).
//   - SQLiteStore: a SQLite database with composite primary keys
//     mirroring the tuple keying.
//
// All backends are safe for concurrent use and copy record bytes on both
// store and load, so callers never share memory with a backend.
package store
