package store

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"ratchetstore/internal/domain"
)

// SQLiteStore implements all five store categories on a SQLite database.
// Rows are keyed on the full tuples ((name, device_id) for sessions,
// (group_id, name, device_id) for sender keys), so no name hashing is
// involved. Safe for concurrent use via database/sql pooling; calls block
// on disk, which the contract permits.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and applies the
// schema. dsn example: "file:ratchetstore.db?_foreign_keys=1".
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set synchronous: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate creates the record tables. Idempotent.
func (s *SQLiteStore) migrate() error {
	const sqlStmt = `
CREATE TABLE IF NOT EXISTS sessions (
  name      TEXT    NOT NULL,
  device_id INTEGER NOT NULL,
  record    BLOB    NOT NULL,
  PRIMARY KEY (name, device_id)
);

CREATE TABLE IF NOT EXISTS prekeys (
  id     INTEGER PRIMARY KEY,
  record BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS signed_prekeys (
  id     INTEGER PRIMARY KEY,
  record BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS identities (
  name TEXT PRIMARY KEY,
  key  BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS sender_keys (
  group_id  TEXT    NOT NULL,
  name      TEXT    NOT NULL,
  device_id INTEGER NOT NULL,
  record    BLOB    NOT NULL,
  PRIMARY KEY (group_id, name, device_id)
);

CREATE TABLE IF NOT EXISTS local_identity (
  id              INTEGER PRIMARY KEY CHECK (id = 1),
  public          BLOB    NOT NULL,
  private         BLOB    NOT NULL,
  registration_id INTEGER NOT NULL
);
`
	if _, err := s.db.Exec(sqlStmt); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ---------- Local identity ----------

// InitializeIdentity writes the local identity state. It fails if the
// store already holds one; the local identity is immutable once created.
func (s *SQLiteStore) InitializeIdentity(pair domain.IdentityKeyPair, registrationID uint32) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM local_identity`).Scan(&n); err != nil {
		return fmt.Errorf("init identity: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("local identity: already initialized")
	}
	_, err := s.db.Exec(
		`INSERT INTO local_identity (id, public, private, registration_id) VALUES (1, ?, ?, ?)`,
		pair.Public, pair.Private, registrationID,
	)
	if err != nil {
		return fmt.Errorf("init identity: %w", err)
	}
	return nil
}

// IdentityKeyPair returns a copy of the local identity keys.
func (s *SQLiteStore) IdentityKeyPair() (domain.IdentityKeyPair, error) {
	var pair domain.IdentityKeyPair
	err := s.db.QueryRow(`SELECT public, private FROM local_identity WHERE id = 1`).
		Scan(&pair.Public, &pair.Private)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.IdentityKeyPair{}, domain.ErrNoIdentity
	}
	if err != nil {
		return domain.IdentityKeyPair{}, fmt.Errorf("load identity: %w", err)
	}
	return pair, nil
}

// LocalRegistrationID returns the locally-assigned registration id.
func (s *SQLiteStore) LocalRegistrationID() (uint32, error) {
	var id uint32
	err := s.db.QueryRow(`SELECT registration_id FROM local_identity WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNoIdentity
	}
	if err != nil {
		return 0, fmt.Errorf("load registration id: %w", err)
	}
	return id, nil
}

// ---------- Remote identities ----------

// SaveIdentity records key as the trusted identity for name.
func (s *SQLiteStore) SaveIdentity(name string, key []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO identities (name, key) VALUES (?, ?)`, name, key)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// IsTrustedIdentity applies trust-on-first-use over the saved identities.
func (s *SQLiteStore) IsTrustedIdentity(name string, key []byte) (bool, error) {
	var saved []byte
	err := s.db.QueryRow(`SELECT key FROM identities WHERE name = ?`, name).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check identity: %w", err)
	}
	return bytes.Equal(saved, key), nil
}

// ---------- Sessions ----------

// LoadSession returns a copy of the record for addr, if any.
func (s *SQLiteStore) LoadSession(addr domain.Address) ([]byte, bool, error) {
	var record []byte
	err := s.db.QueryRow(
		`SELECT record FROM sessions WHERE name = ? AND device_id = ?`,
		addr.Name, addr.DeviceID,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	return record, true, nil
}

// SubDeviceSessions returns every device id stored under name.
func (s *SQLiteStore) SubDeviceSessions(name string) ([]uint32, error) {
	rows, err := s.db.Query(`SELECT device_id FROM sessions WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var devices []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		devices = append(devices, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return devices, nil
}

// StoreSession creates or replaces the record for addr.
func (s *SQLiteStore) StoreSession(addr domain.Address, record []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sessions (name, device_id, record) VALUES (?, ?, ?)`,
		addr.Name, addr.DeviceID, record,
	)
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// ContainsSession reports whether a record exists for addr.
func (s *SQLiteStore) ContainsSession(addr domain.Address) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE name = ? AND device_id = ?`,
		addr.Name, addr.DeviceID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

// DeleteSession removes the record for addr, reporting whether one existed.
func (s *SQLiteStore) DeleteSession(addr domain.Address) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM sessions WHERE name = ? AND device_id = ?`,
		addr.Name, addr.DeviceID,
	)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

// DeleteAllSessions removes every record stored under name.
func (s *SQLiteStore) DeleteAllSessions(name string) (int, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return int(n), nil
}

// ---------- Pre-keys ----------

func (s *SQLiteStore) loadKeyRow(table string, id uint32, kind string) ([]byte, error) {
	var record []byte
	err := s.db.QueryRow(`SELECT record FROM `+table+` WHERE id = ?`, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrInvalidKeyID)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return record, nil
}

func (s *SQLiteStore) storeKeyRow(table string, id uint32, record []byte, kind string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO `+table+` (id, record) VALUES (?, ?)`, id, record)
	if err != nil {
		return fmt.Errorf("store %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) containsKeyRow(table string, id uint32, kind string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check %s: %w", kind, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) removeKeyRow(table string, id uint32, kind string) error {
	if _, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	return nil
}

// LoadPreKey returns the pre-key record for id, failing with
// domain.ErrInvalidKeyID when absent.
func (s *SQLiteStore) LoadPreKey(id uint32) ([]byte, error) {
	return s.loadKeyRow("prekeys", id, "pre-key")
}

// StorePreKey creates or replaces the pre-key record for id.
func (s *SQLiteStore) StorePreKey(id uint32, record []byte) error {
	return s.storeKeyRow("prekeys", id, record, "pre-key")
}

// ContainsPreKey reports whether a pre-key record exists for id.
func (s *SQLiteStore) ContainsPreKey(id uint32) (bool, error) {
	return s.containsKeyRow("prekeys", id, "pre-key")
}

// RemovePreKey removes the pre-key record for id; absent ids are a no-op.
func (s *SQLiteStore) RemovePreKey(id uint32) error {
	return s.removeKeyRow("prekeys", id, "pre-key")
}

// LoadSignedPreKey returns the signed pre-key record for id, failing with
// domain.ErrInvalidKeyID when absent.
func (s *SQLiteStore) LoadSignedPreKey(id uint32) ([]byte, error) {
	return s.loadKeyRow("signed_prekeys", id, "signed pre-key")
}

// StoreSignedPreKey creates or replaces the signed pre-key record for id.
func (s *SQLiteStore) StoreSignedPreKey(id uint32, record []byte) error {
	return s.storeKeyRow("signed_prekeys", id, record, "signed pre-key")
}

// ContainsSignedPreKey reports whether a signed pre-key record exists for id.
func (s *SQLiteStore) ContainsSignedPreKey(id uint32) (bool, error) {
	return s.containsKeyRow("signed_prekeys", id, "signed pre-key")
}

// RemoveSignedPreKey removes the signed pre-key record for id; absent ids
// are a no-op.
func (s *SQLiteStore) RemoveSignedPreKey(id uint32) error {
	return s.removeKeyRow("signed_prekeys", id, "signed pre-key")
}

// ---------- Sender keys ----------

// StoreSenderKey creates or replaces the record for name.
func (s *SQLiteStore) StoreSenderKey(name domain.SenderKeyName, record []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sender_keys (group_id, name, device_id, record) VALUES (?, ?, ?, ?)`,
		name.GroupID, name.Sender.Name, name.Sender.DeviceID, record,
	)
	if err != nil {
		return fmt.Errorf("store sender key: %w", err)
	}
	return nil
}

// LoadSenderKey returns the record for name, if any.
func (s *SQLiteStore) LoadSenderKey(name domain.SenderKeyName) ([]byte, bool, error) {
	var record []byte
	err := s.db.QueryRow(
		`SELECT record FROM sender_keys WHERE group_id = ? AND name = ? AND device_id = ?`,
		name.GroupID, name.Sender.Name, name.Sender.DeviceID,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load sender key: %w", err)
	}
	return record, true, nil
}

// Compile-time assertions that SQLiteStore serves every store category.
var (
	_ domain.SessionStore      = (*SQLiteStore)(nil)
	_ domain.PreKeyStore       = (*SQLiteStore)(nil)
	_ domain.SignedPreKeyStore = (*SQLiteStore)(nil)
	_ domain.IdentityStore     = (*SQLiteStore)(nil)
	_ domain.SenderKeyStore    = (*SQLiteStore)(nil)
	_ IdentityInitializer      = (*SQLiteStore)(nil)
)
