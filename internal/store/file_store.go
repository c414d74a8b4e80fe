package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"ratchetstore/internal/domain"
)

const (
	localIdentityFile = "identity.json.enc"
	sessionsFile      = "sessions.json"
	preKeysFile       = "prekeys.json"
	signedPreKeysFile = "signed_prekeys.json"
	identitiesFile    = "identities.json"
	senderKeysFile    = "sender_keys.json"
)

// IdentityInitializer is implemented by persistent backends whose local
// identity state is created exactly once; subsequent calls fail.
type IdentityInitializer interface {
	InitializeIdentity(pair domain.IdentityKeyPair, registrationID uint32) error
}

// FileStore implements all five store categories on JSON files under a
// root directory. The local identity is encrypted at rest with a
// passphrase-derived key; every other record family is stored as opaque
// base64 blobs. Writes are atomic (temp file then rename). Safe for
// concurrent use.
type FileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The passphrase protects
// the local identity file.
func NewFileStore(dir, passphrase string) *FileStore {
	return &FileStore{dir: dir, passphrase: passphrase}
}

// localIdentity is the plaintext layout inside the encrypted identity file.
type localIdentity struct {
	Public         []byte `json:"public"`
	Private        []byte `json:"private"`
	RegistrationID uint32 `json:"registration_id"`
}

// ---------- Local identity ----------

// InitializeIdentity writes the local identity state. It fails if the
// store already holds one; the local identity is immutable once created.
func (s *FileStore) InitializeIdentity(pair domain.IdentityKeyPair, registrationID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, localIdentityFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("local identity: already initialized")
	}

	raw, err := json.Marshal(localIdentity{
		Public:         pair.Public,
		Private:        pair.Private,
		RegistrationID: registrationID,
	})
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(path, ct, 0o600)
}

func (s *FileStore) loadLocalIdentity() (localIdentity, error) {
	b, err := readFile(filepath.Join(s.dir, localIdentityFile))
	if err != nil {
		return localIdentity{}, err
	}
	if b == nil {
		return localIdentity{}, domain.ErrNoIdentity
	}
	pt, err := decrypt(s.passphrase, b)
	if err != nil {
		return localIdentity{}, err
	}
	var id localIdentity
	if err := json.Unmarshal(pt, &id); err != nil {
		return localIdentity{}, err
	}
	return id, nil
}

// IdentityKeyPair returns a copy of the local identity keys.
func (s *FileStore) IdentityKeyPair() (domain.IdentityKeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.loadLocalIdentity()
	if err != nil {
		return domain.IdentityKeyPair{}, err
	}
	return domain.IdentityKeyPair{Public: id.Public, Private: id.Private}, nil
}

// LocalRegistrationID returns the locally-assigned registration id.
func (s *FileStore) LocalRegistrationID() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.loadLocalIdentity()
	if err != nil {
		return 0, err
	}
	return id.RegistrationID, nil
}

// ---------- Remote identities ----------

// SaveIdentity records key as the trusted identity for name.
func (s *FileStore) SaveIdentity(name string, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, identitiesFile)
	m := map[string][]byte{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[name] = bytes.Clone(key)
	return writeJSON(path, m, 0o600)
}

// IsTrustedIdentity applies trust-on-first-use over the saved identities.
func (s *FileStore) IsTrustedIdentity(name string, key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string][]byte{}
	if err := readJSON(filepath.Join(s.dir, identitiesFile), &m); err != nil {
		return false, err
	}
	saved, ok := m[name]
	if !ok {
		return true, nil
	}
	return bytes.Equal(saved, key), nil
}

// ---------- Sessions ----------

// addrKey encodes an address as a JSON map key. The device id comes
// first so the name may contain any byte, including the separator.
func addrKey(addr domain.Address) string {
	return fmt.Sprintf("%d:%s", addr.DeviceID, addr.Name)
}

func parseAddrKey(k string) (domain.Address, error) {
	device, name, ok := strings.Cut(k, ":")
	if !ok {
		return domain.Address{}, fmt.Errorf("malformed session key %q", k)
	}
	id, err := strconv.ParseUint(device, 10, 32)
	if err != nil {
		return domain.Address{}, fmt.Errorf("malformed session key %q: %w", k, err)
	}
	return domain.Address{Name: name, DeviceID: uint32(id)}, nil
}

func (s *FileStore) readSessions() (map[string][]byte, error) {
	m := map[string][]byte{}
	if err := readJSON(filepath.Join(s.dir, sessionsFile), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadSession returns a copy of the record for addr, if any.
func (s *FileStore) LoadSession(addr domain.Address) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSessions()
	if err != nil {
		return nil, false, err
	}
	record, ok := m[addrKey(addr)]
	if !ok {
		return nil, false, nil
	}
	return record, true, nil
}

// SubDeviceSessions returns every device id stored under name.
func (s *FileStore) SubDeviceSessions(name string) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSessions()
	if err != nil {
		return nil, err
	}
	var devices []uint32
	for k := range m {
		addr, err := parseAddrKey(k)
		if err != nil {
			return nil, err
		}
		if addr.Name == name {
			devices = append(devices, addr.DeviceID)
		}
	}
	return devices, nil
}

// StoreSession creates or replaces the record for addr.
func (s *FileStore) StoreSession(addr domain.Address, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSessions()
	if err != nil {
		return err
	}
	m[addrKey(addr)] = bytes.Clone(record)
	return writeJSON(filepath.Join(s.dir, sessionsFile), m, 0o600)
}

// ContainsSession reports whether a record exists for addr.
func (s *FileStore) ContainsSession(addr domain.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSessions()
	if err != nil {
		return false, err
	}
	_, ok := m[addrKey(addr)]
	return ok, nil
}

// DeleteSession removes the record for addr, reporting whether one existed.
func (s *FileStore) DeleteSession(addr domain.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSessions()
	if err != nil {
		return false, err
	}
	k := addrKey(addr)
	_, ok := m[k]
	if !ok {
		return false, nil
	}
	delete(m, k)
	return true, writeJSON(filepath.Join(s.dir, sessionsFile), m, 0o600)
}

// DeleteAllSessions removes every record stored under name.
func (s *FileStore) DeleteAllSessions(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSessions()
	if err != nil {
		return 0, err
	}
	removed := 0
	for k := range m {
		addr, err := parseAddrKey(k)
		if err != nil {
			return 0, err
		}
		if addr.Name == name {
			delete(m, k)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, writeJSON(filepath.Join(s.dir, sessionsFile), m, 0o600)
}

// ---------- Pre-keys ----------

func (s *FileStore) loadKeyRecord(file string, id uint32, kind string) ([]byte, error) {
	m := map[uint32][]byte{}
	if err := readJSON(filepath.Join(s.dir, file), &m); err != nil {
		return nil, err
	}
	record, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrInvalidKeyID)
	}
	return record, nil
}

func (s *FileStore) storeKeyRecord(file string, id uint32, record []byte) error {
	path := filepath.Join(s.dir, file)
	m := map[uint32][]byte{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[id] = bytes.Clone(record)
	return writeJSON(path, m, 0o600)
}

func (s *FileStore) containsKeyRecord(file string, id uint32) (bool, error) {
	m := map[uint32][]byte{}
	if err := readJSON(filepath.Join(s.dir, file), &m); err != nil {
		return false, err
	}
	_, ok := m[id]
	return ok, nil
}

func (s *FileStore) removeKeyRecord(file string, id uint32) error {
	path := filepath.Join(s.dir, file)
	m := map[uint32][]byte{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return writeJSON(path, m, 0o600)
}

// LoadPreKey returns a copy of the pre-key record for id, failing with
// domain.ErrInvalidKeyID when absent.
func (s *FileStore) LoadPreKey(id uint32) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadKeyRecord(preKeysFile, id, "pre-key")
}

// StorePreKey creates or replaces the pre-key record for id.
func (s *FileStore) StorePreKey(id uint32, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeKeyRecord(preKeysFile, id, record)
}

// ContainsPreKey reports whether a pre-key record exists for id.
func (s *FileStore) ContainsPreKey(id uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsKeyRecord(preKeysFile, id)
}

// RemovePreKey removes the pre-key record for id; absent ids are a no-op.
func (s *FileStore) RemovePreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeKeyRecord(preKeysFile, id)
}

// LoadSignedPreKey returns a copy of the signed pre-key record for id,
// failing with domain.ErrInvalidKeyID when absent.
func (s *FileStore) LoadSignedPreKey(id uint32) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadKeyRecord(signedPreKeysFile, id, "signed pre-key")
}

// StoreSignedPreKey creates or replaces the signed pre-key record for id.
func (s *FileStore) StoreSignedPreKey(id uint32, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeKeyRecord(signedPreKeysFile, id, record)
}

// ContainsSignedPreKey reports whether a signed pre-key record exists for id.
func (s *FileStore) ContainsSignedPreKey(id uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsKeyRecord(signedPreKeysFile, id)
}

// RemoveSignedPreKey removes the signed pre-key record for id; absent ids
// are a no-op.
func (s *FileStore) RemoveSignedPreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeKeyRecord(signedPreKeysFile, id)
}

// ---------- Sender keys ----------

// senderKeyKey hex-encodes the variable-length fields so the 3-tuple maps
// to a unique JSON key.
func senderKeyKey(name domain.SenderKeyName) string {
	return fmt.Sprintf("%x:%x:%d", name.GroupID, name.Sender.Name, name.Sender.DeviceID)
}

// StoreSenderKey creates or replaces the record for name.
func (s *FileStore) StoreSenderKey(name domain.SenderKeyName, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, senderKeysFile)
	m := map[string][]byte{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[senderKeyKey(name)] = bytes.Clone(record)
	return writeJSON(path, m, 0o600)
}

// LoadSenderKey returns a copy of the record for name, if any.
func (s *FileStore) LoadSenderKey(name domain.SenderKeyName) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string][]byte{}
	if err := readJSON(filepath.Join(s.dir, senderKeysFile), &m); err != nil {
		return nil, false, err
	}
	record, ok := m[senderKeyKey(name)]
	if !ok {
		return nil, false, nil
	}
	return record, true, nil
}

// Compile-time assertions that FileStore serves every store category.
var (
	_ domain.SessionStore      = (*FileStore)(nil)
	_ domain.PreKeyStore       = (*FileStore)(nil)
	_ domain.SignedPreKeyStore = (*FileStore)(nil)
	_ domain.IdentityStore     = (*FileStore)(nil)
	_ domain.SenderKeyStore    = (*FileStore)(nil)
	_ IdentityInitializer      = (*FileStore)(nil)
)
