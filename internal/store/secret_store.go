package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"plebai/internal/domain"
)

const (
	plainSecretsFile  = "secrets.json"
	sealedSecretsFile = "secrets.json.enc"
)

// SecretFileStore persists named secret slots under dir.
type SecretFileStore struct {
	dir        string
	passphrase string
	kdf        scryptParams
	mu         sync.Mutex
}

// NewSecretFileStore returns a store rooted at dir. A non-empty passphrase
// seals the slot file at rest.
func NewSecretFileStore(dir, passphrase string) *SecretFileStore {
	return &SecretFileStore{dir: dir, passphrase: passphrase, kdf: defaultScrypt}
}

// Path returns the file the store reads and writes.
func (s *SecretFileStore) Path() string {
	if s.passphrase != "" {
		return filepath.Join(s.dir, sealedSecretsFile)
	}
	return filepath.Join(s.dir, plainSecretsFile)
}

// LoadSecret reads the slot from disk.
func (s *SecretFileStore) LoadSecret(slot string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := slots[slot]
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// SaveSecret writes value into slot, replacing any previous value.
func (s *SecretFileStore) SaveSecret(slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return err
	}
	slots[slot] = value
	return s.save(slots)
}

// DeleteSecret empties slot. Deleting a missing slot is not an error.
func (s *SecretFileStore) DeleteSecret(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := slots[slot]; !ok {
		return nil
	}
	delete(slots, slot)
	return s.save(slots)
}

func (s *SecretFileStore) load() (map[string]string, error) {
	slots := make(map[string]string)
	if s.passphrase == "" {
		if err := readJSON(s.Path(), &slots); err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Path(), err)
		}
		return slots, nil
	}

	b, err := readFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path(), err)
	}
	if b == nil {
		return slots, nil
	}
	raw, err := open(s.passphrase, b)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("decode secret slots: %w", err)
	}
	return slots, nil
}

func (s *SecretFileStore) save(slots map[string]string) error {
	if s.passphrase == "" {
		return writeJSON(s.Path(), slots, 0o600)
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	blob, err := seal(s.passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.Path(), blob, 0o600)
}

// Compile-time assertion that SecretFileStore implements domain.SecretStore.
var _ domain.SecretStore = (*SecretFileStore)(nil)
