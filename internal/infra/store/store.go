// Package store implements the durable key/value store the app core keeps
// its auth token and profile image URL in. Values survive restarts, and the
// file is sealed with an AEAD so a stolen device dump does not leak the
// bearer token in plaintext.
package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const saltSize = 16

// File is a file-backed key/value store encrypted with XChaCha20-Poly1305.
// The key is derived from a passphrase with scrypt; the salt lives in the
// file header so the same passphrase reopens the store on the next run.
type File struct {
	mu   sync.Mutex
	path string
	salt []byte
	aead cipher.AEAD
	data map[string]string
}

// Open loads (or creates) the store at path, deriving the sealing key from
// passphrase. A missing file yields an empty store; a wrong passphrase
// surfaces as a decryption error.
func Open(path, passphrase string) (*File, error) {
	s := &File{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.salt = make([]byte, saltSize)
		if _, err := rand.Read(s.salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		if err := s.initAEAD(passphrase); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store: %w", err)
	}

	if len(raw) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, errors.New("store file truncated")
	}
	s.salt = raw[:saltSize]
	if err := s.initAEAD(passphrase); err != nil {
		return nil, err
	}

	nonce := raw[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	plain, err := s.aead.Open(nil, nonce, raw[saltSize+chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, fmt.Errorf("unseal store: %w", err)
	}
	if err := json.Unmarshal(plain, &s.data); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	return s, nil
}

// Get retrieves a value. Returns false when the key was never stored.
func (s *File) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	return v, ok
}

// Set stores a value and persists the file.
func (s *File) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Delete removes a key and persists the file.
func (s *File) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return s.save()
}

func (s *File) initAEAD(passphrase string) error {
	key, err := scrypt.Key([]byte(passphrase), s.salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	s.aead = aead
	return nil
}

// save seals the map and writes it atomically (temp file + rename) so a
// crash mid-write never corrupts the previous state.
func (s *File) save() error {
	plain, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plain)+s.aead.Overhead())
	out = append(out, s.salt...)
	out = append(out, nonce...)
	out = s.aead.Seal(out, nonce, plain, nil)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return os.Rename(tmp, s.path)
}
