package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	recordVersion = 1

	filePerms = 0o600 // Read/write for owner only
	dirPerms  = 0o700 // Read/write/execute for owner only
)

// Record is the persisted unit: one file per key per chain namespace. The
// key's name is the file name, never part of the content, so Rename stays
// a pure filesystem rename. The secret blob is the only place private key
// material appears, and only encrypted.
type Record struct {
	Version        int              `json:"version"`
	Chain          Chain            `json:"chain"`
	PublicKey      []byte           `json:"public_key"`
	Address        string           `json:"address"`
	DerivationPath string           `json:"derivation_path,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	Secret         *EncryptedSecret `json:"secret"`
}

// Entry is what List surfaces per key: identity only, never secrets.
type Entry struct {
	Name    string `json:"name"`
	Chain   Chain  `json:"chain"`
	Address string `json:"address"`
}

// Store is the durable per-key-file directory under the keystore root.
// Creation goes through temp-file-plus-rename and rename/delete are single
// atomic filesystem operations, so an interrupted mutation leaves the
// directory in its pre-operation state.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore opens the keystore root at dir. The directory must already
// exist; the engine never creates it. Group- or world-accessible
// permissions are tightened to owner-only.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("keystore directory is empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: stat keystore directory: %v", ErrStorage, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: keystore path %s is not a directory", ErrStorage, dir)
	}

	logger := log.With().Str("module", "keystore").Logger()
	if perm := info.Mode().Perm(); perm != dirPerms {
		logger.Warn().
			Str("path", dir).
			Str("current_perms", perm.String()).
			Msg("Keystore directory permissions are not owner-only (should be 700)")
		if err := os.Chmod(dir, dirPerms); err != nil {
			return nil, fmt.Errorf("%w: set secure permissions on keystore directory: %v", ErrStorage, err)
		}
	}

	return &Store{dir: dir, log: logger}, nil
}

// Dir reports the keystore root path.
func (s *Store) Dir() string {
	return s.dir
}

// ValidateName enforces the record naming rules: non-empty printable
// ASCII with no path separators or traversal sequences.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidKeyName)
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q contains path characters", ErrInvalidKeyName, name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidKeyName, name)
	}
	for _, r := range name {
		if r < 0x20 || r > 0x7e {
			return fmt.Errorf("%w: %q contains non-printable or non-ASCII characters", ErrInvalidKeyName, name)
		}
	}
	return nil
}

func (s *Store) path(name string, chain Chain) string {
	return filepath.Join(s.dir, name+chain.ext())
}

// Add writes a brand new record. The payload lands in a dot-prefixed temp
// file first; only the final atomic rename makes it visible under the key
// name, so a crash mid-write cannot leave a half-written record.
func (s *Store) Add(name string, chain Chain, rec *Record) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	final := s.path(name, chain)
	if _, err := os.Stat(final); err == nil {
		return fmt.Errorf("%w: %s key %q", ErrNameExists, chain, name)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat record %q: %v", ErrStorage, name, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode record %q: %v", ErrStorage, name, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStorage, err)
	}
	tmpName := tmp.Name()
	fail := func(op string, opErr error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrStorage, op, opErr)
	}

	if err := tmp.Chmod(filePerms); err != nil {
		return fail("set record file permissions", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail("write record", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync record", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close record: %v", ErrStorage, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: commit record %q: %v", ErrStorage, name, err)
	}
	return nil
}

// Get reads and parses one record.
func (s *Store) Get(name string, chain Chain) (*Record, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name, chain))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s key %q", ErrKeyNotFound, chain, name)
		}
		return nil, fmt.Errorf("%w: read record %q: %v", ErrStorage, name, err)
	}

	rec, err := decodeRecord(data, chain)
	if err != nil {
		return nil, fmt.Errorf("%w: %s key %q: %v", ErrCorruptRecord, chain, name, err)
	}
	return rec, nil
}

func decodeRecord(data []byte, chain Chain) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("unsupported record version %d", rec.Version)
	}
	if rec.Chain != chain {
		return nil, fmt.Errorf("record chain %q does not match namespace %q", rec.Chain, chain)
	}
	if rec.Secret == nil || len(rec.PublicKey) == 0 || rec.Address == "" {
		return nil, fmt.Errorf("record is missing required fields")
	}
	return &rec, nil
}

// List enumerates the chain's namespace, name and address only. A single
// unreadable file is logged and skipped; it never hides the rest of the
// keystore. Dot-prefixed files (in-flight temp writes) are invisible.
func (s *Store) List(chain Chain) ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read keystore directory: %v", ErrStorage, err)
	}

	ext := chain.ext()
	out := make([]Entry, 0, len(entries))
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		fname := de.Name()
		if strings.HasPrefix(fname, ".") || !strings.HasSuffix(fname, ext) {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		rec, err := s.Get(name, chain)
		if err != nil {
			s.log.Warn().
				Str("file", fname).
				Str("chain", string(chain)).
				Err(err).
				Msg("Skipping unreadable key record")
			continue
		}
		out = append(out, Entry{Name: name, Chain: chain, Address: rec.Address})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Rename relabels a record with one atomic filesystem rename: it either
// fully succeeds or leaves the original name intact, never both names and
// never neither.
func (s *Store) Rename(oldName, newName string, chain Chain) error {
	if err := ValidateName(oldName); err != nil {
		return err
	}
	if err := ValidateName(newName); err != nil {
		return err
	}

	oldPath := s.path(oldName, chain)
	if _, err := os.Stat(oldPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s key %q", ErrKeyNotFound, chain, oldName)
		}
		return fmt.Errorf("%w: stat record %q: %v", ErrStorage, oldName, err)
	}

	newPath := s.path(newName, chain)
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("%w: %s key %q", ErrNameExists, chain, newName)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat record %q: %v", ErrStorage, newName, err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: rename %q to %q: %v", ErrStorage, oldName, newName, err)
	}
	return nil
}

// Delete removes a record with one atomic unlink. Deletion is
// irreversible; there is no trash state.
func (s *Store) Delete(name string, chain Chain) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name, chain)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s key %q", ErrKeyNotFound, chain, name)
		}
		return fmt.Errorf("%w: delete record %q: %v", ErrStorage, name, err)
	}
	return nil
}
