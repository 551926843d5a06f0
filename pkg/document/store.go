package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StoredFile describes one persisted upload.
type StoredFile struct {
	Path        string
	Filename    string
	ByteSize    int64
	ContentHash string
}

// Store persists raw uploads under a single directory, one file per
// (session, sanitized filename) pair.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the upload to disk and returns its handle, byte size and
// sha256 content hash. The content hash is the idempotency key for
// re-ingestion detection.
func (s *Store) Save(sessionId, filename string, data []byte) (*StoredFile, error) {
	clean := SanitizeFilename(filename)
	if clean == "" {
		return nil, fmt.Errorf("filename %q is empty after sanitization", filename)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s", sessionId, clean))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	sum := sha256.Sum256(data)

	return &StoredFile{
		Path:        path,
		Filename:    clean,
		ByteSize:    int64(len(data)),
		ContentHash: hex.EncodeToString(sum[:]),
	}, nil
}

// Remove deletes a stored upload. Missing files are not an error; the worker
// removes files after terminal ingestion states and may race a cleanup.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveSession deletes every stored upload belonging to a session.
func (s *Store) RemoveSession(sessionId string) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, sessionId+"_*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := s.Remove(m); err != nil {
			return err
		}
	}
	return nil
}

// SanitizeFilename strips directory components and control characters so the
// stored name cannot escape the upload dir.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 32 || r == 127:
			// drop control chars
		case r == '/' || r == '\\' || r == ':':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "." {
		return ""
	}
	return out
}
