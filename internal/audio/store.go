// Package audio stores synthesized speech files in temporary storage so the
// telephony platform can fetch them by URL right after the webhook responds.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes mp3 files under a single directory and resolves them back by
// filename.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at the OS temp dir.
func NewStore() *Store {
	return &Store{dir: os.TempDir()}
}

// NewStoreAt creates a Store rooted at dir.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the audio bytes under a timestamped filename and returns the
// filename for use in a playback URL.
func (s *Store) Save(data []byte) (string, error) {
	filename := fmt.Sprintf("tts_%d.mp3", time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return filename, nil
}

// Path resolves a previously saved filename to its full path. Names carrying
// path separators or not present in the store are rejected.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid audio filename: %q", filename)
	}
	full := filepath.Join(s.dir, filename)
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}
	return full, nil
}
