package storage

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	// PublicPrefix is the URL root under which the output directory is served.
	PublicPrefix = "/outputs"

	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12

	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Storage writes generated audio to a local directory. Files are never
// expired or removed.
type Storage struct {
	dir string
	log logrus.FieldLogger
}

// New creates the output directory if it is missing.
func New(dir string, log logrus.FieldLogger) (*Storage, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Storage{
		dir: dir,
		log: log.WithField("component", "storage"),
	}, nil
}

// Dir returns the output directory on disk.
func (s *Storage) Dir() string {
	return s.dir
}

// SaveAudio persists an MP3 payload as voice_<id>.mp3 and returns its
// public URL.
func (s *Storage) SaveAudio(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("save cancelled: %w", err)
	}

	filename := fmt.Sprintf("voice_%s.mp3", RandomID())
	localPath := filepath.Join(s.dir, filename)

	if err := os.WriteFile(localPath, data, filePermissions); err != nil {
		// Clean up a partially written file
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write audio file %s: %w", localPath, err)
	}

	s.log.WithFields(logrus.Fields{
		"file":  filename,
		"bytes": len(data),
	}).Info("audio saved")

	return GetPublicURL(filename), nil
}

// GetPublicURL returns the URL a saved file is reachable at.
func GetPublicURL(filename string) string {
	return path.Join(PublicPrefix, filename)
}

// RandomID returns 12 random lowercase alphanumeric characters. Not
// cryptographically secure.
func RandomID() string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
