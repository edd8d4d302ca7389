package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// mimeExtensions maps accepted upload content types to on-disk extensions.
var mimeExtensions = map[string]string{
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/wav":    ".wav",
	"audio/wave":   ".wav",
	"audio/x-wav":  ".wav",
	"audio/mp4":    ".mp4",
	"audio/m4a":    ".m4a",
	"audio/x-m4a":  ".m4a",
	"audio/webm":   ".webm",
	"audio/aiff":   ".aiff",
	"audio/x-aiff": ".aiff",
	"audio/aac":    ".aac",
	"audio/ogg":    ".ogg",
}

// ExtensionForMIME returns the file extension for an accepted content type,
// or ".bin" for anything unknown.
func ExtensionForMIME(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return ".bin"
}

// AudioStore keeps uploaded audio files on disk, keyed by transcription record
// id, so past transcriptions can be played back.
type AudioStore struct {
	basePath string
}

func NewAudioStore(basePath string) (*AudioStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &AudioStore{basePath: basePath}, nil
}

// Save writes the payload under the record id. Any previous file for the same
// id is overwritten.
func (s *AudioStore) Save(recordID, mimeType string, data []byte) (string, error) {
	path, err := s.resolve(recordID, mimeType)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return path, nil
}

// Path returns the stored file path for a record, or an error if missing.
func (s *AudioStore) Path(recordID, mimeType string) (string, error) {
	path, err := s.resolve(recordID, mimeType)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes a record's audio file. Missing files are not an error.
func (s *AudioStore) Remove(recordID, mimeType string) error {
	path, err := s.resolve(recordID, mimeType)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve builds the on-disk path and rejects ids that would escape the base
// directory.
func (s *AudioStore) resolve(recordID, mimeType string) (string, error) {
	name := recordID + ExtensionForMIME(mimeType)
	path := filepath.Join(s.basePath, name)

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", os.ErrPermission
	}
	return path, nil
}
