package storage

import (
	"bytes"
	"os"
	"testing"
)

func TestAudioStoreLifecycle(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAudioStore failed: %v", err)
	}

	data := []byte("fake mp3 bytes")
	path, err := store.Save("rec-0001", "audio/mpeg", data)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Path("rec-0001", "audio/mpeg")
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if got != path {
		t.Errorf("Path mismatch: %q vs %q", got, path)
	}
	onDisk, err := os.ReadFile(got)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(onDisk, data) {
		t.Error("Stored bytes do not match")
	}

	if err := store.Remove("rec-0001", "audio/mpeg"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Path("rec-0001", "audio/mpeg"); err == nil {
		t.Error("Expected Path to fail after Remove")
	}
	// Removing again is not an error.
	if err := store.Remove("rec-0001", "audio/mpeg"); err != nil {
		t.Errorf("Second Remove failed: %v", err)
	}
}

func TestAudioStoreRejectsTraversal(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAudioStore failed: %v", err)
	}

	if _, err := store.Save("../escape", "audio/mpeg", []byte("x")); err == nil {
		t.Error("Expected a traversal id to be rejected")
	}
}

func TestExtensionForMIME(t *testing.T) {
	if ext := ExtensionForMIME("audio/wave"); ext != ".wav" {
		t.Errorf("Expected .wav, got %q", ext)
	}
	if ext := ExtensionForMIME("application/octet-stream"); ext != ".bin" {
		t.Errorf("Expected .bin fallback, got %q", ext)
	}
}
