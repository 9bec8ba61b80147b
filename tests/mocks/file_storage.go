package mocks

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
)

type StoredFile struct {
	Key         string
	ContentType string
	Data        []byte
}

type FileStorage struct {
	mu    sync.Mutex
	files map[string]StoredFile
}

func NewFileStorage() *FileStorage {
	return &FileStorage{
		files: make(map[string]StoredFile),
	}
}

func (s *FileStorage) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[key] = StoredFile{Key: key, ContentType: contentType, Data: data}
	return nil
}

func (s *FileStorage) AssertUploadedUnder(t *testing.T, prefix string) StoredFile {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, f := range s.files {
		if strings.HasPrefix(key, prefix) {
			return f
		}
	}
	t.Fatalf("expected a file uploaded under %q, found none", prefix)
	return StoredFile{}
}

func (s *FileStorage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.files)
}
