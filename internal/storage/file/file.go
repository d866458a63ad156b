package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/velox/url-shortener/internal/storage"
)

type record struct {
	Code     string `json:"code"`
	Original string `json:"original"`
}

// Storage implements storage.Store backed by an append-only JSONL file.
// The file is replayed on open; the last record for a code wins.
type Storage struct {
	filePath    string
	urlMap      map[string]string
	mu          sync.RWMutex
	fileWriteMu sync.Mutex
}

// NewStorage opens or creates a file-backed storage at the provided path.
func NewStorage(filePath string) (*Storage, error) {
	if filePath == "" {
		return nil, errors.New("file storage path is empty")
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	s := &Storage{
		filePath: filePath,
		urlMap:   make(map[string]string),
	}

	if err := s.loadFromFile(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) Put(_ context.Context, key, value string) error {
	line, err := json.Marshal(record{Code: key, Original: value})
	if err != nil {
		return storage.Query("put", err)
	}

	s.fileWriteMu.Lock()
	defer s.fileWriteMu.Unlock()

	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return storage.Unavailable("put", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return storage.Query("put", err)
	}

	s.mu.Lock()
	s.urlMap[key] = value
	s.mu.Unlock()

	return nil
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.urlMap[key]
	return value, found, nil
}

// Ping checks the backing file can still be opened for writing.
func (s *Storage) Ping(context.Context) error {
	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return storage.Unavailable("ping", err)
	}
	return file.Close()
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) loadFromFile() error {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var r record
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		s.urlMap[r.Code] = r.Original
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return nil
}
