package storage

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const memoryScheme = "memory://"

// Memory keeps attachments in process memory for local runs and tests
type Memory struct {
	mu    sync.RWMutex
	files map[string]*MemoryFile
}

type MemoryFile struct {
	Name        string
	Category    string
	ContentType string
	Data        []byte
}

var _ interfaces.FileStorage = &Memory{}

func NewMemory() *Memory {
	return &Memory{files: make(map[string]*MemoryFile)}
}

func (m *Memory) Upload(ctx context.Context, name, category, contentType string, r io.Reader) (*interfaces.StoredFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read upload", goerr.V("name", name))
	}

	key := objectName(category, name)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = &MemoryFile{
		Name:        name,
		Category:    category,
		ContentType: contentType,
		Data:        data,
	}

	return &interfaces.StoredFile{URL: memoryScheme + key, Name: name}, nil
}

func (m *Memory) Delete(ctx context.Context, fileURL string) error {
	key, ok := strings.CutPrefix(fileURL, memoryScheme)
	if !ok {
		return goerr.Wrap(ErrInvalidURL, "not a memory URL", goerr.V("url", fileURL))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.files[key]; !exists {
		return goerr.Wrap(model.ErrNotFound, "file not found", goerr.V("url", fileURL))
	}
	delete(m.files, key)
	return nil
}

// Get returns a stored file by URL, or nil
func (m *Memory) Get(fileURL string) *MemoryFile {
	key := strings.TrimPrefix(fileURL, memoryScheme)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.files[key]; ok {
		copied := *f
		return &copied
	}
	return nil
}

// Len is the number of stored files
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
