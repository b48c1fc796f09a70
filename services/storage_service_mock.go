package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"time"
)

// MockStorageService is an in-memory StorageInterface for testing
type MockStorageService struct {
	files map[string][]byte // key -> content
	mu    sync.RWMutex
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{
		files: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance
func (m *MockStorageService) SetAsMockForTesting() {
	SetStorageService(m)
}

// UploadOrderFile simulates an upload under the order's prefix
func (m *MockStorageService) UploadOrderFile(ordCod int, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%smock_%s", orderPrefix(ordCod), fileHeader.Filename)

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()

	return key, nil
}

// ListOrderFiles lists the mock files under the order's prefix
func (m *MockStorageService) ListOrderFiles(ordCod int) ([]StoredFile, error) {
	prefix := orderPrefix(ordCod)

	m.mu.RLock()
	defer m.mu.RUnlock()

	files := []StoredFile{}
	for key, content := range m.files {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		files = append(files, StoredFile{
			Key:      key,
			Name:     strings.TrimPrefix(key, prefix+"mock_"),
			Size:     int64(len(content)),
			Modified: time.Now(),
		})
	}
	return files, nil
}

// GetPresignedURL returns a fake URL for an existing mock file
func (m *MockStorageService) GetPresignedURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.files[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock storage: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteFile removes one mock file
func (m *MockStorageService) DeleteFile(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()

	return nil
}

// DeleteOrderFiles removes every mock file under the order's prefix
func (m *MockStorageService) DeleteOrderFiles(ordCod int) error {
	prefix := orderPrefix(ordCod)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.files {
		if strings.HasPrefix(key, prefix) {
			delete(m.files, key)
		}
	}
	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockStorageService) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}

// Clear removes all files from mock storage
func (m *MockStorageService) Clear() {
	m.mu.Lock()
	m.files = make(map[string][]byte)
	m.mu.Unlock()
}
