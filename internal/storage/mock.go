package storage

import (
	"context"
	"fmt"
	"log"
	"path"

	"github.com/google/uuid"
)

// MockStorage implements the Uploader interface by minting a deterministic
// public URL without writing bytes anywhere. Replace this with a real object
// store client for production use.
type MockStorage struct {
	baseURL string
}

func NewMockStorage(baseURL string) *MockStorage {
	if baseURL == "" {
		baseURL = "https://assets.crewbase.local"
	}
	return &MockStorage{baseURL: baseURL}
}

func (s *MockStorage) Upload(ctx context.Context, data []byte, destinationHint string) (string, error) {
	// Key by uuid so re-uploads never clobber a reference already handed out.
	key := uuid.New().String() + path.Ext(destinationHint)
	ref := fmt.Sprintf("%s/%s/%s", s.baseURL, path.Dir(destinationHint), key)
	log.Printf("📦 [MockStorage] Stored %d bytes at %s", len(data), ref)
	return ref, nil
}
