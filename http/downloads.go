package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DownloadStore holds encoded result files between the upload response
// and the click on its download link. Entries expire after ttl and the
// oldest are evicted beyond capacity.
type DownloadStore struct {
	files *expirable.LRU[string, []byte]
}

// NewDownloadStore keeps at most capacity files, each for ttl.
func NewDownloadStore(capacity int, ttl time.Duration) *DownloadStore {
	return &DownloadStore{files: expirable.NewLRU[string, []byte](capacity, nil, ttl)}
}

// Put stores data under a fresh random id and returns the id.
func (s *DownloadStore) Put(data []byte) string {
	id := uuid.NewString()
	s.files.Add(id, data)
	return id
}

// Get returns the file stored under id unless it expired or was evicted.
func (s *DownloadStore) Get(id string) ([]byte, bool) {
	return s.files.Get(id)
}

// Len returns the number of live entries.
func (s *DownloadStore) Len() int {
	return s.files.Len()
}
