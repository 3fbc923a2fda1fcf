package auth

import (
	"context"
	"sync"
)

// MemoryCredentialStore keeps credential records in process memory
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	records map[string]CredentialRecord
}

var _ CredentialStore = (*MemoryCredentialStore)(nil)

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		records: make(map[string]CredentialRecord),
	}
}

func (m *MemoryCredentialStore) GetByIdentityKey(ctx context.Context, identityKey string) (*CredentialRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, internalError(err, "credential lookup cancelled")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[identityKey]
	if !ok {
		return nil, ErrCredentialNotFound
	}

	return &record, nil
}

func (m *MemoryCredentialStore) InsertIfAbsent(ctx context.Context, record *CredentialRecord) error {
	if err := ctx.Err(); err != nil {
		return internalError(err, "credential insert cancelled")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.IdentityKey]; exists {
		return ErrIdentityExists
	}

	m.records[record.IdentityKey] = *record
	return nil
}

// Len returns the number of stored records
func (m *MemoryCredentialStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
