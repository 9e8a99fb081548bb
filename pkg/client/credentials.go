package client

import (
	"encoding/json"
	"os"
	"sync"
)

// CredentialStore keeps the bearer token and the signed-in user. State is
// mirrored to a JSON file when a path is given, so a CLI session survives
// process restarts the way a browser's local storage would.
type CredentialStore struct {
	mu       sync.RWMutex
	token    string
	user     *User
	filePath string
}

type storedCredentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// NewCredentialStore creates a store, loading existing state from filePath
// when it is non-empty and the file exists.
func NewCredentialStore(filePath string) *CredentialStore {
	s := &CredentialStore{filePath: filePath}

	if filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			var stored storedCredentials
			if json.Unmarshal(data, &stored) == nil {
				s.token = stored.Token
				s.user = stored.User
			}
		}
	}

	return s
}

func (s *CredentialStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *CredentialStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *CredentialStore) Set(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = &user
	s.persistLocked()
}

func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	if s.filePath != "" {
		os.Remove(s.filePath)
	}
}

func (s *CredentialStore) persistLocked() {
	if s.filePath == "" {
		return
	}

	data, err := json.Marshal(storedCredentials{Token: s.token, User: s.user})
	if err != nil {
		return
	}
	// best effort; in-memory state is authoritative
	os.WriteFile(s.filePath, data, 0600)
}
