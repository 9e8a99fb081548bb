package client

import (
	"context"
	"sync"
)

// HistoryStore holds the current page of the audit log. Deleting an entry
// refetches the page so the local view never drifts from the server.
type HistoryStore struct {
	client *Client

	mu      sync.RWMutex
	entries []HistoryEntry
	page    PageInfo
	limit   int
}

func NewHistoryStore(client *Client, limit int) *HistoryStore {
	if limit <= 0 {
		limit = 10
	}
	return &HistoryStore{client: client, limit: limit}
}

// FetchPage loads the given page from the server.
func (s *HistoryStore) FetchPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	entries, pageInfo, err := s.client.History(ctx, page, s.limit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.page = pageInfo
	s.mu.Unlock()
	return nil
}

func (s *HistoryStore) Entries() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]HistoryEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

func (s *HistoryStore) Page() PageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *HistoryStore) NextPage(ctx context.Context) error {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	if !page.HasNext {
		return nil
	}
	return s.FetchPage(ctx, page.Page+1)
}

func (s *HistoryStore) PrevPage(ctx context.Context) error {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	if !page.HasPrev {
		return nil
	}
	return s.FetchPage(ctx, page.Page-1)
}

// Delete removes one entry and refetches the current page.
func (s *HistoryStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteHistoryEntry(ctx, id); err != nil {
		return err
	}

	s.mu.RLock()
	page := s.page.Page
	s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	return s.FetchPage(ctx, page)
}
