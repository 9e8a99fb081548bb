package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyPage(items []HistoryEntry, page, size, total, totalPages int, hasNext, hasPrev bool) map[string]interface{} {
	return map[string]interface{}{
		"items": items,
		"pagination": map[string]interface{}{
			"current_page": page,
			"page_size":    size,
			"total_count":  total,
			"total_pages":  totalPages,
			"has_next":     hasNext,
			"has_prev":     hasPrev,
		},
	}
}

func TestPaginationMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		writeEnvelope(w, http.StatusOK,
			historyPage([]HistoryEntry{{ID: "e1", TaskTitle: "Task"}}, 2, 10, 25, 3, true, true), "")
	}))
	defer server.Close()

	store := NewHistoryStore(New(Config{BaseURL: server.URL}), 10)
	require.NoError(t, store.FetchPage(context.Background(), 2))

	page := store.Page()
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestNextAndPrevPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			writeEnvelope(w, http.StatusOK, historyPage(nil, 1, 10, 25, 3, true, false), "")
		case "2":
			writeEnvelope(w, http.StatusOK, historyPage(nil, 2, 10, 25, 3, true, true), "")
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	store := NewHistoryStore(New(Config{BaseURL: server.URL}), 10)
	require.NoError(t, store.FetchPage(context.Background(), 1))

	require.NoError(t, store.NextPage(context.Background()))
	assert.Equal(t, 2, store.Page().Page)

	require.NoError(t, store.PrevPage(context.Background()))
	assert.Equal(t, 1, store.Page().Page)

	// no previous page from page 1; stays put without a request
	require.NoError(t, store.PrevPage(context.Background()))
	assert.Equal(t, 1, store.Page().Page)
}

func TestDeleteRefetchesCurrentPage(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			writeEnvelope(w, http.StatusOK, map[string]string{"id": "e1"}, "")
		case http.MethodGet:
			fetches++
			entries := []HistoryEntry{{ID: "e2", TaskTitle: "Remaining"}}
			writeEnvelope(w, http.StatusOK, historyPage(entries, 2, 10, 11, 2, false, true), "")
		}
	}))
	defer server.Close()

	store := NewHistoryStore(New(Config{BaseURL: server.URL}), 10)
	require.NoError(t, store.FetchPage(context.Background(), 2))
	require.Equal(t, 1, fetches)

	require.NoError(t, store.Delete(context.Background(), "e1"))
	assert.Equal(t, 2, fetches, "delete should refetch the current page")

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)
}

func TestDeleteFailureDoesNotRefetch(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			writeEnvelope(w, http.StatusNotFound, nil, "history entry not found")
		case http.MethodGet:
			fetches++
			writeEnvelope(w, http.StatusOK, historyPage(nil, 1, 10, 0, 0, false, false), "")
		}
	}))
	defer server.Close()

	store := NewHistoryStore(New(Config{BaseURL: server.URL}), 10)
	require.NoError(t, store.FetchPage(context.Background(), 1))

	require.Error(t, store.Delete(context.Background(), "missing"))
	assert.Equal(t, 1, fetches)
}
