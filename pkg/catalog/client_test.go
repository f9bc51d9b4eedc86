package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books", r.URL.Path)
		require.Equal(t, "dune", r.URL.Query().Get("title[like]"))
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": 1, "title": "Dune", "author": "Frank Herbert",
					"totalAmount": 3, "currentAmount": 2,
					"genres": []map[string]interface{}{{"id": 1, "name": "Sci-Fi"}}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	books, err := c.SearchBooks(context.Background(), "T1", "dune")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Sci-Fi", books[0].Genres[0].Name)
}

func TestGetBookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.GetBook(context.Background(), "T1", 99)
	assert.Error(t, err)
}

func TestGetUserWithLoans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/7", r.URL.Path)
		require.True(t, r.URL.Query().Has(string(IncludeCurrentLoans)))

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id": 7, "name": "Alice", "username": "alice",
				"loans": []map[string]interface{}{
					{"book": map[string]interface{}{"id": 1, "title": "Dune"},
						"dueDate": "2026-09-18", "loanedAt": "2026-08-28"},
				},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	usr, err := c.GetUser(context.Background(), "T1", "7", IncludeCurrentLoans)
	require.NoError(t, err)
	assert.Equal(t, "alice", usr.Username)
	require.Len(t, usr.Loans, 1)
	assert.Equal(t, "Dune", usr.Loans[0].Book.Title)
	assert.Nil(t, usr.Loans[0].ReturnedAt)
}
