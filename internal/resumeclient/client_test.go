package resumeclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/resume/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestFetchSendsGuestHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/resumes/r1", r.URL.Path)
		assert.Equal(t, "g-1", r.Header.Get("X-Guest-Id"))
		doc := model.NewDocument("Backend")
		doc.ID = "r1"
		_ = json.NewEncoder(w).Encode(doc)
	}, WithGuestID("g-1"))

	doc, err := c.Fetch(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", doc.ID)
	assert.Equal(t, "Backend", doc.Title)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"not_found","message":"resume not found"}}`)
	})

	_, err := c.Fetch(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestSavePutsWholeDocumentWithBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/resumes/r2", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Guest-Id"))
		var doc model.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc.Title = doc.Title + " (saved)"
		_ = json.NewEncoder(w).Encode(doc)
	}, WithToken("tok"), WithGuestID("ignored"))

	doc := model.NewDocument("Draft")
	doc.ID = "r2"
	saved, err := c.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Draft (saved)", saved.Title)
}

func TestValidationErrorKeepsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"validation_error","message":"title is required"}}`)
	})

	_, err := c.UpdateTitle(context.Background(), "r1", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "title is required")
}

func TestListAndDelete(t *testing.T) {
	var deleted string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = io.WriteString(w, `[{"id":"a","title":"A"},{"id":"b","title":"B"}]`)
		case http.MethodDelete:
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	})

	items, err := c.List(context.Background(), 5, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].ID)

	require.NoError(t, c.Delete(context.Background(), "a"))
	assert.Equal(t, "/api/v1/resumes/a", deleted)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}
