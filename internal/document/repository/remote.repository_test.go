package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmaps/internal/document/model"
)

func TestRemotePut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Mindmaps", r.URL.Path)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var rec model.MindmapRecord
		assert.NoError(t, json.Unmarshal(body, &rec))
		assert.Equal(t, "doc-1", rec.ID)
		assert.Equal(t, "Plan", rec.Name)
		assert.Equal(t, "user-1", rec.UserID)

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer server.Close()

	repo := NewRemoteRepository(server.URL+"/", time.Second)
	rec, err := model.NewMindmapRecord(&model.Document{ID: "doc-1", Title: "Plan"}, "user-1")
	require.NoError(t, err)

	resp, err := repo.Put(context.Background(), rec)
	require.NoError(t, err)
	assert.Contains(t, string(resp), `"userId":"user-1"`)
}

func TestRemotePutStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	repo := NewRemoteRepository(server.URL, time.Second)
	_, err := repo.Put(context.Background(), &model.MindmapRecord{ID: "x"})

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "nope", se.Body)
}

func TestRemoteListByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.JSONEq(t, `{"where":{"userId":"u \"1\""}}`, r.URL.Query().Get("filter"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"a","name":"A","userId":"u","content":{"id":"a","title":"A"}},
			{"id":"b","name":"B","userId":"u","content":{"id":"b","title":"B"}}
		]`))
	}))
	defer server.Close()

	repo := NewRemoteRepository(server.URL, time.Second)
	records, err := repo.ListByUser(context.Background(), `u "1"`)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.JSONEq(t, `{"id":"b","title":"B"}`, string(records[1].Content))
}

func TestRemoteListByUserBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"not an array"}`))
	}))
	defer server.Close()

	repo := NewRemoteRepository(server.URL, time.Second)
	_, err := repo.ListByUser(context.Background(), "u")
	assert.Error(t, err)
}

func TestRemoteHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	repo := NewRemoteRepository(server.URL, time.Minute)
	_, err := repo.ListByUser(ctx, "u")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
