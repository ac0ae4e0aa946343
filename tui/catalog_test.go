package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-tickets-cli/model"
	"movie-tickets-cli/service"
	"movie-tickets-cli/store"
)

func TestLoadCatalog_OfflineUsesBuiltin(t *testing.T) {
	setTestDirs(t)

	msg := loadCatalog(context.Background(), service.NewClient("http://unused.test", nil), true, false)
	assert.Equal(t, sourceBuiltin, msg.source)
	assert.NoError(t, msg.warning)
	assert.Len(t, msg.movies, len(service.BuiltinMovies()))
}

func TestLoadCatalog_RemoteIsCached(t *testing.T) {
	setTestDirs(t)

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`[{"id": "x", "title": "Remote Movie", "days": ["Today"], "times": ["20:00"]}]`))
	}))
	defer server.Close()
	client := service.NewClient(server.URL, server.Client())

	msg := loadCatalog(context.Background(), client, false, false)
	require.Equal(t, sourceRemote, msg.source)
	require.Len(t, msg.movies, 1)

	cached, fresh, err := store.LoadCatalogCache()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, "Remote Movie", cached[0].Title)

	msg = loadCatalog(context.Background(), client, false, false)
	assert.Equal(t, sourceCache, msg.source)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "fresh cache skips the network")

	msg = loadCatalog(context.Background(), client, false, true)
	assert.Equal(t, sourceRemote, msg.source)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "refresh bypasses the cache")
}

func TestLoadCatalog_FailureFallsBack(t *testing.T) {
	setTestDirs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	client := service.NewClient(server.URL, server.Client())

	msg := loadCatalog(context.Background(), client, false, false)
	assert.Equal(t, sourceBuiltin, msg.source)
	assert.Error(t, msg.warning)

	require.NoError(t, store.SaveCatalogCache([]model.Movie{{Id: "c", Title: "Cached"}}))
	msg = loadCatalog(context.Background(), client, false, true)
	assert.Equal(t, sourceCache, msg.source)
	assert.Error(t, msg.warning)
	assert.Equal(t, "Cached", msg.movies[0].Title)
}

func TestLoadCatalog_NoURLPrefersCache(t *testing.T) {
	setTestDirs(t)

	require.NoError(t, store.SaveCatalogCache([]model.Movie{{Id: "c", Title: "Cached"}}))
	msg := loadCatalog(context.Background(), service.NewClient("", nil), false, true)
	assert.Equal(t, sourceCache, msg.source)
	assert.Equal(t, "Cached", msg.movies[0].Title)
}
