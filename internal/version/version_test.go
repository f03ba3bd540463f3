package version

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetUsesLdflagsVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "2.1.0"
	assert.Equal(t, "2.1.0", Get())
}

func TestPlatform(t *testing.T) {
	assert.Contains(t, Platform(), "/")
}

func TestCheckLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v3.2.1"}`))
	}))
	defer server.Close()

	orig := latestReleaseURL
	defer func() { latestReleaseURL = orig }()
	latestReleaseURL = server.URL

	assert.Equal(t, "3.2.1", CheckLatest(time.Second))
}

func TestCheckLatestFailuresReturnEmpty(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		orig := latestReleaseURL
		defer func() { latestReleaseURL = orig }()
		latestReleaseURL = server.URL

		assert.Empty(t, CheckLatest(time.Second))
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		orig := latestReleaseURL
		defer func() { latestReleaseURL = orig }()
		latestReleaseURL = server.URL

		assert.Empty(t, CheckLatest(time.Second))
	})

	t.Run("unreachable server", func(t *testing.T) {
		orig := latestReleaseURL
		defer func() { latestReleaseURL = orig }()
		latestReleaseURL = "http://127.0.0.1:1"

		assert.Empty(t, CheckLatest(500*time.Millisecond))
	})
}
