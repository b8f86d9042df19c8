package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minerator/viewerator/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPSourceURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"http://localhost", "http://localhost/api/status"},
		{"localhost", "http://localhost/api/status"},
		{"10.0.0.5:8080", "http://10.0.0.5:8080/api/status"},
		{"https://rig.example/", "https://rig.example/api/status"},
		{"http://rig.example/proxy?x=1", "http://rig.example/proxy/api/status"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			src, err := NewHTTPSource(tt.host)
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Describe())
			assert.True(t, src.Live())
		})
	}
}

func TestNewHTTPSourceInvalid(t *testing.T) {
	for _, host := range []string{"", "   ", "http://"} {
		_, err := NewHTTPSource(host)
		require.Error(t, err, "host %q", host)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	payload := loadFixture(t, "4bcu.json")
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	body, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/status", gotPath)
	assert.Equal(t, payload, body)

	snap, err := Normalize(body, Options{})
	require.NoError(t, err)
	assert.Len(t, snap.Devices, 4)
}

func TestHTTPSourceFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "miner restarting", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL)
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "miner restarting")
}

func TestHTTPSourceFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	src, err := NewHTTPSource(url)
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestHTTPSourceFetchRedirectLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL)
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Contains(t, err.Error(), "redirecting")
}

func TestHTTPSourceFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	src, err := NewHTTPSource(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPOptionsIgnoreZeroValues(t *testing.T) {
	src, err := NewHTTPSource("localhost", WithTimeout(0), WithHTTPClient(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, src.timeout)
	assert.NotNil(t, src.httpClient)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.WriteFile(path, loadFixture(t, "1cvp_legacy.json"), 0o644))

	src := NewFileSource(path)
	assert.False(t, src.Live())
	assert.Equal(t, path, src.Describe())

	body, err := src.Fetch(context.Background())
	require.NoError(t, err)
	snap, err := Normalize(body, Options{})
	require.NoError(t, err)
	assert.Len(t, snap.Devices, 1)

	// Rewritten between polls.
	require.NoError(t, os.WriteFile(path, loadFixture(t, "4bcu.json"), 0o644))
	body, err = src.Fetch(context.Background())
	require.NoError(t, err)
	snap, err = Normalize(body, Options{})
	require.NoError(t, err)
	assert.Len(t, snap.Devices, 4)
}

func TestFileSourceMissing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}
