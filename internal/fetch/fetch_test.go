package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/aggregator/internal/fetch"
)

func TestGetReturnsBodyAndSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)

	client := fetch.NewClient(5*time.Second, 0, "aggregator-test/1.0")
	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "payload", string(body))
	assert.Equal(t, "aggregator-test/1.0", gotUA)
}

func TestGetNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := fetch.NewClient(5*time.Second, 0, "aggregator-test/1.0")
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestGetReadsLocalFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.opml")
	require.NoError(t, os.WriteFile(path, []byte("<opml/>"), 0o644))

	client := fetch.NewClient(5*time.Second, 0, "aggregator-test/1.0")

	body, err := client.Get(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<opml/>", string(body))

	body, err = client.Get(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "<opml/>", string(body))
}

func TestGetMissingFileIsAnError(t *testing.T) {
	client := fetch.NewClient(5*time.Second, 0, "aggregator-test/1.0")
	_, err := client.Get(context.Background(), filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
}
