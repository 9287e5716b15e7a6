package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefetchBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)

		if strings.HasSuffix(r.URL.Path, "/bad") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	cache, err := LoadCache(filepath.Join(t.TempDir(), "metadata.cache"))
	require.NoError(t, err)
	c := NewClient(srv.URL, time.Second, WithCache(cache))

	ids := []string{"a", "b", "c", "d", "e", "bad"}
	failed := c.Prefetch(context.Background(), ids, 2)

	require.Len(t, failed, 1)
	assert.Contains(t, failed["bad"].Error(), "Status 500")
	assert.True(t, atomic.LoadInt32(&peak) <= 2)

	for _, id := range ids[:5] {
		_, ok := cache.Get(id)
		assert.True(t, ok, id)
	}
}

func TestPrefetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failed := NewClient(srv.URL, time.Second).Prefetch(ctx, []string{"a", "b"}, 1)
	assert.Len(t, failed, 2)
}
