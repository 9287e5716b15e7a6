package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slideJSON = `{
	"openslide.level-count": "2",
	"openslide.level[0].width": 1000,
	"openslide.level[0].height": "800",
	"openslide.remoteserver.uri": "http://tiles/{level}/{tileX}/{tileY}",
	"aperio.MPP": 0.25
}`

func TestDecodeRecord(t *testing.T) {
	record, err := DecodeRecord([]byte(slideJSON))
	require.NoError(t, err)

	assert.Equal(t, "2", record["openslide.level-count"])
	assert.Equal(t, "1000", record["openslide.level[0].width"])
	assert.Equal(t, "800", record["openslide.level[0].height"])
	assert.Equal(t, "0.25", record["aperio.MPP"])
	assert.Equal(t, "http://tiles/{level}/{tileX}/{tileY}", record["openslide.remoteserver.uri"])
}

func TestDecodeRecordRejectsNonObject(t *testing.T) {
	_, err := DecodeRecord([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestFetchSlide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/slides/CMU 1.svs", r.URL.Path)
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	record, err := c.FetchSlide(context.Background(), "CMU 1.svs")
	require.NoError(t, err)
	assert.Equal(t, "2", record["openslide.level-count"])
}

func TestFetchSlideStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such slide", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.FetchSlide(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status 404")
	assert.Contains(t, err.Error(), "no such slide")
}

func TestFetchSlideCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, time.Second).FetchSlide(ctx, "x")
	assert.Error(t, err)
}

func TestFetchSlideSharesInFlightRequests(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := c.FetchSlide(context.Background(), "same")
			assert.NoError(t, err)
			assert.Equal(t, "2", record["openslide.level-count"])
		}()
	}

	// give the goroutines time to join the in-flight call
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchSlideCancelledCallerKeepsSharedRequest(t *testing.T) {
	requested := make(chan struct{})
	release := make(chan struct{})
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			close(requested)
		}
		<-release
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.FetchSlide(ctx, "s")
		first <- err
	}()
	<-requested

	type result struct {
		record map[string]string
		err    error
	}
	second := make(chan result, 1)
	go func() {
		record, err := c.FetchSlide(context.Background(), "s")
		second <- result{record, err}
	}()

	// let the second caller join the in-flight call
	time.Sleep(50 * time.Millisecond)
	cancel()

	err := <-first
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	release <- struct{}{}
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "2", res.record["openslide.level-count"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClientForgetRefetches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	cache, err := LoadCache(filepath.Join(t.TempDir(), "metadata.cache"))
	require.NoError(t, err)
	c := NewClient(srv.URL, time.Second, WithCache(cache))

	_, err = c.FetchSlide(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, c.Forget("a"))
	_, err = c.FetchSlide(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	assert.NoError(t, NewClient(srv.URL, time.Second).Forget("a"))
}

func TestFetchSlideUsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(slideJSON))
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "metadata.cache")
	cache, err := LoadCache(cachePath)
	require.NoError(t, err)

	c := NewClient(srv.URL, time.Second, WithCache(cache))
	_, err = c.FetchSlide(context.Background(), "a")
	require.NoError(t, err)
	_, err = c.FetchSlide(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// a fresh process reads the file
	reloaded, err := LoadCache(cachePath)
	require.NoError(t, err)
	record, ok := reloaded.Get("a")
	require.True(t, ok)
	assert.Equal(t, "800", record["openslide.level[0].height"])

	require.NoError(t, reloaded.Forget("a"))
	_, ok = reloaded.Get("a")
	assert.False(t, ok)
}

func TestLoadCacheCorruptOrOutdated(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt")
	require.NoError(t, os.WriteFile(corrupt, []byte("{"), 0644))
	c, err := LoadCache(corrupt)
	require.NoError(t, err)
	_, ok := c.Get("a")
	assert.False(t, ok)

	outdated := filepath.Join(dir, "outdated")
	require.NoError(t, os.WriteFile(outdated, []byte(`{"cache_version":0,"records":{"a":{"k":"v"}}}`), 0644))
	c, err = LoadCache(outdated)
	require.NoError(t, err)
	_, ok = c.Get("a")
	assert.False(t, ok)
}
