package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/slideview/config"
	"github.com/juruen/slideview/pyramid"
	"github.com/juruen/slideview/shell"
	"github.com/juruen/slideview/version"
	"github.com/juruen/slideview/viewer"
)

func slideRecord() map[string]string {
	return map[string]string{
		pyramid.KeyLevelCount:    "2",
		pyramid.KeyWidth:         "1000",
		pyramid.KeyHeight:        "1000",
		pyramid.KeyTileWidth:     "256",
		pyramid.KeyTileHeight:    "256",
		pyramid.KeyTileURL:       "http://tiles/{level}/{tileX}/{tileY}/{tileWidth}/{tileHeight}",
		pyramid.DownsampleKey(0): "1",
		pyramid.DownsampleKey(1): "4",
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	fetcher := viewer.FetcherFunc(func(ctx context.Context, slideID string) (map[string]string, error) {
		if slideID != "A" {
			return nil, errors.Errorf("slide %s not found", slideID)
		}
		return slideRecord(), nil
	})

	cfg := config.Default()
	cfg.Container = config.Container{Width: 800, Height: 600}
	srv := httptest.NewServer(NewApiServer(shell.NewShellCtxt(fetcher, cfg), time.Second).routes())
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func call(t *testing.T, method, url, body string) (int, envelope) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

const openBody = `{"slide": "A", "annotations": [
	{"id": "a", "geometry": {"type": "Polygon", "coordinates": [[[100,300],[300,300],[300,500],[100,500],[100,300]]]}}
]}`

func TestServerVersion(t *testing.T) {
	srv := newTestServer(t)
	status, env := call(t, http.MethodGet, srv.URL+"/api/version", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"version":"`+version.Version+`"}`, string(env.Data))

	res, err := http.Post(srv.URL+"/api/version", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestServerOpenSelect(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, http.MethodPost, srv.URL+"/api/open", openBody)
	require.Equal(t, http.StatusOK, status, env.Error)

	var st shell.StatusJSON
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, "A", st.Slide)
	assert.True(t, st.Open)
	assert.Equal(t, 1, st.Annotations)

	status, env = call(t, http.MethodPost, srv.URL+"/api/select", `{"annotation": "0"}`)
	require.Equal(t, http.StatusOK, status, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.NotEmpty(t, st.Selected)
	require.NotNil(t, st.LastFrame)
	assert.InDelta(t, 0.2, st.LastFrame.CenterX, 1e-12)

	res, err := http.Get(srv.URL + "/api/overlay.svg")
	require.NoError(t, err)
	var svg bytes.Buffer
	svg.ReadFrom(res.Body)
	res.Body.Close()
	assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
	assert.Contains(t, svg.String(), "selected--annotation")

	status, _ = call(t, http.MethodPost, srv.URL+"/api/select", `{"annotation": "9"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, http.MethodPost, srv.URL+"/api/select", `{}`)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Empty(t, st.Selected)
}

func TestServerOpenErrors(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, http.MethodPost, srv.URL+"/api/open", `{"slide": "missing"}`)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, env.Error, "missing")

	status, _ = call(t, http.MethodPost, srv.URL+"/api/open", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, http.MethodPost, srv.URL+"/api/open", `{`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, http.MethodGet, srv.URL+"/api/source", "")
	assert.Equal(t, http.StatusConflict, status)
	status, _ = call(t, http.MethodGet, srv.URL+"/api/tiles", "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestServerTileRedirect(t *testing.T) {
	srv := newTestServer(t)
	status, _ := call(t, http.MethodPost, srv.URL+"/api/open", openBody)
	require.Equal(t, http.StatusOK, status)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	res, err := client.Get(srv.URL + "/api/tile?level=1&x=3&y=3")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "http://tiles/0/768/768/232/232", res.Header.Get("Location"))

	res, err = client.Get(srv.URL + "/api/tile?level=2&x=0&y=0")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = client.Get(srv.URL + "/api/tile?level=a")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestServerZoomAndTiles(t *testing.T) {
	srv := newTestServer(t)
	status, _ := call(t, http.MethodPost, srv.URL+"/api/open", openBody)
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, http.MethodPost, srv.URL+"/api/zoom", `{"zoom": 1.2, "x": 0.25, "y": 0.25}`)
	require.Equal(t, http.StatusOK, status, env.Error)

	var st shell.StatusJSON
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, 1.2, st.Zoom)
	assert.Equal(t, 0.25, st.CenterX)

	status, env = call(t, http.MethodGet, srv.URL+"/api/tiles", "")
	require.Equal(t, http.StatusOK, status)
	var tiles []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &tiles))
	assert.NotEmpty(t, tiles)

	status, _ = call(t, http.MethodPost, srv.URL+"/api/zoom", `{"zoom": -1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, http.MethodGet, srv.URL+"/api/source", "")
	require.Equal(t, http.StatusOK, status)
	var src map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &src))
	assert.Equal(t, 1000.0, src["width"])
	assert.Equal(t, 2.0, src["levelCount"])
}
