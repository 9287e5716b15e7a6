package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/juruen/slideview/log"
)

// Client fetches slide metadata records from the slide server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *RecordCache

	group singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithCache serves records from cache before asking the server.
func WithCache(cache *RecordCache) Option {
	return func(cl *Client) { cl.cache = cache }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SlideURL returns the metadata endpoint of slideID.
func (c *Client) SlideURL(slideID string) string {
	return c.baseURL + "/slides/" + url.PathEscape(slideID)
}

// FetchSlide returns the flat metadata record of slideID. Concurrent calls
// for the same slide share one request.
func (c *Client) FetchSlide(ctx context.Context, slideID string) (map[string]string, error) {
	if c.cache != nil {
		if record, ok := c.cache.Get(slideID); ok {
			log.Trace.Println("metadata cache hit:", slideID)
			return record, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the shared request outlives any single caller; each caller only
	// stops waiting on its own cancellation
	ch := c.group.DoChan(slideID, func() (interface{}, error) {
		record, err := c.fetch(context.WithoutCancel(ctx), slideID)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.Put(slideID, record); err != nil {
				log.Warning.Println("failed to cache metadata:", err)
			}
		}
		return record, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "fetch %s", slideID)
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		log.Trace.Println("shared metadata request:", slideID)
	}
	return copyRecord(res.Val.(map[string]string)), nil
}

// Forget drops the cached record of slideID so the next fetch asks the
// server again.
func (c *Client) Forget(slideID string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Forget(slideID)
}

func (c *Client) fetch(ctx context.Context, slideID string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SlideURL(slideID), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	log.Trace.Println("GET", req.URL)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("API error: Status %d, Response: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	return DecodeRecord(body)
}

// DecodeRecord decodes a JSON object into a flat string map. String values
// are unquoted; any other value is kept as its JSON text.
func DecodeRecord(body []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode metadata")
	}

	record := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			record[k] = s
			continue
		}
		record[k] = string(bytes.TrimSpace(v))
	}
	return record, nil
}

func copyRecord(record map[string]string) map[string]string {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
