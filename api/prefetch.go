package api

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/juruen/slideview/log"
)

// DefaultBatchSize bounds concurrent requests during Prefetch.
const DefaultBatchSize = 4

// Prefetch fetches the records of slideIDs with at most batchSize requests
// in flight, warming the cache. It returns the error of every slide that
// failed.
func (c *Client) Prefetch(ctx context.Context, slideIDs []string, batchSize int64) map[string]error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var mu sync.Mutex
	failed := make(map[string]error)
	fail := func(id string, err error) {
		mu.Lock()
		failed[id] = err
		mu.Unlock()
	}

	sem := semaphore.NewWeighted(batchSize)
	for i, id := range slideIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Trace.Printf("Failed to acquire semaphore: %v", err)
			for _, rest := range slideIDs[i:] {
				fail(rest, err)
			}
			break
		}
		go func(id string) {
			defer sem.Release(1)
			if _, err := c.FetchSlide(ctx, id); err != nil {
				log.Trace.Printf("Can't prefetch slide %s: %v", id, err)
				fail(id, err)
				return
			}
			log.Trace.Printf("prefetched slide %s", id)
		}(id)
	}

	// wait for all goroutines to finish
	if err := sem.Acquire(context.Background(), batchSize); err != nil {
		log.Trace.Printf("Failed to acquire semaphore: %v", err)
	}

	return failed
}
