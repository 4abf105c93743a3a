package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/ytscribe/internal/models"
)

// chunkResult holds the outcome of one videos.list call. Each chunk
// goroutine owns exactly one slot of the results slice.
type chunkResult struct {
	ids  []string
	meta map[string]models.VideoMetadata
	err  error
}

// fetchMetadata retrieves metadata for the full ID list in concurrent
// batches of at most BatchSize.
//
// A transport failure marks only that chunk's IDs as metadata-fetch-failed;
// other chunks still complete. IDs a successful call did not return are
// metadata-not-found.
func (e *VideoEngine) fetchMetadata(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (map[string]models.VideoMetadata, map[string]models.ResolutionError) {
	chunks := partition(ids, e.opts.BatchSize)
	results := make([]chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []string) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
			defer cancel()

			meta, err := e.metadata.ListVideos(callCtx, chunk)
			results[i] = chunkResult{ids: chunk, meta: meta, err: err}
			e.sendProgress(progress, metadataUpdate(i+1, len(chunks)))
		}(i, chunk)
	}
	wg.Wait()

	meta := make(map[string]models.VideoMetadata, len(ids))
	errs := make(map[string]models.ResolutionError)

	for _, res := range results {
		if res.err != nil {
			for _, id := range res.ids {
				errs[id] = models.ResolutionError{
					Ref:     id,
					Kind:    models.KindMetadataFetch,
					Message: res.err.Error(),
				}
			}
			continue
		}

		for _, id := range res.ids {
			if md, ok := res.meta[id]; ok {
				meta[id] = md
			} else {
				errs[id] = metadataNotFoundError(id)
			}
		}
	}

	return meta, errs
}

// partition splits ids into contiguous chunks of at most size.
func partition(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
