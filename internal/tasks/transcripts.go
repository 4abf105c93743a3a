package tasks

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// transcriptOutcome is the settled result of one transcript fetch. The zero
// value means "no captions available".
type transcriptOutcome struct {
	text      string
	available bool
	err       error
}

// fetchTranscripts retrieves transcripts for every ID through a bounded
// worker pool.
//
// The transcript endpoint throttles aggressively, so concurrency is capped
// by TranscriptWorkers and outbound calls are paced by a shared rate
// limiter. Each worker writes only to its own index of the outcomes slice;
// one video's failure never touches another's slot.
func (e *VideoEngine) fetchTranscripts(ctx context.Context, progress chan<- ProgressUpdate, ids []string) map[string]transcriptOutcome {
	workers := e.opts.TranscriptWorkers
	if workers > len(ids) {
		workers = len(ids)
	}

	limiter := rate.NewLimiter(rate.Limit(e.opts.TranscriptRate), 1)
	outcomes := make([]transcriptOutcome, len(ids))
	jobs := make(chan int)

	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					outcomes[i] = transcriptOutcome{err: err}
					continue
				}

				callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
				res, err := e.transcripts.Fetch(callCtx, ids[i])
				cancel()

				switch {
				case err != nil:
					outcomes[i] = transcriptOutcome{err: err}
				case res.Available:
					outcomes[i] = transcriptOutcome{text: res.Text, available: true}
				default:
					// No captions; leave the zero value.
				}

				e.sendProgress(progress, transcriptUpdate(int(done.Add(1)), len(ids), ids[i]))
			}
		}()
	}

feed:
	for i := range ids {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	settled := make(map[string]transcriptOutcome, len(ids))
	for i, id := range ids {
		settled[id] = outcomes[i]
	}
	return settled
}
