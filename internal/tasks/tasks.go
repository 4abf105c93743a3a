// package tasks implements the video resolution pipeline.
//
// The core abstraction is ResolveEngine, which turns heterogeneous video
// references or a channel reference into a ResolutionResult: metadata and
// transcripts for every video it could resolve, typed per-item errors for
// every one it could not. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI/server layers.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/services"
	"github.com/desertthunder/ytscribe/internal/shared"
)

// ResolveEngine defines the pipeline entry points.
type ResolveEngine interface {
	// Resolve turns an explicit list of video references into a
	// ResolutionResult. Every deduplicated video ID from the input lands in
	// exactly one of Items or Errors. Only an empty input or a cancelled
	// context fails the call as a whole.
	Resolve(ctx context.Context, progress chan<- ProgressUpdate, inputs []string) (*models.ResolutionResult, error)

	// ResolveChannel enumerates a channel and feeds every video through the
	// same pipeline as Resolve.
	ResolveChannel(ctx context.Context, progress chan<- ProgressUpdate, channel string, opts ChannelOpts) (*models.ChannelExport, error)
}

// EngineOpts contains tuning knobs for a VideoEngine.
type EngineOpts struct {
	BatchSize         int           // Video IDs per metadata call, capped at the API limit
	TranscriptWorkers int           // Concurrent transcript fetches
	TranscriptRate    float64       // Transcript requests per second
	CallTimeout       time.Duration // Deadline for each outbound call
}

// ChannelOpts configures a channel export.
type ChannelOpts struct {
	IncludeTranscripts bool
	MaxVideos          int // 0 means no limit
}

// EngineOptsFromConfig maps the application config onto engine options.
func EngineOptsFromConfig(cfg *shared.Config) EngineOpts {
	return EngineOpts{
		BatchSize:         cfg.YouTube.BatchSize,
		TranscriptWorkers: cfg.Transcripts.Workers,
		TranscriptRate:    cfg.Transcripts.RateLimit,
		CallTimeout:       time.Duration(cfg.Transcripts.TimeoutSeconds) * time.Second,
	}
}

// VideoEngine implements ResolveEngine against the YouTube services.
type VideoEngine struct {
	metadata    services.MetadataService
	transcripts services.TranscriptService
	channels    services.ChannelService
	opts        EngineOpts
}

// NewVideoEngine creates a VideoEngine with the provided services, applying
// defaults for zero-valued options.
func NewVideoEngine(metadata services.MetadataService, transcripts services.TranscriptService, channels services.ChannelService, opts EngineOpts) *VideoEngine {
	if opts.BatchSize <= 0 || opts.BatchSize > services.MaxBatchSize {
		opts.BatchSize = services.MaxBatchSize
	}
	if opts.TranscriptWorkers <= 0 {
		opts.TranscriptWorkers = 4
	}
	if opts.TranscriptWorkers > 10 {
		opts.TranscriptWorkers = 10
	}
	if opts.TranscriptRate <= 0 {
		opts.TranscriptRate = 2.0
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 15 * time.Second
	}

	return &VideoEngine{
		metadata:    metadata,
		transcripts: transcripts,
		channels:    channels,
		opts:        opts,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *VideoEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Resolve normalizes the inputs and resolves every resulting video ID.
func (e *VideoEngine) Resolve(ctx context.Context, progress chan<- ProgressUpdate, inputs []string) (*models.ResolutionResult, error) {
	if e.metadata == nil || e.transcripts == nil {
		return nil, fmt.Errorf("%w: YouTube services not initialized", shared.ErrServiceUnavailable)
	}

	nonEmpty := 0
	for _, input := range inputs {
		if strings.TrimSpace(input) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, shared.ErrEmptyInput
	}

	ids, errs := NormalizeInputs(inputs)
	e.sendProgress(progress, normalizeUpdate(len(ids), len(errs)))

	result := &models.ResolutionResult{
		Items:  []models.ResolvedItem{},
		Errors: errs,
	}
	if len(ids) == 0 {
		return result, nil
	}

	return e.resolveIDs(ctx, progress, ids, result, true)
}

// resolveIDs fans out metadata and transcript retrieval over a normalized ID
// list and merges the outcomes into result in input order.
//
// The two fetch paths run concurrently and each worker writes only to its
// own keyed slot, so the merge below is a pure read over settled outcomes.
func (e *VideoEngine) resolveIDs(ctx context.Context, progress chan<- ProgressUpdate, ids []string, result *models.ResolutionResult, withTranscripts bool) (*models.ResolutionResult, error) {
	var (
		wg       sync.WaitGroup
		meta     map[string]models.VideoMetadata
		metaErrs map[string]models.ResolutionError
		trans    map[string]transcriptOutcome
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		meta, metaErrs = e.fetchMetadata(ctx, progress, ids)
	}()

	if withTranscripts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trans = e.fetchTranscripts(ctx, progress, ids)
		}()
	}

	wg.Wait()

	// All outcomes have settled or been abandoned; a cancelled request
	// yields a clean error instead of a partially merged result.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if resErr, ok := metaErrs[id]; ok {
			result.Errors = append(result.Errors, resErr)
			continue
		}

		md, ok := meta[id]
		if !ok {
			result.Errors = append(result.Errors, metadataNotFoundError(id))
			continue
		}

		item := models.ResolvedItem{VideoMetadata: md}
		if withTranscripts {
			if out := trans[id]; out.err != nil {
				// Tagged with the error kind so callers can retry by stage.
				item.TranscriptError = fmt.Sprintf("%s: %v", models.KindTranscriptFetch, out.err)
			} else if out.available {
				text := out.text
				item.Transcript = &text
			}
		}
		result.Items = append(result.Items, item)
	}

	e.sendProgress(progress, mergeUpdate(len(result.Items), len(result.Errors)))
	return result, nil
}

func metadataNotFoundError(id string) models.ResolutionError {
	return models.ResolutionError{
		Ref:     id,
		Kind:    models.KindMetadataNotFound,
		Message: "video not found or metadata unavailable",
	}
}
