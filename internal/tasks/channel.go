package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
)

// ResolveChannel enumerates every video of a channel and runs the enumerated
// IDs through the same pipeline Resolve uses.
//
// An enumeration failure partway through does not discard what was already
// collected: the collected IDs are resolved normally and the failure is
// reported as a channel-enumeration-failed entry keyed by the channel ID.
func (e *VideoEngine) ResolveChannel(ctx context.Context, progress chan<- ProgressUpdate, channel string, opts ChannelOpts) (*models.ChannelExport, error) {
	if e.channels == nil {
		return nil, fmt.Errorf("%w: channel service not initialized", shared.ErrServiceUnavailable)
	}

	ref, ok := ExtractChannelRef(channel)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized channel reference %q", shared.ErrChannelNotFound, channel)
	}

	resolveCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	info, err := e.channels.ResolveChannel(resolveCtx, ref)
	cancel()
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, channelResolvedUpdate(info))

	ids, enumErr := e.enumerateChannel(ctx, progress, info.ID, opts.MaxVideos)
	if enumErr != nil && len(ids) == 0 {
		return nil, fmt.Errorf("channel enumeration failed: %w", enumErr)
	}

	result := &models.ResolutionResult{
		Items:  []models.ResolvedItem{},
		Errors: []models.ResolutionError{},
	}
	if enumErr != nil {
		result.Errors = append(result.Errors, models.ResolutionError{
			Ref:     info.ID,
			Kind:    models.KindChannelEnumeration,
			Message: fmt.Sprintf("enumeration stopped after %d video(s): %v", len(ids), enumErr),
		})
	}

	if len(ids) > 0 {
		if result, err = e.resolveIDs(ctx, progress, ids, result, opts.IncludeTranscripts); err != nil {
			return nil, err
		}
	}

	return &models.ChannelExport{
		ChannelID:       info.ID,
		ChannelTitle:    info.Title,
		TotalVideos:     len(ids),
		ProcessedVideos: len(result.Items),
		Data:            *result,
	}, nil
}

// enumerateChannel follows pagination tokens until the listing is exhausted
// or max videos have been collected.
//
// On failure the IDs collected so far are returned alongside the error so
// the caller can decide whether partial results are useful.
func (e *VideoEngine) enumerateChannel(ctx context.Context, progress chan<- ProgressUpdate, channelID string, max int) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	token := ""
	page := 0

	for {
		if err := ctx.Err(); err != nil {
			return ids, err
		}

		callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
		p, err := e.channels.ChannelPage(callCtx, channelID, token)
		cancel()
		if err != nil {
			return ids, err
		}

		page++
		for _, id := range p.VideoIDs {
			// search.list occasionally repeats a video across page boundaries.
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
			if max > 0 && len(ids) >= max {
				return ids, nil
			}
		}
		e.sendProgress(progress, enumerateUpdate(page, len(ids)))

		if p.NextPageToken == "" {
			return ids, nil
		}
		token = p.NextPageToken
	}
}
