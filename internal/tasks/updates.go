package tasks

import (
	"fmt"

	"github.com/desertthunder/ytscribe/internal/services"
)

// ProgressUpdate represents a progress event during a resolution run.
//
// Used to send real-time updates to the CLI, TUI, or job store for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	Normalize Phase = iota
	ResolveChannelRef
	EnumerateChannel
	FetchMetadata
	FetchTranscripts
	MergeResults
)

func (p Phase) String() string {
	switch p {
	case Normalize:
		return "normalize"
	case ResolveChannelRef:
		return "resolve_channel"
	case EnumerateChannel:
		return "enumerate_channel"
	case FetchMetadata:
		return "fetch_metadata"
	case FetchTranscripts:
		return "fetch_transcripts"
	case MergeResults:
		return "merge_results"
	default:
		return ""
	}
}

func normalizeUpdate(valid, invalid int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Normalize,
		Step:    valid,
		Total:   valid + invalid,
		Message: fmt.Sprintf("Normalized input: %d video ID(s), %d invalid reference(s)", valid, invalid),
	}
}

func channelResolvedUpdate(info *services.ChannelInfo) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveChannelRef,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved channel: %s (ID: %s)", info.Title, info.ID),
		Data:    info,
	}
}

func enumerateUpdate(page, collected int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnumerateChannel,
		Step:    page,
		Message: fmt.Sprintf("Listing channel videos: page %d, %d collected", page, collected),
	}
}

func metadataUpdate(chunk, chunks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    chunk,
		Total:   chunks,
		Message: fmt.Sprintf("Fetching metadata: batch %d/%d", chunk, chunks),
	}
}

func transcriptUpdate(done, total int, videoID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTranscripts,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("Fetching transcripts: %d/%d (%s)", done, total, videoID),
	}
}

func mergeUpdate(items, errors int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeResults,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved %d video(s), %d error(s)", items, errors),
	}
}
