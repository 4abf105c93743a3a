// package services defines interfaces for the external YouTube surfaces
//
// Data API v3 (metadata, channels) and the timedtext transcript endpoint
package services

import (
	"context"

	"github.com/desertthunder/ytscribe/internal/models"
)

// MetadataService retrieves video metadata from the YouTube Data API.
type MetadataService interface {
	// ListVideos fetches metadata for up to the API's per-call ID limit
	// (50). IDs the service does not know are simply absent from the
	// returned map; a non-nil error means the whole call failed in
	// transport and nothing was retrieved.
	ListVideos(ctx context.Context, videoIDs []string) (map[string]models.VideoMetadata, error)
}

// TranscriptService retrieves caption text for a single video.
type TranscriptService interface {
	// Fetch returns the transcript outcome for one video. A video with no
	// caption tracks yields Available=false with a nil error; an error is
	// returned only for transport or service failures.
	Fetch(ctx context.Context, videoID string) (*TranscriptResult, error)
}

// ChannelService resolves channel references and lists channel videos.
type ChannelService interface {
	// ResolveChannel turns a normalized channel reference (UC... ID,
	// @handle, or c/<name> custom path) into a concrete channel.
	// Returns [shared.ErrChannelNotFound] when nothing matches.
	ResolveChannel(ctx context.Context, ref string) (*ChannelInfo, error)

	// ChannelPage fetches one page of the channel's videos, newest first.
	// An empty pageToken requests the first page; an empty NextPageToken
	// in the response means the listing is exhausted.
	ChannelPage(ctx context.Context, channelID, pageToken string) (*ChannelPage, error)
}

// TranscriptResult is the outcome of a transcript fetch.
type TranscriptResult struct {
	Text      string // Plain text, whitespace collapsed
	Available bool   // False when the video has no caption tracks
	Language  string // Language code of the track that was used
}

// ChannelInfo identifies a resolved channel.
type ChannelInfo struct {
	ID    string
	Title string
}

// ChannelPage is one page of a channel's video listing.
type ChannelPage struct {
	VideoIDs      []string
	NextPageToken string
}
