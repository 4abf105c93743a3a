// YouTube Data API v3 [MetadataService] and [ChannelService] implementation
//
// Uses the official client. All quota-bearing calls go through here: one
// videos.list unit per metadata batch, channels.list/search.list for channel
// resolution and enumeration.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// MaxBatchSize is the Data API's hard limit on IDs per videos.list call.
const MaxBatchSize = 50

// YouTubeService implements [MetadataService] and [ChannelService] against
// the YouTube Data API v3.
type YouTubeService struct {
	yt       *youtube.Service
	pageSize int64
}

// NewYouTubeService creates a Data API client authenticated with an API key.
//
// Extra options (custom endpoints, HTTP clients) are appended after the key,
// which lets tests point the client at an httptest server.
func NewYouTubeService(ctx context.Context, apiKey string, pageSize int, opts ...option.ClientOption) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, shared.ErrMissingAPIKey
	}
	if pageSize <= 0 || pageSize > MaxBatchSize {
		pageSize = MaxBatchSize
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	yt, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	return &YouTubeService{yt: yt, pageSize: int64(pageSize)}, nil
}

// ListVideos fetches snippet and contentDetails for up to [MaxBatchSize] IDs
// in a single videos.list call.
func (y *YouTubeService) ListVideos(ctx context.Context, videoIDs []string) (map[string]models.VideoMetadata, error) {
	if len(videoIDs) == 0 {
		return map[string]models.VideoMetadata{}, nil
	}
	if len(videoIDs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d IDs exceeds videos.list limit of %d", shared.ErrInvalidInput, len(videoIDs), MaxBatchSize)
	}

	resp, err := y.yt.Videos.
		List([]string{"snippet", "contentDetails"}).
		Id(videoIDs...).
		MaxResults(int64(len(videoIDs))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: videos.list: %v", shared.ErrAPIRequest, err)
	}

	results := make(map[string]models.VideoMetadata, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}

		md := models.VideoMetadata{
			ID:           item.Id,
			URL:          shared.WatchURL(item.Id),
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Thumbnails:   thumbnailMap(item.Snippet.Thumbnails),
		}
		if item.ContentDetails != nil {
			md.Duration = item.ContentDetails.Duration
		}

		results[item.Id] = md
	}

	return results, nil
}

// ResolveChannel resolves a normalized channel reference into a channel ID
// and title.
//
// Bare UC... IDs are verified via channels.list. Handles (@name) and custom
// paths (c/<name>, user/<name>) first try channels.list lookups and then fall
// back to a channel search, mirroring how the watch site resolves vanity URLs.
func (y *YouTubeService) ResolveChannel(ctx context.Context, ref string) (*ChannelInfo, error) {
	call := y.yt.Channels.List([]string{"id", "snippet"}).MaxResults(1).Context(ctx)

	var query string
	switch {
	case strings.HasPrefix(ref, "UC") && len(ref) == 24:
		call = call.Id(ref)
	case strings.HasPrefix(ref, "@"):
		query = strings.TrimPrefix(ref, "@")
		call = call.ForHandle(ref)
	case strings.HasPrefix(ref, "c/"):
		query = strings.TrimPrefix(ref, "c/")
		call = call.ForUsername(query)
	case strings.HasPrefix(ref, "user/"):
		query = strings.TrimPrefix(ref, "user/")
		call = call.ForUsername(query)
	default:
		return nil, fmt.Errorf("%w: unrecognized channel reference %q", shared.ErrChannelNotFound, ref)
	}

	resp, err := call.Do()
	if err == nil && len(resp.Items) > 0 {
		return channelInfo(resp.Items[0]), nil
	}
	if err != nil && query == "" {
		// Direct ID lookup failed in transport; there is no fallback.
		return nil, fmt.Errorf("%w: channels.list: %v", shared.ErrAPIRequest, err)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: no channel with ID %s", shared.ErrChannelNotFound, ref)
	}

	return y.searchChannel(ctx, query)
}

// searchChannel is the last-resort lookup for vanity names the channels.list
// filters do not know.
func (y *YouTubeService) searchChannel(ctx context.Context, name string) (*ChannelInfo, error) {
	resp, err := y.yt.Search.
		List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: search.list: %v", shared.ErrAPIRequest, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.ChannelId == "" {
		return nil, fmt.Errorf("%w: no channel matching %q", shared.ErrChannelNotFound, name)
	}

	info := &ChannelInfo{ID: resp.Items[0].Id.ChannelId}
	if resp.Items[0].Snippet != nil {
		info.Title = resp.Items[0].Snippet.Title
	}
	return info, nil
}

// ChannelPage fetches one page of the channel's uploads, newest first.
func (y *YouTubeService) ChannelPage(ctx context.Context, channelID, pageToken string) (*ChannelPage, error) {
	call := y.yt.Search.
		List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(y.pageSize).
		Context(ctx)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: search.list: %v", shared.ErrAPIRequest, err)
	}

	page := &ChannelPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			page.VideoIDs = append(page.VideoIDs, item.Id.VideoId)
		}
	}

	return page, nil
}

func channelInfo(ch *youtube.Channel) *ChannelInfo {
	info := &ChannelInfo{ID: ch.Id}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
	}
	return info
}

func thumbnailMap(details *youtube.ThumbnailDetails) map[string]string {
	thumbs := map[string]string{}
	if details == nil {
		return thumbs
	}

	for label, thumb := range map[string]*youtube.Thumbnail{
		"default": details.Default,
		"medium":  details.Medium,
		"high":    details.High,
		"maxres":  details.Maxres,
	} {
		if thumb != nil && thumb.Url != "" {
			thumbs[label] = thumb.Url
		}
	}

	return thumbs
}
