// timedtext [TranscriptService] implementation
//
// The caption endpoint has no official client, so this is a plain HTTP
// client. It is also the flaky half of the system: unauthenticated, heavily
// throttled, and prone to blocking cloud egress IPs, which is why callers
// pace requests through it.
package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/ytscribe/internal/shared"
)

const defaultTimedTextBaseURL = "https://video.google.com"

// timedTextTrack is one entry of the caption track listing.
type timedTextTrack struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	LangCode string `xml:"lang_code,attr"`
	Kind     string `xml:"kind,attr"` // "asr" marks auto-generated tracks
}

type timedTextTrackList struct {
	XMLName xml.Name         `xml:"transcript_list"`
	Tracks  []timedTextTrack `xml:"track"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

type timedTextBody struct {
	XMLName xml.Name        `xml:"transcript"`
	Lines   []timedTextLine `xml:"text"`
}

// TimedTextService implements [TranscriptService] against the timedtext
// caption endpoint.
type TimedTextService struct {
	baseURL    string
	languages  []string
	httpClient *http.Client
}

// NewTimedTextService creates a transcript client.
//
// languages are preferred track language codes in priority order; when none
// match, the first available track is used (auto-generated tracks included).
func NewTimedTextService(baseURL string, languages []string, client *http.Client) *TimedTextService {
	if baseURL == "" {
		baseURL = defaultTimedTextBaseURL
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TimedTextService{
		baseURL:    baseURL,
		languages:  languages,
		httpClient: client,
	}
}

// Fetch retrieves the transcript for one video.
//
// A video with no caption tracks is a legitimate outcome, reported as
// Available=false with a nil error. Errors are reserved for transport and
// status failures.
func (t *TimedTextService) Fetch(ctx context.Context, videoID string) (*TranscriptResult, error) {
	tracks, err := t.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return &TranscriptResult{Available: false}, nil
	}

	track := t.pickTrack(tracks)
	text, err := t.fetchTrack(ctx, videoID, track)
	if err != nil {
		return nil, err
	}
	if text == "" {
		// A listed track with an empty body behaves like no captions.
		return &TranscriptResult{Available: false}, nil
	}

	return &TranscriptResult{
		Text:      text,
		Available: true,
		Language:  track.LangCode,
	}, nil
}

// listTracks fetches the caption track listing for a video.
//
// An empty response body means the video has no captions at all; the
// endpoint answers 200 either way.
func (t *TimedTextService) listTracks(ctx context.Context, videoID string) ([]timedTextTrack, error) {
	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", videoID)

	body, err := t.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var list timedTextTrackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: failed to parse track list: %v", shared.ErrAPIRequest, err)
	}

	return list.Tracks, nil
}

// pickTrack selects a track by preferred language, manual tracks winning
// over auto-generated ones within the same language.
func (t *TimedTextService) pickTrack(tracks []timedTextTrack) timedTextTrack {
	for _, lang := range t.languages {
		for _, track := range tracks {
			if track.LangCode == lang && track.Kind != "asr" {
				return track
			}
		}
		for _, track := range tracks {
			if track.LangCode == lang {
				return track
			}
		}
	}
	return tracks[0]
}

// fetchTrack downloads one caption track and flattens it to plain text.
func (t *TimedTextService) fetchTrack(ctx context.Context, videoID string, track timedTextTrack) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", track.LangCode)
	if track.Name != "" {
		params.Set("name", track.Name)
	}
	if track.Kind != "" {
		params.Set("kind", track.Kind)
	}

	body, err := t.get(ctx, params)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}

	var transcript timedTextBody
	if err := xml.Unmarshal(body, &transcript); err != nil {
		return "", fmt.Errorf("%w: failed to parse transcript: %v", shared.ErrAPIRequest, err)
	}

	return flattenLines(transcript.Lines), nil
}

func (t *TimedTextService) get(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/timedtext?%s", t.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: timedtext status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// flattenLines joins caption lines into a single line of plain text,
// unescaping entities and collapsing whitespace.
func flattenLines(lines []timedTextLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		text := strings.Join(strings.Fields(html.UnescapeString(line.Text)), " ")
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
