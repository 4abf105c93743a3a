package models

// ErrorKind classifies a per-input resolution failure.
type ErrorKind string

const (
	KindInvalidReference   ErrorKind = "invalid-reference"
	KindMetadataNotFound   ErrorKind = "metadata-not-found"
	KindMetadataFetch      ErrorKind = "metadata-fetch-failed"
	KindTranscriptFetch    ErrorKind = "transcript-fetch-failed"
	KindChannelNotFound    ErrorKind = "channel-not-found"
	KindChannelEnumeration ErrorKind = "channel-enumeration-failed"
)

// VideoMetadata holds the Data API fields for a single video.
//
// Thumbnail keys are among default, medium, high, and maxres; labels the
// service did not return are absent from the map. Duration is the raw
// ISO-8601 string (e.g. PT1H2M10S) as returned by the API.
type VideoMetadata struct {
	ID           string            `json:"id"`
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	ChannelTitle string            `json:"channel_title"`
	PublishedAt  string            `json:"published_at"`
	Duration     string            `json:"duration"`
	Thumbnails   map[string]string `json:"thumbnails"`
}

// ResolvedItem is one successfully resolved video: metadata plus the
// transcript outcome.
//
// Transcript is nil both when the video has no captions and when the
// transcript fetch failed; TranscriptError distinguishes the two. An item
// only exists when metadata was retrieved - metadata is mandatory,
// transcripts are best-effort.
type ResolvedItem struct {
	VideoMetadata
	Transcript      *string `json:"transcript"`
	TranscriptError string  `json:"transcript_error,omitempty"`
}

// ResolutionError is a per-input failure keyed by the original reference
// (or the video ID, once one was extracted).
type ResolutionError struct {
	Ref     string    `json:"id_or_url"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ResolutionResult is the unit returned to the caller.
//
// Every distinct normalized video ID from the input appears in exactly one
// of Items or Errors, never both, never omitted. Items preserve the
// caller's deduplicated input order.
type ResolutionResult struct {
	Items  []ResolvedItem    `json:"items"`
	Errors []ResolutionError `json:"errors"`
}

// ChannelExport wraps a ResolutionResult with the identity of the channel
// it was enumerated from.
type ChannelExport struct {
	ChannelID       string           `json:"channel_id"`
	ChannelTitle    string           `json:"channel_title"`
	TotalVideos     int              `json:"total_videos"`
	ProcessedVideos int              `json:"processed_videos"`
	Data            ResolutionResult `json:"data"`
}

// DetailsRequest is the pipeline entry shape for explicit video references.
type DetailsRequest struct {
	URLs []string `json:"urls"`
	IDs  []string `json:"ids"`
}

// Inputs flattens the request into a single ordered reference list.
func (r DetailsRequest) Inputs() []string {
	inputs := make([]string, 0, len(r.URLs)+len(r.IDs))
	inputs = append(inputs, r.URLs...)
	inputs = append(inputs, r.IDs...)
	return inputs
}

// ChannelExportRequest asks for every video of a channel to be resolved.
type ChannelExportRequest struct {
	Channel            string `json:"channel"`
	IncludeTranscripts bool   `json:"include_transcripts"`
	MaxVideos          int    `json:"max_videos,omitempty"`
}

// Job lifecycle states for asynchronous bulk/channel requests.
const (
	JobRunning    = "running"
	JobCompleted  = "completed"
	JobCancelling = "cancelling"
	JobCancelled  = "cancelled"
	JobError      = "error"
)

// JobStatus reports progress of an asynchronous resolution job.
//
// Kind classifies a failed job with the same taxonomy as per-input errors;
// it is empty unless Status is error.
type JobStatus struct {
	JobID   string    `json:"job_id"`
	Status  string    `json:"status"`
	Current int       `json:"current"`
	Total   int       `json:"total"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Result  any       `json:"result,omitempty"`
}
