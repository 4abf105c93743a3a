// Package models defines the data model for the ytscribe resolution service.
//
// The package contains two categories of types:
//
// 1. Response records produced by one resolution request:
//   - [VideoMetadata] : Title, description, channel, thumbnails, duration, publish time
//   - [ResolvedItem] : Metadata plus the transcript outcome for one video
//   - [ResolutionError] : A typed per-input failure, keyed by the offending reference
//   - [ResolutionResult] : The items/errors partition returned to the caller
//   - [ChannelExport] : A ResolutionResult wrapped with channel identity and counts
//
// 2. Request shapes consumed by the CLI and HTTP layers:
//   - [DetailsRequest] : Explicit URL/ID lists
//   - [ChannelExportRequest] : A channel reference with export options
//
// Every value is created fresh per request and discarded with the response;
// nothing here is persisted or cached across requests.
package models
