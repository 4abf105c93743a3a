// Package server provides HTTP routing, middleware, and the resolution API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Resolution API
//
// [APIHandler] exposes the resolution pipeline over HTTP:
//
//   - POST /youtube/details resolves a list of video URLs or IDs synchronously
//   - POST /youtube/details/bulk accepts a file upload (plain text, CSV, or a JSON array) and starts a background job
//   - POST /youtube/channel/export enumerates a channel and starts a background job
//   - GET /health reports liveness
//
// # Jobs
//
// Bulk and channel requests run asynchronously. The [JobStore] keeps each job's
// progress in memory for the lifetime of the process; [JobsHandler] serves
// status, cancellation, and completed-result download under /jobs/.
//
// Nothing is persisted. A restart forgets all jobs.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
