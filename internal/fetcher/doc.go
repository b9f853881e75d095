// Package fetcher reads posts from the remote source and turns the outcome
// into store signals.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with timeout and size limits
//   - [Decoder]: JSONPath selection and JSON Schema validation of the body
//   - [Fetcher]: one GET against the configured source, returning posts or an error
//   - [Load]: the Requested / Succeeded / Failed lifecycle of a single fetch
//   - [Loader]: runs loads one at a time for schedules and manual refreshes
package fetcher
