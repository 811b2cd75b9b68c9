// Package api provides a row source that fetches sales rows from an HTTP
// backend.
//
// The endpoint returns either a JSON array of rows or an object wrapping
// the array under "data". Requests are throttled with a token bucket,
// authenticated with an optional bearer token, and retried with backoff
// on 429 and 5xx responses.
package api
