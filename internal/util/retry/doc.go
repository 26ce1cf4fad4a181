// Package retry retries transient failures with exponential backoff.
//
// [Do] is used for the discovery services and for the initial database
// connection. Errors wrapped with [Fatal] stop retrying immediately.
package retry
