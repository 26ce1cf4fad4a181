// Package s3 provides a small client for S3-compatible object storage.
//
// baystack keeps Heat template documents in a bucket when the s3 template
// source is configured. The client reads, lists and uploads objects and
// classifies missing keys and buckets with [IsNotFound].
package s3
