// Package errors provides string codes for error instantiation.

package errors

const (
	SessionError           = "failed to create S3 session"
	TranscriptEncodeError  = "failed to encode transcript"
	TranscriptUploadError  = "failed to upload transcript"
	TranscriptListingError = "failed to list transcripts"
)
