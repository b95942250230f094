package config

import "time"

// Render Pipeline Constants
const (
	// DefaultMaxConcurrentRenders limits the number of render jobs running simultaneously
	DefaultMaxConcurrentRenders = 3

	// FetchChunkSize is the buffer size used when streaming remote media to disk
	FetchChunkSize = 1024 * 1024

	// DefaultFetchAttempts is the retry budget for each clip/narration download
	DefaultFetchAttempts = 3

	// DefaultPublishAttempts is the retry budget for the object-store upload
	DefaultPublishAttempts = 3

	// DefaultNotifyAttempts keeps webhook delivery fire-and-forget by default
	DefaultNotifyAttempts = 1

	// DefaultRetryBaseDelay is the first backoff step; it doubles per attempt
	DefaultRetryBaseDelay = 500 * time.Millisecond
)

// Encode Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// OutputExtension is the container extension of the rendered artifact
	OutputExtension = ".mp4"

	// OutputContentType is the MIME type set on published artifacts
	OutputContentType = "video/mp4"
)

// Storage Constants
const (
	// RenderKeyPrefix is the object-store namespace for published renders
	RenderKeyPrefix = "renders/"

	// JobRecordTTL bounds how long Redis-backed job records are kept
	JobRecordTTL = 24 * time.Hour
)
