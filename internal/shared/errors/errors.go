package errors

import "errors"

var (
	ErrMissingAPIKey        = errors.New("YOUTUBE_API_KEY environment variable is required")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrStateNotFound        = errors.New("persisted state not found")
	ErrUnsupportedStorage   = errors.New("unsupported storage driver")
	ErrBatchTooLarge        = errors.New("batch exceeds upstream per-call limit")
	ErrNoDispatchTargets    = errors.New("no notification targets configured")
	ErrInvalidRoster        = errors.New("invalid channel roster")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)
