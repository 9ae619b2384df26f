package domain

import "errors"

var (
	// ErrDirectoryUnavailable is returned when the external contact directory cannot serve a delta query.
	// The pass is aborted without advancing the watermark and may be retried.
	ErrDirectoryUnavailable = errors.New("contact directory unavailable")

	// ErrSyncInProgress is returned when a sync pass is requested while another one is running
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrSchemaMismatch is reported when the persisted schema version differs from the supported one
	ErrSchemaMismatch = errors.New("index schema version mismatch")
)
