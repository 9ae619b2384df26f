package domain

import "time"

const (
	// Query constants
	MAX_RESULTS = 20

	// Sync constants
	MAX_LOOKUP_KEY_LENGTH = 1000
	DEFAULT_BATCH_SIZE    = 500

	// Ranking recency windows
	RECENCY_CURRENT_WINDOW = 3 * 24 * time.Hour
	RECENCY_RECENT_WINDOW  = 30 * 24 * time.Hour

	// Messaging constants
	INDEX_CHANGED_SUBJECT = "smartdial.index.changed"
)
