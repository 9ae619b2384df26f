package constants

const (
	MAX_QUERY_LENGTH        = 64
	DEFAULT_SYNC_RUNS_LIMIT = 10
	MAX_SYNC_RUNS_LIMIT     = 50
)
