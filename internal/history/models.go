package history

import (
	"time"
)

// Record describes one attempt to switch the active environment.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Switch target
	Environment string `json:"environment"`
	Previous    string `json:"previous,omitempty"`
	EntryCount  int    `json:"entry_count"`

	// Hosts file
	HostsPath  string `json:"hosts_path"`
	BackupPath string `json:"backup_path,omitempty"`

	// Outcome
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// QueryOptions specifies filters and pagination for history queries.
type QueryOptions struct {
	// Filters
	Environment string    // Filter by target environment
	FailedOnly  bool      // Only failed switches
	After       time.Time // Only records after this time
	Before      time.Time // Only records before this time

	// Pagination
	Limit  int // Maximum number of results (0 = no limit)
	Offset int // Number of results to skip
}

// PruneOptions specifies criteria for pruning old history records.
// The first non-zero criterion wins, in field order.
type PruneOptions struct {
	OlderThan time.Duration // Delete records older than this duration
	KeepLast  int           // Keep only the last N records
	Before    time.Time     // Delete records before this time
}

// PruneResult contains the result of a prune operation.
type PruneResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
