package types

import "time"

// DailyAgentPerformance is one row of the registry subgraph's daily performance query.
// The subgraph may return several rows (one per agent) for the same day.
type DailyAgentPerformance struct {
	DayTimestamp        string  `json:"dayTimestamp"`
	ActiveMultisigCount *string `json:"activeMultisigCount"`
}

// DailyActivity is a parsed DailyAgentPerformance row.
type DailyActivity struct {
	DayTimestamp int64  // UNIX seconds, start of a UTC day
	ActiveCount  *int64 // nil is treated as zero
}

// LiveAgentsSample records one refresh of the 7-day live agents average.
type LiveAgentsSample struct {
	ID          string
	Status      Status
	Average     int
	WindowStart time.Time
	WindowEnd   time.Time
	Error       string
	RecordedAt  time.Time
}

// WarmRun records one achievement page prerender run.
type WarmRun struct {
	ID        string
	Agent     string
	Type      string
	Success   int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
}
