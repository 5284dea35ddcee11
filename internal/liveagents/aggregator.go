package liveagents

import (
	"strconv"
	"strings"
	"time"

	"github.com/valory-xyz/olas-predict/pkg/types"
)

// WindowDays is the size of the trailing window averaged over.
const WindowDays = 7

const dayKeyLayout = "2006-01-02"

// MidnightUTC truncates t to the start of its UTC calendar day.
func MidnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the UTC calendar day (YYYY-MM-DD) containing the UNIX timestamp.
func DayKey(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(dayKeyLayout)
}

// WindowKeys returns the WindowDays day keys ending the day before windowEnd, oldest first.
func WindowKeys(windowEnd time.Time) []string {
	end := MidnightUTC(windowEnd)

	keys := make([]string, WindowDays)
	for i := 0; i < WindowDays; i++ {
		keys[i] = end.AddDate(0, 0, i-WindowDays).Format(dayKeyLayout)
	}
	return keys
}

// QueryRange returns the exclusive timestamp bounds covering the window ending at now:
// gt is midnight UTC WindowDays+1 days ago, lt is midnight UTC today.
func QueryRange(now time.Time) (gt int64, lt int64) {
	end := MidnightUTC(now)
	return end.AddDate(0, 0, -(WindowDays + 1)).Unix(), end.Unix()
}

// Average sums rows per UTC day and returns the floored mean over the WindowDays
// days strictly before windowEnd's day. Missing days count as zero and the
// denominator is always WindowDays.
func Average(rows []types.DailyActivity, windowEnd time.Time) int {
	totals := make(map[string]int64, WindowDays)
	for _, row := range rows {
		if row.ActiveCount == nil {
			continue
		}
		totals[DayKey(row.DayTimestamp)] += *row.ActiveCount
	}

	var sum int64
	for _, key := range WindowKeys(windowEnd) {
		sum += totals[key]
	}

	return int(sum / WindowDays)
}

// ParseRows converts subgraph rows into activity records.
// A null count is kept as nil; a malformed timestamp or count fails the whole set.
func ParseRows(rows []types.DailyAgentPerformance) ([]types.DailyActivity, error) {
	out := make([]types.DailyActivity, 0, len(rows))
	for _, row := range rows {
		ts, err := strconv.ParseInt(strings.TrimSpace(row.DayTimestamp), 10, 64)
		if err != nil {
			return nil, &types.DataIntegrityError{Field: "dayTimestamp", Value: row.DayTimestamp, Reason: "not an integer"}
		}

		activity := types.DailyActivity{DayTimestamp: ts}
		if row.ActiveMultisigCount != nil {
			raw := *row.ActiveMultisigCount
			count, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, &types.DataIntegrityError{Field: "activeMultisigCount", Value: raw, Reason: "not an integer"}
			}
			if count < 0 {
				return nil, &types.DataIntegrityError{Field: "activeMultisigCount", Value: raw, Reason: "negative count"}
			}
			activity.ActiveCount = &count
		}

		out = append(out, activity)
	}

	return out, nil
}
