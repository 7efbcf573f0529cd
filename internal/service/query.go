package service

import (
	"strings"
	"time"
)

const queryDateLayout = "2006/01/02"

// BuildMailQuery builds a Gmail search query. Without includeArchived only
// the primary inbox is searched. Either bound may be zero; end is inclusive,
// so "before:" is the day after it.
func BuildMailQuery(includeArchived bool, start, end time.Time) string {
	parts := []string{"in:inbox category:primary"}
	if includeArchived {
		parts = []string{"in:anywhere"}
	}

	if !start.IsZero() {
		parts = append(parts, "after:"+start.Format(queryDateLayout))
	}
	if !end.IsZero() {
		parts = append(parts, "before:"+end.AddDate(0, 0, 1).Format(queryDateLayout))
	}

	return strings.Join(parts, " ")
}
