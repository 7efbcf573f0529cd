// Package analytics derives reply statistics from the persisted reply log.
package analytics

import "mailbrief/internal/model"

const dayLayout = "2006-01-02"

// Compute counts records in total, per tag and per calendar day. A record
// with several tags counts once for each of them. When no record carries
// tags at all, every record is counted under model.TagUnclassified. Records
// without a timestamp count towards the total but belong to no day.
func Compute(records []model.ReplyLogRecord) model.Stats {
	stats := model.Stats{
		Total: len(records),
		ByTag: make(map[string]int),
		ByDay: make(map[string]int),
	}

	tagged := false
	for _, r := range records {
		if r.Tags != nil {
			tagged = true
			break
		}
	}

	for _, r := range records {
		if !r.Timestamp.IsZero() {
			stats.ByDay[r.Timestamp.Format(dayLayout)]++
		}

		if !tagged {
			stats.ByTag[model.TagUnclassified]++
			continue
		}
		for _, tag := range r.Tags {
			if tag == "" {
				continue
			}
			stats.ByTag[tag]++
		}
	}

	return stats
}
