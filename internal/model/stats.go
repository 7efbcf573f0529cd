package model

import "sort"

// Stats is derived from the reply log on every request and never stored.
type Stats struct {
	Total int            `json:"total"`
	ByTag map[string]int `json:"by_tag"`
	ByDay map[string]int `json:"by_day"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TopTags orders tags by count, highest first, ties broken by name.
func (s *Stats) TopTags() []TagCount {
	out := make([]TagCount, 0, len(s.ByTag))
	for tag, n := range s.ByTag {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// Days orders the per-day counts chronologically.
func (s *Stats) Days() []DayCount {
	out := make([]DayCount, 0, len(s.ByDay))
	for day, n := range s.ByDay {
		out = append(out, DayCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
