package domain

import "sort"

// Tally is the count and spend of one side of the action log.
type Tally struct {
	Count int64
	Spent float64
}

// DayTally is a Tally bucketed by virtual day.
type DayTally struct {
	Day int
	Tally
}

// StatsScope selects the action rows being aggregated. Exactly one of the
// fields is set.
type StatsScope struct {
	CampaignID   string
	AdvertiserID string
}

type Stats struct {
	ImpressionsCount int64
	ClicksCount      int64
	Conversion       float64
	SpentImpressions float64
	SpentClicks      float64
	SpentTotal       float64
}

type DailyStats struct {
	Day int
	Stats
}

func NewStats(imps, clicks Tally) Stats {
	s := Stats{
		ImpressionsCount: imps.Count,
		ClicksCount:      clicks.Count,
		SpentImpressions: imps.Spent,
		SpentClicks:      clicks.Spent,
		SpentTotal:       imps.Spent + clicks.Spent,
	}
	if imps.Count > 0 {
		s.Conversion = float64(clicks.Count) / float64(imps.Count)
	}
	return s
}

// MergeDaily joins impression and click buckets by day. A day present on only
// one side gets a zero tally on the other. Output is sorted by day.
func MergeDaily(imps, clicks []DayTally) []DailyStats {
	type pair struct{ imps, clicks Tally }
	byDay := make(map[int]*pair, len(imps)+len(clicks))
	get := func(day int) *pair {
		p, ok := byDay[day]
		if !ok {
			p = &pair{}
			byDay[day] = p
		}
		return p
	}
	for _, t := range imps {
		p := get(t.Day)
		p.imps.Count += t.Count
		p.imps.Spent += t.Spent
	}
	for _, t := range clicks {
		p := get(t.Day)
		p.clicks.Count += t.Count
		p.clicks.Spent += t.Spent
	}

	out := make([]DailyStats, 0, len(byDay))
	for day, p := range byDay {
		out = append(out, DailyStats{Day: day, Stats: NewStats(p.imps, p.clicks)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
