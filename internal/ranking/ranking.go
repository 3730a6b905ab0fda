// Package ranking picks the ad to show a client on a given virtual day.
//
// The postgres store computes the same thing in SQL; this package is the
// reference used by the in-memory store and by tests.
package ranking

import "github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"

const (
	weightPrice = 2.0
	weightCPC   = 0.2
	weightScore = 1.5
)

// Candidate is a campaign together with the action-log and score facts the
// ranking needs for one client.
type Candidate struct {
	Campaign domain.Campaign

	Impressions     int64
	Clicks          int64
	ClickedByClient bool

	// Score is the client's affinity for the campaign's advertiser and
	// MaxScore the highest affinity any client has for that advertiser.
	Score    int64
	MaxScore int64
}

// Eligible reports whether the candidate may be shown to the client on day.
func Eligible(c Candidate, day int, client domain.Client) bool {
	return c.Campaign.ScheduledOn(day) &&
		c.Campaign.Targeting.Matches(client) &&
		c.Campaign.ImpressionBudgetLeft(c.Impressions) &&
		c.Campaign.ClickBudgetLeft(c.Clicks) &&
		!c.ClickedByClient
}

// Rank scores a candidate. maxCPI and maxCPC are the highest prices among
// campaigns scheduled on the same day.
func Rank(c Candidate, maxCPI, maxCPC float64) float64 {
	return weightPrice*(ratio(c.Campaign.CostPerImpression, maxCPI)+weightCPC*ratio(c.Campaign.CostPerClick, maxCPC)) +
		weightScore*ratio(float64(c.Score), float64(c.MaxScore))
}

// Select returns the best eligible candidate. Equal ranks go to the lowest
// campaign id.
func Select(cands []Candidate, day int, client domain.Client) (domain.Campaign, bool) {
	var maxCPI, maxCPC float64
	for _, c := range cands {
		if !c.Campaign.ScheduledOn(day) {
			continue
		}
		maxCPI = max(maxCPI, c.Campaign.CostPerImpression)
		maxCPC = max(maxCPC, c.Campaign.CostPerClick)
	}

	var (
		best     domain.Campaign
		bestRank float64
		found    bool
	)
	for _, c := range cands {
		if !Eligible(c, day, client) {
			continue
		}
		r := Rank(c, maxCPI, maxCPC)
		if !found || r > bestRank || (r == bestRank && c.Campaign.ID < best.ID) {
			best, bestRank, found = c.Campaign, r, true
		}
	}
	return best, found
}

func ratio(v, m float64) float64 {
	if m == 0 {
		return 0
	}
	return v / m
}
