package memory

import (
	"context"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type actions struct{ st *state }

func (r actions) log(kind domain.ActionKind) (map[pairKey]domain.Action, error) {
	m, ok := r.st.actions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
	return m, nil
}

func (r actions) Record(ctx context.Context, a domain.Action) (bool, error) {
	m, err := r.log(a.Kind)
	if err != nil {
		return false, err
	}
	k := pairKey{a.CampaignID, a.ClientID}
	if _, ok := m[k]; ok {
		return false, nil
	}
	m[k] = a
	return true, nil
}

func (r actions) Exists(ctx context.Context, kind domain.ActionKind, campaignID, clientID string) (bool, error) {
	m, err := r.log(kind)
	if err != nil {
		return false, err
	}
	_, ok := m[pairKey{campaignID, clientID}]
	return ok, nil
}

func (r actions) inScope(campaignID string, scope domain.StatsScope) bool {
	if scope.CampaignID != "" {
		return campaignID == scope.CampaignID
	}
	c, ok := r.st.campaigns[campaignID]
	return ok && c.AdvertiserID == scope.AdvertiserID
}

func (r actions) tally(kind domain.ActionKind, scope domain.StatsScope) domain.Tally {
	var t domain.Tally
	for k, a := range r.st.actions[kind] {
		if r.inScope(k.campaignID, scope) {
			t.Count++
			t.Spent += a.Price
		}
	}
	return t
}

func (r actions) daily(kind domain.ActionKind, scope domain.StatsScope) []domain.DayTally {
	byDay := make(map[int]*domain.DayTally)
	for k, a := range r.st.actions[kind] {
		if !r.inScope(k.campaignID, scope) {
			continue
		}
		d, ok := byDay[a.Day]
		if !ok {
			d = &domain.DayTally{Day: a.Day}
			byDay[a.Day] = d
		}
		d.Count++
		d.Spent += a.Price
	}
	out := make([]domain.DayTally, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	return out
}

func (r actions) Totals(ctx context.Context, scope domain.StatsScope) (domain.Tally, domain.Tally, error) {
	return r.tally(domain.ActionImpression, scope), r.tally(domain.ActionClick, scope), nil
}

func (r actions) DailyTotals(ctx context.Context, scope domain.StatsScope) ([]domain.DayTally, []domain.DayTally, error) {
	return r.daily(domain.ActionImpression, scope), r.daily(domain.ActionClick, scope), nil
}
