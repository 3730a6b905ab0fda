package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/ranking"
)

type campaigns struct{ st *state }

func (r campaigns) Create(ctx context.Context, c domain.Campaign) error {
	if _, ok := r.st.advertisers[c.AdvertiserID]; !ok {
		return domain.ErrAdvertiserNotFound()
	}
	r.st.campaigns[c.ID] = c
	return nil
}

func (r campaigns) Update(ctx context.Context, c domain.Campaign) error {
	stored, ok := r.st.campaigns[c.ID]
	if !ok || stored.Deleted {
		return domain.ErrCampaignNotFound()
	}
	c.ImageKey = stored.ImageKey
	c.Deleted = false
	r.st.campaigns[c.ID] = c
	return nil
}

func (r campaigns) Get(ctx context.Context, id string) (domain.Campaign, error) {
	c, ok := r.st.campaigns[id]
	if !ok || c.Deleted {
		return domain.Campaign{}, domain.ErrCampaignNotFound()
	}
	return c, nil
}

func (r campaigns) GetAny(ctx context.Context, id string) (domain.Campaign, error) {
	c, ok := r.st.campaigns[id]
	if !ok {
		return domain.Campaign{}, domain.ErrCampaignNotFound()
	}
	return c, nil
}

func (r campaigns) ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]domain.Campaign, error) {
	var list []domain.Campaign
	for _, c := range r.st.campaigns {
		if c.AdvertiserID == advertiserID && !c.Deleted {
			list = append(list, c)
		}
	}
	slices.SortFunc(list, func(a, b domain.Campaign) int {
		return cmp.Or(cmp.Compare(a.StartDay, b.StartDay), cmp.Compare(a.ID, b.ID))
	})

	if offset >= len(list) {
		return []domain.Campaign{}, nil
	}
	end := min(offset+limit, len(list))
	return list[offset:end], nil
}

func (r campaigns) SoftDelete(ctx context.Context, id string) error {
	c, ok := r.st.campaigns[id]
	if !ok || c.Deleted {
		return domain.ErrCampaignNotFound()
	}
	c.Deleted = true
	r.st.campaigns[id] = c
	return nil
}

func (r campaigns) SetImage(ctx context.Context, id string, key *string) error {
	c, ok := r.st.campaigns[id]
	if !ok || c.Deleted {
		return domain.ErrCampaignNotFound()
	}
	if key != nil {
		k := *key
		key = &k
	}
	c.ImageKey = key
	r.st.campaigns[id] = c
	return nil
}

func (r campaigns) BestFor(ctx context.Context, day int, client domain.Client) (domain.Campaign, error) {
	maxScore := make(map[string]int64)
	for k, v := range r.st.scores {
		maxScore[k.advertiserID] = max(maxScore[k.advertiserID], v)
	}

	imps := make(map[string]int64)
	for k := range r.st.actions[domain.ActionImpression] {
		imps[k.campaignID]++
	}
	clicks := make(map[string]int64)
	for k := range r.st.actions[domain.ActionClick] {
		clicks[k.campaignID]++
	}

	cands := make([]ranking.Candidate, 0, len(r.st.campaigns))
	for _, c := range r.st.campaigns {
		if c.Deleted {
			continue
		}
		_, clicked := r.st.actions[domain.ActionClick][pairKey{c.ID, client.ID}]
		cands = append(cands, ranking.Candidate{
			Campaign:        c,
			Impressions:     imps[c.ID],
			Clicks:          clicks[c.ID],
			ClickedByClient: clicked,
			Score:           r.st.scores[scoreKey{client.ID, c.AdvertiserID}],
			MaxScore:        maxScore[c.AdvertiserID],
		})
	}

	best, ok := ranking.Select(cands, day, client)
	if !ok {
		return domain.Campaign{}, domain.ErrNoAdsAvailable()
	}
	return best, nil
}
