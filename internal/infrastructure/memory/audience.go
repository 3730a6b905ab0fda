package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type clients struct{ st *state }

func (r clients) Upsert(ctx context.Context, list []domain.Client) error {
	for _, c := range list {
		r.st.clients[c.ID] = c
	}
	return nil
}

func (r clients) Get(ctx context.Context, id string) (domain.Client, error) {
	c, ok := r.st.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound()
	}
	return c, nil
}

type advertisers struct{ st *state }

func (r advertisers) Upsert(ctx context.Context, list []domain.Advertiser) error {
	for _, a := range list {
		r.st.advertisers[a.ID] = a
	}
	return nil
}

func (r advertisers) Get(ctx context.Context, id string) (domain.Advertiser, error) {
	a, ok := r.st.advertisers[id]
	if !ok {
		return domain.Advertiser{}, domain.ErrAdvertiserNotFound()
	}
	return a, nil
}

type scores struct{ st *state }

func (r scores) Upsert(ctx context.Context, s domain.Score) error {
	if _, ok := r.st.clients[s.ClientID]; !ok {
		return domain.ErrClientNotFound()
	}
	if _, ok := r.st.advertisers[s.AdvertiserID]; !ok {
		return domain.ErrAdvertiserNotFound()
	}
	r.st.scores[scoreKey{s.ClientID, s.AdvertiserID}] = s.Score
	return nil
}
