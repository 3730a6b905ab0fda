package ads_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/memory"
)

const (
	advertiserID = "9b2e3c9a-0000-4000-8000-000000000001"
	clientA      = "1f0e8f3c-0000-4000-8000-00000000000a"
	clientB      = "1f0e8f3c-0000-4000-8000-00000000000b"
	clientC      = "1f0e8f3c-0000-4000-8000-00000000000c"
	cdnBase      = "http://cdn.test/ad-images"
)

type fixture struct {
	store  *memory.Store
	images *memory.ImageStore
	svc    *ads.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	images := memory.NewImageStore(cdnBase)
	svc := ads.New(store, ads.NewClock(store, nil), images)

	ctx := context.Background()
	_, err := svc.UpsertAdvertisers(ctx, []domain.Advertiser{{ID: advertiserID, Name: "Acme"}})
	require.NoError(t, err)
	_, err = svc.UpsertClients(ctx, []domain.Client{
		{ID: clientA, Login: "a", Age: 20, Location: "Moscow", Gender: domain.GenderMale},
		{ID: clientB, Login: "b", Age: 20, Location: "Moscow", Gender: domain.GenderFemale},
		{ID: clientC, Login: "c", Age: 35, Location: "Kazan", Gender: domain.GenderMale},
	})
	require.NoError(t, err)

	return &fixture{store: store, images: images, svc: svc}
}

func (f *fixture) setDay(t *testing.T, day int) {
	t.Helper()
	_, err := f.svc.AdvanceDay(context.Background(), day)
	require.NoError(t, err)
}

func (f *fixture) createCampaign(t *testing.T, in ads.CampaignInput) ads.CampaignView {
	t.Helper()
	c, err := f.svc.CreateCampaign(context.Background(), advertiserID, in)
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }

func input(start, end int) ads.CampaignInput {
	return ads.CampaignInput{
		ImpressionsLimit:  2,
		ClicksLimit:       11,
		CostPerImpression: 1.5,
		CostPerClick:      4,
		Title:             "Buy now",
		Text:              "Best offer",
		StartDay:          start,
		EndDay:            end,
		Targeting:         domain.Targeting{AgeFrom: ptr(18), AgeTo: ptr(30)},
	}
}
