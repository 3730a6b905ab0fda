package ads_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

func TestUpsertClients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.UpsertClients(ctx, []domain.Client{{ID: clientA, Login: "renamed", Age: 21, Location: "Omsk", Gender: domain.GenderMale}})
	require.NoError(t, err)

	got, err := f.svc.GetClient(ctx, clientA)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Login)
	assert.Equal(t, 21, got.Age)

	_, err = f.svc.UpsertClients(ctx, []domain.Client{{ID: clientA, Gender: domain.GenderAll}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUpsertScore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.UpsertScore(ctx, domain.Score{ClientID: clientA, AdvertiserID: advertiserID, Score: 10}))

	err := f.svc.UpsertScore(ctx, domain.Score{ClientID: "00000000-0000-4000-8000-000000000000", AdvertiserID: advertiserID, Score: 1})
	assert.True(t, domain.Is(err, "client_not_found"))

	err = f.svc.UpsertScore(ctx, domain.Score{ClientID: clientA, AdvertiserID: "00000000-0000-4000-8000-000000000000", Score: 1})
	assert.True(t, domain.Is(err, "advertiser_not_found"))

	err = f.svc.UpsertScore(ctx, domain.Score{ClientID: clientA, AdvertiserID: advertiserID, Score: -1})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestScoreSteersRanking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const otherAdvertiser = "9b2e3c9a-0000-4000-8000-000000000002"
	_, err := f.svc.UpsertAdvertisers(ctx, []domain.Advertiser{{ID: otherAdvertiser, Name: "Other"}})
	require.NoError(t, err)

	in := input(0, 3)
	in.Targeting = domain.Targeting{}
	mine := f.createCampaign(t, in)

	in.CostPerImpression = 1.6
	theirs, err := f.svc.CreateCampaign(ctx, otherAdvertiser, in)
	require.NoError(t, err)

	ad, err := f.svc.Deliver(ctx, clientA)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, ad.CampaignID)

	require.NoError(t, f.svc.UpsertScore(ctx, domain.Score{ClientID: clientB, AdvertiserID: advertiserID, Score: 50}))
	ad, err = f.svc.Deliver(ctx, clientB)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, ad.CampaignID)
}
