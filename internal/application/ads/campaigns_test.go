package ads_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_gender_to_all", func(t *testing.T) {
		f := newFixture(t)
		c := f.createCampaign(t, input(0, 1))
		assert.NotEmpty(t, c.ID)
		require.NotNil(t, c.Targeting.Gender)
		assert.Equal(t, domain.GenderAll, *c.Targeting.Gender)
	})

	t.Run("future_start_ok", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateCampaign(ctx, advertiserID, input(5, 9))
		assert.NoError(t, err)
	})

	t.Run("backdated_rejected", func(t *testing.T) {
		f := newFixture(t)
		f.setDay(t, 3)
		_, err := f.svc.CreateCampaign(ctx, advertiserID, input(2, 9))
		assert.Equal(t, domain.KindBusiness, domain.KindOf(err))
	})

	t.Run("unknown_advertiser", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateCampaign(ctx, "00000000-0000-4000-8000-000000000000", input(0, 1))
		assert.True(t, domain.Is(err, "advertiser_not_found"))
	})
}

func TestUpdateCampaign_ScheduleLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCampaign(t, input(5, 9))
	f.setDay(t, 5)

	t.Run("limit_change_rejected", func(t *testing.T) {
		in := input(5, 9)
		in.ImpressionsLimit = 100
		_, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, in, nil)
		assert.True(t, domain.Is(err, "campaign_active"))
	})

	t.Run("schedule_change_rejected", func(t *testing.T) {
		in := input(5, 12)
		_, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, in, nil)
		assert.Equal(t, domain.KindBusiness, domain.KindOf(err))
	})

	t.Run("copy_change_allowed", func(t *testing.T) {
		in := input(5, 9)
		in.Title = "New title"
		in.Text = "New text"
		got, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, in, nil)
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)

		stored, err := f.svc.GetCampaign(ctx, advertiserID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "New text", stored.Text)
	})
}

func TestUpdateCampaign_FutureCampaign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCampaign(t, input(5, 9))
	f.setDay(t, 2)

	t.Run("reschedule_allowed", func(t *testing.T) {
		in := input(6, 10)
		in.ClicksLimit = 40
		got, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, in, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, got.StartDay)
		assert.Equal(t, 40, got.ClicksLimit)
	})

	t.Run("start_moved_to_today_rejected", func(t *testing.T) {
		_, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, input(2, 10), nil)
		assert.True(t, domain.Is(err, "campaign_active"))
	})

	t.Run("malformed_range_rejected", func(t *testing.T) {
		_, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, input(8, 7), nil)
		assert.True(t, domain.Is(err, "invalid_schedule"))
	})

	t.Run("image_must_match_stored", func(t *testing.T) {
		other := "http://cdn.test/ad-images/other.jpg"
		_, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, input(6, 10), &other)
		assert.True(t, domain.Is(err, "image_immutable"))

		url, err := f.svc.AttachImage(ctx, advertiserID, c.ID, "a.jpeg", ads.ImageBody{Reader: stringsReader("x"), Size: 1})
		require.NoError(t, err)

		_, err = f.svc.UpdateCampaign(ctx, advertiserID, c.ID, input(6, 10), nil)
		assert.True(t, domain.Is(err, "image_immutable"))

		got, err := f.svc.UpdateCampaign(ctx, advertiserID, c.ID, input(6, 10), &url)
		require.NoError(t, err)
		require.NotNil(t, got.ImageURL)
		assert.Equal(t, url, *got.ImageURL)
	})

	t.Run("other_advertiser_sees_not_found", func(t *testing.T) {
		_, err := f.svc.UpdateCampaign(ctx, "00000000-0000-4000-8000-000000000000", c.ID, input(6, 10), nil)
		assert.True(t, domain.Is(err, "campaign_not_found"))
	})
}

func TestListCampaigns_Paging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for start := 0; start < 5; start++ {
		f.createCampaign(t, input(start, 10))
	}

	page0, err := f.svc.ListCampaigns(ctx, advertiserID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page0, 2)
	assert.Equal(t, 0, page0[0].StartDay)
	assert.Equal(t, 1, page0[1].StartDay)

	page2, err := f.svc.ListCampaigns(ctx, advertiserID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, 4, page2[0].StartDay)

	all, err := f.svc.ListCampaigns(ctx, advertiserID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = f.svc.ListCampaigns(ctx, "00000000-0000-4000-8000-000000000000", 0, 10)
	assert.True(t, domain.Is(err, "advertiser_not_found"))
}

func TestDeleteCampaign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCampaign(t, input(0, 3))

	_, err := f.svc.Deliver(ctx, clientA)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCampaign(ctx, advertiserID, c.ID))

	_, err = f.svc.GetCampaign(ctx, advertiserID, c.ID)
	assert.True(t, domain.Is(err, "campaign_not_found"))

	_, err = f.svc.Deliver(ctx, clientB)
	assert.True(t, domain.Is(err, domain.CodeNoAdsAvailable))

	// stats survive soft deletion
	stats, err := f.svc.CampaignStats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ImpressionsCount)
}

func TestAttachImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCampaign(t, input(0, 3))

	t.Run("png_rejected", func(t *testing.T) {
		_, err := f.svc.AttachImage(ctx, advertiserID, c.ID, "a.png", ads.ImageBody{Reader: stringsReader("x"), Size: 1})
		assert.True(t, domain.Is(err, "invalid_image_extension"))
	})

	t.Run("stored_under_generated_name", func(t *testing.T) {
		url, err := f.svc.AttachImage(ctx, advertiserID, c.ID, "photo.jpeg", ads.ImageBody{Reader: stringsReader("bytes"), Size: 5})
		require.NoError(t, err)
		assert.Contains(t, url, cdnBase+"/")
		assert.True(t, len(url) > len(cdnBase)+5)

		key := url[len(cdnBase)+1:]
		body, ok := f.images.Object(key)
		require.True(t, ok)
		assert.Equal(t, "bytes", string(body))

		got, err := f.svc.GetCampaign(ctx, advertiserID, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ImageURL)
		assert.Equal(t, url, *got.ImageURL)
	})

	t.Run("delete_clears_reference", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteImage(ctx, advertiserID, c.ID))
		got, err := f.svc.GetCampaign(ctx, advertiserID, c.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ImageURL)
	})
}

// imageLinkFailingStore lets every write through except pointing a campaign
// at an image.
type imageLinkFailingStore struct{ ads.Store }

func (s imageLinkFailingStore) WithTx(ctx context.Context, fn func(tx ads.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx ads.Tx) error { return fn(imageLinkFailingTx{tx}) })
}

type imageLinkFailingTx struct{ ads.Tx }

func (tx imageLinkFailingTx) Campaigns() ads.CampaignRepo {
	return imageLinkFailingCampaigns{tx.Tx.Campaigns()}
}

type imageLinkFailingCampaigns struct{ ads.CampaignRepo }

func (imageLinkFailingCampaigns) SetImage(ctx context.Context, id string, key *string) error {
	return errors.New("connection reset")
}

func TestAttachImage_FailedLinkRemovesUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCampaign(t, input(0, 3))

	svc := ads.New(imageLinkFailingStore{f.store}, ads.NewClock(f.store, nil), f.images)
	_, err := svc.AttachImage(ctx, advertiserID, c.ID, "photo.jpg", ads.ImageBody{Reader: stringsReader("bytes"), Size: 5})
	require.Error(t, err)

	assert.Zero(t, f.images.Len())

	got, err := f.svc.GetCampaign(ctx, advertiserID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageURL)
}
