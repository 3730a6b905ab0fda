package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func baseCampaign() Campaign {
	return Campaign{
		ID:                "c1",
		AdvertiserID:      "a1",
		ImpressionsLimit:  100,
		ClicksLimit:       10,
		CostPerImpression: 1.5,
		CostPerClick:      3,
		Title:             "title",
		Text:              "text",
		StartDay:          5,
		EndDay:            10,
	}
}

func TestTargeting_Matches(t *testing.T) {
	client := Client{ID: "u1", Age: 20, Location: "Moscow", Gender: GenderMale}

	t.Run("empty_targeting_matches_everyone", func(t *testing.T) {
		assert.True(t, Targeting{}.Matches(client))
	})

	t.Run("gender_all_matches", func(t *testing.T) {
		assert.True(t, Targeting{Gender: ptr(GenderAll)}.Matches(client))
	})

	t.Run("gender_mismatch", func(t *testing.T) {
		assert.False(t, Targeting{Gender: ptr(GenderFemale)}.Matches(client))
	})

	t.Run("age_bounds_are_inclusive", func(t *testing.T) {
		assert.True(t, Targeting{AgeFrom: ptr(20), AgeTo: ptr(20)}.Matches(client))
		assert.False(t, Targeting{AgeFrom: ptr(21)}.Matches(client))
		assert.False(t, Targeting{AgeTo: ptr(19)}.Matches(client))
	})

	t.Run("location_must_be_equal", func(t *testing.T) {
		assert.True(t, Targeting{Location: ptr("Moscow")}.Matches(client))
		assert.False(t, Targeting{Location: ptr("Kazan")}.Matches(client))
	})
}

func TestCampaign_Budget(t *testing.T) {
	c := baseCampaign()
	c.ImpressionsLimit = 2
	c.ClicksLimit = 1

	// 2 * 1.05 = 2.1
	assert.True(t, c.ImpressionBudgetLeft(1))
	assert.True(t, c.ImpressionBudgetLeft(2))
	assert.False(t, c.ImpressionBudgetLeft(3))

	assert.True(t, c.ClickBudgetLeft(1))
	assert.False(t, c.ClickBudgetLeft(2))
}

func TestCampaign_ScheduledOn(t *testing.T) {
	c := baseCampaign()
	assert.False(t, c.ScheduledOn(4))
	assert.True(t, c.ScheduledOn(5))
	assert.True(t, c.ScheduledOn(10))
	assert.False(t, c.ScheduledOn(11))

	c.Deleted = true
	assert.False(t, c.ScheduledOn(7))
}

func TestCampaign_ValidateNew(t *testing.T) {
	t.Run("future_campaign_ok", func(t *testing.T) {
		assert.NoError(t, baseCampaign().ValidateNew(0))
	})

	t.Run("start_today_ok", func(t *testing.T) {
		assert.NoError(t, baseCampaign().ValidateNew(5))
	})

	t.Run("start_in_past_rejected", func(t *testing.T) {
		err := baseCampaign().ValidateNew(6)
		assert.True(t, Is(err, "campaign_in_past"))
		assert.Equal(t, KindBusiness, KindOf(err))
	})

	t.Run("end_before_start_rejected", func(t *testing.T) {
		c := baseCampaign()
		c.EndDay = 4
		assert.Error(t, c.ValidateNew(0))
	})
}

func TestCheckUpdate(t *testing.T) {
	stored := baseCampaign()

	t.Run("started_campaign_limit_change_rejected", func(t *testing.T) {
		next := stored
		next.ImpressionsLimit = 200
		err := CheckUpdate(stored, next, 5)
		assert.True(t, Is(err, "campaign_active"))
	})

	t.Run("started_campaign_copy_change_allowed", func(t *testing.T) {
		next := stored
		next.Title = "new title"
		next.Text = "new text"
		assert.NoError(t, CheckUpdate(stored, next, 7))
	})

	t.Run("started_campaign_end_change_rejected", func(t *testing.T) {
		next := stored
		next.EndDay = 20
		assert.Error(t, CheckUpdate(stored, next, 5))
	})

	t.Run("future_campaign_reschedule_allowed", func(t *testing.T) {
		next := stored
		next.StartDay = 6
		next.EndDay = 12
		next.ClicksLimit = 50
		assert.NoError(t, CheckUpdate(stored, next, 1))
	})

	t.Run("future_campaign_cannot_move_start_to_today", func(t *testing.T) {
		next := stored
		next.StartDay = 1
		assert.True(t, Is(CheckUpdate(stored, next, 1), "campaign_active"))
	})

	t.Run("malformed_range_rejected", func(t *testing.T) {
		next := stored
		next.StartDay = 8
		next.EndDay = 7
		assert.True(t, Is(CheckUpdate(stored, next, 1), "invalid_schedule"))
	})
}
