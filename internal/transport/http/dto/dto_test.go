package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestCampaignCreateRequest_ToInput(t *testing.T) {
	var req CampaignCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"impressions_limit": 10, "clicks_limit": 2,
		"cost_per_impression": 1.5, "cost_per_click": 4,
		"ad_title": "t", "ad_text": "x",
		"start_date": 1, "end_date": 3,
		"targeting": {"gender": "FEMALE", "age_from": 18, "location": "Moscow"}
	}`), &req))

	in := req.ToInput()
	assert.Equal(t, 10, in.ImpressionsLimit)
	assert.Equal(t, 2, in.ClicksLimit)
	assert.Equal(t, 1.5, in.CostPerImpression)
	assert.Equal(t, 4.0, in.CostPerClick)
	assert.Equal(t, 1, in.StartDay)
	assert.Equal(t, 3, in.EndDay)
	require.NotNil(t, in.Targeting.Gender)
	assert.Equal(t, domain.GenderFemale, *in.Targeting.Gender)
	assert.Equal(t, 18, *in.Targeting.AgeFrom)
	assert.Nil(t, in.Targeting.AgeTo)
	assert.Equal(t, "Moscow", *in.Targeting.Location)
}

func TestCampaignCreateRequest_NoTargeting(t *testing.T) {
	req := CampaignCreateRequest{AdTitle: "t"}
	in := req.ToInput()
	assert.Equal(t, domain.Targeting{}, in.Targeting)
}

func TestTargeting_CheckAges(t *testing.T) {
	var nilT *Targeting
	assert.NoError(t, nilT.CheckAges())
	assert.NoError(t, (&Targeting{AgeFrom: ptr(5)}).CheckAges())
	assert.NoError(t, (&Targeting{AgeFrom: ptr(5), AgeTo: ptr(5)}).CheckAges())
	assert.True(t, domain.Is((&Targeting{AgeFrom: ptr(6), AgeTo: ptr(5)}).CheckAges(), "invalid_field"))
}

func TestToCampaignResponse_NullsSerialize(t *testing.T) {
	g := domain.GenderAll
	v := ads.CampaignView{Campaign: domain.Campaign{
		ID:           "c1",
		AdvertiserID: "a1",
		Title:        "t",
		Targeting:    domain.Targeting{Gender: &g},
	}}

	b, err := json.Marshal(ToCampaignResponse(v))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "c1", m["campaign_id"])
	assert.Nil(t, m["image_url"])
	assert.Contains(t, m, "image_url")

	targeting := m["targeting"].(map[string]any)
	assert.Equal(t, "ALL", targeting["gender"])
	assert.Contains(t, targeting, "age_from")
	assert.Nil(t, targeting["age_from"])
}

func TestToDailyStatsResponses_FlattensDate(t *testing.T) {
	out := ToDailyStatsResponses([]domain.DailyStats{{Day: 2, Stats: domain.Stats{ImpressionsCount: 1}}})
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"impressions_count":1,"clicks_count":0,"conversion":0,"spent_impressions":0,"spent_clicks":0,"spent_total":0,"date":2}]`, string(b))
}

func TestToAdResponse(t *testing.T) {
	out := ToAdResponse(ads.Ad{CampaignID: "c", AdvertiserID: "a", Title: "t", Text: "x"})
	assert.Equal(t, AdResponse{AdID: "c", AdvertiserID: "a", AdTitle: "t", AdText: "x"}, out)
}
