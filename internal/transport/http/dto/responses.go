package dto

import (
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type ClientResponse struct {
	ClientID string `json:"client_id"`
	Login    string `json:"login"`
	Age      int    `json:"age"`
	Location string `json:"location"`
	Gender   string `json:"gender"`
}

func ToClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ClientID: c.ID,
		Login:    c.Login,
		Age:      c.Age,
		Location: c.Location,
		Gender:   string(c.Gender),
	}
}

func ToClientResponses(cs []domain.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToClientResponse(c))
	}
	return out
}

type AdvertiserResponse struct {
	AdvertiserID string `json:"advertiser_id"`
	Name         string `json:"name"`
}

func ToAdvertiserResponse(a domain.Advertiser) AdvertiserResponse {
	return AdvertiserResponse{AdvertiserID: a.ID, Name: a.Name}
}

func ToAdvertiserResponses(as []domain.Advertiser) []AdvertiserResponse {
	out := make([]AdvertiserResponse, 0, len(as))
	for _, a := range as {
		out = append(out, ToAdvertiserResponse(a))
	}
	return out
}

type TargetingResponse struct {
	Gender   *string `json:"gender"`
	AgeFrom  *int    `json:"age_from"`
	AgeTo    *int    `json:"age_to"`
	Location *string `json:"location"`
}

type CampaignResponse struct {
	CampaignID        string            `json:"campaign_id"`
	AdvertiserID      string            `json:"advertiser_id"`
	ImpressionsLimit  int               `json:"impressions_limit"`
	ClicksLimit       int               `json:"clicks_limit"`
	CostPerImpression float64           `json:"cost_per_impression"`
	CostPerClick      float64           `json:"cost_per_click"`
	AdTitle           string            `json:"ad_title"`
	AdText            string            `json:"ad_text"`
	StartDate         int               `json:"start_date"`
	EndDate           int               `json:"end_date"`
	Targeting         TargetingResponse `json:"targeting"`
	ImageURL          *string           `json:"image_url"`
}

func ToCampaignResponse(v ads.CampaignView) CampaignResponse {
	t := TargetingResponse{
		AgeFrom:  v.Targeting.AgeFrom,
		AgeTo:    v.Targeting.AgeTo,
		Location: v.Targeting.Location,
	}
	if v.Targeting.Gender != nil {
		g := string(*v.Targeting.Gender)
		t.Gender = &g
	}
	return CampaignResponse{
		CampaignID:        v.ID,
		AdvertiserID:      v.AdvertiserID,
		ImpressionsLimit:  v.ImpressionsLimit,
		ClicksLimit:       v.ClicksLimit,
		CostPerImpression: v.CostPerImpression,
		CostPerClick:      v.CostPerClick,
		AdTitle:           v.Title,
		AdText:            v.Text,
		StartDate:         v.StartDay,
		EndDate:           v.EndDay,
		Targeting:         t,
		ImageURL:          v.ImageURL,
	}
}

func ToCampaignResponses(vs []ads.CampaignView) []CampaignResponse {
	out := make([]CampaignResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, ToCampaignResponse(v))
	}
	return out
}

type AdResponse struct {
	AdID         string  `json:"ad_id"`
	AdTitle      string  `json:"ad_title"`
	AdText       string  `json:"ad_text"`
	AdvertiserID string  `json:"advertiser_id"`
	ImageURL     *string `json:"image_url"`
}

func ToAdResponse(a ads.Ad) AdResponse {
	return AdResponse{
		AdID:         a.CampaignID,
		AdTitle:      a.Title,
		AdText:       a.Text,
		AdvertiserID: a.AdvertiserID,
		ImageURL:     a.ImageURL,
	}
}

type StatsResponse struct {
	ImpressionsCount int64   `json:"impressions_count"`
	ClicksCount      int64   `json:"clicks_count"`
	Conversion       float64 `json:"conversion"`
	SpentImpressions float64 `json:"spent_impressions"`
	SpentClicks      float64 `json:"spent_clicks"`
	SpentTotal       float64 `json:"spent_total"`
}

func ToStatsResponse(s domain.Stats) StatsResponse {
	return StatsResponse{
		ImpressionsCount: s.ImpressionsCount,
		ClicksCount:      s.ClicksCount,
		Conversion:       s.Conversion,
		SpentImpressions: s.SpentImpressions,
		SpentClicks:      s.SpentClicks,
		SpentTotal:       s.SpentTotal,
	}
}

type DailyStatsResponse struct {
	StatsResponse
	Date int `json:"date"`
}

func ToDailyStatsResponses(ds []domain.DailyStats) []DailyStatsResponse {
	out := make([]DailyStatsResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, DailyStatsResponse{StatsResponse: ToStatsResponse(d.Stats), Date: d.Day})
	}
	return out
}

type ImageResponse struct {
	ImageURL string `json:"image_url"`
}

type TimeResponse struct {
	CurrentDate int `json:"current_date"`
}
