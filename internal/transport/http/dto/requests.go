package dto

import (
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type ClientUpsertRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
	Login    string `json:"login" validate:"required"`
	Age      *int   `json:"age" validate:"required,gte=0"`
	Location string `json:"location" validate:"required"`
	Gender   string `json:"gender" validate:"required,oneof=MALE FEMALE"`
}

func (r ClientUpsertRequest) ToDomain() domain.Client {
	c := domain.Client{
		ID:       r.ClientID,
		Login:    r.Login,
		Location: r.Location,
		Gender:   domain.Gender(r.Gender),
	}
	if r.Age != nil {
		c.Age = *r.Age
	}
	return c
}

type AdvertiserUpsertRequest struct {
	AdvertiserID string `json:"advertiser_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required"`
}

func (r AdvertiserUpsertRequest) ToDomain() domain.Advertiser {
	return domain.Advertiser{ID: r.AdvertiserID, Name: r.Name}
}

type MLScoreRequest struct {
	ClientID     string `json:"client_id" validate:"required,uuid"`
	AdvertiserID string `json:"advertiser_id" validate:"required,uuid"`
	Score        *int64 `json:"score" validate:"required,gte=0"`
}

func (r MLScoreRequest) ToDomain() domain.Score {
	s := domain.Score{ClientID: r.ClientID, AdvertiserID: r.AdvertiserID}
	if r.Score != nil {
		s.Score = *r.Score
	}
	return s
}

type Targeting struct {
	Gender   *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE ALL"`
	AgeFrom  *int    `json:"age_from" validate:"omitempty,gte=0"`
	AgeTo    *int    `json:"age_to" validate:"omitempty,gte=0"`
	Location *string `json:"location" validate:"omitempty,min=1"`
}

// CheckAges rejects a range whose lower bound exceeds its upper bound.
func (t *Targeting) CheckAges() error {
	if t == nil || t.AgeFrom == nil || t.AgeTo == nil {
		return nil
	}
	if *t.AgeFrom > *t.AgeTo {
		return domain.ErrInvalidField("targeting.age_from", "must not exceed age_to")
	}
	return nil
}

func (t *Targeting) toDomain() domain.Targeting {
	if t == nil {
		return domain.Targeting{}
	}
	out := domain.Targeting{AgeFrom: t.AgeFrom, AgeTo: t.AgeTo, Location: t.Location}
	if t.Gender != nil {
		g := domain.Gender(*t.Gender)
		out.Gender = &g
	}
	return out
}

type CampaignCreateRequest struct {
	ImpressionsLimit  *int       `json:"impressions_limit" validate:"required,gte=0"`
	ClicksLimit       *int       `json:"clicks_limit" validate:"required,gte=0"`
	CostPerImpression *float64   `json:"cost_per_impression" validate:"required,gte=0"`
	CostPerClick      *float64   `json:"cost_per_click" validate:"required,gte=0"`
	AdTitle           string     `json:"ad_title" validate:"required"`
	AdText            string     `json:"ad_text" validate:"required"`
	StartDate         *int       `json:"start_date" validate:"required,gte=0"`
	EndDate           *int       `json:"end_date" validate:"required,gte=0"`
	Targeting         *Targeting `json:"targeting" validate:"omitempty"`
}

func (r CampaignCreateRequest) ToInput() ads.CampaignInput {
	return ads.CampaignInput{
		ImpressionsLimit:  deref(r.ImpressionsLimit),
		ClicksLimit:       deref(r.ClicksLimit),
		CostPerImpression: deref(r.CostPerImpression),
		CostPerClick:      deref(r.CostPerClick),
		Title:             r.AdTitle,
		Text:              r.AdText,
		StartDay:          deref(r.StartDate),
		EndDay:            deref(r.EndDate),
		Targeting:         r.Targeting.toDomain(),
	}
}

// CampaignUpdateRequest replaces every editable field. image_url must echo
// the current image URL (or null); images change through the image route.
type CampaignUpdateRequest struct {
	CampaignCreateRequest
	ImageURL *string `json:"image_url"`
}

type ClickRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
}

type TimeAdvanceRequest struct {
	CurrentDate *int `json:"current_date" validate:"required,gte=0"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
