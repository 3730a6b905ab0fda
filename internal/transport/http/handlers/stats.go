package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
)

type StatsHandler struct {
	svc *ads.Service
}

func NewStatsHandler(svc *ads.Service) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Campaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "campaign_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	s, err := h.svc.CampaignStats(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToStatsResponse(s))
}

func (h *StatsHandler) CampaignDaily(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "campaign_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	days, err := h.svc.CampaignDailyStats(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToDailyStatsResponses(days))
}

func (h *StatsHandler) Advertiser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "advertiser_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	s, err := h.svc.AdvertiserStats(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToStatsResponse(s))
}

func (h *StatsHandler) AdvertiserDaily(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "advertiser_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	days, err := h.svc.AdvertiserDailyStats(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToDailyStatsResponses(days))
}
