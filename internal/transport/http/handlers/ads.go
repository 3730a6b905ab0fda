package handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/validate"
)

type AdsHandler struct {
	svc *ads.Service
}

func NewAdsHandler(svc *ads.Service) *AdsHandler {
	return &AdsHandler{svc: svc}
}

// Get serves GET /ads?client_id=.
func (h *AdsHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if err := validate.Var("client_id", clientID, "required,uuid"); err != nil {
		response.WriteError(w, r, err)
		return
	}

	ad, err := h.svc.Deliver(r.Context(), clientID)
	if err != nil {
		middleware.AdsServedTotal.WithLabelValues(deliverOutcome(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	middleware.AdsServedTotal.WithLabelValues("served").Inc()
	response.OK(w, dto.ToAdResponse(ad))
}

// Click serves POST /ads/{ad_id}/click. Repeated clicks succeed without
// being billed again.
func (h *AdsHandler) Click(w http.ResponseWriter, r *http.Request) {
	adID, err := uuidParam(r, "ad_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.ClickRequest
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	recorded, err := h.svc.Click(r.Context(), req.ClientID, adID)
	if err != nil {
		middleware.ClicksTotal.WithLabelValues(clickOutcome(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	if recorded {
		middleware.ClicksTotal.WithLabelValues("recorded").Inc()
	} else {
		middleware.ClicksTotal.WithLabelValues("duplicate").Inc()
	}
	response.NoContent(w)
}

func deliverOutcome(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Code {
		case domain.CodeNoAdsAvailable:
			return "no_ads"
		case "client_not_found":
			return "client_not_found"
		}
	}
	return "error"
}

func clickOutcome(err error) string {
	if domain.Is(err, domain.CodeAdNotShownBefore) {
		return "not_shown"
	}
	return "error"
}
