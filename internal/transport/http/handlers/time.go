package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/validate"
)

type TimeHandler struct {
	svc *ads.Service
}

func NewTimeHandler(svc *ads.Service) *TimeHandler {
	return &TimeHandler{svc: svc}
}

// Advance sets the virtual day. Moving backwards is allowed.
func (h *TimeHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req dto.TimeAdvanceRequest
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	day, err := h.svc.AdvanceDay(r.Context(), *req.CurrentDate)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	middleware.CurrentDay.Set(float64(day))
	response.OK(w, dto.TimeResponse{CurrentDate: day})
}

// Current reports the virtual day as the services see it.
func (h *TimeHandler) Current(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.Clock().Today(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.TimeResponse{CurrentDate: day})
}
