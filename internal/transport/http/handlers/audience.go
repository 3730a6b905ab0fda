package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/validate"
)

type AudienceHandler struct {
	svc *ads.Service
}

func NewAudienceHandler(svc *ads.Service) *AudienceHandler {
	return &AudienceHandler{svc: svc}
}

func (h *AudienceHandler) UpsertClients(w http.ResponseWriter, r *http.Request) {
	var req []dto.ClientUpsertRequest
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	clients := make([]domain.Client, 0, len(req))
	for i, c := range req {
		if err := validate.Struct(c); err != nil {
			response.WriteError(w, r, atIndex(err, i))
			return
		}
		clients = append(clients, c.ToDomain())
	}

	saved, err := h.svc.UpsertClients(r.Context(), clients)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.ToClientResponses(saved))
}

func (h *AudienceHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "client_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	c, err := h.svc.GetClient(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToClientResponse(c))
}

func (h *AudienceHandler) UpsertAdvertisers(w http.ResponseWriter, r *http.Request) {
	var req []dto.AdvertiserUpsertRequest
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	advertisers := make([]domain.Advertiser, 0, len(req))
	for i, a := range req {
		if err := validate.Struct(a); err != nil {
			response.WriteError(w, r, atIndex(err, i))
			return
		}
		advertisers = append(advertisers, a.ToDomain())
	}

	saved, err := h.svc.UpsertAdvertisers(r.Context(), advertisers)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.ToAdvertiserResponses(saved))
}

func (h *AudienceHandler) GetAdvertiser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "advertiser_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	a, err := h.svc.GetAdvertiser(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToAdvertiserResponse(a))
}

func (h *AudienceHandler) UpsertScore(w http.ResponseWriter, r *http.Request) {
	var req dto.MLScoreRequest
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := h.svc.UpsertScore(r.Context(), req.ToDomain()); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, map[string]string{"status": "ok"})
}

// atIndex records which element of a bulk body failed.
func atIndex(err error, i int) error {
	var de *domain.Error
	if errors.As(err, &de) {
		meta := map[string]string{"index": strconv.Itoa(i)}
		for k, v := range de.Meta {
			meta[k] = v
		}
		return domain.WithMeta(de, meta)
	}
	return err
}
