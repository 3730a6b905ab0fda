package handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/validate"
)

const (
	imageFormField = "image"
	// multipart framing allowance on top of the image itself
	multipartSlack = 64 << 10
)

type CampaignsHandler struct {
	svc           *ads.Service
	maxImageBytes int64
}

func NewCampaignsHandler(svc *ads.Service, maxImageBytes int64) *CampaignsHandler {
	return &CampaignsHandler{svc: svc, maxImageBytes: maxImageBytes}
}

func (h *CampaignsHandler) Create(w http.ResponseWriter, r *http.Request) {
	advertiserID, err := uuidParam(r, "advertiser_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CampaignCreateRequest
	if err := decodeCampaign(r, &req, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	view, err := h.svc.CreateCampaign(r.Context(), advertiserID, req.ToInput())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.ToCampaignResponse(view))
}

func (h *CampaignsHandler) List(w http.ResponseWriter, r *http.Request) {
	advertiserID, err := uuidParam(r, "advertiser_id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	page, err := intQuery(r, "page", 0, 0)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	size, err := intQuery(r, "size", ads.DefaultPageSize, 1)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	list, err := h.svc.ListCampaigns(r.Context(), advertiserID, page, size)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToCampaignResponses(list))
}

func (h *CampaignsHandler) Get(w http.ResponseWriter, r *http.Request) {
	advertiserID, campaignID, err := campaignParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	view, err := h.svc.GetCampaign(r.Context(), advertiserID, campaignID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToCampaignResponse(view))
}

func (h *CampaignsHandler) Update(w http.ResponseWriter, r *http.Request) {
	advertiserID, campaignID, err := campaignParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CampaignUpdateRequest
	if err := decodeCampaign(r, &req, &req.CampaignCreateRequest); err != nil {
		response.WriteError(w, r, err)
		return
	}

	view, err := h.svc.UpdateCampaign(r.Context(), advertiserID, campaignID, req.ToInput(), req.ImageURL)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToCampaignResponse(view))
}

func (h *CampaignsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	advertiserID, campaignID, err := campaignParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := h.svc.DeleteCampaign(r.Context(), advertiserID, campaignID); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// AttachImage accepts a multipart upload in the "image" field.
func (h *CampaignsHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	advertiserID, campaignID, err := campaignParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+multipartSlack)
	if err := r.ParseMultipartForm(h.maxImageBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.WriteError(w, r, domain.ErrInvalidField(imageFormField, "file too large"))
			return
		}
		response.WriteError(w, r, domain.ErrInvalidField(imageFormField, "expected multipart/form-data"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		response.WriteError(w, r, domain.ErrMissingField(imageFormField))
		return
	}
	defer file.Close()

	if header.Size > h.maxImageBytes {
		response.WriteError(w, r, domain.ErrInvalidField(imageFormField, "file too large"))
		return
	}

	url, err := h.svc.AttachImage(r.Context(), advertiserID, campaignID, header.Filename, ads.ImageBody{
		Reader: file,
		Size:   header.Size,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ImageResponse{ImageURL: url})
}

func (h *CampaignsHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	advertiserID, campaignID, err := campaignParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := h.svc.DeleteImage(r.Context(), advertiserID, campaignID); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

func campaignParams(r *http.Request) (advertiserID, campaignID string, err error) {
	if advertiserID, err = uuidParam(r, "advertiser_id"); err != nil {
		return "", "", err
	}
	if campaignID, err = uuidParam(r, "campaign_id"); err != nil {
		return "", "", err
	}
	return advertiserID, campaignID, nil
}

// decodeCampaign decodes into dst and validates it along with the shared
// campaign fields in body.
func decodeCampaign(r *http.Request, dst any, body *dto.CampaignCreateRequest) error {
	if err := validate.DecodeJSON(r, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return body.Targeting.CheckAges()
}
