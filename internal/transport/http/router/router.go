package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
)

type Deps struct {
	Ads       *handlers.AdsHandler
	Campaigns *handlers.CampaignsHandler
	Stats     *handlers.StatsHandler
	Audience  *handlers.AudienceHandler
	Time      *handlers.TimeHandler
	Health    *handlers.HealthHandler

	// AdminMW guards the virtual clock. nil leaves it open.
	AdminMW func(http.Handler) http.Handler

	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusNotFound, response.ErrorBody{Error: response.ErrorPayload{
			Code:    "route_not_found",
			Message: "route not found",
		}})
	})

	// health endpoints stay outside the limiter
	r.Get("/ping", d.Health.Ping)
	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.RLEnabled {
			r.Use(middleware.RateLimitByIP(d.RLLimit, d.RLWindow, response.WriteError))
		}

		r.Post("/clients/bulk", d.Audience.UpsertClients)
		r.Get("/clients/{client_id}", d.Audience.GetClient)

		r.Post("/advertisers/bulk", d.Audience.UpsertAdvertisers)
		r.Get("/advertisers/{advertiser_id}", d.Audience.GetAdvertiser)
		r.Post("/ml-scores", d.Audience.UpsertScore)

		r.Route("/advertisers/{advertiser_id}/campaigns", func(r chi.Router) {
			r.Post("/", d.Campaigns.Create)
			r.Get("/", d.Campaigns.List)
			r.Route("/{campaign_id}", func(r chi.Router) {
				r.Get("/", d.Campaigns.Get)
				r.Put("/", d.Campaigns.Update)
				r.Delete("/", d.Campaigns.Delete)
				r.Post("/image", d.Campaigns.AttachImage)
				r.Delete("/image", d.Campaigns.DeleteImage)
			})
		})

		r.Get("/ads", d.Ads.Get)
		r.Post("/ads/{ad_id}/click", d.Ads.Click)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/campaigns/{campaign_id}", d.Stats.Campaign)
			r.Get("/campaigns/{campaign_id}/daily", d.Stats.CampaignDaily)
			r.Get("/advertisers/{advertiser_id}/campaigns", d.Stats.Advertiser)
			r.Get("/advertisers/{advertiser_id}/daily", d.Stats.AdvertiserDaily)
		})

		r.Get("/time", d.Time.Current)
		r.Group(func(r chi.Router) {
			if d.AdminMW != nil {
				r.Use(d.AdminMW)
			}
			r.Post("/time/advance", d.Time.Advance)
		})
	})

	return r
}
