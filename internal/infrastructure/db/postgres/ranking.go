package postgres

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// bestCampaignSQL ranks every campaign eligible for ($1 day, $2 client id,
// $3 gender, $4 age, $5 location) and keeps the top one. Price maxima are
// taken over campaigns scheduled on the day; score maxima per advertiser over
// all clients. Equal ranks resolve to the lowest campaign id.
const bestCampaignSQL = `
WITH scheduled AS (
    SELECT *
    FROM campaigns
    WHERE is_deleted = FALSE
      AND start_date <= $1
      AND end_date >= $1
),
price_max AS (
    SELECT MAX(cost_per_impression) AS max_cpi,
           MAX(cost_per_click) AS max_cpc
    FROM scheduled
),
score_max AS (
    SELECT advertiser_id, MAX(score) AS max_score
    FROM scores
    GROUP BY advertiser_id
),
imps AS (
    SELECT campaign_id, COUNT(*) AS cnt
    FROM impressions
    GROUP BY campaign_id
),
clks AS (
    SELECT campaign_id, COUNT(*) AS cnt
    FROM clicks
    GROUP BY campaign_id
)
SELECT c.campaign_id, c.advertiser_id, c.impressions_limit, c.clicks_limit,
       c.cost_per_impression, c.cost_per_click, c.ad_title, c.ad_text,
       c.start_date, c.end_date, c.gender, c.age_from, c.age_to, c.loc,
       c.image_url, c.is_deleted
FROM scheduled c
CROSS JOIN price_max pm
LEFT JOIN imps i ON i.campaign_id = c.campaign_id
LEFT JOIN clks k ON k.campaign_id = c.campaign_id
LEFT JOIN scores s ON s.advertiser_id = c.advertiser_id AND s.client_id = $2
LEFT JOIN score_max sm ON sm.advertiser_id = c.advertiser_id
WHERE (c.gender IS NULL OR c.gender = 'ALL' OR c.gender = $3)
  AND (c.age_from IS NULL OR c.age_from <= $4)
  AND (c.age_to IS NULL OR c.age_to >= $4)
  AND (c.loc IS NULL OR c.loc = $5)
  AND COALESCE(i.cnt, 0) < c.impressions_limit * 1.05
  AND COALESCE(k.cnt, 0) <= c.clicks_limit
  AND NOT EXISTS (
      SELECT 1 FROM clicks x
      WHERE x.campaign_id = c.campaign_id AND x.client_id = $2
  )
ORDER BY
    2 * (
        COALESCE(c.cost_per_impression / NULLIF(pm.max_cpi, 0), 0)
        + 0.2 * COALESCE(c.cost_per_click / NULLIF(pm.max_cpc, 0), 0)
    )
    + 1.5 * COALESCE(COALESCE(s.score, 0)::float8 / NULLIF(sm.max_score, 0)::float8, 0) DESC,
    c.campaign_id ASC
LIMIT 1
`

func (r campaignRepo) BestFor(ctx context.Context, day int, client domain.Client) (domain.Campaign, error) {
	row := r.q.QueryRowContext(ctx, bestCampaignSQL,
		day, client.ID, string(client.Gender), client.Age, client.Location)
	c, err := scanCampaign(row)
	if err != nil {
		return domain.Campaign{}, notFoundOn(err, domain.ErrNoAdsAvailable)
	}
	return c, nil
}
