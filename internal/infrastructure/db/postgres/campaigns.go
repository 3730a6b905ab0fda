package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

const campaignColumns = `
campaign_id, advertiser_id, impressions_limit, clicks_limit,
cost_per_impression, cost_per_click, ad_title, ad_text,
start_date, end_date, gender, age_from, age_to, loc, image_url, is_deleted`

const (
	insertCampaignSQL = `
INSERT INTO campaigns (` + campaignColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, FALSE)
`
	updateCampaignSQL = `
UPDATE campaigns
SET impressions_limit = $2,
    clicks_limit = $3,
    cost_per_impression = $4,
    cost_per_click = $5,
    ad_title = $6,
    ad_text = $7,
    start_date = $8,
    end_date = $9,
    gender = $10,
    age_from = $11,
    age_to = $12,
    loc = $13
WHERE campaign_id = $1 AND is_deleted = FALSE
`
	selectCampaignSQL    = `SELECT ` + campaignColumns + ` FROM campaigns WHERE campaign_id = $1 AND is_deleted = FALSE`
	selectAnyCampaignSQL = `SELECT ` + campaignColumns + ` FROM campaigns WHERE campaign_id = $1`
	listCampaignsSQL     = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE advertiser_id = $1 AND is_deleted = FALSE
ORDER BY start_date ASC, campaign_id ASC
LIMIT $2 OFFSET $3
`
	softDeleteCampaignSQL = `UPDATE campaigns SET is_deleted = TRUE WHERE campaign_id = $1 AND is_deleted = FALSE`
	setCampaignImageSQL   = `UPDATE campaigns SET image_url = $2 WHERE campaign_id = $1 AND is_deleted = FALSE`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (domain.Campaign, error) {
	var (
		c                  domain.Campaign
		gender, loc, image sql.NullString
		ageFrom, ageTo     sql.NullInt64
	)
	err := row.Scan(
		&c.ID, &c.AdvertiserID, &c.ImpressionsLimit, &c.ClicksLimit,
		&c.CostPerImpression, &c.CostPerClick, &c.Title, &c.Text,
		&c.StartDay, &c.EndDay, &gender, &ageFrom, &ageTo, &loc, &image, &c.Deleted,
	)
	if err != nil {
		return domain.Campaign{}, err
	}
	if gender.Valid {
		g := domain.Gender(gender.String)
		c.Targeting.Gender = &g
	}
	if ageFrom.Valid {
		v := int(ageFrom.Int64)
		c.Targeting.AgeFrom = &v
	}
	if ageTo.Valid {
		v := int(ageTo.Int64)
		c.Targeting.AgeTo = &v
	}
	if loc.Valid {
		c.Targeting.Location = &loc.String
	}
	if image.Valid {
		c.ImageKey = &image.String
	}
	return c, nil
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func genderArg(g *domain.Gender) any {
	if g == nil {
		return nil
	}
	return string(*g)
}

type campaignRepo struct{ q querier }

func (r campaignRepo) Create(ctx context.Context, c domain.Campaign) error {
	_, err := r.q.ExecContext(ctx, insertCampaignSQL,
		c.ID, c.AdvertiserID, c.ImpressionsLimit, c.ClicksLimit,
		c.CostPerImpression, c.CostPerClick, c.Title, c.Text,
		c.StartDay, c.EndDay,
		genderArg(c.Targeting.Gender), nullable(c.Targeting.AgeFrom), nullable(c.Targeting.AgeTo),
		nullable(c.Targeting.Location), nullable(c.ImageKey),
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r campaignRepo) Update(ctx context.Context, c domain.Campaign) error {
	res, err := r.q.ExecContext(ctx, updateCampaignSQL,
		c.ID, c.ImpressionsLimit, c.ClicksLimit,
		c.CostPerImpression, c.CostPerClick, c.Title, c.Text,
		c.StartDay, c.EndDay,
		genderArg(c.Targeting.Gender), nullable(c.Targeting.AgeFrom), nullable(c.Targeting.AgeTo),
		nullable(c.Targeting.Location),
	)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	return expectOne(res, domain.ErrCampaignNotFound)
}

func (r campaignRepo) Get(ctx context.Context, id string) (domain.Campaign, error) {
	c, err := scanCampaign(r.q.QueryRowContext(ctx, selectCampaignSQL, id))
	if err != nil {
		return domain.Campaign{}, notFoundOn(err, domain.ErrCampaignNotFound)
	}
	return c, nil
}

func (r campaignRepo) GetAny(ctx context.Context, id string) (domain.Campaign, error) {
	c, err := scanCampaign(r.q.QueryRowContext(ctx, selectAnyCampaignSQL, id))
	if err != nil {
		return domain.Campaign{}, notFoundOn(err, domain.ErrCampaignNotFound)
	}
	return c, nil
}

func (r campaignRepo) ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]domain.Campaign, error) {
	rows, err := r.q.QueryContext(ctx, listCampaignsSQL, advertiserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	out := []domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r campaignRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, softDeleteCampaignSQL, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return expectOne(res, domain.ErrCampaignNotFound)
}

func (r campaignRepo) SetImage(ctx context.Context, id string, key *string) error {
	res, err := r.q.ExecContext(ctx, setCampaignImageSQL, id, nullable(key))
	if err != nil {
		return fmt.Errorf("set campaign image: %w", err)
	}
	return expectOne(res, domain.ErrCampaignNotFound)
}

func expectOne(res sql.Result, notFound func() *domain.Error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound()
	}
	return nil
}
