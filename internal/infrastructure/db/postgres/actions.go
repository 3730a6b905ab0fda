package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type actionQueries struct {
	insert          string
	exists          string
	totalCampaign   string
	totalAdvertiser string
	dailyCampaign   string
	dailyAdvert     string
}

// Aggregates dedupe on (client_id, campaign_id) even though the tables carry
// a unique constraint on the pair.
func buildActionQueries(table string) actionQueries {
	distinctByCampaign := fmt.Sprintf(`
SELECT DISTINCT ON (a.client_id, a.campaign_id) a.day, a.price
FROM %s a
WHERE a.campaign_id = $1
ORDER BY a.client_id, a.campaign_id, a.serial_id`, table)

	distinctByAdvertiser := fmt.Sprintf(`
SELECT DISTINCT ON (a.client_id, a.campaign_id) a.day, a.price
FROM %s a
JOIN campaigns c ON c.campaign_id = a.campaign_id
WHERE c.advertiser_id = $1
ORDER BY a.client_id, a.campaign_id, a.serial_id`, table)

	total := `SELECT COUNT(*), COALESCE(SUM(d.price), 0) FROM (%s) d`
	daily := `SELECT d.day, COUNT(*), COALESCE(SUM(d.price), 0) FROM (%s) d GROUP BY d.day ORDER BY d.day`

	return actionQueries{
		insert: fmt.Sprintf(`
INSERT INTO %s (campaign_id, client_id, day, price)
VALUES ($1, $2, $3, $4)
ON CONFLICT (campaign_id, client_id) DO NOTHING
RETURNING serial_id`, table),
		exists:          fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE campaign_id = $1 AND client_id = $2)`, table),
		totalCampaign:   fmt.Sprintf(total, distinctByCampaign),
		totalAdvertiser: fmt.Sprintf(total, distinctByAdvertiser),
		dailyCampaign:   fmt.Sprintf(daily, distinctByCampaign),
		dailyAdvert:     fmt.Sprintf(daily, distinctByAdvertiser),
	}
}

var actionSQL = map[domain.ActionKind]actionQueries{
	domain.ActionImpression: buildActionQueries("impressions"),
	domain.ActionClick:      buildActionQueries("clicks"),
}

func queriesFor(kind domain.ActionKind) (actionQueries, error) {
	q, ok := actionSQL[kind]
	if !ok {
		return actionQueries{}, fmt.Errorf("unknown action kind %q", kind)
	}
	return q, nil
}

type actionLog struct{ q querier }

// Record relies on the unique (campaign_id, client_id) constraint. A conflict
// returns no row, which reports as not inserted.
func (r actionLog) Record(ctx context.Context, a domain.Action) (bool, error) {
	qs, err := queriesFor(a.Kind)
	if err != nil {
		return false, err
	}
	var id int64
	err = r.q.QueryRowContext(ctx, qs.insert, a.CampaignID, a.ClientID, a.Day, a.Price).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record %s: %w", a.Kind, err)
	}
	return true, nil
}

func (r actionLog) Exists(ctx context.Context, kind domain.ActionKind, campaignID, clientID string) (bool, error) {
	qs, err := queriesFor(kind)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := r.q.QueryRowContext(ctx, qs.exists, campaignID, clientID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check %s: %w", kind, err)
	}
	return ok, nil
}

func scopeQuery(qs actionQueries, scope domain.StatsScope, daily bool) (string, string) {
	switch {
	case scope.CampaignID != "" && daily:
		return qs.dailyCampaign, scope.CampaignID
	case scope.CampaignID != "":
		return qs.totalCampaign, scope.CampaignID
	case daily:
		return qs.dailyAdvert, scope.AdvertiserID
	default:
		return qs.totalAdvertiser, scope.AdvertiserID
	}
}

func (r actionLog) tally(ctx context.Context, kind domain.ActionKind, scope domain.StatsScope) (domain.Tally, error) {
	qs, err := queriesFor(kind)
	if err != nil {
		return domain.Tally{}, err
	}
	query, arg := scopeQuery(qs, scope, false)
	var t domain.Tally
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(&t.Count, &t.Spent); err != nil {
		return domain.Tally{}, fmt.Errorf("%s totals: %w", kind, err)
	}
	return t, nil
}

func (r actionLog) daily(ctx context.Context, kind domain.ActionKind, scope domain.StatsScope) ([]domain.DayTally, error) {
	qs, err := queriesFor(kind)
	if err != nil {
		return nil, err
	}
	query, arg := scopeQuery(qs, scope, true)
	rows, err := r.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s daily totals: %w", kind, err)
	}
	defer rows.Close()

	var out []domain.DayTally
	for rows.Next() {
		var d domain.DayTally
		if err := rows.Scan(&d.Day, &d.Count, &d.Spent); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r actionLog) Totals(ctx context.Context, scope domain.StatsScope) (domain.Tally, domain.Tally, error) {
	imps, err := r.tally(ctx, domain.ActionImpression, scope)
	if err != nil {
		return domain.Tally{}, domain.Tally{}, err
	}
	clicks, err := r.tally(ctx, domain.ActionClick, scope)
	if err != nil {
		return domain.Tally{}, domain.Tally{}, err
	}
	return imps, clicks, nil
}

func (r actionLog) DailyTotals(ctx context.Context, scope domain.StatsScope) ([]domain.DayTally, []domain.DayTally, error) {
	imps, err := r.daily(ctx, domain.ActionImpression, scope)
	if err != nil {
		return nil, nil, err
	}
	clicks, err := r.daily(ctx, domain.ActionClick, scope)
	if err != nil {
		return nil, nil, err
	}
	return imps, clicks, nil
}
